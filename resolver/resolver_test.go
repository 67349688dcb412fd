/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package resolver_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	slogcontext "github.com/veqryn/slog-context"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/resolver"
	"dirpx.dev/pkgdata/strategy"
)

// countingLoader serves a fixed set of classes and counts Load calls.
type countingLoader struct {
	name    string
	classes map[string]bool
	err     error
	calls   int
}

func (l *countingLoader) Name() string { return l.name }

func (l *countingLoader) Load(className string) (*apis.Type, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if !l.classes[className] {
		return nil, apis.ErrTypeNotFound
	}
	return &apis.Type{Name: className, Package: className, Loader: l}, nil
}

func newLoader(name string, classes ...string) *countingLoader {
	m := make(map[string]bool, len(classes))
	for _, c := range classes {
		m[c] = true
	}
	return &countingLoader{name: name, classes: m}
}

type fakeIntrospector struct{ available bool }

func (f fakeIntrospector) Available() bool { return f.available }
func (f fakeIntrospector) Capture(int) apis.CallStack { return nil }

type fakeStack struct{ types []*apis.Type }

func (s fakeStack) Frames() []apis.StackFrame { return nil }

func (s fakeStack) TypeAt(depth int) (*apis.Type, bool) {
	if depth < 0 || depth >= len(s.types) {
		return nil, false
	}
	return s.types[depth], true
}

func caps(available bool) apis.Capabilities {
	return apis.Capabilities{Introspector: fakeIntrospector{available: available}}
}

func TestResolveExact_GatedByCapability(t *testing.T) {
	st := fakeStack{types: []*apis.Type{{Name: "example.com/a"}}}

	typ, ok := resolver.New(caps(true), nil).ResolveExact(st, 0)
	require.True(t, ok)
	assert.Equal(t, "example.com/a", typ.Name)

	_, ok = resolver.New(caps(true), nil).ResolveExact(st, 3)
	assert.False(t, ok)

	_, ok = resolver.New(caps(false), nil).ResolveExact(st, 0)
	assert.False(t, ok)

	_, ok = resolver.New(apis.Capabilities{}, nil).ResolveExact(st, 0)
	assert.False(t, ok)
}

func TestResolveByName_Order(t *testing.T) {
	hint := newLoader("hint", "example.com/h")
	ctxLoader := newLoader("context", "example.com/c", "example.com/h")
	fallback := newLoader("fallback", "example.com/f", "example.com/c", "example.com/h")

	r := resolver.New(caps(true), fallback)
	ctx := resolver.WithContextLoader(context.Background(), ctxLoader)

	typ, ok := r.ResolveByName(ctx, "example.com/h", hint)
	require.True(t, ok)
	assert.Same(t, hint, typ.Loader)
	assert.Equal(t, 0, ctxLoader.calls)

	typ, ok = r.ResolveByName(ctx, "example.com/c", hint)
	require.True(t, ok)
	assert.Same(t, ctxLoader, typ.Loader)
	assert.Equal(t, 0, fallback.calls)

	typ, ok = r.ResolveByName(ctx, "example.com/f", hint)
	require.True(t, ok)
	assert.Same(t, fallback, typ.Loader)

	_, ok = r.ResolveByName(ctx, "example.com/missing", hint)
	assert.False(t, ok)
}

func TestResolveByName_NilHintAndNoContext(t *testing.T) {
	fallback := newLoader("fallback", "example.com/f")
	r := resolver.New(caps(false), fallback)

	typ, ok := r.ResolveByName(context.Background(), "example.com/f", nil)
	require.True(t, ok)
	assert.Same(t, fallback, typ.Loader)

	_, ok = resolver.New(caps(false), nil).ResolveByName(context.Background(), "example.com/f", nil)
	assert.False(t, ok)
}

func TestResolveByName_SkipsDuplicateLoaders(t *testing.T) {
	l := newLoader("shared")
	r := resolver.New(caps(true), l)
	ctx := resolver.WithContextLoader(context.Background(), l)

	_, ok := r.ResolveByName(ctx, "example.com/missing", l)
	assert.False(t, ok)
	assert.Equal(t, 1, l.calls)
}

func TestResolveByName_ErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogcontext.NewCtx(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	incompatible := newLoader("incompatible")
	incompatible.err = apis.ErrIncompatibleType
	broken := newLoader("broken")
	broken.err = errors.New("symbol table corrupt")
	fallback := newLoader("fallback", "example.com/f")

	r := resolver.New(caps(true), fallback)

	typ, ok := r.ResolveByName(resolver.WithContextLoader(ctx, broken), "example.com/f", incompatible)
	require.True(t, ok, "failures must fall through to the next loader")
	assert.Same(t, fallback, typ.Loader)

	out := buf.String()
	assert.Contains(t, out, "unexpected failure loading type")
	assert.Contains(t, out, "loader=broken")
	assert.NotContains(t, out, "loader=incompatible")
}

func TestResolveByName_UnreadableImageIsSilent(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogcontext.NewCtx(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	image := strategy.NewImageLoaderFrom(filepath.Join(t.TempDir(), "missing"))
	r := resolver.New(caps(true), image)

	for _, class := range []string{"example.com/a", "example.com/b"} {
		_, ok := r.ResolveByName(ctx, class, nil)
		assert.False(t, ok)
	}
	assert.Empty(t, buf.String())
}

func TestContextLoader(t *testing.T) {
	assert.Nil(t, resolver.ContextLoader(context.Background()))
	assert.Nil(t, resolver.ContextLoader(nil))

	l := newLoader("ctx")
	ctx := resolver.WithContextLoader(context.Background(), l)
	assert.Same(t, l, resolver.ContextLoader(ctx))
}
