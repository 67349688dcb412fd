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

package resolver

import (
	"context"
	"errors"

	slogcontext "github.com/veqryn/slog-context"

	"dirpx.dev/pkgdata/apis"
)

// New constructs an apis.TypeResolver. Exact resolution is enabled when the
// introspector of caps is available; fallback is the default loader consulted
// last by ResolveByName. A nil fallback skips that step.
func New(caps apis.Capabilities, fallback apis.Loader) apis.TypeResolver {
	return &chain{
		exact:    caps.Introspector != nil && caps.Introspector.Available(),
		fallback: fallback,
	}
}

// chain is an immutable resolver over hint, context and fallback loaders.
type chain struct {
	exact    bool
	fallback apis.Loader
}

// ResolveExact looks up the type owning the live stack position depth.
func (r *chain) ResolveExact(stack apis.CallStack, depth int) (*apis.Type, bool) {
	if !r.exact || stack == nil {
		return nil, false
	}
	return stack.TypeAt(depth)
}

// ResolveByName runs hint, context loader and fallback in order until one
// loads className. Each loader is consulted at most once.
func (r *chain) ResolveByName(ctx context.Context, className string, hint apis.Loader) (*apis.Type, bool) {
	tried := make([]apis.Loader, 0, 3)
	for _, l := range []apis.Loader{hint, ContextLoader(ctx), r.fallback} {
		if l == nil || contains(tried, l) {
			continue
		}
		tried = append(tried, l)
		if t, ok := load(ctx, l, className); ok {
			return t, true
		}
	}
	return nil, false
}

// load swallows misses and logs anything else.
func load(ctx context.Context, l apis.Loader, className string) (*apis.Type, bool) {
	t, err := l.Load(className)
	switch {
	case err == nil:
		return t, t != nil
	case errors.Is(err, apis.ErrTypeNotFound), errors.Is(err, apis.ErrIncompatibleType):
		return nil, false
	default:
		slogcontext.FromCtx(ctx).Warn("unexpected failure loading type",
			"loader", l.Name(), "class", className, "error", err)
		return nil, false
	}
}

func contains(ls []apis.Loader, l apis.Loader) bool {
	for _, x := range ls {
		if x == l {
			return true
		}
	}
	return false
}
