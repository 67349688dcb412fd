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

package calculator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/singleflight"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/metrics"
	"dirpx.dev/pkgdata/utils/stack"
)

// errPanic marks a resolution that panicked inside a loader or locator.
var errPanic = errors.New("pkgdata(calculator): resolution panicked")

// Option configures a Calculator.
type Option func(*Calculator)

// WithMetrics records lookups, frames and misfires on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Calculator) { c.metrics = m }
}

// Calculator attaches packaging data to every frame of a throwable chain.
// It is safe for concurrent use; each class is resolved at most once while
// it stays in the cache.
type Calculator struct {
	introspector apis.Introspector
	resolver     apis.TypeResolver
	locator      apis.Locator
	cache        apis.Cache
	metrics      *metrics.Metrics
	group        singleflight.Group
}

var _ apis.Calculator = (*Calculator)(nil)

// New assembles a Calculator. A nil introspector or one that is not
// available makes every frame best-effort.
func New(in apis.Introspector, r apis.TypeResolver, l apis.Locator, c apis.Cache, opts ...Option) *Calculator {
	calc := &Calculator{
		introspector: in,
		resolver:     r,
		locator:      l,
		cache:        c,
	}
	for _, o := range opts {
		if o != nil {
			o(calc)
		}
	}
	return calc
}

// Calculate walks rec and its causes and sets Packaging on every frame.
// It never fails; frames that cannot be resolved get apis.Unknown().
func (c *Calculator) Calculate(ctx context.Context, rec *apis.ThrowableRecord) {
	if ctx == nil {
		ctx = context.Background()
	}
	seen := make(map[*apis.ThrowableRecord]struct{})
	for r := rec; r != nil; r = r.Cause {
		if _, ok := seen[r]; ok {
			slogcontext.FromCtx(ctx).Debug("cause chain loops back, stopping", "message", r.Message)
			return
		}
		seen[r] = struct{}{}
		c.populateFrames(ctx, r.Frames)
	}
}

func (c *Calculator) populateFrames(ctx context.Context, frames []apis.StackFrame) {
	var live apis.CallStack
	var liveFrames []apis.StackFrame
	if c.introspectable() {
		live = c.introspector.Capture(0)
		liveFrames = live.Frames()
	}
	common := stack.CommonFrames(liveFrames, frames)
	localFirstCommon := len(liveFrames) - common
	stepFirstCommon := len(frames) - common

	var lastExact, firstExact apis.Loader
	misfires := 0
	for i := 0; i < common; i++ {
		f := &frames[stepFirstCommon+i]
		var typ *apis.Type
		if live != nil {
			typ = c.exactType(ctx, live, localFirstCommon+i-misfires)
		}
		if typ != nil && typ.Name == f.Class {
			lastExact = typ.Loader
			if firstExact == nil {
				firstExact = typ.Loader
			}
			c.annotate(ctx, f, func() apis.PackagingInfo { return c.byExactType(ctx, typ) })
			continue
		}
		misfires++
		c.metrics.Misfire()
		hint := lastExact
		c.annotate(ctx, f, func() apis.PackagingInfo { return c.byName(ctx, f.Class, hint) })
	}
	for i := 0; i < stepFirstCommon; i++ {
		f := &frames[i]
		c.annotate(ctx, f, func() apis.PackagingInfo { return c.byName(ctx, f.Class, firstExact) })
	}

	slogcontext.FromCtx(ctx).Debug("packaging data calculated",
		"frames", len(frames), "common", common, "misfires", misfires)
}

func (c *Calculator) introspectable() bool {
	return c.introspector != nil && c.introspector.Available()
}

// exactType resolves the live stack position depth, treating a panic as a miss.
func (c *Calculator) exactType(ctx context.Context, live apis.CallStack, depth int) (typ *apis.Type) {
	defer func() {
		if v := recover(); v != nil {
			slogcontext.FromCtx(ctx).Error("exact type resolution panicked", "depth", depth, "panic", v)
			typ = nil
		}
	}()
	t, ok := c.resolver.ResolveExact(live, depth)
	if !ok {
		return nil
	}
	return t
}

// annotate sets the packaging of f to the result of compute, or to
// apis.Unknown() when compute panics.
func (c *Calculator) annotate(ctx context.Context, f *apis.StackFrame, compute func() apis.PackagingInfo) {
	info := apis.Unknown()
	defer func() {
		if v := recover(); v != nil {
			slogcontext.FromCtx(ctx).Error("packaging resolution panicked",
				"class", f.Class, "method", f.Method, "panic", v)
			info = apis.Unknown()
		}
		f.Packaging = &info
		c.metrics.Frame(confidence(info))
	}()
	info = compute()
}

func (c *Calculator) byExactType(ctx context.Context, t *apis.Type) apis.PackagingInfo {
	return c.lookup(ctx, t.Name, func() apis.PackagingInfo {
		info := c.locator.Locate(ctx, t)
		info.Exact = true
		return info
	})
}

func (c *Calculator) byName(ctx context.Context, className string, hint apis.Loader) apis.PackagingInfo {
	return c.lookup(ctx, className, func() apis.PackagingInfo {
		t, ok := c.resolver.ResolveByName(ctx, className, hint)
		if !ok {
			return apis.Unknown()
		}
		info := c.locator.Locate(ctx, t)
		info.Exact = false
		return info
	})
}

// lookup reads className through the cache. Concurrent misses for the same
// class share one resolution; the first stored result wins.
func (c *Calculator) lookup(ctx context.Context, className string, resolve func() apis.PackagingInfo) apis.PackagingInfo {
	if info, ok := c.cache.Get(className); ok {
		c.metrics.Lookup(metrics.LookupHit)
		return info
	}
	v, err, shared := c.group.Do(className, func() (v any, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", errPanic, p)
			}
		}()
		if info, ok := c.cache.Get(className); ok {
			return info, nil
		}
		info := resolve()
		c.cache.Put(className, info)
		if stored, ok := c.cache.Get(className); ok {
			info = stored
		}
		return info, nil
	})
	if shared {
		c.metrics.Lookup(metrics.LookupShared)
	} else {
		c.metrics.Lookup(metrics.LookupMiss)
	}
	if err != nil {
		slogcontext.FromCtx(ctx).Error("packaging resolution failed", "class", className, "error", err)
		return apis.Unknown()
	}
	return v.(apis.PackagingInfo)
}

func confidence(info apis.PackagingInfo) string {
	switch {
	case info.Exact:
		return metrics.ConfidenceExact
	case info.Location == apis.NA && info.Version == apis.NA:
		return metrics.ConfidenceNone
	default:
		return metrics.ConfidenceBestEffort
	}
}

// LogValue renders a calculator summary for slog.
func (c *Calculator) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("introspection", c.introspectable()),
		slog.Int("cached", c.cache.Len()),
	)
}
