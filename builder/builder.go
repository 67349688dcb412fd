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

package builder

import (
	"log/slog"
	"sync"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/cache"
	"dirpx.dev/pkgdata/calculator"
	"dirpx.dev/pkgdata/capability"
	"dirpx.dev/pkgdata/config"
	"dirpx.dev/pkgdata/locator"
	"dirpx.dev/pkgdata/metrics"
	"dirpx.dev/pkgdata/registry"
	"dirpx.dev/pkgdata/resolver"
	"dirpx.dev/pkgdata/strategy"
)

// Extension is the ext value understood by the default builder. Every field
// is optional.
type Extension struct {
	// Metrics receives calculator metrics.
	Metrics *metrics.Metrics
	// Capabilities replaces the probed capabilities.
	Capabilities *apis.Capabilities
	// Loader replaces the image loader as the last loader of the resolver.
	Loader apis.Loader
}

// imageLoader is shared by every calculator so the executable is indexed once.
var imageLoader = sync.OnceValue(strategy.NewImageLoader)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

type builder struct{}

// BuildRegistry builds an apis.Registry and copies the declarations of prev
// into it. Declarations that no longer validate are dropped.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry, _ any) apis.Registry {
	nreg := registry.New()
	if prev != nil {
		for _, e := range prev.Entries() {
			if err := nreg.Declare(e.Package, e.Version); err != nil {
				slog.Default().Warn("dropping version declaration", "package", e.Package, "error", err)
			}
		}
	}
	return nreg
}

// BuildCalculator assembles a calculator for cfg. Capabilities are probed
// here, once per build. The previous calculator is not reused: its cache
// reflects the previous registry.
func (b *builder) BuildCalculator(cfg apis.Config, reg apis.Registry, _ apis.Calculator, ext any) apis.Calculator {
	x, _ := ext.(*Extension)
	if x == nil {
		x = &Extension{}
	}

	loader := x.Loader
	if loader == nil {
		loader = imageLoader()
	}

	var caps apis.Capabilities
	if x.Capabilities != nil {
		caps = *x.Capabilities
	} else {
		caps = capability.Probe(cfg, loader)
	}

	c, err := cache.New(cfg)
	if err != nil {
		slog.Default().Warn("falling back to the default cache", "strategy", cfg.CacheStrategy, "error", err)
		c = cache.MustNew(config.DefaultConfig())
	}

	calc := calculator.New(
		caps.Introspector,
		resolver.New(caps, loader),
		locator.New(caps, reg),
		c,
		calculator.WithMetrics(x.Metrics),
	)
	slog.Default().Debug("calculator built", "calculator", calc)
	return calc
}
