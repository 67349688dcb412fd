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

package config

import (
	"time"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/cache/strategy"
)

const (
	// DefaultCacheStrategy keeps every resolution for the calculator's lifetime.
	DefaultCacheStrategy = strategy.Unbounded
	// DefaultCacheSize bounds the LRU and TTL strategies.
	DefaultCacheSize = 4096
	// DefaultCacheTTL is the entry lifetime of the TTL strategy.
	DefaultCacheTTL = 10 * time.Minute
	// DefaultMaxDepth represents the default for MaxDepth.
	DefaultMaxDepth = 512
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure bounds are valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		CacheStrategy: DefaultCacheStrategy,
		CacheSize:     DefaultCacheSize,
		CacheTTL:      DefaultCacheTTL,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithCacheStrategy sets the CacheStrategy option.
func WithCacheStrategy(s strategy.Strategy) Option {
	return func(c *apis.Config) {
		c.CacheStrategy = s
	}
}

// WithCacheSize sets the CacheSize option.
// A non-positive value resets to the default.
func WithCacheSize(size int) Option {
	return func(c *apis.Config) {
		if size <= 0 {
			c.CacheSize = DefaultCacheSize
			return
		}
		c.CacheSize = size
	}
}

// WithCacheTTL sets the CacheTTL option.
// A non-positive value resets to the default.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *apis.Config) {
		if ttl <= 0 {
			c.CacheTTL = DefaultCacheTTL
			return
		}
		c.CacheTTL = ttl
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithIntrospection enables or disables exact resolution through the live call stack.
func WithIntrospection(enabled bool) Option {
	return func(c *apis.Config) {
		c.DisableIntrospection = !enabled
	}
}

// WithModules enables or disables the module system lookup.
func WithModules(enabled bool) Option {
	return func(c *apis.Config) {
		c.DisableModules = !enabled
	}
}
