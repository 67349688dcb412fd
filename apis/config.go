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

package apis

import (
	"time"

	"dirpx.dev/pkgdata/cache/strategy"
)

// Config carries read-only knobs for building calculators.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// CacheStrategy selects how the per-calculator cache retains entries.
	CacheStrategy strategy.Strategy

	// CacheSize bounds the LRU and TTL strategies.
	CacheSize int

	// CacheTTL is the entry lifetime for the TTL strategy.
	CacheTTL time.Duration

	// MaxDepth sizes the first buffer used to capture the live stack.
	// Deeper stacks are still captured whole.
	MaxDepth int

	// DisableIntrospection turns exact resolution off; every frame is
	// then resolved best-effort.
	DisableIntrospection bool

	// DisableModules skips the module system and relies on code origins only.
	DisableModules bool
}
