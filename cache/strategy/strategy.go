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

package strategy

import (
	"fmt"
	"strings"
)

// Strategy controls how a packaging cache retains its entries.
//
// # Overview
//
// Strategy is a small enumerated type selecting the retention policy of the
// per-calculator cache. The cache maps class names to packaging information;
// the mapping from a class to its artifact does not change while a process
// runs, so the default is to keep every entry forever. The bounded strategies
// exist for processes that see an open-ended set of class names (for example,
// long-running hosts that load plugins) and prefer paying for repeated
// resolutions over unbounded memory growth.
//
// Strategy does not carry capacity or lifetime values; those are configured
// separately (see apis.Config.CacheSize and apis.Config.CacheTTL).
//
// # Values
//
//   - Unbounded: keep every entry for the lifetime of the cache.
//   - LRU: bounded, evict the least recently used entry.
//   - TTL: bounded, entries expire after a fixed lifetime.
//   - None: caching disabled (pass-through behavior).
//
// # Contract
//
//   - Strategy is a stable, public API: new values may be added, existing
//     values keep their meaning.
//   - Strategy values are plain integers and safe to share across goroutines.
//   - The zero value is Unbounded.
type Strategy int

const (
	// Unbounded keeps every entry until the cache is cleared.
	//
	// A Put for a class name that is already present is ignored, so the
	// first value stored for a key is the one every later Get observes.
	Unbounded Strategy = iota

	// LRU bounds the cache to a fixed number of entries and evicts the
	// least recently used one when full.
	//
	// Reads and writes both count as use. An evicted class is simply
	// resolved again the next time it is seen.
	LRU

	// TTL bounds the cache and expires entries after a fixed lifetime.
	//
	// Expired entries are never returned by lookups. Capacity-based eviction
	// still applies when the cache is full of fresh entries.
	TTL

	// None disables caching.
	//
	// Reads always miss and writes are discarded. Useful to compare
	// behavior with and without caching.
	None
)

// String returns the stable token for known values ("Unbounded", "LRU",
// "TTL", "None") and "Unknown(<n>)" otherwise. It never panics.
func (cs Strategy) String() string {
	switch cs {
	case Unbounded:
		return "Unbounded"
	case LRU:
		return "LRU"
	case TTL:
		return "TTL"
	case None:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", cs)
	}
}

// Parse parses a textual representation of a Strategy.
//
// Matching is case-insensitive and ignores surrounding whitespace. Any other
// input returns Unbounded and a non-nil error; callers must not rely on the
// returned value in that case.
//
//	s, err := strategy.Parse("lru")
//	if err != nil {
//	    // handle invalid configuration
//	}
//	_ = s // LRU
func Parse(s string) (Strategy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Unbounded, fmt.Errorf("cache: empty strategy")
	}

	switch strings.ToUpper(trimmed) {
	case "UNBOUNDED":
		return Unbounded, nil
	case "LRU":
		return LRU, nil
	case "TTL":
		return TTL, nil
	case "NONE":
		return None, nil
	default:
		return Unbounded, fmt.Errorf("cache: unknown strategy %q", s)
	}
}

// MustParse is like Parse but panics on invalid input.
// Meant for hard-coded values and tests.
func MustParse(s string) Strategy {
	strategy, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return strategy
}

// MarshalText implements encoding.TextMarshaler.
//
// Known values encode to the same tokens as String. Unknown values return an
// error instead of an "Unknown(...)" form so invalid states are never persisted.
func (cs Strategy) MarshalText() ([]byte, error) {
	switch cs {
	case Unbounded, LRU, TTL, None:
		return []byte(cs.String()), nil
	default:
		return nil, fmt.Errorf("cache: cannot marshal unknown strategy %d", cs)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// It accepts the same tokens as Parse. On failure the receiver is left
// unchanged and an error is returned.
func (cs *Strategy) UnmarshalText(text []byte) error {
	trimmed := strings.TrimSpace(string(text))
	if trimmed == "" {
		return fmt.Errorf("cache: empty strategy")
	}

	value, err := Parse(trimmed)
	if err != nil {
		return err
	}

	*cs = value
	return nil
}

// Bounded reports whether the strategy limits the number of entries.
func (cs Strategy) Bounded() bool {
	return cs == LRU || cs == TTL
}
