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

package registry

import (
	"errors"
	"strings"
	"sync"

	"dirpx.dev/pkgdata/apis"
)

var (
	// ErrEmptyPackage is returned when an empty package path is provided.
	ErrEmptyPackage = errors.New("pkgdata(registry): empty package path provided")
	// ErrEmptyVersion is returned when an empty version is provided.
	ErrEmptyVersion = errors.New("pkgdata(registry): empty version provided")
	// ErrConflictingDeclaration indicates an attempt to re-declare
	// a package with a different version.
	ErrConflictingDeclaration = errors.New("pkgdata(registry): conflicting version declaration")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps package path to declared version.
	m sync.Map // map[string]string
	// count tracks the number of declarations.
	count int
}

// Declare associates pkgPath (and the packages below it) with version.
// It is idempotent for the same (package,version) pair.
func (r *registry) Declare(pkgPath, version string) error {
	// Validate inputs early.
	pkgPath = strings.TrimSuffix(strings.TrimSpace(pkgPath), "/")
	if pkgPath == "" {
		return ErrEmptyPackage
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return ErrEmptyVersion
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(pkgPath); ok {
		if old.(string) == version {
			return nil // idempotent re-declaration
		}
		return ErrConflictingDeclaration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(pkgPath); ok {
		if old.(string) == version {
			return nil
		}
		return ErrConflictingDeclaration
	}

	r.m.Store(pkgPath, version)
	r.count++
	return nil
}

// Lookup returns the version declared for pkgPath or its closest declared parent.
func (r *registry) Lookup(pkgPath string) (string, bool) {
	for p := pkgPath; p != ""; {
		if v, ok := r.m.Load(p); ok {
			return v.(string), true
		}
		i := strings.LastIndexByte(p, '/')
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return "", false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Package: key.(string),
			Version: value.(string),
		})
		return true
	})
	return entries
}

// Count returns the number of declarations.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all declarations.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
