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

package registry_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/pkgdata/registry"
)

// TestConcurrentDeclareAndLookup verifies that Declare/Lookup/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentDeclareAndLookup(t *testing.T) {
	reg := registry.New()

	pkgs := make([]string, 10)
	versions := make([]string, 10)
	for i := range pkgs {
		pkgs[i] = fmt.Sprintf("example.com/p%d", i)
		versions[i] = fmt.Sprintf("v1.%d.0", i)
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Writers (racing first declarations, then idempotent re-declarations)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(pkgs)
				if err := reg.Declare(pkgs[j], versions[j]); err != nil {
					t.Errorf("declare %s: %v", pkgs[j], err)
					return
				}
			}
		}(w)
	}

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				j := i % len(pkgs)
				if v, ok := reg.Lookup(pkgs[j] + "/sub"); ok && v != versions[j] {
					t.Errorf("lookup %s: got %q want %q", pkgs[j], v, versions[j])
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	wg.Wait()

	if reg.Count() != len(pkgs) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(pkgs))
	}
	got := map[string]string{}
	for _, e := range reg.Entries() {
		got[e.Package] = e.Version
	}
	for i, p := range pkgs {
		if got[p] != versions[i] {
			t.Fatalf("entry mismatch for %s: got %q want %q", p, got[p], versions[i])
		}
	}
}
