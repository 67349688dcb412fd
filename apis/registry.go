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

// Registry holds declared implementation versions keyed by package path.
// A declaration covers the package and every package below it.
type Registry interface {
	// Declare associates pkgPath with version.
	// Implementations should be idempotent; conflicting re-declarations fail.
	Declare(pkgPath, version string) error
	// Lookup returns the version declared for the longest matching prefix of pkgPath.
	Lookup(pkgPath string) (version string, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of declarations.
	Count() int
	// Reset clears all declarations.
	Reset()
}

// Entry is a single (package, version) declaration in a Registry snapshot.
type Entry struct {
	Package string
	Version string
}
