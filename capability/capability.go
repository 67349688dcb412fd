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

package capability

import "dirpx.dev/pkgdata/apis"

// Probe builds the capabilities described by cfg. Every probe runs once,
// here; the result is meant to be shared by one resolver and one locator.
// loader is attached to the types the introspector resolves.
func Probe(cfg apis.Config, loader apis.Loader) apis.Capabilities {
	modules := Unavailable()
	if !cfg.DisableModules {
		modules = NewModuleSystem()
	}
	return apis.Capabilities{
		Introspector: NewIntrospector(cfg.MaxDepth, loader, !cfg.DisableIntrospection),
		Modules:      modules,
	}
}
