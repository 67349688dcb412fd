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

import (
	"runtime/debug"
	"sort"
	"strings"

	"dirpx.dev/pkgdata/apis"
)

// StdModule is the module path reported for standard library packages.
const StdModule = "std"

// NewModuleSystem creates an apis.ModuleSystem from the build information
// embedded in the running binary. It is unavailable when the binary carries none.
func NewModuleSystem() apis.ModuleSystem {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Unavailable()
	}
	return FromBuildInfo(bi)
}

// FromBuildInfo creates an apis.ModuleSystem over bi. Replacements report
// the replacement's version when it has one. The main package is reported
// under the module owning bi.Path, or bi.Main when no module owns it.
func FromBuildInfo(bi *debug.BuildInfo) apis.ModuleSystem {
	if bi == nil {
		return Unavailable()
	}
	ms := &moduleSystem{goVersion: bi.GoVersion, mainPath: bi.Path}
	ms.add(&bi.Main)
	if len(ms.mods) == 1 {
		ms.main = ms.mods[0]
	}
	for _, dep := range bi.Deps {
		ms.add(dep)
	}
	// Longest path first so nested modules win over their parents.
	sort.SliceStable(ms.mods, func(i, j int) bool {
		return len(ms.mods[i].Path) > len(ms.mods[j].Path)
	})
	return ms
}

// Unavailable returns a module system that knows no module.
func Unavailable() apis.ModuleSystem {
	return unavailable{}
}

type moduleSystem struct {
	goVersion string
	mainPath  string
	main      apis.Module
	mods      []apis.Module
}

func (ms *moduleSystem) add(m *debug.Module) {
	if m == nil || m.Path == "" {
		return
	}
	version := m.Version
	if m.Replace != nil && m.Replace.Version != "" {
		version = m.Replace.Version
	}
	ms.mods = append(ms.mods, apis.Module{Path: m.Path, Version: version})
}

func (*moduleSystem) Available() bool { return true }

func (ms *moduleSystem) ModuleFor(pkgPath string) (apis.Module, bool) {
	if pkgPath == "" {
		return apis.Module{}, false
	}
	if isMainPackage(pkgPath) {
		return ms.mainModule()
	}
	return ms.lookup(pkgPath)
}

// mainModule returns the module the binary's main package was built from.
func (ms *moduleSystem) mainModule() (apis.Module, bool) {
	if ms.mainPath != "" && !isMainPackage(ms.mainPath) {
		if m, ok := ms.lookup(ms.mainPath); ok && m.Path != StdModule {
			return m, true
		}
	}
	if ms.main.Path != "" {
		return ms.main, true
	}
	return apis.Module{}, false
}

func (ms *moduleSystem) lookup(pkgPath string) (apis.Module, bool) {
	for _, m := range ms.mods {
		if pkgPath == m.Path || strings.HasPrefix(pkgPath, m.Path+"/") {
			return m, true
		}
	}
	if ms.goVersion != "" && isStd(pkgPath) {
		return apis.Module{Path: StdModule, Version: ms.goVersion}, true
	}
	return apis.Module{}, false
}

// isStd reports whether pkgPath looks like a standard library import path:
// its first element has no dot.
func isStd(pkgPath string) bool {
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

// isMainPackage reports whether pkgPath is the symbol package of a main
// package rather than an import path.
func isMainPackage(pkgPath string) bool {
	return pkgPath == "main" || pkgPath == "command-line-arguments"
}

type unavailable struct{}

func (unavailable) Available() bool { return false }
func (unavailable) ModuleFor(string) (apis.Module, bool) { return apis.Module{}, false }
