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

package locator

import (
	"context"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"

	"dirpx.dev/pkgdata/apis"
)

// New constructs an apis.Locator. The module system of caps is consulted
// first when available; reg supplies declared versions otherwise. reg may be nil.
func New(caps apis.Capabilities, reg apis.Registry) apis.Locator {
	l := &locator{reg: reg}
	if caps.Modules != nil && caps.Modules.Available() {
		l.modules = caps.Modules
	}
	return l
}

type locator struct {
	modules apis.ModuleSystem
	reg     apis.Registry
}

// Locate returns the location and version of t. Unknown parts are apis.NA.
func (l *locator) Locate(_ context.Context, t *apis.Type) apis.PackagingInfo {
	if t == nil {
		return apis.Unknown()
	}
	if l.modules != nil {
		if m, ok := l.modules.ModuleFor(t.Package); ok {
			return apis.PackagingInfo{Location: orNA(m.Path), Version: orNA(m.Version)}
		}
	}
	origin := CodeOrigin(t.File)
	return apis.PackagingInfo{
		Location: Location(origin),
		Version:  l.version(t.Package, origin),
	}
}

// version prefers a declared version over the one encoded in the origin.
func (l *locator) version(pkg, origin string) string {
	if l.reg != nil && pkg != "" {
		if v, ok := l.reg.Lookup(pkg); ok {
			return v
		}
	}
	if v := OriginVersion(origin); v != "" {
		return v
	}
	return apis.NA
}

// CodeOrigin returns the directory a source file was built from, with a
// trailing separator. Files from the module cache map to the root of their
// module ("…/mod/example.com/lib@v1.2.0/"); an '@' not followed by a valid
// version is an ordinary character. A file without a directory is
// returned as is.
func CodeOrigin(file string) string {
	if file == "" {
		return ""
	}
	i := strings.LastIndexAny(file, `/\`)
	if i < 0 {
		return file
	}
	dir := file[:i+1]
	for rest := dir; ; {
		at := strings.LastIndexByte(rest, '@')
		if at < 0 {
			return dir
		}
		end := strings.IndexAny(dir[at:], `/\`)
		if root := dir[:at+end+1]; OriginVersion(root) != "" {
			return root
		}
		rest = dir[:at]
	}
}

// Location reduces an origin to its last path segment, keeping the
// trailing separator when the origin denotes a directory. Both '/' and '\'
// separated origins are understood. It returns apis.NA when nothing is left.
func Location(origin string) string {
	if origin == "" {
		return apis.NA
	}
	if s, ok := lastSegment(origin, '/'); ok {
		return s
	}
	if s, ok := lastSegment(origin, '\\'); ok {
		return s
	}
	return apis.NA
}

func lastSegment(s string, sep byte) (string, bool) {
	idx := strings.LastIndexByte(s, sep)
	if idx != -1 && idx+1 == len(s) {
		idx = strings.LastIndexByte(s[:idx], sep)
		return s[idx+1:], true
	}
	if idx > 0 {
		return s[idx+1:], true
	}
	return "", false
}

// OriginVersion extracts the semantic version following '@' in a
// module-cache origin, or "" when there is none.
func OriginVersion(origin string) string {
	at := strings.LastIndexByte(origin, '@')
	if at < 0 {
		return ""
	}
	v := origin[at+1:]
	if end := strings.IndexAny(v, `/\`); end >= 0 {
		v = v[:end]
	}
	v, err := module.UnescapeVersion(v)
	if err != nil || !semver.IsValid(v) {
		return ""
	}
	return v
}

func orNA(s string) string {
	if s == "" {
		return apis.NA
	}
	return s
}
