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

package stack

import (
	"runtime"
	"strings"

	"dirpx.dev/pkgdata/apis"
)

// Split breaks a runtime function or symbol name into its import path, class
// name and method. Type arguments are dropped. The class of a method is
// "import/path.Recv" without the pointer; the class of a package-level
// function (and of its closures) is the import path itself.
//
//	example.com/a/b.(*T).M        -> example.com/a/b, example.com/a/b.T, M
//	example.com/a/b.T.M.func1     -> example.com/a/b, example.com/a/b.T, M.func1
//	example.com/a/b.F.func1       -> example.com/a/b, example.com/a/b, F.func1
//	gopkg.in/yaml%2ev3.Unmarshal  -> gopkg.in/yaml.v3, gopkg.in/yaml.v3, Unmarshal
func Split(function string) (pkg, class, method string) {
	function = stripTypeArgs(function)
	if function == "" {
		return "", "", ""
	}

	// The import path ends at the first '.' after the last '/'; dots inside
	// the last path element are escaped by the linker.
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		pkg = unescape(function)
		return pkg, pkg, ""
	}
	dot += slash + 1
	pkg = unescape(function[:dot])
	rest := function[dot+1:]

	// Pointer receiver: (*T).M
	if strings.HasPrefix(rest, "(") {
		if end := strings.IndexByte(rest, ')'); end > 0 && end+1 < len(rest) && rest[end+1] == '.' {
			recv := strings.TrimPrefix(rest[1:end], "*")
			return pkg, pkg + "." + recv, rest[end+2:]
		}
	}

	// Value receiver: T.M, unless the suffix is a closure of a function.
	if i := strings.IndexByte(rest, '.'); i > 0 {
		head, tail := rest[:i], rest[i+1:]
		if !isClosure(tail) {
			return pkg, pkg + "." + head, tail
		}
	}
	return pkg, pkg, rest
}

// ClassOf returns the class name of the named type typeName declared in pkgPath.
func ClassOf(pkgPath, typeName string) string {
	return pkgPath + "." + stripTypeArgs(typeName)
}

// FromRuntime converts a runtime frame.
func FromRuntime(f runtime.Frame) apis.StackFrame {
	_, class, method := Split(f.Function)
	return apis.StackFrame{
		Class:  class,
		Method: method,
		File:   f.File,
		Line:   f.Line,
	}
}

// stripTypeArgs removes every bracketed type argument list:
// "T[...]" -> "T", "F[go.shape.int]" -> "F". Symbol names may carry
// fully qualified type arguments, including '/' and '.'.
func stripTypeArgs(s string) string {
	if strings.IndexByte(s, '[') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isClosure reports whether s starts with a compiler-generated closure segment
// ("func1", "gowrap2", "deferwrap1" or a bare number).
func isClosure(s string) bool {
	seg := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		seg = s[:i]
	}
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if strings.HasPrefix(seg, prefix) && isDigits(seg[len(prefix):]) {
			return true
		}
	}
	return isDigits(seg)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func unescape(pkg string) string {
	return strings.ReplaceAll(pkg, "%2e", ".")
}
