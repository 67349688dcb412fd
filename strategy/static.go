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
	"errors"
	"reflect"
	"runtime"
	"sync"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/utils/stack"
)

// ErrNotFunc is returned when a registered value is neither a function
// nor a named type with a package.
var ErrNotFunc = errors.New("pkgdata(strategy): value is not a function, named type or class")

// StaticLoader loads classes from functions and types registered up front.
// It is typically attached to a context as the context loader, or used as a
// hint for code that is not reachable through the executable's symbol table.
type StaticLoader struct {
	name string

	mu sync.RWMutex
	m  map[string]*apis.Type
}

// Ensure StaticLoader implements apis.Loader.
var _ apis.Loader = (*StaticLoader)(nil)

// NewStaticLoader creates an empty StaticLoader identified by name.
func NewStaticLoader(name string) *StaticLoader {
	return &StaticLoader{name: name, m: make(map[string]*apis.Type)}
}

func (l *StaticLoader) Name() string { return l.name }

// Register adds the classes of vs. Each value is a function (the class of the
// function is registered), a reflect.Type of a named type, or an apis.Type
// (or *apis.Type) describing a class by name.
// The first registration of a class wins.
func (l *StaticLoader) Register(vs ...any) error {
	for _, v := range vs {
		t, err := l.typeOf(v)
		if err != nil {
			return err
		}
		l.mu.Lock()
		if _, ok := l.m[t.Name]; !ok {
			l.m[t.Name] = t
		}
		l.mu.Unlock()
	}
	return nil
}

// Load returns the registered class or apis.ErrTypeNotFound.
func (l *StaticLoader) Load(className string) (*apis.Type, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if t, ok := l.m[className]; ok {
		return t, nil
	}
	return nil, apis.ErrTypeNotFound
}

func (l *StaticLoader) typeOf(v any) (*apis.Type, error) {
	switch x := v.(type) {
	case reflect.Type:
		return l.fromType(x)
	case *apis.Type:
		if x == nil {
			return nil, ErrNotFunc
		}
		return l.declared(*x)
	case apis.Type:
		return l.declared(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrNotFunc
	}
	return l.fromPC(rv.Pointer())
}

func (l *StaticLoader) declared(t apis.Type) (*apis.Type, error) {
	if t.Name == "" {
		return nil, ErrNotFunc
	}
	t.Loader = l
	return &t, nil
}

func (l *StaticLoader) fromPC(pc uintptr) (*apis.Type, error) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return nil, ErrNotFunc
	}
	pkg, class, _ := stack.Split(fn.Name())
	file, _ := fn.FileLine(fn.Entry())
	if file == autogenerated {
		file = ""
	}
	return &apis.Type{Name: class, Package: pkg, File: file, Loader: l}, nil
}

func (l *StaticLoader) fromType(t reflect.Type) (*apis.Type, error) {
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return nil, ErrNotFunc
	}
	return &apis.Type{
		Name:    stack.ClassOf(t.PkgPath(), t.Name()),
		Package: t.PkgPath(),
		File:    methodFile(t),
		Loader:  l,
	}, nil
}

// methodFile returns the source file of the first method of t (or *t) that
// is not a compiler-generated wrapper.
func methodFile(t reflect.Type) string {
	if t.Kind() == reflect.Interface {
		return ""
	}
	for _, mt := range []reflect.Type{t, reflect.PointerTo(t)} {
		for i := 0; i < mt.NumMethod(); i++ {
			fn := runtime.FuncForPC(mt.Method(i).Func.Pointer())
			if fn == nil {
				continue
			}
			if file, _ := fn.FileLine(fn.Entry()); file != "" && file != autogenerated {
				return file
			}
		}
	}
	return ""
}
