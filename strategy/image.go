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
	"debug/elf"
	"debug/gosym"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"os"
	"sync"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/utils/stack"
)

// ErrImageUnavailable is returned when the executable's symbol table cannot be
// read. Load reports it together with apis.ErrTypeNotFound.
var ErrImageUnavailable = errors.New("pkgdata(strategy): executable symbol table unavailable")

// autogenerated is the file name the compiler assigns to wrappers.
const autogenerated = "<autogenerated>"

// NewImageLoader creates an apis.Loader over the symbol table of the running
// executable. The table is read once, on first use.
func NewImageLoader() apis.Loader {
	return &imageLoader{}
}

// NewImageLoaderFrom is like NewImageLoader but reads the executable at path.
func NewImageLoaderFrom(path string) apis.Loader {
	return &imageLoader{path: path}
}

// imageLoader indexes every function of an executable by class name.
// A nil index value marks a class that only has compiler-generated definitions.
type imageLoader struct {
	path string

	once sync.Once
	idx  map[string]*apis.Type
	err  error
}

// Ensure imageLoader implements apis.Loader.
var _ apis.Loader = (*imageLoader)(nil)

func (*imageLoader) Name() string { return "image" }

// Load returns the first non-generated definition of className. An
// executable that cannot be indexed knows no class.
func (l *imageLoader) Load(className string) (*apis.Type, error) {
	l.once.Do(l.index)
	if l.err != nil {
		return nil, fmt.Errorf("%w: %w", apis.ErrTypeNotFound, l.err)
	}
	t, ok := l.idx[className]
	if !ok {
		return nil, apis.ErrTypeNotFound
	}
	if t == nil {
		return nil, apis.ErrIncompatibleType
	}
	return t, nil
}

func (l *imageLoader) index() {
	path := l.path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			l.err = fmt.Errorf("%w: %v", ErrImageUnavailable, err)
			return
		}
		path = exe
	}

	table, err := readTable(path)
	if err != nil {
		l.err = err
		return
	}

	idx := make(map[string]*apis.Type, len(table.Funcs)/4)
	for i := range table.Funcs {
		fn := &table.Funcs[i]
		pkg, class, _ := stack.Split(fn.Name)
		if class == "" {
			continue
		}
		if cur, seen := idx[class]; seen && cur != nil {
			continue
		}
		file, _, _ := table.PCToLine(fn.Entry)
		if file == "" || file == autogenerated {
			if _, seen := idx[class]; !seen {
				idx[class] = nil
			}
			continue
		}
		idx[class] = &apis.Type{Name: class, Package: pkg, File: file, Loader: l}
	}
	l.idx = idx
}

// readTable opens the Go line table of an ELF, Mach-O or PE executable.
func readTable(path string) (*gosym.Table, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		pcln, text := f.Section(".gopclntab"), f.Section(".text")
		if pcln == nil || text == nil {
			return nil, fmt.Errorf("%w: %s has no Go line table", ErrImageUnavailable, path)
		}
		return newTable(pcln, text.Addr)
	}
	if f, err := macho.Open(path); err == nil {
		defer f.Close()
		pcln, text := f.Section("__gopclntab"), f.Section("__text")
		if pcln == nil || text == nil {
			return nil, fmt.Errorf("%w: %s has no Go line table", ErrImageUnavailable, path)
		}
		return newTable(pcln, text.Addr)
	}
	if f, err := pe.Open(path); err == nil {
		defer f.Close()
		return peTable(f, path)
	}
	return nil, fmt.Errorf("%w: %s is not an ELF, Mach-O or PE executable", ErrImageUnavailable, path)
}

// peTable locates the line table of a PE executable through the
// runtime.pclntab and runtime.epclntab symbols.
func peTable(f *pe.File, path string) (*gosym.Table, error) {
	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	}
	start, end := peSymbol(f, "runtime.pclntab"), peSymbol(f, "runtime.epclntab")
	text := f.Section(".text")
	if start == nil || end == nil || text == nil || start.SectionNumber != end.SectionNumber ||
		start.SectionNumber < 1 || int(start.SectionNumber) > len(f.Sections) || end.Value < start.Value {
		return nil, fmt.Errorf("%w: %s has no Go line table", ErrImageUnavailable, path)
	}
	data, err := f.Sections[start.SectionNumber-1].Data()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnavailable, err)
	}
	if int(end.Value) > len(data) {
		return nil, fmt.Errorf("%w: %s has a truncated Go line table", ErrImageUnavailable, path)
	}
	return newTable(rawSection(data[start.Value:end.Value]), imageBase+uint64(text.VirtualAddress))
}

func peSymbol(f *pe.File, name string) *pe.Symbol {
	for _, s := range f.Symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// section is the part of elf.Section and macho.Section newTable reads.
type section interface {
	Data() ([]byte, error)
}

// rawSection serves bytes already cut out of a section.
type rawSection []byte

func (s rawSection) Data() ([]byte, error) { return s, nil }

func newTable(pcln section, textStart uint64) (*gosym.Table, error) {
	data, err := pcln.Data()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnavailable, err)
	}
	table, err := gosym.NewTable(nil, gosym.NewLineTable(data, textStart))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnavailable, err)
	}
	return table, nil
}
