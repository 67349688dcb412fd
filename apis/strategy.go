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

import "errors"

var (
	// ErrTypeNotFound is returned by a Loader that does not know the class.
	ErrTypeNotFound = errors.New("pkgdata: type not found")
	// ErrIncompatibleType is returned by a Loader that knows the class name
	// but only through definitions that cannot identify an artifact
	// (compiler-generated wrappers, shape instantiations).
	ErrIncompatibleType = errors.New("pkgdata: incompatible type definition")
)

// Type is a resolved handle for a class.
type Type struct {
	// Name is the class name (see StackFrame.Class).
	Name string
	// Package is the import path the class belongs to.
	Package string
	// File is a source file of one of the class' functions. It acts as the
	// code origin; empty when unknown.
	File string
	// Loader is the loader that produced the handle.
	Loader Loader
}

// Loader is a pluggable lookup step that loads a Type by class name.
// TypeResolver chains several loaders (hint -> context -> default) and
// compares them for identity, so implementations must be comparable
// (pointer receivers in practice).
type Loader interface {
	// Name identifies the loader in logs.
	Name() string
	// Load returns the Type for className. Misses are reported with
	// ErrTypeNotFound or ErrIncompatibleType; any other error is unexpected.
	Load(className string) (*Type, error)
}
