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

// CallStack is a snapshot of the live call stack.
type CallStack interface {
	// Frames returns the captured frames, innermost first.
	Frames() []StackFrame
	// TypeAt returns the type owning the live stack position depth,
	// looked up from the raw program counter.
	TypeAt(depth int) (*Type, bool)
}

// Introspector captures live call stacks. Available reports whether
// TypeAt lookups are supported; it is fixed when the introspector is built.
type Introspector interface {
	Available() bool
	// Capture snapshots the caller's stack, skipping skip frames above the caller.
	Capture(skip int) CallStack
}

// Module is an entry of the module system.
type Module struct {
	Path    string
	Version string
}

// ModuleSystem maps packages to the modules that provide them.
// Available is fixed when the module system is built.
type ModuleSystem interface {
	Available() bool
	ModuleFor(pkgPath string) (Module, bool)
}

// Capabilities is the probed environment a calculator works with.
// It is built once and shared by the resolver and the locator.
type Capabilities struct {
	Introspector Introspector
	Modules      ModuleSystem
}
