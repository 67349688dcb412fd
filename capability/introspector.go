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
	"runtime"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/utils/stack"
)

// NewIntrospector creates an apis.Introspector capturing the complete live
// stack, starting from a buffer of maxDepth frames. Types returned by TypeAt carry loader. Availability is probed once,
// here, and is false when enabled is false.
func NewIntrospector(maxDepth int, loader apis.Loader, enabled bool) apis.Introspector {
	return &introspector{
		maxDepth:  maxDepth,
		loader:    loader,
		available: enabled && probeCallers(),
	}
}

type introspector struct {
	maxDepth  int
	loader    apis.Loader
	available bool
}

// probeCallers checks that program counters of the live stack can be
// mapped back to functions.
func probeCallers() bool {
	pcs := stack.PCs(0, 1)
	return len(pcs) == 1 && runtime.FuncForPC(pcs[0]-1) != nil
}

func (in *introspector) Available() bool { return in.available }

func (in *introspector) Capture(skip int) apis.CallStack {
	pcs := stack.AllPCs(skip+1, in.maxDepth)
	return &callStack{pcs: pcs, frames: stack.FromPCs(pcs), loader: in.loader}
}

// callStack keeps the raw program counters next to the expanded frames so
// TypeAt can answer from the PC alone.
type callStack struct {
	pcs    []uintptr
	frames []apis.StackFrame
	loader apis.Loader
}

func (s *callStack) Frames() []apis.StackFrame { return s.frames }

func (s *callStack) TypeAt(depth int) (*apis.Type, bool) {
	if depth < 0 || depth >= len(s.pcs) {
		return nil, false
	}
	pc := s.pcs[depth] - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return nil, false
	}
	pkg, class, _ := stack.Split(fn.Name())
	file, _ := fn.FileLine(pc)
	return &apis.Type{Name: class, Package: pkg, File: file, Loader: s.loader}, true
}
