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

	"dirpx.dev/pkgdata/apis"
)

// PCs returns up to max program counters of the calling goroutine, skipping
// skip frames above the caller of PCs. Each PC is one logical frame.
func PCs(skip, max int) []uintptr {
	if max <= 0 {
		return nil
	}
	pcs := make([]uintptr, max)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

// AllPCs returns every program counter of the calling goroutine, skipping
// skip frames above the caller of AllPCs. size is the initial buffer size;
// the buffer grows until the whole stack fits.
func AllPCs(skip, size int) []uintptr {
	if size <= 0 {
		size = 64
	}
	for {
		pcs := make([]uintptr, size)
		n := runtime.Callers(skip+2, pcs)
		if n < size {
			return pcs[:n]
		}
		size *= 2
	}
}

// FromPCs converts program counters obtained from runtime.Callers into frames,
// innermost first.
func FromPCs(pcs []uintptr) []apis.StackFrame {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]apis.StackFrame, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		out = append(out, FromRuntime(f))
		if !more {
			break
		}
	}
	return out
}

// Capture returns up to max frames of the calling goroutine, innermost first,
// skipping skip frames above the caller of Capture.
func Capture(skip, max int) []apis.StackFrame {
	return FromPCs(PCs(skip+1, max))
}
