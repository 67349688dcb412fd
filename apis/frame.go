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

// NA is the placeholder used for any packaging detail that cannot be determined.
const NA = "na"

// StackFrame is one entry of a reported stack trace.
// Class is the import path for package-level functions and
// "import/path.Recv" for methods; Method is the remainder of the symbol.
type StackFrame struct {
	Class  string
	Method string
	File   string
	Line   int

	// Packaging is attached by a Calculator. Nil until the frame is processed.
	Packaging *PackagingInfo
}

// SameCall reports whether f and o describe the same call site.
// Packaging is ignored.
func (f StackFrame) SameCall(o StackFrame) bool {
	return f.Class == o.Class && f.Method == o.Method && f.File == o.File && f.Line == o.Line
}

// ThrowableRecord is a reported failure with its frames and optional cause.
// Frames are ordered innermost call first.
type ThrowableRecord struct {
	Message string
	Frames  []StackFrame
	Cause   *ThrowableRecord
}

// PackagingInfo identifies the artifact a frame's code comes from.
// Values are immutable once created and may be shared between frames.
type PackagingInfo struct {
	// Location is the module path or the last segment of the code origin.
	Location string
	// Version is the artifact version.
	Version string
	// Exact is true when the type was matched against the live call stack.
	Exact bool
}

// Unknown returns the placeholder packaging for frames that could not be resolved.
func Unknown() PackagingInfo {
	return PackagingInfo{Location: NA, Version: NA}
}

// String renders the packaging the way it is appended to a frame:
// "[location:version]", prefixed with '~' when the result is best-effort.
func (p PackagingInfo) String() string {
	s := "[" + p.Location + ":" + p.Version + "]"
	if !p.Exact {
		return "~" + s
	}
	return s
}
