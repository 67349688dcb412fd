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

import "dirpx.dev/pkgdata/apis"

// CommonFrames returns how many trailing frames live and reported share.
// Both sequences are innermost first, so the comparison walks from their
// outermost frames inwards and stops at the first mismatch.
func CommonFrames(live, reported []apis.StackFrame) int {
	i, j := len(live)-1, len(reported)-1
	n := 0
	for i >= 0 && j >= 0 && live[i].SameCall(reported[j]) {
		n++
		i--
		j--
	}
	return n
}
