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

import "context"

// TypeResolver obtains type handles for frames.
type TypeResolver interface {
	// ResolveExact returns the type owning position depth of stack.
	// It reports false when introspection is unavailable or the lookup misses.
	ResolveExact(stack CallStack, depth int) (*Type, bool)

	// ResolveByName loads className, trying hint first, then the context
	// loader carried by ctx, then the default loader.
	ResolveByName(ctx context.Context, className string, hint Loader) (*Type, bool)
}

// Locator computes packaging for resolved types. It never fails;
// unknown parts are reported as NA. The returned info is never Exact,
// confidence is decided by the caller.
type Locator interface {
	Locate(ctx context.Context, t *Type) PackagingInfo
}

// Cache memoizes packaging by class name. Put never replaces an existing entry.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(className string) (PackagingInfo, bool)
	Put(className string, info PackagingInfo)
	Len() int
	Clear()
}

// Calculator annotates every frame of a record and its causes.
type Calculator interface {
	Calculate(ctx context.Context, rec *ThrowableRecord)
}
