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

package resolver

import (
	"context"

	"dirpx.dev/pkgdata/apis"
)

type loaderKey struct{}

// WithContextLoader returns a copy of ctx carrying l as the context loader,
// consulted by ResolveByName after the hint.
func WithContextLoader(ctx context.Context, l apis.Loader) context.Context {
	return context.WithValue(ctx, loaderKey{}, l)
}

// ContextLoader returns the loader attached by WithContextLoader, or nil.
func ContextLoader(ctx context.Context) apis.Loader {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(loaderKey{}).(apis.Loader)
	return l
}
