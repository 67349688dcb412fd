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

// Package pkgdata annotates the frames of a reported failure with the
// artifact that produced them: the Go module (or code origin) and its
// version.
//
// A failure is described by an apis.ThrowableRecord: a message, its frames
// (innermost first) and an optional cause. Calculate walks the record and
// its causes and sets StackFrame.Packaging on every frame:
//
//	rec := &apis.ThrowableRecord{Message: err.Error(), Frames: stack.Capture(0, 64)}
//	pkgdata.Calculate(ctx, rec)
//	for _, f := range rec.Frames {
//		fmt.Println(f.Class, f.Method, f.Packaging)
//	}
//
// # Resolution
//
// Frames shared with the live call stack of the caller are resolved exactly,
// from the program counters of the live stack. The remaining frames are
// resolved by class name through a chain of loaders: the loader that
// resolved the nearest exact frame, the loader attached to the context
// (resolver.WithContextLoader) and finally the symbol table of the running
// executable. Exact results render as "[location:version]", best-effort
// ones as "~[location:version]". Unknown parts are "na".
//
// Versions come from the module graph embedded in the binary. Packages the
// graph does not cover (binaries built without module support, or with
// DisableModules set) fall back to versions declared with DeclareVersion and
// then to the version encoded in a module-cache source path.
//
// # Global snapshot
//
// The package keeps a read-mostly snapshot of Config, Registry, Calculator,
// Builder and an opaque extension value. Readers load it atomically and never
// lock. Writers (SetConfig, SetBuilder, SetExt, SetRegistry, SetCalculator,
// SetAll, DeclareVersion) take a build mutex, derive a new snapshot and swap
// it in.
//
// A registry or calculator installed by hand is pinned: later writers leave
// it alone until UnpinRegistry or UnpinCalculator. The extension value is
// passed to the builder on every rebuild; the default builder understands
// *builder.Extension, which carries metrics and capability overrides:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	pkgdata.SetExt(&builder.Extension{Metrics: m})
//
// # Logging
//
// Calculate logs through the slog.Logger carried by ctx
// (github.com/veqryn/slog-context). Loader failures are logged at Warn,
// recovered panics at Error and per-record summaries at Debug.
package pkgdata
