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

package pkgdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/builder"
	"dirpx.dev/pkgdata/config"
)

func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil, nil)
	st.Store(&state{
		cfg:  cfg,
		reg:  reg,
		calc: b.BuildCalculator(cfg, reg, nil, nil),
		bld:  b,
	})
}

var (
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("pkgdata: builder returned nil registry")
	// ErrNilCalculator is raised when a builder returns a nil calculator.
	ErrNilCalculator = errors.New("pkgdata: builder returned nil calculator")
)

// Calculate attaches packaging data to every frame of rec and its causes
// using the global calculator.
func Calculate(ctx context.Context, rec *apis.ThrowableRecord) {
	st.Load().calc.Calculate(ctx, rec)
}

// DeclareVersion records version for the packages under pkgPath in the
// global registry. An unpinned calculator is rebuilt so that results cached
// before the declaration are dropped.
func DeclareVersion(pkgPath, version string) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if err := old.reg.Declare(pkgPath, version); err != nil {
		return err
	}
	if old.pcalc {
		return nil
	}
	next := *old
	next.calc = old.bld.BuildCalculator(old.cfg, old.reg, old.calc, old.ext)
	publish(&next)
	return nil
}

// SetAll replaces every global component at once. Nil arguments leave the
// corresponding component unchanged (cfg, bld) or rebuild it (reg, calc);
// ext is always replaced. Non-nil reg and calc are pinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, calc apis.Calculator, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := state{cfg: old.cfg, ext: ext, bld: old.bld, reg: reg, calc: calc}
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}
	next.preg = reg != nil
	next.pcalc = calc != nil
	if !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
	}
	if !next.pcalc {
		next.calc = next.bld.BuildCalculator(next.cfg, next.reg, old.calc, next.ext)
	}
	publish(&next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the layers that
// are not pinned.
func SetConfig(cfg apis.Config) {
	update(func(s *state) { s.cfg = cfg }, true)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs and pins reg. The calculator is rebuilt on top of it
// unless pinned. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) { s.reg, s.preg = reg, true }, true)
}

// Calculator returns the global calculator.
func Calculator() apis.Calculator {
	return st.Load().calc
}

// SetCalculator installs and pins calc. A nil calc is ignored.
func SetCalculator(calc apis.Calculator) {
	if calc == nil {
		return
	}
	update(func(s *state) { s.calc, s.pcalc = calc, true }, false)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the layers that are
// not pinned. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) { s.bld = b }, true)
}

// SetExt replaces the extension value handed to the builder and rebuilds
// the layers that are not pinned. The default builder understands
// *builder.Extension.
func SetExt[T any](ext T) {
	update(func(s *state) { s.ext = ext }, true)
}

// ExtAs returns the global extension value as T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { update(func(s *state) { s.preg = true }, false) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { update(func(s *state) { s.preg = false }, false) }

// IsCalculatorPinned reports whether the global calculator is pinned.
func IsCalculatorPinned() bool { return st.Load().pcalc }

// PinCalculator stops the global calculator from being rebuilt.
func PinCalculator() { update(func(s *state) { s.pcalc = true }, false) }

// UnpinCalculator lets the global calculator be rebuilt again.
func UnpinCalculator() { update(func(s *state) { s.pcalc = false }, false) }

// update derives a new snapshot from the current one with mutate applied.
// When rebuild is set, layers that are not pinned are rebuilt by the
// snapshot's builder, registry first.
func update(mutate func(*state), rebuild bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mutate(&next)
	if rebuild {
		if !next.preg {
			next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
		}
		if !next.pcalc {
			next.calc = next.bld.BuildCalculator(next.cfg, next.reg, old.calc, next.ext)
		}
	}
	publish(&next)
}

// publish stores s. Callers hold buildMu.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.calc == nil {
		panic(ErrNilCalculator)
	}
	st.Store(s)
}

// buildMu serializes writers so that a snapshot is never derived from a
// stale one.
var buildMu sync.Mutex

var st atomic.Pointer[state]

// state is an immutable snapshot. Writers copy it, change the copy and
// publish the copy.
type state struct {
	cfg  apis.Config
	ext  any
	reg  apis.Registry
	calc apis.Calculator
	bld  apis.Builder
	// preg and pcalc mark layers installed by hand; they are not rebuilt.
	preg  bool
	pcalc bool
}
