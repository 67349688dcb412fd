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

package strategy_test

import (
	"testing"

	"dirpx.dev/pkgdata/cache/strategy"
)

func TestStrategyString(t *testing.T) {
	tests := []struct {
		strategy strategy.Strategy
		want     string
	}{
		{strategy.Unbounded, "Unbounded"},
		{strategy.LRU, "LRU"},
		{strategy.TTL, "TTL"},
		{strategy.None, "None"},
		{strategy.Strategy(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.strategy.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	valid := []struct {
		input string
		want  strategy.Strategy
	}{
		{"Unbounded", strategy.Unbounded},
		{"unbounded", strategy.Unbounded},
		{"LRU", strategy.LRU},
		{"lRu", strategy.LRU},
		{"  lru  ", strategy.LRU},
		{"ttl", strategy.TTL},
		{"None", strategy.None},
	}
	for _, tt := range valid {
		got, err := strategy.Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v, want nil", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for _, input := range []string{"", "   ", "lfu", "LRU1", "!!"} {
		got, err := strategy.Parse(input)
		if err == nil {
			t.Fatalf("Parse(%q) error = nil, want non-nil", input)
		}
		if got != strategy.Unbounded {
			t.Fatalf("Parse(%q) = %v, want Unbounded on error", input, got)
		}
	}
}

func TestMustParsePanicsOnInvalidInput(t *testing.T) {
	if got := strategy.MustParse("ttl"); got != strategy.TTL {
		t.Fatalf("MustParse(ttl) = %v, want TTL", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("MustParse did not panic on invalid input")
		}
	}()
	_ = strategy.MustParse("unknown")
}

func TestStrategyText(t *testing.T) {
	for _, s := range []strategy.Strategy{strategy.Unbounded, strategy.LRU, strategy.TTL, strategy.None} {
		data, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", s, err)
		}
		var decoded strategy.Strategy
		if err := decoded.UnmarshalText(data); err != nil || decoded != s {
			t.Fatalf("UnmarshalText(%q) = (%v, %v), want (%v, nil)", data, decoded, err, s)
		}
	}

	if _, err := strategy.Strategy(42).MarshalText(); err == nil {
		t.Fatal("MarshalText(42) error = nil, want non-nil")
	}

	s := strategy.LRU
	if err := s.UnmarshalText([]byte("invalid")); err == nil {
		t.Fatal("UnmarshalText(invalid) error = nil, want non-nil")
	}
	if s != strategy.LRU {
		t.Fatalf("UnmarshalText modified receiver to %v on error", s)
	}
}

func TestBounded(t *testing.T) {
	if strategy.Unbounded.Bounded() || strategy.None.Bounded() {
		t.Fatal("Unbounded and None must not be bounded")
	}
	if !strategy.LRU.Bounded() || !strategy.TTL.Bounded() {
		t.Fatal("LRU and TTL must be bounded")
	}
}
