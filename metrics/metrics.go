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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "pkgdata"
	subsystem = "calculator"

	// LookupHit counts cache hits.
	LookupHit = "hit"
	// LookupMiss counts resolutions performed after a cache miss.
	LookupMiss = "miss"
	// LookupShared counts misses served by a resolution already in flight.
	LookupShared = "shared"

	// ConfidenceExact labels frames matched against the live call stack.
	ConfidenceExact = "exact"
	// ConfidenceBestEffort labels frames resolved by class name.
	ConfidenceBestEffort = "best_effort"
	// ConfidenceNone labels frames left with placeholder packaging.
	ConfidenceNone = "na"
)

// Metrics holds the calculator collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Lookups  *prometheus.CounterVec
	Frames   *prometheus.CounterVec
	Misfires prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg creates
// unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_lookups_total",
			Help:      "Packaging cache lookups by result.",
		}, []string{"result"}),
		Frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_total",
			Help:      "Annotated stack frames by resolution confidence.",
		}, []string{"confidence"}),
		Misfires: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misfires_total",
			Help:      "Common frames whose live stack type disagreed with the reported class.",
		}),
	}
}

// Lookup records a cache lookup result.
func (m *Metrics) Lookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}

// Frame records one annotated frame.
func (m *Metrics) Frame(confidence string) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(confidence).Inc()
}

// Misfire records one misfire.
func (m *Metrics) Misfire() {
	if m == nil {
		return
	}
	m.Misfires.Inc()
}
