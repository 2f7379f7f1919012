// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for the compile
// pipeline (spec §4.5): per-phase duration, diagnostics emitted per
// error-code band, and container cache hit/miss counts. Grounded on the
// teacher's sync.Once-guarded singleton registration pattern
// (pkg/ingestion/metrics.go).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type pipelineMetrics struct {
	once sync.Once

	phaseDuration *prometheus.HistogramVec
	diagnostics   *prometheus.CounterVec
	compiles      prometheus.Counter
	compileErrors prometheus.Counter

	containerCacheHits   prometheus.Counter
	containerCacheMisses prometheus.Counter
}

var m pipelineMetrics

func (p *pipelineMetrics) init() {
	p.once.Do(func() {
		p.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "mgen_phase_duration_seconds",
			Help: "Duration of each compile pipeline phase",
		}, []string{"phase"})
		p.diagnostics = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mgen_diagnostics_total",
			Help: "Diagnostics emitted, by band and kind",
		}, []string{"band", "kind"})
		p.compiles = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mgen_compiles_total", Help: "Total compiles attempted",
		})
		p.compileErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mgen_compile_errors_total", Help: "Compiles that ended with a fatal diagnostic",
		})
		p.containerCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mgen_container_cache_hits_total", Help: "Container engine Generate() calls served from cache",
		})
		p.containerCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mgen_container_cache_misses_total", Help: "Container engine Generate() calls that rendered a new artifact",
		})
	})
}

// Register adds every pipeline metric to reg. Safe to call more than
// once across multiple Registerer instances; the underlying collectors
// are created exactly once.
func Register(reg prometheus.Registerer) {
	m.init()
	reg.MustRegister(m.phaseDuration, m.diagnostics, m.compiles, m.compileErrors,
		m.containerCacheHits, m.containerCacheMisses)
}

// ObservePhaseDuration records how long a named pipeline phase took.
func ObservePhaseDuration(phase string, seconds float64) {
	m.init()
	m.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// CountDiagnostic increments the diagnostics counter for a band/kind pair.
func CountDiagnostic(band, kind string) {
	m.init()
	m.diagnostics.WithLabelValues(band, kind).Inc()
}

// CountCompile records one compile attempt, and whether it failed.
func CountCompile(failed bool) {
	m.init()
	m.compiles.Inc()
	if failed {
		m.compileErrors.Inc()
	}
}

// CountContainerCache records a container engine Generate() outcome.
func CountContainerCache(hit bool) {
	m.init()
	if hit {
		m.containerCacheHits.Inc()
		return
	}
	m.containerCacheMisses.Inc()
}
