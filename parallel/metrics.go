// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// metrics.go collects thread-safe counters, per-label timers and gauges
// for a parallel run.

package parallel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Counter names used by the dispatcher.
const (
	CounterJobsCompleted  = "jobs_completed"
	CounterJobsSuccessful = "jobs_successful"
	CounterJobsFailed     = "jobs_failed"
)

// Metrics is a thread-safe metrics collector.
type Metrics struct {
	mu       sync.Mutex
	started  time.Time
	counters map[string]int
	timers   map[string][]time.Duration
	gauges   map[string]float64
}

// NewMetrics returns an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		started:  time.Now(),
		counters: make(map[string]int),
		timers:   make(map[string][]time.Duration),
		gauges:   make(map[string]float64),
	}
}

// Increment adds 1 to the named counter.
func (m *Metrics) Increment(name string) { m.Add(name, 1) }

// Add adds value to the named counter.
func (m *Metrics) Add(name string, value int) {
	m.mu.Lock()
	m.counters[name] += value
	m.mu.Unlock()
}

// Counter returns the named counter.
func (m *Metrics) Counter(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// RecordTimer records one duration under the given label.
func (m *Metrics) RecordTimer(name string, d time.Duration) {
	m.mu.Lock()
	m.timers[name] = append(m.timers[name], d)
	m.mu.Unlock()
}

// AverageTime returns the average of all durations recorded under the
// label.
func (m *Metrics) AverageTime(name string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds := m.timers[name]
	if len(ds) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total / time.Duration(len(ds)), true
}

// SetGauge sets the named gauge.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	m.gauges[name] = value
	m.mu.Unlock()
}

// Gauge returns the named gauge.
func (m *Metrics) Gauge(name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.gauges[name]
	return v, ok
}

// TotalTime returns the elapsed time since the collector was created.
func (m *Metrics) TotalTime() time.Duration { return time.Since(m.started) }

// StartTimer returns a scoped timer recording its elapsed time under
// the label when stopped.
func (m *Metrics) StartTimer(name string) *ScopedTimer {
	return &ScopedTimer{metrics: m, name: name, started: time.Now()}
}

// ScopedTimer records its lifetime into a Metrics timer on Stop.
type ScopedTimer struct {
	metrics *Metrics
	name    string
	started time.Time
	stopped bool
}

// Stop records the elapsed time. Stopping twice records once.
func (t *ScopedTimer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	t.metrics.RecordTimer(t.name, time.Since(t.started))
}

// Summary renders all metrics for the end-of-run report.
func (m *Metrics) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "total time: %s\n", time.Since(m.started).Round(time.Millisecond))

	names := make([]string, 0, len(m.counters))
	for n := range m.counters {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "%s: %d\n", n, m.counters[n])
	}

	names = names[:0]
	for n := range m.timers {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		ds := m.timers[n]
		var total time.Duration
		for _, d := range ds {
			total += d
		}
		avg := total / time.Duration(len(ds))
		fmt.Fprintf(&b, "%s: %d samples, avg %s\n", n, len(ds), avg.Round(time.Microsecond))
	}

	names = names[:0]
	for n := range m.gauges {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "%s: %g\n", n, m.gauges[n])
	}
	return b.String()
}
