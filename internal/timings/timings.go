// Package timings is the per-label histogram collector of component C9. It
// is a process-local singleton, disabled (a no-op) unless AST_TIMINGS is set
// in a debug/test build, per spec.md §4.C9.
package timings

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const reservoirCap = 500

// Collector accumulates duration samples per label and reports
// count/p50/p95/p99/mean on Snapshot.
type Collector struct {
	mu      sync.Mutex
	enabled bool
	runID   string
	samples map[string][]time.Duration
	seen    map[string]int // total observations seen, for reservoir sampling
}

// New creates a Collector. enabled gates Record into a no-op when false,
// so call sites never need their own debug-build checks.
func New(enabled bool) *Collector {
	return &Collector{
		enabled: enabled,
		runID:   uuid.NewString(),
		samples: map[string][]time.Duration{},
		seen:    map[string]int{},
	}
}

// RunID is a correlation id for this process's timings, surfaced in logs
// only — never embedded in additionalContext (the context bundle stays a
// pure function of file contents and config).
func (c *Collector) RunID() string { return c.runID }

// Record adds one duration sample under label. Overflow beyond
// reservoirCap uses simple reservoir sampling so long runs stay bounded
// without biasing toward early samples.
func (c *Collector) Record(label string, d time.Duration) {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.seen[label]
	c.seen[label] = n + 1
	bucket := c.samples[label]
	if len(bucket) < reservoirCap {
		c.samples[label] = append(bucket, d)
		return
	}
	// Reservoir sampling: replace an existing slot with decreasing
	// probability (about reservoirCap/(n+1)) as n grows. The index is
	// derived from the sample value and the observation count, not a random
	// source, which keeps this deterministic across runs with identical
	// sample sequences, matching the determinism invariant (spec.md §3) —
	// timings are debug-only and excluded from additionalContext, but we
	// still avoid gratuitous nondeterminism.
	idx := int(uint64(d) % uint64(n+1))
	if idx < reservoirCap {
		bucket[idx] = d
	}
}

// Timed records the wall-clock duration of fn under label and returns
// whatever fn returns.
func Timed[T any](c *Collector, label string, fn func() T) T {
	start := time.Now()
	result := fn()
	c.Record(label, time.Since(start))
	return result
}

// Row is one line of the "=== TIMINGS (ms) ===" section.
type Row struct {
	Label string
	Count int
	P50   float64
	P95   float64
	P99   float64
	Mean  float64
}

// Snapshot computes deterministic statistics per label, sorted by label
// name so output is stable across runs with the same inputs.
func (c *Collector) Snapshot() []Row {
	if c == nil || !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	labels := make([]string, 0, len(c.samples))
	for label := range c.samples {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]Row, 0, len(labels))
	for _, label := range labels {
		sorted := append([]time.Duration(nil), c.samples[label]...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		rows = append(rows, Row{
			Label: label,
			Count: c.seen[label],
			P50:   percentileMillis(sorted, 0.50),
			P95:   percentileMillis(sorted, 0.95),
			P99:   percentileMillis(sorted, 0.99),
			Mean:  meanMillis(sorted),
		})
	}
	return rows
}

func percentileMillis(sorted []time.Duration, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return float64(sorted[idx].Microseconds()) / 1000.0
}

func meanMillis(sorted []time.Duration) float64 {
	if len(sorted) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	return float64(sum.Microseconds()) / 1000.0 / float64(len(sorted))
}
