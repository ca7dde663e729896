// Package metrics times the hot paths of a session: loading the document,
// estimating the start depth, projecting a view and rendering lines.
//
// Collection is on unless TOOEY_METRICS=0. Instrument a function with
//
//	defer metrics.Timer(metrics.Projection)()
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("TOOEY_METRICS") != "0")
}

func Enabled() bool { return enabled.Load() }

func SetEnabled(on bool) { enabled.Store(on) }

// TimingMetric accumulates durations for one operation.
type TimingMetric struct {
	name string

	mu      sync.Mutex
	n       int64
	sum     time.Duration
	fastest time.Duration
	slowest time.Duration
}

// Stats is a snapshot of a TimingMetric.
type Stats struct {
	Name    string
	Count   int64
	Total   time.Duration
	Mean    time.Duration
	Fastest time.Duration
	Slowest time.Duration
}

var (
	registryMu sync.Mutex
	registry   []*TimingMetric
)

func register(name string) *TimingMetric {
	m := &TimingMetric{name: name}
	registryMu.Lock()
	registry = append(registry, m)
	registryMu.Unlock()
	return m
}

var (
	DocumentLoad  = register("document_load")
	DepthEstimate = register("depth_estimate")
	Projection    = register("projection")
	Render        = register("render")
	UIRender      = register("ui_render")
)

func (m *TimingMetric) Name() string { return m.name }

// Record adds one sample. It does nothing while collection is off.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.n == 0 || d < m.fastest {
		m.fastest = d
	}
	if d > m.slowest {
		m.slowest = d
	}
	m.n++
	m.sum += d
}

func (m *TimingMetric) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Name: m.name, Count: m.n, Total: m.sum, Fastest: m.fastest, Slowest: m.slowest}
	if m.n > 0 {
		s.Mean = m.sum / time.Duration(m.n)
	}
	return s
}

func (m *TimingMetric) Reset() {
	m.mu.Lock()
	m.n, m.sum, m.fastest, m.slowest = 0, 0, 0, 0
	m.mu.Unlock()
}

// Timer starts timing m and returns the func that stops it.
func Timer(m *TimingMetric) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Snapshot returns the stats of every metric with at least one sample, in
// registration order.
func Snapshot() []Stats {
	registryMu.Lock()
	defer registryMu.Unlock()
	var out []Stats
	for _, m := range registry {
		if s := m.Stats(); s.Count > 0 {
			out = append(out, s)
		}
	}
	return out
}

func ResetAll() {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, m := range registry {
		m.Reset()
	}
}

// WriteSummary prints a line per metric with samples.
func WriteSummary(w io.Writer) error {
	for _, s := range Snapshot() {
		_, err := fmt.Fprintf(w, "%-16s n=%-6d total=%-10v mean=%-10v max=%v\n",
			s.Name, s.Count, s.Total.Round(time.Microsecond), s.Mean.Round(time.Microsecond), s.Slowest.Round(time.Microsecond))
		if err != nil {
			return err
		}
	}
	return nil
}
