package metrics

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns a set of uniquely named metrics. Lookups create the metric
// on first use, so two components asking for the same name share it.
// Reusing a name for a different kind of metric is a programming error and
// panics.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// DefaultRegistry backs DefaultCodec.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// lookup returns the metric registered as name, building it with mk when
// it does not exist yet.
func lookup[M Metric](r *Registry, name string, mk func() M) M {
	r.mu.RLock()
	m, ok := r.metrics[name]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		if m, ok = r.metrics[name]; !ok {
			m = mk()
			r.metrics[name] = m
		}
		r.mu.Unlock()
	}
	typed, ok := m.(M)
	if !ok {
		panic(fmt.Sprintf("metrics: %s already registered as a %s", name, m.Kind()))
	}
	return typed
}

// Counter returns the counter named name.
func (r *Registry) Counter(name, help string) *Counter {
	return lookup(r, name, func() *Counter { return NewCounter(name, help) })
}

// Gauge returns the gauge named name.
func (r *Registry) Gauge(name, help string) *Gauge {
	return lookup(r, name, func() *Gauge { return NewGauge(name, help) })
}

// Histogram returns the histogram named name. bounds only apply when the
// histogram is created.
func (r *Registry) Histogram(name, help string, bounds []float64) *Histogram {
	return lookup(r, name, func() *Histogram { return NewHistogram(name, help, bounds) })
}

// Each calls fn for every metric in name order.
func (r *Registry) Each(fn func(Metric)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	ms := make([]Metric, len(names))
	sort.Strings(names)
	for i, name := range names {
		ms[i] = r.metrics[name]
	}
	r.mu.RUnlock()

	for _, m := range ms {
		fn(m)
	}
}

// Sample is the JSON form of one metric in a Snapshot. Value is the count
// for counters and histograms and the level for gauges.
type Sample struct {
	Kind    Kind     `json:"kind"`
	Help    string   `json:"help,omitempty"`
	Value   int64    `json:"value"`
	Sum     float64  `json:"sum,omitempty"`
	Buckets []Bucket `json:"buckets,omitempty"`
}

// Snapshot returns the current value of every metric keyed by name. It is
// served as JSON by the HTTP service.
func (r *Registry) Snapshot() map[string]Sample {
	snap := make(map[string]Sample)
	r.Each(func(m Metric) {
		snap[m.Name()] = m.sample()
	})
	return snap
}
