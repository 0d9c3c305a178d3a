// Package metrics collects the codec's counters, gauges and bucketed
// histograms and renders them for the CLI and the HTTP service. Every
// metric carries a help string that is exported with it.
package metrics

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Kind identifies a metric type in snapshots and exposition output.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
)

// Metric is implemented by Counter, Gauge and Histogram.
type Metric interface {
	Name() string
	Help() string
	Kind() Kind
	sample() Sample
}

type desc struct {
	name string
	help string
}

func (d desc) Name() string { return d.name }
func (d desc) Help() string { return d.help }

// Counter only goes up: words decoded, bits flipped, requests served.
type Counter struct {
	desc
	v atomic.Int64
}

// NewCounter returns an unregistered counter.
func NewCounter(name, help string) *Counter {
	return &Counter{desc: desc{name, help}}
}

// Kind implements Metric.
func (*Counter) Kind() Kind { return KindCounter }

// Inc adds one.
func (c *Counter) Inc() { c.v.Add(1) }

// Add adds n. Counters never decrease, so n <= 0 is dropped.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.v.Add(n)
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 { return c.v.Load() }

func (c *Counter) sample() Sample {
	return Sample{Kind: KindCounter, Help: c.help, Value: c.Value()}
}

// Gauge holds a level that moves both ways, such as requests in flight.
type Gauge struct {
	desc
	v atomic.Int64
}

// NewGauge returns an unregistered gauge.
func NewGauge(name, help string) *Gauge {
	return &Gauge{desc: desc{name, help}}
}

// Kind implements Metric.
func (*Gauge) Kind() Kind { return KindGauge }

// Set replaces the level.
func (g *Gauge) Set(v int64) { g.v.Store(v) }

// Add moves the level by delta, which may be negative.
func (g *Gauge) Add(delta int64) { g.v.Add(delta) }

// Value returns the current level.
func (g *Gauge) Value() int64 { return g.v.Load() }

func (g *Gauge) sample() Sample {
	return Sample{Kind: KindGauge, Help: g.help, Value: g.Value()}
}

// Bucket upper bounds used by the codec.
var (
	// LatencyBuckets bound decode and request latencies in microseconds.
	LatencyBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 10000}
	// FlipBuckets bound the number of bits corrected in one word.
	FlipBuckets = []float64{0, 1, 2, 3, 4, 6, 8}
)

// Histogram counts observations into cumulative buckets with fixed upper
// bounds, Prometheus style. Observations above the last bound only show up
// in the total count.
type Histogram struct {
	desc
	bounds []float64

	mu     sync.Mutex
	counts []int64 // per bucket, not cumulative
	count  int64
	sum    float64
}

// NewHistogram returns an unregistered histogram. bounds must be sorted in
// ascending order.
func NewHistogram(name, help string, bounds []float64) *Histogram {
	if !sort.Float64sAreSorted(bounds) {
		panic(fmt.Sprintf("metrics: histogram %s bounds not sorted: %v", name, bounds))
	}
	return &Histogram{
		desc:   desc{name, help},
		bounds: append([]float64(nil), bounds...),
		counts: make([]int64, len(bounds)),
	}
}

// Kind implements Metric.
func (*Histogram) Kind() Kind { return KindHistogram }

// Observe records v in the first bucket whose bound is >= v.
func (h *Histogram) Observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	if i < len(h.counts) {
		h.counts[i]++
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

// Count returns the number of observations.
func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Sum returns the total of all observations.
func (h *Histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// Buckets returns the upper bounds with their cumulative counts.
func (h *Histogram) Buckets() []Bucket {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bucketsLocked()
}

func (h *Histogram) bucketsLocked() []Bucket {
	out := make([]Bucket, len(h.bounds))
	var cum int64
	for i, b := range h.bounds {
		cum += h.counts[i]
		out[i] = Bucket{UpperBound: b, Count: cum}
	}
	return out
}

func (h *Histogram) sample() Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Sample{Kind: KindHistogram, Help: h.help, Value: h.count, Sum: h.sum, Buckets: h.bucketsLocked()}
}

// Bucket is one cumulative histogram bucket.
type Bucket struct {
	UpperBound float64 `json:"le"`
	Count      int64   `json:"count"`
}

// Timer measures one operation into a histogram in microseconds.
type Timer struct {
	start time.Time
	hist  *Histogram
}

// NewTimer starts timing.
func NewTimer(h *Histogram) *Timer {
	return &Timer{start: time.Now(), hist: h}
}

// Stop records the elapsed microseconds and returns the duration. Stopping
// a nil Timer, or one without a histogram, records nothing.
func (t *Timer) Stop() time.Duration {
	if t == nil {
		return 0
	}
	d := time.Since(t.start)
	if t.hist != nil {
		t.hist.Observe(float64(d) / float64(time.Microsecond))
	}
	return d
}
