package metrics

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Exporter renders a Registry in the Prometheus text exposition format.
type Exporter struct {
	// Namespace is an optional prefix prepended to all metric names
	// ("bch" turns "bch.decoded" into "bch_bch_decoded").
	Namespace string
	registry  *Registry
}

// NewExporter creates an exporter that reads from the given registry.
func NewExporter(registry *Registry, namespace string) *Exporter {
	return &Exporter{Namespace: namespace, registry: registry}
}

// WriteTo writes every metric in the registry to w, sorted by name.
func (e *Exporter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.String())
	return int64(n), err
}

// String returns the exposition text.
func (e *Exporter) String() string {
	var b strings.Builder
	e.registry.Each(func(m Metric) {
		e.writeMetric(&b, m)
	})
	return b.String()
}

func (e *Exporter) writeMetric(b *strings.Builder, m Metric) {
	name := e.promName(m.Name())
	help := m.Help()
	if help == "" {
		help = m.Name()
	}
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, m.Kind())

	s := m.sample()
	if s.Kind != KindHistogram {
		fmt.Fprintf(b, "%s %d\n", name, s.Value)
		return
	}
	for _, bk := range s.Buckets {
		fmt.Fprintf(b, "%s_bucket{le=%q} %d\n", name, formatFloat(bk.UpperBound), bk.Count)
	}
	fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, s.Value)
	fmt.Fprintf(b, "%s_sum %s\n", name, formatFloat(s.Sum))
	fmt.Fprintf(b, "%s_count %d\n", name, s.Value)
}

// promName converts a dot-separated metric name to Prometheus format:
// dots and dashes become underscores, and the namespace is prepended.
func (e *Exporter) promName(name string) string {
	sanitized := strings.NewReplacer(".", "_", "-", "_").Replace(name)
	if e.Namespace != "" {
		return e.Namespace + "_" + sanitized
	}
	return sanitized
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return fmt.Sprintf("%g", v)
}
