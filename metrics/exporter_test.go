package metrics

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestExporter_WriteTo(t *testing.T) {
	r := NewRegistry()
	m := NewCodecMetrics(r)
	m.Decoded.Add(3)
	m.Corrected.Inc()
	m.BitsCorrected.Add(2)
	m.DecodeTime.Observe(4)
	m.DecodeTime.Observe(8)
	r.Gauge("api.inflight", "Requests being served.").Set(7)

	var buf bytes.Buffer
	n, err := NewExporter(r, "").WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo returned %d, wrote %d bytes", n, buf.Len())
	}
	out := buf.String()

	for _, want := range []string{
		"# HELP bch_decoded Decode attempts.\n# TYPE bch_decoded counter\nbch_decoded 3\n",
		"bch_bits_corrected 2\n",
		"bch_uncorrectable 0\n",
		"# HELP api_inflight Requests being served.\n# TYPE api_inflight gauge\napi_inflight 7\n",
		"# TYPE bch_decode_us histogram\n",
		"bch_decode_us_bucket{le=\"2\"} 0\n",
		"bch_decode_us_bucket{le=\"5\"} 1\n",
		"bch_decode_us_bucket{le=\"10\"} 2\n",
		"bch_decode_us_bucket{le=\"10000\"} 2\n",
		"bch_decode_us_bucket{le=\"+Inf\"} 2\n",
		"bch_decode_us_sum 12\n",
		"bch_decode_us_count 2\n",
		"bch_flips_count 0\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	if strings.Index(out, "api_inflight") > strings.Index(out, "bch_bits_corrected") {
		t.Errorf("metrics not sorted by name:\n%s", out)
	}
}

func TestExporter_Namespace(t *testing.T) {
	r := NewRegistry()
	r.Counter(NameEncoded, "").Inc()
	out := NewExporter(r, "codec").String()
	if !strings.Contains(out, "codec_bch_encoded 1\n") {
		t.Fatalf("namespace not applied:\n%s", out)
	}
	// Without help text the raw name is used.
	if !strings.Contains(out, "# HELP codec_bch_encoded bch.encoded\n") {
		t.Fatalf("fallback help missing:\n%s", out)
	}
}

func TestExporter_ObservationAboveLastBucket(t *testing.T) {
	r := NewRegistry()
	m := NewCodecMetrics(r)
	m.Flips.Observe(12)
	out := NewExporter(r, "").String()
	if !strings.Contains(out, "bch_flips_bucket{le=\"8\"} 0\n") {
		t.Fatalf("observation leaked into a finite bucket:\n%s", out)
	}
	if !strings.Contains(out, "bch_flips_bucket{le=\"+Inf\"} 1\n") {
		t.Fatalf("observation missing from +Inf bucket:\n%s", out)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1.5, "1.5"},
		{10000, "10000"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.v); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestNewCodecMetricsShared(t *testing.T) {
	r := NewRegistry()
	a := NewCodecMetrics(r)
	b := NewCodecMetrics(r)
	a.Encoded.Inc()
	a.Flips.Observe(1)
	if b.Encoded.Value() != 1 {
		t.Fatalf("Encoded = %d, want 1 through second handle", b.Encoded.Value())
	}
	if b.Flips.Count() != 1 {
		t.Fatalf("Flips count = %d, want 1 through second handle", b.Flips.Count())
	}
	if DefaultCodec == nil || DefaultCodec.Decoded == nil {
		t.Fatal("DefaultCodec not initialised")
	}
}
