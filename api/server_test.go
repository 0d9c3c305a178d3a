package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/metrics"
)

// newTestServer serves BCH(15,7) t=2 from a fresh registry.
func newTestServer(t *testing.T, opts ...Option) (http.Handler, *metrics.Registry) {
	t.Helper()
	reg := metrics.NewRegistry()
	code, err := bch.New(bch.DefaultConfig(), bch.WithMetrics(metrics.NewCodecMetrics(reg)))
	require.NoError(t, err)
	return NewServer(code, reg, opts...).Handler(), reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestEncode(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/encode", `{"message":"1010101"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[EncodeResponse](t, rec)
	assert.Equal(t, EncodeResponse{
		Message:        "1010101",
		EncodedMessage: "101010111100101",
		Parity:         "11100101",
		Hex:            "0x55e5",
	}, resp)
}

func TestEncodeRejects(t *testing.T) {
	h, reg := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		code   int
		status string
		errMsg string
	}{
		{"non-binary", `{"message":"10201"}`, http.StatusBadRequest, StatusInvalidInput, "binary string"},
		{"grouping characters", `{"message":"101_0101"}`, http.StatusBadRequest, StatusInvalidInput, "binary string"},
		{"empty", `{"message":""}`, http.StatusBadRequest, StatusInvalidInput, "empty string"},
		{"missing field", `{}`, http.StatusBadRequest, StatusInvalidInput, "empty string"},
		{"wrong length", `{"message":"10101"}`, http.StatusBadRequest, StatusInvalidLength, "invalid bit length"},
		{"bad JSON", `{"message":`, http.StatusBadRequest, StatusInvalidInput, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/encode", tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tt.status, resp.Status)
			assert.Contains(t, resp.Error, tt.errMsg)
		})
	}
	assert.EqualValues(t, 1, reg.Counter(metrics.NameInvalidLength, "").Value())
	assert.EqualValues(t, 0, reg.Counter(metrics.NameEncoded, "").Value())
}

func TestDecodeCorrects(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/decode", `{"received_message":"101010111100001"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[DecodeResponse](t, rec)
	assert.Equal(t, "1010101", resp.DecodedMessage)
	assert.Equal(t, "101010111100101", resp.CorrectedCodeword)
	assert.Equal(t, []int{2}, resp.Positions)
	assert.Equal(t, []gf.Element{4, 3, 12, 5}, resp.Syndromes)
	assert.Equal(t, StatusCorrected, resp.Status)
}

func TestDecodeClean(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/decode", `{"received_message":"101010111100101"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Body.String(), `"positions":[]`)
	resp := decodeBody[DecodeResponse](t, rec)
	assert.Equal(t, StatusClean, resp.Status)
	assert.Equal(t, "1010101", resp.DecodedMessage)
	assert.Equal(t, []gf.Element{0, 0, 0, 0}, resp.Syndromes)
}

func TestDecodeRejects(t *testing.T) {
	h, reg := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/decode", `{"received_message":"101010111110110"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, StatusUncorrectable, resp.Status)
	assert.Contains(t, resp.Error, "uncorrectable error pattern")
	assert.NotEmpty(t, resp.Syndromes)

	rec = do(t, h, http.MethodPost, "/decode", `{"received_message":"1010101111"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StatusInvalidLength, decodeBody[ErrorResponse](t, rec).Status)

	rec = do(t, h, http.MethodPost, "/decode", `{"received_message":"0x55e5"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StatusInvalidInput, decodeBody[ErrorResponse](t, rec).Status)

	assert.EqualValues(t, 1, reg.Counter(metrics.NameUncorrectable, "").Value())
	assert.EqualValues(t, 2, reg.Counter(metrics.NameDecoded, "").Value())
}

func TestBodyLimit(t *testing.T) {
	h, _ := newTestServer(t)
	body := `{"message":"` + strings.Repeat("1", MaxBodyBytes) + `"}`
	rec := do(t, h, http.MethodPost, "/encode", body)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "exceeds")
}

func TestRouting(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/encode", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "method GET not allowed")

	rec = do(t, h, http.MethodPost, "/info", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))

	rec = do(t, h, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Error, "/nowhere")
}

func TestInfo(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[InfoResponse](t, rec)
	assert.Equal(t, "BCH(15,7) t=2 GF(2^4)/0x13", resp.Code)
	assert.Equal(t, 15, resp.N)
	assert.Equal(t, 7, resp.K)
	assert.Equal(t, 2, resp.T)
	assert.Equal(t, "GF(2^4)/0x13", resp.Field)
	assert.Equal(t, "111010001", resp.Generator)
	assert.Equal(t, 8, resp.ParityBits)
}

func TestMetricsAndStats(t *testing.T) {
	h, _ := newTestServer(t)
	do(t, h, http.MethodPost, "/decode", `{"received_message":"101010111100001"}`)
	do(t, h, http.MethodPost, "/encode", `{"message":"2"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	out := rec.Body.String()
	assert.Contains(t, out, "bch_corrected 1\n")
	assert.Contains(t, out, "api_requests 2\n")
	assert.Contains(t, out, "api_errors 1\n")
	// The request being served is still in flight while metrics render.
	assert.Contains(t, out, "api_inflight 1\n")

	rec = do(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[map[string]metrics.Sample](t, rec)
	assert.Equal(t, metrics.KindGauge, snap[NameInflight].Kind)
	assert.EqualValues(t, 1, snap[NameInflight].Value)
	assert.EqualValues(t, 3, snap[NameRequests].Value)
	assert.EqualValues(t, 1, snap[metrics.NameFlips].Value)
	assert.Equal(t, metrics.KindHistogram, snap[NameRequestTime].Kind)
	assert.EqualValues(t, 3, snap[NameRequestTime].Value)
}

func TestCORS(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/decode", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://bch.example"}
	h, _ = newTestServer(t, WithCORS(cfg))
	for origin, want := range map[string]string{
		"https://bch.example":  "https://bch.example",
		"https://evil.example": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/info", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h, _ := newTestServer(t, WithLogger(l))
	do(t, h, http.MethodPost, "/decode", `{"received_message":"111"}`)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "Served request", rec["msg"])
	assert.Equal(t, "/decode", rec["path"])
	assert.Equal(t, float64(http.StatusBadRequest), rec["status"])
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
