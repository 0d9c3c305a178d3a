package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/metrics"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps handler so that the first middleware runs first.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// CORSConfig lists what cross-origin browsers may do.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds
}

// DefaultCORSConfig allows any origin to call the JSON endpoints.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         3600,
	}
}

// CORS sets the Access-Control headers and answers preflight requests.
func CORS(cfg CORSConfig) Middleware {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	wildcard := false
	for _, o := range cfg.AllowedOrigins {
		wildcard = wildcard || o == "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && originAllowed(origin, cfg.AllowedOrigins):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			if cfg.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == origin {
			return true
		}
	}
	return false
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Logging writes one debug line per request, or a warning for server
// errors.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"elapsed", time.Since(start),
				"remote", r.RemoteAddr,
			}
			if rec.statusCode >= http.StatusInternalServerError {
				logger.Warn("Request failed", args...)
				return
			}
			logger.Debug("Served request", args...)
		})
	}
}

// Metric names reported by the HTTP service.
const (
	NameRequests    = "api.requests"
	NameErrors      = "api.errors"
	NameInflight    = "api.inflight"
	NameRequestTime = "api.request_us"
)

// Instrument counts requests into r: a gauge of requests in flight, totals
// of requests and of 4xx/5xx answers, and a latency histogram.
func Instrument(r *metrics.Registry) Middleware {
	requests := r.Counter(NameRequests, "HTTP requests served.")
	failures := r.Counter(NameErrors, "HTTP requests answered with a 4xx or 5xx status.")
	inflight := r.Gauge(NameInflight, "HTTP requests being served.")
	latency := r.Histogram(NameRequestTime, "HTTP request latency in microseconds.", metrics.LatencyBuckets)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			inflight.Add(1)
			defer inflight.Add(-1)
			timer := metrics.NewTimer(latency)
			defer timer.Stop()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, req)
			requests.Inc()
			if rec.statusCode >= http.StatusBadRequest {
				failures.Inc()
			}
		})
	}
}
