// Package api serves a BCH code over HTTP. POST /encode and POST /decode
// take and return binary strings as JSON; GET /info describes the code and
// GET /metrics and GET /stats expose the codec metrics.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/metrics"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/render"
)

// MaxBodyBytes bounds the size of a request body.
const MaxBodyBytes = 64 << 10

// Decode outcomes reported in the status field.
const (
	StatusClean         = "clean"
	StatusCorrected     = "corrected"
	StatusUncorrectable = "uncorrectable"
	StatusMiscorrected  = "miscorrected"
	StatusInvalidLength = "invalid_length"
	StatusInvalidInput  = "invalid_input"
)

// ErrNotBinary is returned for message strings with characters other than
// 0 and 1.
var ErrNotBinary = errors.New("input must be a binary string (only 0s and 1s)")

// EncodeRequest is the body of POST /encode.
type EncodeRequest struct {
	Message string `json:"message"`
}

// EncodeResponse is the answer to POST /encode.
type EncodeResponse struct {
	Message        string `json:"message"`
	EncodedMessage string `json:"encoded_message"`
	Parity         string `json:"parity"`
	Hex            string `json:"hex"`
}

// DecodeRequest is the body of POST /decode.
type DecodeRequest struct {
	ReceivedMessage string `json:"received_message"`
}

// DecodeResponse is the answer to a successful POST /decode. Positions
// count from 0 at the rightmost bit.
type DecodeResponse struct {
	DecodedMessage    string       `json:"decoded_message"`
	CorrectedCodeword string       `json:"corrected_codeword"`
	Positions         []int        `json:"positions"`
	Syndromes         []gf.Element `json:"syndromes"`
	Status            string       `json:"status"`
}

// InfoResponse is the answer to GET /info.
type InfoResponse struct {
	Code       string `json:"code"`
	N          int    `json:"n"`
	K          int    `json:"k"`
	T          int    `json:"t"`
	Field      string `json:"field"`
	Generator  string `json:"generator"`
	ParityBits int    `json:"parity_bits"`
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Status    string       `json:"status,omitempty"`
	Syndromes []gf.Element `json:"syndromes,omitempty"`
}

// Server routes HTTP requests to one code.
type Server struct {
	code     *bch.Code
	registry *metrics.Registry
	logger   *log.Logger
	cors     CORSConfig
	router   *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the "api" module logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORS replaces DefaultCORSConfig.
func WithCORS(cfg CORSConfig) Option {
	return func(s *Server) { s.cors = cfg }
}

// allowed lists the method each route answers, for the Allow header.
var allowed = map[string]string{
	"/encode":  http.MethodPost,
	"/decode":  http.MethodPost,
	"/info":    http.MethodGet,
	"/metrics": http.MethodGet,
	"/stats":   http.MethodGet,
}

// NewServer returns a Server for code. Request metrics and the code's own
// metrics are read from registry, metrics.DefaultRegistry when nil.
func NewServer(code *bch.Code, registry *metrics.Registry, opts ...Option) *Server {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	s := &Server{
		code:     code,
		registry: registry,
		logger:   log.Default().Module("api"),
		cors:     DefaultCORSConfig(),
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.HandleFunc("/encode", s.serveEncode).Methods(http.MethodPost)
	s.router.HandleFunc("/decode", s.serveDecode).Methods(http.MethodPost)
	s.router.HandleFunc("/info", s.serveInfo).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.serveMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.serveStats).Methods(http.MethodGet)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.serveNotAllowed)
	s.router.NotFoundHandler = http.HandlerFunc(s.serveNotFound)
	return s
}

// Handler returns the router wrapped in CORS, metrics and request logging.
func (s *Server) Handler() http.Handler {
	return Chain(s.router, CORS(s.cors), Instrument(s.registry), Logging(s.logger))
}

func (s *Server) serveEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	msg, err := parseBinary(req.Message)
	if err != nil {
		s.sendError(w, err)
		return
	}
	cw, err := s.code.Encode(msg)
	if err != nil {
		s.sendError(w, err)
		return
	}
	parity, err := bch.Parity(cw, s.code.N(), s.code.K())
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, EncodeResponse{
		Message:        msg.String(),
		EncodedMessage: cw.String(),
		Parity:         parity.String(),
		Hex:            render.Hex(cw),
	})
}

func (s *Server) serveDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	cw, err := parseBinary(req.ReceivedMessage)
	if err != nil {
		s.sendError(w, err)
		return
	}
	msg, res, err := s.code.DecodeMessage(cw)
	if err != nil {
		s.sendError(w, err)
		return
	}
	status := StatusCorrected
	if res.Clean() {
		status = StatusClean
	}
	positions := res.Positions
	if positions == nil {
		positions = []int{}
	}
	s.sendJSON(w, http.StatusOK, DecodeResponse{
		DecodedMessage:    msg.String(),
		CorrectedCodeword: res.Corrected.String(),
		Positions:         positions,
		Syndromes:         res.Syndromes,
		Status:            status,
	})
}

func (s *Server) serveInfo(w http.ResponseWriter, r *http.Request) {
	gen := s.code.Generator()
	s.sendJSON(w, http.StatusOK, InfoResponse{
		Code:       s.code.String(),
		N:          s.code.N(),
		K:          s.code.K(),
		T:          s.code.T(),
		Field:      s.code.Field().String(),
		Generator:  gen.String(),
		ParityBits: gen.Degree(),
	})
}

func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if _, err := metrics.NewExporter(s.registry, "").WriteTo(w); err != nil {
		s.logger.Warn("Failed to write metrics", "err", err)
	}
}

func (s *Server) serveStats(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, s.registry.Snapshot())
}

func (s *Server) serveNotAllowed(w http.ResponseWriter, r *http.Request) {
	if m, ok := allowed[r.URL.Path]; ok {
		w.Header().Set("Allow", m)
	}
	s.sendJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
	})
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("no route for %s", r.URL.Path)})
}

// readJSON decodes the request body into v. It answers the request itself
// and returns false when the body is unusable.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.sendJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return false
	}
	s.sendJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  fmt.Sprintf("invalid JSON body: %v", err),
		Status: StatusInvalidInput,
	})
	return false
}

// parseBinary accepts only the characters 0 and 1, most significant bit
// first.
func parseBinary(s string) (bch.Word, error) {
	if s == "" {
		return bch.Word{}, fmt.Errorf("%w: empty string", ErrNotBinary)
	}
	for i, c := range s {
		if c != '0' && c != '1' {
			return bch.Word{}, fmt.Errorf("%w: %q at offset %d", ErrNotBinary, c, i)
		}
	}
	return bch.ParseWord(s)
}

// sendError maps codec errors to 400 and anything else to 500.
func (s *Server) sendError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrNotBinary):
		resp.Status = StatusInvalidInput
	case errors.Is(err, bch.ErrInvalidLength):
		resp.Status = StatusInvalidLength
	case errors.Is(err, bch.ErrUncorrectable):
		resp.Status = StatusUncorrectable
	case errors.Is(err, bch.ErrMiscorrection):
		resp.Status = StatusMiscorrected
	default:
		code = http.StatusInternalServerError
		s.logger.Error("Codec failure", "err", err)
	}
	var de *bch.DecodeError
	if errors.As(err, &de) {
		resp.Syndromes = de.Syndromes
	}
	s.sendJSON(w, code, resp)
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "err", err)
	}
}
