package bch

import (
	"errors"
	"fmt"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/gf"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/log"
	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/metrics"
)

// Config describes a binary BCH code.
type Config struct {
	N int // codeword length in bits
	K int // message length in bits
	T int // designed number of correctable bit errors
	M int // field extension degree, GF(2^M)
	// Poly is the primitive polynomial of GF(2^M); zero selects the default
	// for M.
	Poly uint32
}

// DefaultConfig returns BCH(15,7) with t=2 over GF(2^4)/x^4+x+1.
func DefaultConfig() Config {
	return Config{N: 15, K: 7, T: 2, M: 4, Poly: 0x13}
}

// Validate checks the parameters that can be checked without building the
// field and generator.
func (c Config) Validate() error {
	if c.M < gf.MinM || c.M > gf.MaxM {
		return fmt.Errorf("%w: m=%d outside [%d, %d]", ErrConfiguration, c.M, gf.MinM, gf.MaxM)
	}
	if c.T < 1 {
		return fmt.Errorf("%w: t=%d, want t >= 1", ErrConfiguration, c.T)
	}
	if c.K < 1 || c.N <= c.K {
		return fmt.Errorf("%w: n=%d k=%d, want 0 < k < n", ErrConfiguration, c.N, c.K)
	}
	if order := 1<<uint(c.M) - 1; c.N > order {
		return fmt.Errorf("%w: n=%d exceeds 2^%d-1=%d", ErrConfiguration, c.N, c.M, order)
	}
	if c.N > MaxWidth {
		return fmt.Errorf("%w: n=%d exceeds %d-bit word", ErrConfiguration, c.N, MaxWidth)
	}
	return nil
}

// withDefaults fills in the default primitive polynomial.
func (c Config) withDefaults() (Config, error) {
	if c.Poly != 0 {
		return c, nil
	}
	poly, err := gf.DefaultPolynomial(c.M)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.Poly = poly
	return c, nil
}

func (c Config) String() string {
	return fmt.Sprintf("BCH(%d,%d) t=%d GF(2^%d)/%#x", c.N, c.K, c.T, c.M, c.Poly)
}

// Code is a configured BCH codec: the field tables, the generator and the
// locator solver for one Config. A Code is immutable and safe for
// concurrent use.
type Code struct {
	cfg     Config
	field   *gf.Field
	gen     *Generator
	solver  LocatorSolver
	logger  *log.Logger
	metrics *metrics.CodecMetrics
}

// Option configures a Code.
type Option func(*Code)

// WithSolver replaces the closed-form locator solver.
func WithSolver(s LocatorSolver) Option {
	return func(c *Code) {
		if s != nil {
			c.solver = s
		}
	}
}

// WithLogger sets the logger decode diagnostics are written to.
func WithLogger(l *log.Logger) Option {
	return func(c *Code) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the counters the code reports to.
func WithMetrics(m *metrics.CodecMetrics) Option {
	return func(c *Code) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New builds the field and generator for cfg. It fails with
// ErrConfiguration when the parameters are inconsistent, when the
// generator does not fit n-k parity bits, or when the solver cannot handle
// t errors.
func New(cfg Config, opts ...Option) (*Code, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	field, err := gf.Cached(cfg.M, cfg.Poly)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	gen, err := BuildGenerator(field, cfg.T)
	if err != nil {
		return nil, err
	}
	if err := CheckGenerator(gen, cfg.N, cfg.K); err != nil {
		return nil, err
	}

	c := &Code{
		cfg:     cfg,
		field:   field,
		gen:     gen,
		solver:  ClosedForm{},
		logger:  log.Default().Module("bch"),
		metrics: metrics.DefaultCodec,
	}
	for _, opt := range opts {
		opt(c)
	}
	if capability := c.solver.Capability(); capability < cfg.T {
		return nil, fmt.Errorf("%w: t=%d, solver handles t <= %d", ErrUnsupportedCapability, cfg.T, capability)
	}
	c.logger.Debug("Built code", "code", cfg.String(), "generator", gen.String(), "parity", gen.Degree())
	return c, nil
}

// Config returns the code parameters, with the polynomial filled in.
func (c *Code) Config() Config { return c.cfg }

// Field returns the code's field.
func (c *Code) Field() *gf.Field { return c.field }

// Generator returns the code's generator polynomial.
func (c *Code) Generator() *Generator { return c.gen }

// N returns the codeword length.
func (c *Code) N() int { return c.cfg.N }

// K returns the message length.
func (c *Code) K() int { return c.cfg.K }

// T returns the designed correction capability.
func (c *Code) T() int { return c.cfg.T }

func (c *Code) String() string { return c.cfg.String() }

// Encode produces the systematic codeword for a k-bit message.
func (c *Code) Encode(msg Word) (Word, error) {
	cw, err := Encode(msg, c.gen, c.cfg.N, c.cfg.K)
	if err != nil {
		if errors.Is(err, ErrInvalidLength) {
			c.metrics.InvalidLength.Inc()
		}
		return Word{}, err
	}
	c.metrics.Encoded.Inc()
	return cw, nil
}

// Decode corrects up to t bit errors in an n-bit word.
func (c *Code) Decode(cw Word) (Result, error) {
	timer := metrics.NewTimer(c.metrics.DecodeTime)
	defer timer.Stop()

	c.metrics.Decoded.Inc()
	res, err := decode(cw, c.field, c.gen, c.cfg.N, c.cfg.K, c.cfg.T, c.solver, c.logger)
	switch {
	case err == nil && res.Clean():
		c.metrics.Clean.Inc()
		c.metrics.Flips.Observe(0)
	case err == nil:
		c.metrics.Corrected.Inc()
		c.metrics.BitsCorrected.Add(int64(len(res.Positions)))
		c.metrics.Flips.Observe(float64(len(res.Positions)))
	case errors.Is(err, ErrInvalidLength):
		c.metrics.InvalidLength.Inc()
	case errors.Is(err, ErrUncorrectable):
		c.metrics.Uncorrectable.Inc()
	case errors.Is(err, ErrMiscorrection):
		c.metrics.Miscorrected.Inc()
	}
	return res, err
}

// Message extracts the k message bits from a codeword.
func (c *Code) Message(cw Word) (Word, error) {
	return Message(cw, c.cfg.N, c.cfg.K)
}

// DecodeMessage decodes cw and returns the message bits of the corrected
// codeword along with the decode result.
func (c *Code) DecodeMessage(cw Word) (Word, Result, error) {
	res, err := c.Decode(cw)
	if err != nil {
		return Word{}, res, err
	}
	msg, err := c.Message(res.Corrected)
	return msg, res, err
}
