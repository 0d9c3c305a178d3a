package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GrzegorzSzczepanek/bch-encoder-decoder/bch"
)

// Configuration errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// envPrefix is prepended to every environment override, e.g. BCH_N=31.
const envPrefix = "bch"

// Config aggregates the code parameters and tool settings from the config
// file, environment variables and command-line flags, in rising priority.
type Config struct {
	N         int    `mapstructure:"n"`
	K         int    `mapstructure:"k"`
	T         int    `mapstructure:"t"`
	M         int    `mapstructure:"m"`
	Poly      string `mapstructure:"poly"`
	Verbosity int    `mapstructure:"verbosity"`
	Metrics   bool   `mapstructure:"metrics"`
	NoColor   bool   `mapstructure:"no-color"`

	// ConfigFile is the path of the file that was loaded, if any.
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig returns BCH(15,7) with t=2 over GF(2^4). The polynomial is
// left at "0" so that changing m alone picks that field's default
// polynomial (x^4+x+1 for m=4).
func DefaultConfig() Config {
	def := bch.DefaultConfig()
	return Config{
		N:         def.N,
		K:         def.K,
		T:         def.T,
		M:         def.M,
		Poly:      "0",
		Verbosity: 2,
	}
}

// registerFlags declares the global flags on fs and binds them to v.
func registerFlags(fs *pflag.FlagSet, v *viper.Viper) {
	def := DefaultConfig()
	fs.IntP("n", "n", def.N, "Codeword length in bits")
	fs.IntP("k", "k", def.K, "Message length in bits")
	fs.IntP("t", "t", def.T, "Number of correctable bit errors")
	fs.IntP("m", "m", def.M, "Field extension degree, GF(2^m)")
	fs.String("poly", def.Poly, "Primitive polynomial of GF(2^m), hex (0x13) or binary (0b10011); 0 selects the default for m")
	fs.Int("verbosity", def.Verbosity, "Log level 0-5 (0=critical, 5=trace)")
	fs.Bool("metrics", false, "Print codec metrics in Prometheus text format after the command")
	fs.Bool("no-color", false, "Disable coloured output")
	fs.String("config", "", "Path to a TOML, YAML or JSON config file")

	if err := bindFlags(fs, v, "n", "k", "t", "m", "poly", "verbosity", "metrics", "no-color"); err != nil {
		panic(err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// bindFlags makes each named flag of fs the source of the viper key of
// the same name.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

// LoadConfig reads the config file named by path, if any, and resolves
// every setting through v.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg.ConfigFile = path
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	MergeDefaults(&cfg)
	return &cfg, nil
}

// MergeDefaults fills zero-valued code parameters with the defaults.
func MergeDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.N == 0 {
		cfg.N = def.N
	}
	if cfg.K == 0 {
		cfg.K = def.K
	}
	if cfg.T == 0 {
		cfg.T = def.T
	}
	if cfg.M == 0 {
		cfg.M = def.M
	}
	if strings.TrimSpace(cfg.Poly) == "" {
		cfg.Poly = "0"
	}
}

// ValidateConfig checks cfg and converts it to code parameters.
func ValidateConfig(cfg *Config) (bch.Config, error) {
	if cfg == nil {
		return bch.Config{}, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	poly, err := ParsePoly(cfg.Poly)
	if err != nil {
		return bch.Config{}, err
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 5 {
		return bch.Config{}, fmt.Errorf("%w: verbosity %d outside [0, 5]", ErrInvalidConfig, cfg.Verbosity)
	}
	code := bch.Config{N: cfg.N, K: cfg.K, T: cfg.T, M: cfg.M, Poly: poly}
	if err := code.Validate(); err != nil {
		return bch.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return code, nil
}

// ParsePoly reads a polynomial bit pattern: 0x-prefixed hex, 0b-prefixed
// binary or decimal. Zero selects the default polynomial.
func ParsePoly(s string) (uint32, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: polynomial %q", ErrInvalidConfig, s)
	}
	return uint32(v), nil
}
