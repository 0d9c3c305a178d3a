package log

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels beyond the four slog defines, shared with go-ethereum's handlers so
// the terminal output labels them correctly.
const (
	LevelTrace = gethlog.LevelTrace
	LevelCrit  = gethlog.LevelCrit
)

// ErrUnknownLevel is returned by ParseLevel for unrecognised names.
var ErrUnknownLevel = errors.New("log: unknown level")

// FromVerbosity maps a 0..5 verbosity to a level: 0 is critical only, 3 is
// info and 5 (or more) is trace.
func FromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelCrit
	case v == 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	case v == 4:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "crit", "critical":
		return LevelCrit, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}
