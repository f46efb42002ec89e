// Package tclog is the engine's debug logging façade, grounded on the
// teacher's pkg/bitnet/logging package: a thin level-gated wrapper
// rather than a full logging framework, since nothing in the
// contraction path needs structured fields or sinks beyond stderr.
// Contract and macrokernel call Debugf to report the plan sizes, the
// team size, and each member's M range, without paying for string
// formatting when the level is disabled. No engine package calls Tracef.
package tclog

import (
	"log"
	"os"
	"sync/atomic"
)

// Level is the minimum severity that gets written.
type Level int32

const (
	// LevelSilent disables all tclog output.
	LevelSilent Level = iota
	// LevelDebug writes Debugf messages: per-call plan sizes and team
	// size, and each team member's M range.
	LevelDebug
	// LevelTrace additionally writes Tracef messages; callers should
	// guard expensive argument construction behind Enabled(LevelTrace).
	LevelTrace
)

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "tcontract: ", log.LstdFlags)
)

func init() {
	switch os.Getenv("TBLIS_LOG") {
	case "trace":
		level.Store(int32(LevelTrace))
	case "debug":
		level.Store(int32(LevelDebug))
	default:
		level.Store(int32(LevelSilent))
	}
}

// SetLevel overrides the level derived from TBLIS_LOG. Intended for
// tests and for cmd/tcbench's -v flag.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// Enabled reports whether a message at level l would currently be
// written, letting a caller skip building an expensive format argument.
func Enabled(l Level) bool {
	return Level(level.Load()) >= l
}

// Debugf logs a debug-level message if enabled.
func Debugf(format string, args ...any) {
	if Enabled(LevelDebug) {
		logger.Printf(format, args...)
	}
}

// Tracef logs a trace-level message if enabled.
func Tracef(format string, args ...any) {
	if Enabled(LevelTrace) {
		logger.Printf(format, args...)
	}
}
