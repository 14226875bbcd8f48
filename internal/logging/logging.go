// Package logging builds the zap loggers used across wander.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger flavour.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn for the
	// console and info for JSON.
	Level string
	// JSON switches to a production JSON encoder, used by serve.
	JSON bool
}

// New returns a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	level := opts.Level
	if level == "" {
		level = "warn"
		if opts.JSON {
			level = "info"
		}
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	var enc zapcore.Encoder
	if opts.JSON {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// Must is New for callers that cannot continue without a logger.
func Must(opts Options) *zap.Logger {
	l, err := New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  logger: %v, falling back to warn\n", err)
		l, _ = New(Options{JSON: opts.JSON, Level: "warn"})
	}
	return l
}
