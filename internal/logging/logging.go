// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFile receives logs while the TUI owns the terminal.
const DefaultFile = "activitysim.log"

// Options select the level and the sink.
type Options struct {
	Verbose bool
	// File, when set, replaces stderr as the output.
	File string
	// Console switches from JSON to the human-readable encoder.
	Console bool
}

// New builds a production logger, at debug level when Verbose is set.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Console {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if opts.File != "" {
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}
	// Every injected event is logged, so no sampling.
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
