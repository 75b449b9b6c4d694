// Package logging builds the zerolog logger used for --verbose tracing.
//
// User-facing reports never go through the logger; they are written to the
// command's stderr directly. The logger only traces progress, so it stays at
// warn level unless verbose output is requested.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options control logger construction.
type Options struct {
	Verbose bool
	JSON    bool      // structured output instead of the console writer
	Output  io.Writer // defaults to os.Stderr
}

// New returns a logger writing to opts.Output.
func New(opts Options) zerolog.Logger {
	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithComponent tags every event of l with the subsystem name.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
