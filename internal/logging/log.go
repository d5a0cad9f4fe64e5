// Package logging carries a zerolog logger through context.Context.
//
// Diagnostics go to stderr so they never interleave with the "===="
// progress protocol on stdout.
package logging

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

type logPtr struct{}

var nop = zerolog.Nop()

// New creates a console logger writing to w. verbose lowers the level
// from warn to debug.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, logPtr{}, &logger)
}

// Log returns the logger stored in ctx, or a disabled logger.
func Log(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &nop
	}

	logger, ok := ctx.Value(logPtr{}).(*zerolog.Logger)
	if !ok {
		return &nop
	}

	return logger
}
