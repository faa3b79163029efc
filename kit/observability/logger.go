package observability

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	l zerolog.Logger
}

// NewLogger writes human readable lines in the local environment and JSON
// everywhere else.
func NewLogger() *Logger {
	return NewLoggerWithConfig(os.Stdout, "local", false)
}

func NewLoggerWithConfig(w io.Writer, env string, debug bool) *Logger {
	if env == "local" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if debug {
		l = l.Level(zerolog.DebugLevel)
	}
	return &Logger{l: l}
}

// Zerolog exposes the underlying logger for request middlewares.
func (lg *Logger) Zerolog() *zerolog.Logger {
	return &lg.l
}

// WithContext attaches the logger so that log.Ctx(ctx) resolves to it.
func (lg *Logger) WithContext(ctx context.Context) context.Context {
	return lg.l.WithContext(ctx)
}

func (lg *Logger) Debug(msg string, kv ...any) {
	lg.l.Debug().Fields(kv).Msg(msg)
}

func (lg *Logger) Info(msg string, kv ...any) {
	lg.l.Info().Fields(kv).Msg(msg)
}

func (lg *Logger) Warn(msg string, kv ...any) {
	lg.l.Warn().Fields(kv).Msg(msg)
}

func (lg *Logger) Error(msg string, kv ...any) {
	lg.l.Error().Fields(kv).Msg(msg)
}
