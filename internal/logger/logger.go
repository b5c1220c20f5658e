// Package logger holds the diagnostic logger. Diagnostics go to stderr and
// stay out of the status lines printed on stdout.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// New builds a console logger writing to w. The level comes from LOG_LEVEL
// and defaults to warn; verbose forces debug.
func New(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zap.WarnLevel
	if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
		parsed, err := zapcore.ParseLevel(levelEnv)
		if err != nil {
			log.Println(fmt.Errorf("invalid level, defaulting to WARN: %w", err))
		} else {
			level = parsed
		}
	}
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Sugar()
}

// Set replaces the process logger.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Get returns the process logger, creating a default one on first use.
func Get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = New(os.Stderr, false)
	}
	return logger
}

// FromCtx returns the logger attached to ctx, or the process logger.
// Extra key/value pairs are added with With.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger)
	if !ok {
		l = Get()
	}
	if len(with) > 0 {
		return l.With(with...)
	}
	return l
}

// WithCtx returns a copy of ctx with l attached.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && lp == l {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}
