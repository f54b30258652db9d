// Package obslog is the ambient logging layer: a category-gated wrapper
// over log/slog. The teacher (internal/debug) gates bare log.Printf
// calls behind an EnableDebug build flag / DEBUG env var and a set of
// per-component Log<Category> helpers; this keeps that shape but routes
// through slog so every call site gets structured fields (phase, file,
// symbol) instead of pre-formatted strings.
package obslog

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	verbose bool
)

// SetVerbose toggles debug-level output, mirroring the teacher's
// EnableDebug/DEBUG env-var gate.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	level := slog.LevelInfo
	if v {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetHandler lets callers swap the underlying slog.Handler, e.g. for a
// JSON handler or a discard sink.
func SetHandler(h slog.Handler) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(h)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Indexing logs a C1/pipeline-coordinator event.
func Indexing(msg string, args ...any) { current().Info(msg, append([]any{"component", "indexing"}, args...)...) }

// Parser logs a C2 parser-cascade event.
func Parser(msg string, args ...any) { current().Debug(msg, append([]any{"component", "parser"}, args...)...) }

// Extractor logs a C3 symbol-extraction event.
func Extractor(msg string, args ...any) { current().Debug(msg, append([]any{"component", "extractor"}, args...)...) }

// Store logs a C4 persistence event.
func Store(msg string, args ...any) { current().Info(msg, append([]any{"component", "store"}, args...)...) }

// Relate logs a C5 relationship-extraction event.
func Relate(msg string, args ...any) { current().Debug(msg, append([]any{"component", "relate"}, args...)...) }

// Resolver logs a C6/C7 cross-file-resolution event.
func Resolver(msg string, args ...any) { current().Debug(msg, append([]any{"component", "resolver"}, args...)...) }

// Semantic logs a C8 semantic-connector event.
func Semantic(msg string, args ...any) { current().Debug(msg, append([]any{"component", "semantic"}, args...)...) }

// Pattern logs a C9 pattern-detector event.
func Pattern(msg string, args ...any) { current().Debug(msg, append([]any{"component", "pattern"}, args...)...) }

// Warn logs a counted (non-fatal) error, with its taxonomy type.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs a fatal-path error.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// WithContext returns a logger enriched with any *slog.Logger stashed in
// ctx by the caller, falling back to the package logger.
func WithContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return current()
}

type ctxKey struct{}

// Into stashes a logger (e.g. one bound to a run-id) into ctx.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
