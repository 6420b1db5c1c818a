// Package logger provides structured logging and context-aware logger injection.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// L is the global default logger; initialize with Init or use FromContext for scoped loggers.
var (
	L      = logrus.New()
	logKey = ctxKey{}
)

// Init configures the global logger with the given level and format ("json" or "text").
func Init(level, format string) {
	L.SetOutput(os.Stderr)
	L.SetLevel(parseLevel(level))
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		L.SetFormatter(&logrus.JSONFormatter{})
	} else {
		L.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Discard returns a logger that drops every entry. Library packages default to it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// FromContext returns the logger entry from ctx, or one backed by the global logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(logKey).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(L)
}

// WithContext stores the logger entry in ctx and returns the new context.
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, logKey, entry)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
