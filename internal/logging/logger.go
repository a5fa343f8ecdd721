package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

type Fields map[string]interface{}

var current atomic.Pointer[slog.Logger]

func init() {
	Setup(os.Stdout, "info")
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup replaces the process logger with a JSON logger writing to w.
func Setup(w io.Writer, level string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Key = "ts"
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
	current.Store(slog.New(slog.NewJSONHandler(w, opts)))
}

// Logger returns the underlying slog logger, e.g. for gin or gorm adapters.
func Logger() *slog.Logger { return current.Load() }

func output(level slog.Level, msg string, fields Fields) {
	l := current.Load()
	if len(fields) == 0 {
		l.Log(context.Background(), level, msg)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	l.Log(context.Background(), level, msg, args...)
}

func Debug(msg string, fields Fields) {
	output(slog.LevelDebug, msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(slog.LevelInfo, msg, fields)
}

func Warn(msg string, fields Fields) {
	output(slog.LevelWarn, msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(slog.LevelError, msg, withErr(fields, err))
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output(slog.LevelError, msg, withErr(fields, err))
	os.Exit(1)
}

func withErr(fields Fields, err error) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
