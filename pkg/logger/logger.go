// pkg/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Fields carries structured data attached to a log entry.
type Fields map[string]interface{}

// Logger is the logging contract used across the service.
type Logger interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)
	// WithFields returns a logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

// Config selects the stdout handler.
type Config struct {
	// Writer defaults to os.Stdout.
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	JSON      bool
	Color     bool
}

// SlogLogger writes through log/slog, colored by tint unless JSON is set.
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a stdout logger.
func New(cfg Config) *SlogLogger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level}

	var handler slog.Handler
	switch {
	case cfg.JSON:
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case cfg.Color:
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return &SlogLogger{logger: slog.New(handler)}
}

func toAttrs(fields Fields) []any {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *SlogLogger) Info(msg string, fields Fields) {
	l.logger.Info(msg, toAttrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields Fields) {
	l.logger.Warn(msg, toAttrs(fields)...)
}

func (l *SlogLogger) Error(msg string, err error, fields Fields) {
	attrs := toAttrs(fields)
	if err != nil {
		attrs = append(attrs, tint.Err(err))
	}
	l.logger.Error(msg, attrs...)
}

func (l *SlogLogger) Debug(msg string, fields Fields) {
	l.logger.Debug(msg, toAttrs(fields)...)
}

func (l *SlogLogger) WithFields(fields Fields) Logger {
	return &SlogLogger{logger: l.logger.With(toAttrs(fields)...)}
}

// ParseLevel maps a config string to a slog level. Unknown values give info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
