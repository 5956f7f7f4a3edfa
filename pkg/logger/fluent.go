package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig points at a Fluent Bit forward input.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
	Level     slog.Leveler
}

// FluentLogger posts every entry to Fluent Bit, tagged by level.
type FluentLogger struct {
	client   *fluent.Fluent
	fields   Fields
	minLevel slog.Level
}

func NewFluent(cfg FluentConfig) (*FluentLogger, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent: tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		// Connection errors surface on the first Post, not here.
		Async: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fluent: create client: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Level != nil {
		level = cfg.Level.Level()
	}

	return &FluentLogger{client: client, fields: Fields{}, minLevel: level}, nil
}

func (l *FluentLogger) merge(fields Fields) Fields {
	merged := make(Fields, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (l *FluentLogger) post(level slog.Level, tag, msg string, data Fields) {
	if level < l.minLevel {
		return
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	_ = l.client.Post(tag, data)
}

func (l *FluentLogger) Info(msg string, fields Fields) {
	l.post(slog.LevelInfo, "info", msg, l.merge(fields))
}

func (l *FluentLogger) Warn(msg string, fields Fields) {
	l.post(slog.LevelWarn, "warn", msg, l.merge(fields))
}

func (l *FluentLogger) Error(msg string, err error, fields Fields) {
	data := l.merge(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	l.post(slog.LevelError, "error", msg, data)
}

func (l *FluentLogger) Debug(msg string, fields Fields) {
	l.post(slog.LevelDebug, "debug", msg, l.merge(fields))
}

func (l *FluentLogger) WithFields(fields Fields) Logger {
	return &FluentLogger{client: l.client, fields: l.merge(fields), minLevel: l.minLevel}
}

func (l *FluentLogger) Close() error {
	return l.client.Close()
}
