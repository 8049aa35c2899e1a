package logger_adapter

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"catalog-service/internal/core/port"

	"github.com/lmittmann/tint"
)

// SlogAdapter LoggerPort поверх log/slog
type SlogAdapter struct {
	logger *slog.Logger
	tinted bool
}

// SlogConfig для SlogAdapter
type SlogConfig struct {
	// Writer по умолчанию os.Stdout
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	// IsJSON имеет приоритет над UseColor
	IsJSON   bool
	UseColor bool
}

func NewSlogAdapter(cfg SlogConfig) *SlogAdapter {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level}

	var handler slog.Handler
	tinted := false
	switch {
	case cfg.IsJSON:
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case cfg.UseColor:
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
		tinted = true
	default:
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return &SlogAdapter{logger: slog.New(handler), tinted: tinted}
}

// ParseLevel "debug", "warn", "error", остальное info
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

// fieldsToAttrs ключи сортируются, чтобы строки лога были стабильными
func fieldsToAttrs(fields port.Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

func (a *SlogAdapter) Info(msg string, fields port.Fields) {
	a.logger.Info(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) Warn(msg string, fields port.Fields) {
	a.logger.Warn(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) Error(msg string, err error, fields port.Fields) {
	attrs := fieldsToAttrs(fields)
	if err != nil {
		if a.tinted {
			attrs = append(attrs, tint.Err(err))
		} else {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
	}
	a.logger.Error(msg, attrs...)
}

func (a *SlogAdapter) Debug(msg string, fields port.Fields) {
	a.logger.Debug(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &SlogAdapter{logger: a.logger.With(fieldsToAttrs(fields)...), tinted: a.tinted}
}
