package utils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/lmittmann/tint"
)

// LogConfig selects the log level, output format and the optional Fluent
// Bit sink.
type LogConfig struct {
	Level   string
	Format  string
	NoColor bool

	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentTag     string
}

// Logger provides leveled printf-style logging on top of slog. Records at or
// above the configured level are also posted to Fluent Bit when enabled.
type Logger struct {
	slog   *slog.Logger
	level  slog.Level
	fluent *fluent.Fluent
	tag    string
}

// NewLogger creates an info-level Logger writing coloured text to stdout.
func NewLogger() *Logger {
	return NewLoggerWithConfig(LogConfig{Level: "info"})
}

// NewLoggerWithConfig builds a Logger from cfg. A Fluent connection failure
// is logged and the sink is skipped.
func NewLoggerWithConfig(cfg LogConfig) *Logger {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    cfg.NoColor,
		})
	}

	l := &Logger{slog: slog.New(handler), level: level, tag: cfg.FluentTag}
	if l.tag == "" {
		l.tag = "app"
	}

	if cfg.FluentEnabled {
		client, err := fluent.New(fluent.Config{
			FluentHost: cfg.FluentHost,
			FluentPort: cfg.FluentPort,
			TagPrefix:  "travel-scraper",
			Async:      true,
		})
		if err != nil {
			l.Warn("[logger] Fluent sink disabled: %v", err)
		} else {
			l.fluent = client
		}
	}
	return l
}

func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

// Close flushes the Fluent sink.
func (l *Logger) Close() error {
	if l == nil || l.fluent == nil {
		return nil
	}
	return l.fluent.Close()
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.slog.Log(context.Background(), level, msg)

	if l.fluent != nil && level >= l.level {
		_ = l.fluent.Post(l.tag, map[string]any{
			"level":   level.String(),
			"message": msg,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
