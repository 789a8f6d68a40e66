package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rag-context-service/internal/config"

	"github.com/getsentry/sentry-go"
)

var Logger *slog.Logger

// InitLogger initializes structured logging based on configuration.
// With USE_JSON_LOGGING the output is slog's JSON handler, otherwise text.
// LOG_FILE, when set, receives a copy of every record.
func InitLogger(cfg *config.Config) error {
	level := parseLevel(cfg.LogLevel)

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.GinMode == "debug", // Only add source in debug mode
	}

	var handler slog.Handler
	if cfg.UseJSONLogging {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	Logger = slog.New(handler)

	Logger.Info("Structured logging initialized", "level", level.String(), "json", cfg.UseJSONLogging)
	return nil
}

// InitSentry enables error tracking when SENTRY_DSN is configured.
// Returns a flush function for deferred shutdown.
func InitSentry(cfg *config.Config) (func(), error) {
	if cfg.SentryDSN == "" {
		Warn("SENTRY_DSN not configured, Sentry disabled")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		TracesSampleRate: 1.0,
		Environment:      cfg.GinMode,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init failed: %w", err)
	}

	Info("Sentry error tracking enabled")
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports an error to Sentry (no-op when disabled) and logs it.
func CaptureError(err error, msg string, args ...any) {
	Error(msg, append(args, "error", err)...)
	sentry.CaptureException(err)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions for common log operations
func Info(msg string, args ...any) {
	if Logger != nil {
		Logger.Info(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Logger != nil {
		Logger.Error(msg, args...)
	}
}

func Debug(msg string, args ...any) {
	if Logger != nil {
		Logger.Debug(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if Logger != nil {
		Logger.Warn(msg, args...)
	}
}
