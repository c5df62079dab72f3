// Package ctxlog provides a context-based logger that can be used to log messages
// with different log levels. It uses the slog package for structured logging.
// The log level is read from the GHOP_LOG_LEVEL environment variable, which may
// be set to "DEBUG", "INFO", "WARN" or "ERROR"; any other value defaults to "WARN"
// so that engine chatter never mixes with command output.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// LogLevelEnvVar is the environment variable that controls the log level.
	LogLevelEnvVar = "GHOP_LOG_LEVEL"
	// LogFormatEnvVar selects the log output format. Set it to "json" for
	// machine-readable records; any other value keeps the console format.
	LogFormatEnvVar = "GHOP_LOG_FORMAT"
)

type loggerKey struct{}

// LevelVar holds the process-wide log level. It is shared by the default loggers
// so the level can be changed at runtime.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty console logger that is used if no logger is provided.
// It writes to stderr so that log output never interleaves with command output.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

// JSONLogger is a machine-readable logger sharing the same level variable.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New creates a new context with the given logger.
// If logger is nil, it uses the default logger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// NewForTUI creates a context whose logger writes to the given buffer instead of
// the terminal. Use it while a full-screen program owns the terminal; flush the
// buffer once the program has finished.
func NewForTUI(ctx context.Context, w io.Writer) context.Context {
	logger := slog.New(NewPrettyHandler(&slog.HandlerOptions{
		Level: LevelVar,
	},
		WithDestinationWriter(w),
	))

	return New(ctx, logger)
}

// FromEnv returns the logger selected by LogFormatEnvVar.
func FromEnv() *slog.Logger {
	if strings.EqualFold(os.Getenv(LogFormatEnvVar), "json") {
		return JSONLogger
	}

	return DefaultLogger
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func logLevelFromEnv() slog.Level {
	switch os.Getenv(LogLevelEnvVar) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
