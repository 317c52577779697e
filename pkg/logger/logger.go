package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the default slog logger. logFile may be "stdout",
// "stderr", or a file path; the file is appended to so repeated CI runs
// keep their history.
func Setup(logLevel string, logFile string) *slog.Logger {
	var logWriter io.Writer = os.Stdout
	handlerOptions := &slog.HandlerOptions{Level: getLogLevel(logLevel)}

	switch logFile {
	case "", "stdout":
	case "stderr":
		logWriter = os.Stderr
	default:
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- path provided via config.
		if err != nil {
			slog.Error("failed to open log file, falling back to stdout", "file", logFile, "error", err)
		} else {
			logWriter = file
		}
	}

	logger := slog.New(slog.NewTextHandler(logWriter, handlerOptions))
	slog.SetDefault(logger)
	return logger
}

func getLogLevel(logLevel string) slog.Level {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
