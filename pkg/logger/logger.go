// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds a text-handler logger at the given level, writing to the
// named file or to stdout when logFile is empty or "stdout", and installs
// it as the slog default.
func Setup(logLevel string, logFile string) *slog.Logger {
	logWriter := os.Stdout
	handlerOptions := &slog.HandlerOptions{Level: getLogLevel(logLevel)}

	if logFile != "" && logFile != "stdout" {
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- path is provided via config.
		if err != nil {
			slog.Error("failed to open log file", "file", logFile, "error", err)
			os.Exit(1)
		}
		logWriter = file
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
