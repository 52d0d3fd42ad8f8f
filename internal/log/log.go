// Package log configures structured logging for sheetscope using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text slog handler writing to w as the default logger.
// A nil writer discards everything.
func Setup(w io.Writer, verbose bool) {
	if w == nil {
		w = io.Discard
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// OpenFile opens path for appending log output.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
