// Package logger configures the process-wide slog default.
package logger

import (
	"log/slog"
	"os"
)

// Init installs a text handler on stdout as the slog default. DEBUG=true
// lowers the level so per-item skip decisions become visible.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}
