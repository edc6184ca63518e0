package cmd

import (
	"io"
	"log/slog"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/wordpack/pkg/config"
)

// newLogger builds the CLI logger. Every record carries the invocation's run
// id so that lines from one run can be grouped.
func newLogger(w io.Writer, cfg config.Logging) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("run_id", ksuid.New().String())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
