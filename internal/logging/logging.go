package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs a process-wide slog default at the given level, writing
// to os.Stderr unless a non-nil w is supplied. format selects the
// handler: "json" for structured output, anything else falls back to
// slog's text handler. Every CLI command and the MCP server call this
// once, early, before doing any work worth logging.
func Init(level slog.Level, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns the default logger tagged with component, so log lines
// from different parts of the program (a CLI command, an MCP handler)
// stay attributable to their source without each one repeating it.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}
