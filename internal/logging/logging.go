// Package logging builds the structured logger used by the engine: a
// log/slog front end over a charmbracelet/log handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "heliacal"

// New returns a logger writing to w at the given level ("debug", "info",
// "warn" or "error"). An empty level means info.
func New(w io.Writer, level string) (*slog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}
