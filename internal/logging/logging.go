package logging

import (
	"io"
	"log/slog"
)

// NewStructuredLogger creates a slog.Logger writing text-formatted records
// at the given level to w.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SafeCloseWithLogging closes c and logs any close error instead of
// discarding it. Meant for defer sites where the error has nowhere to go.
func SafeCloseWithLogging(c io.Closer, logger *slog.Logger, resource string) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource",
			slog.String("resource", resource),
			slog.Any("error", err))
	}
}
