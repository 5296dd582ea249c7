package reveal

import (
	"log/slog"

	"ScratchReveal/internal/logging"
)

// SetLogger configures logging for the reveal engine, including the mask
// and input packages it drives. By default nothing is logged. Pass nil to
// restore that.
//
// Levels used:
//   - [slog.LevelDebug]: strokes, fade ticks, stale callbacks
//   - [slog.LevelInfo]: reveal triggered, mask asset applied
//   - [slog.LevelWarn]: mask asset failed to load
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
