// Package logger provides structured logging using zerolog.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the shared logger. Request logs go through it too, so it
// writes to stderr and leaves stdout alone.
var Log = zerolog.New(consoleWriter()).
	Level(zerolog.InfoLevel).
	With().
	Timestamp().
	Logger()

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// SetLevel adjusts the logger's level. Unknown values keep info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	Log = Log.Level(parsed)
}

// SetJSON switches to machine-readable output for production,
// preserving the current level.
func SetJSON() {
	Log = zerolog.New(os.Stderr).
		Level(Log.GetLevel()).
		With().
		Timestamp().
		Logger()
}
