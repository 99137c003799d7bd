package cli

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a logger writing human-readable lines to w.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", "hbs").
		Logger()
}

// logLevel picks the level from --log-level, lowered to debug by --debug.
func logLevel(debug bool, name string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, err
	}

	if debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	return level, nil
}
