// Package logging builds the structured logger threaded through every
// pipeline stage. Each stage binds a "component" field matching the
// bracketed-tag convention of the teacher's ad hoc logging
// ([STAGE 2], [WARNING]) without losing structure.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a console-friendly zerolog.Logger at the given level
// ("debug", "info", "warn", "error"; defaults to "info" on empty or
// unrecognized input).
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with the given pipeline
// component name, e.g. "crawler", "normalize", "enrich", "score".
func Component(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
