// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Verbose output is human readable and
// includes debug messages; otherwise only warnings and errors are written as JSON.
func New(w io.Writer, verbose bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}
