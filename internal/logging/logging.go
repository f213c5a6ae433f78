// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for CLI use: human-readable console
// output on stderr, info level by default, debug when verbose, errors only
// when quiet. Verbose wins if both are set.
func Setup(verbose, quiet bool) {
	level := zerolog.InfoLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.ErrorLevel
	}

	log.Logger = New(os.Stderr).Level(level)
}

// New returns a console-writer logger on w. Library callers that want their
// own instance instead of the global one start here.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
