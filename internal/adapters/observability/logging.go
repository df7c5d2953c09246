package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// APP_ENV=dev (or development) uses a human-friendly console writer at debug level;
// anything else logs JSON at info level.
func NewLogger(env string) zerolog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, out io.Writer) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
