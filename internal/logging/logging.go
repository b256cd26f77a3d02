// README: Structured logger construction (zerolog) shared by all services.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Format "console" is for local
// development; everything else emits JSON.
func New(service, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out = os.Stdout
	logger := zerolog.New(out)
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return logger.With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(lvl)
}
