// pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(consoleWriter(os.Stdout))
	log.Logger = Log
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "stockcast").
		Caller().
		Logger()
}

// Configure switches the output format ("json" or "console") and level,
// writing to stdout.
func Configure(format, levelStr string) {
	ConfigureOutput(os.Stdout, format, levelStr)
}

// ConfigureOutput is Configure with an explicit sink. The package-level
// zerolog/log logger follows Log so packages that log through it share the
// same sink.
func ConfigureOutput(out io.Writer, format, levelStr string) {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		Log = newLogger(out)
	} else {
		Log = newLogger(consoleWriter(out))
	}
	SetLevel(levelStr)
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}
