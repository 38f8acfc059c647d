package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New возвращает логгер для консоли, используется до загрузки конфигурации.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.InfoLevel)
}

func NewWithConfig(level string, pretty, noColor bool) zerolog.Logger {
	return newLogger(os.Stdout, level, pretty, noColor)
}

func newLogger(out io.Writer, level string, pretty, noColor bool) zerolog.Logger {
	var log zerolog.Logger

	if pretty {
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
		log = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log = zerolog.New(out).With().Timestamp().Str("service", "career-plan-service").Logger()
	}

	return log.Level(parseLevel(level))
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
