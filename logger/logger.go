package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	LOG_LEVEL_DEBUG = "DEBUG"
	LOG_LEVEL_INFO  = "INFO"
	LOG_LEVEL_WARN  = "WARN"
	LOG_LEVEL_ERROR = "ERROR"
	LOG_LEVEL_FATAL = "FATAL"
	LOG_LEVEL_PANIC = "PANIC"
	LOG_LEVEL_OFF   = "OFF"

	logLevelEnv = "POS_LOGLEVEL"
)

var output io.Writer = os.Stderr

func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// SetOutput redirects loggers created afterwards.
func SetOutput(w io.Writer) {
	output = w
}

func NewLogger(component string) zerolog.Logger {
	level, ok := os.LookupEnv(logLevelEnv)
	if !ok {
		level = LOG_LEVEL_INFO
	}

	return zerolog.New(output).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(ParseLevel(level))
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LOG_LEVEL_DEBUG:
		return zerolog.DebugLevel
	case LOG_LEVEL_WARN:
		return zerolog.WarnLevel
	case LOG_LEVEL_ERROR:
		return zerolog.ErrorLevel
	case LOG_LEVEL_FATAL:
		return zerolog.FatalLevel
	case LOG_LEVEL_PANIC:
		return zerolog.PanicLevel
	case LOG_LEVEL_OFF:
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}
