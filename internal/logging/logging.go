package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	LevelError = int(zerolog.ErrorLevel)
	LevelWarn  = int(zerolog.WarnLevel)
	LevelInfo  = int(zerolog.InfoLevel)
	LevelDebug = int(zerolog.DebugLevel)
)

type Config struct {
	Level  int
	Output io.Writer
}

// Logger is the leveled logger handed to tasks and the CLI.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(c Config) *Logger {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	w := zerolog.ConsoleWriter{Out: out}
	return &Logger{
		logger: zerolog.New(w).Level(zerolog.Level(c.Level)).With().Timestamp().Logger(),
	}
}

// Discard returns a logger that drops everything, for tasks constructed
// without an explicit logger and for tests.
func Discard() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}
