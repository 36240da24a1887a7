// Package logging provides the structured logger shared by the CLI and the
// bundling pipeline. It wraps zerolog; callers receive a *Logger explicitly
// rather than reaching for a global.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log output formats.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config controls the log level and output format.
type Config struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

type Logger struct {
	logger zerolog.Logger
}

// NewLogger returns a logger writing to w (stderr when nil). Level defaults
// to info; format defaults to JSON, with "pretty" selecting a console writer.
func NewLogger(c Config, w io.Writer) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if c.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(c.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q", c.Level)
		}
	}
	if c.Format == FormatPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{logger: l}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
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

// WithField returns a logger with an extra field attached to every entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}
