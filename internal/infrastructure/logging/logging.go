// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level       string
	File        string // rotated JSON log file, in addition to stderr
	Development bool
}

// New returns a console logger in development and a JSON logger otherwise.
// The returned closer flushes and closes the rotated file, if any.
func New(opts Options) (zerolog.Logger, io.Closer) {
	var out io.Writer = os.Stderr
	if opts.Development {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, rotator)
		closer = rotator
	}

	return zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger(), closer
}

// ParseLevel falls back to info for unknown or empty levels.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
