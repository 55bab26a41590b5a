// Package logging builds the gommon loggers used across the simulator. All
// loggers made from one Sink share its level and writers, so a rotated log
// file is opened exactly once.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = "${time_rfc3339} ${level} ${prefix} ${short_file}:${line}"

type Sink struct {
	w     io.Writer
	level log.Lvl
	file  *lumberjack.Logger
}

// NewSink returns a sink logging at level to stderr and, if file is not
// empty, to a size-rotated file as well.
func NewSink(level, file string) (*Sink, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	s := &Sink{w: os.Stderr, level: lvl}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		s.file = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    32, // MB
			MaxBackups: 3,
			MaxAge:     14,
		}
		s.w = io.MultiWriter(os.Stderr, s.file)
	}
	return s, nil
}

func (s *Sink) Logger(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetOutput(s.w)
	l.SetLevel(s.level)
	l.SetHeader(header)
	return l
}

func (s *Sink) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// Discard returns a logger that drops everything; used by tests and as the
// fallback for nil loggers.
func Discard(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

func ParseLevel(level string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("%s: invalid log level", level)
	}
}
