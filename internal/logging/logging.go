// Package logging configures the process logger. Output goes to a rotating
// JSON file because the terminal belongs to the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how much is logged.
type Config struct {
	Level      string
	Dir        string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Console    bool
}

// Defaults fill zero fields of Config.
const (
	DefaultFile       = "quickstart.log"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Setup builds a logger writing to Dir/File with rotation. An empty Dir
// disables the file and logs to stderr only when Console is set; with
// neither, logs are discarded. The returned func flushes and closes the file.
func Setup(cfg Config) (*logrus.Logger, func() error, error) {
	log := logrus.New()

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	var (
		writers []io.Writer
		closer  = func() error { return nil }
	)
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, orDefault(cfg.File, DefaultFile)),
			MaxSize:    orDefaultInt(cfg.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefaultInt(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefaultInt(cfg.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   true,
		}
		writers = append(writers, rot)
		closer = rot.Close
	}
	if cfg.Console {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}
	return log, closer, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
