package main

import (
	"time"

	"github.com/tinytelemetry/quickstart/internal/model"
)

const (
	defaultBindHost         = "127.0.0.1"
	defaultAPIPort          = 3000
	defaultMode             = model.ModeStandard
	defaultRefreshInterval  = model.DefaultRefreshInterval
	defaultLogLevel         = "info"
	defaultHistoryRetention = 90 // days, 0 = disabled
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	HistoryPath      string        `mapstructure:"history-path"`
	HistoryRetention int           `mapstructure:"history-retention"`
	JournalEnabled   bool          `mapstructure:"journal-enabled"`
	JournalPath      string        `mapstructure:"journal-path"`
	MessagesPath     string        `mapstructure:"messages-path"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	SocketPath       string        `mapstructure:"socket-path"`
	Mode             model.Mode    `mapstructure:"mode"`
	RefreshInterval  time.Duration `mapstructure:"refresh-interval"`
	LogLevel         string        `mapstructure:"log-level"`
	LogDir           string        `mapstructure:"log-dir"`
	Options          model.Options `mapstructure:",squash"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}
