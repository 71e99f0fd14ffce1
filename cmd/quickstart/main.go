package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/socketrpc"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool
	var headless bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/quickstart/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&headless, "headless", false, "serve the API and socket without the terminal UI")
	flag.Parse()

	if showVersion {
		fmt.Printf("Quick Start - View Host\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runServer(cfg, headless); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	// A .env next to the binary's working directory feeds the environment
	// before viper reads it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	stateDir := filepath.Join(home, ".local", "state", "quickstart")
	defaults := model.DefaultOptions()

	v := viper.New()
	v.SetEnvPrefix("QUICKSTART")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("history-path", filepath.Join(home, ".local", "share", "quickstart", "history.duckdb"))
	v.SetDefault("history-retention", defaultHistoryRetention)
	v.SetDefault("journal-enabled", true)
	v.SetDefault("journal-path", filepath.Join(stateDir, "options.jsonl"))
	v.SetDefault("messages-path", "")
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("mode", string(defaultMode))
	v.SetDefault("refresh-interval", defaultRefreshInterval)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-dir", stateDir)
	v.SetDefault("quickstart.default-url", defaults.QuickStart.DefaultURL)
	v.SetDefault("quickstart.max-history", defaults.QuickStart.MaxHistory)
	v.SetDefault("quickstart.ajax-spider", defaults.QuickStart.AjaxSpider)
	v.SetDefault("quickstart.learn-more-links", defaults.QuickStart.LearnMoreLinks)
	v.SetDefault("proxy.host", defaults.Proxy.Host)
	v.SetDefault("proxy.port", defaults.Proxy.Port)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "quickstart", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.Options.Proxy.Port <= 0 || cfg.Options.Proxy.Port > 65535 {
		return cfg, fmt.Errorf("invalid proxy.port: %d", cfg.Options.Proxy.Port)
	}
	if !cfg.Mode.Valid() {
		return cfg, fmt.Errorf("invalid mode: %q", cfg.Mode)
	}
	if cfg.RefreshInterval <= 0 {
		return cfg, fmt.Errorf("invalid refresh-interval: %s", cfg.RefreshInterval)
	}

	cfg.HistoryPath = expandHome(cfg.HistoryPath, home)
	cfg.JournalPath = expandHome(cfg.JournalPath, home)
	cfg.MessagesPath = expandHome(cfg.MessagesPath, home)
	cfg.LogDir = expandHome(cfg.LogDir, home)

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
