package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/quickstart/internal/history"
	"github.com/tinytelemetry/quickstart/internal/httpserver"
	"github.com/tinytelemetry/quickstart/internal/journal"
	"github.com/tinytelemetry/quickstart/internal/logging"
	"github.com/tinytelemetry/quickstart/internal/quickstart"
	"github.com/tinytelemetry/quickstart/internal/resource"
	"github.com/tinytelemetry/quickstart/internal/socketrpc"
	"github.com/tinytelemetry/quickstart/internal/tui"
)

// runServer builds the panel, exposes it over HTTP and the socket, and runs
// the terminal UI unless headless is set.
func runServer(cfg appConfig, headless bool) error {
	log, closeLog, err := logging.Setup(logging.Config{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Console: headless,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	bundle, err := resource.Load(cfg.MessagesPath)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to open target history: %w", err)
	}
	defer store.Close()
	if schema := store.Schema(); len(schema.Applied) > 0 {
		log.WithFields(logrus.Fields{
			"version": schema.Version,
			"applied": schema.Applied,
		}).Info("target history schema upgraded")
	}

	if cleaner := history.NewRetentionCleaner(store, history.RetentionConfig{
		RetentionDays: cfg.HistoryRetention,
		Logger:        log,
	}); cleaner != nil {
		defer cleaner.Stop()
	}

	opts := cfg.Options
	var optionsJournal *journal.Journal
	if cfg.JournalEnabled {
		optionsJournal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open options journal: %w", err)
		}
		defer optionsJournal.Close()
		if latest, ok := optionsJournal.Latest(); ok {
			opts = latest
			log.Info("restored options from journal")
		}
	}

	panelCfg := quickstart.Config{
		Resources: bundle,
		History:   store,
		Mode:      cfg.Mode,
		Logger:    log,
	}
	// A nil *journal.Journal must not become a non-nil interface.
	if optionsJournal != nil {
		panelCfg.Journal = optionsJournal
	}
	panel, err := quickstart.NewPanel(panelCfg)
	if err != nil {
		return fmt.Errorf("failed to build panel: %w", err)
	}
	panel.OptionsLoaded(opts)

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, panel, log)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	sockServer := socketrpc.NewServer(cfg.SocketPath, panel, log)
	if err := sockServer.Start(); err != nil {
		log.WithError(err).Warn("socket server not started")
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		log.Info("shutting down")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nForce shutdown.")
		case <-deadline.C:
			fmt.Fprintln(os.Stderr, "Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	g, gctx := errgroup.WithContext(ctx)

	if headless {
		printStartupBanner(cfg)
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})
	} else {
		g.Go(func() error {
			defer cancel()
			return runTUI(gctx, panel, cfg, log)
		})
	}

	return g.Wait()
}

func runTUI(ctx context.Context, panel *quickstart.Panel, cfg appConfig, log logrus.FieldLogger) error {
	app := tui.NewApp(panel, cfg.RefreshInterval)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal (try -headless)")
		}
		log.WithError(err).Error("tui exited")
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗ ╦ ╦╦╔═╗╦╔═  ╔═╗╔╦╗╔═╗╦═╗╔╦╗
    ║═╬╗║ ║║║  ╠╩╗  ╚═╗ ║ ╠═╣╠╦╝ ║
    ╚═╝╚╚═╝╩╚═╝╩ ╩  ╚═╝ ╩ ╩ ╩╩╚═ ╩`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"), "")
	lines = append(lines, fmt.Sprintf("    %s  Target History %s", check, dim.Render(shortenPath(cfg.HistoryPath))))
	if cfg.JournalEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Options Journal %s", check, dim.Render(shortenPath(cfg.JournalPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Options Journal %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Runtime"), "")
	lines = append(lines, fmt.Sprintf("    %s  Mode           %s", check, dim.Render(string(cfg.Mode))))
	lines = append(lines, fmt.Sprintf("    %s  Proxy          %s", check, dim.Render(cfg.Options.Proxy.Addr())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
