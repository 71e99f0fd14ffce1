package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/socketrpc"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

var errUsage = errors.New("usage")

const usage = `usage: quickstart-ctl [flags] <command>

commands:
  active                 print the active page
  pages                  list pages and their state
  activate <page>        show a page
  press <trigger>        press a navigation trigger
  home                   return to the home page
  spiders                list pluggable spiders
  spider add <id> [name] register a spider
  spider rm <id>         unregister a spider
  options                print the current options
`

func main() {
	var configPath string
	var socketPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/quickstart/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to the quickstart service")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("Quick Start CLI - Control Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCtlConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to quickstart at %s: %v\nIs the quickstart service running?\n", cfg.SocketPath, err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(flag.Args(), client, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// controller is the remote panel as seen through the socket client.
type controller interface {
	Activate(id model.PageID) (model.PageID, error)
	ReturnHome() (model.PageID, error)
	Press(trigger string) (model.PageID, error)
	Active() (model.PageID, error)
	Pages() ([]model.PageStatus, error)
	AddSpider(id, name string) (bool, error)
	RemoveSpider(id string) (bool, error)
	Spiders() ([]model.SpiderInfo, error)
	Options() (model.Options, error)
}

func run(args []string, c controller, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "active":
		return printActive(out)(c.Active())

	case "activate":
		if len(rest) != 1 {
			return errUsage
		}
		return printActive(out)(c.Activate(model.PageID(rest[0])))

	case "press":
		if len(rest) != 1 {
			return errUsage
		}
		return printActive(out)(c.Press(rest[0]))

	case "home":
		return printActive(out)(c.ReturnHome())

	case "pages":
		pages, err := c.Pages()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tBUILT\tOVERRIDE\tACTIVE")
		for _, p := range pages {
			fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%v\n", p.ID, p.Label, p.Constructed, p.Override, p.Active)
		}
		return tw.Flush()

	case "spiders":
		spiders, err := c.Spiders()
		if err != nil {
			return err
		}
		for _, s := range spiders {
			fmt.Fprintf(out, "%s\t%s\n", s.ID(), s.Name())
		}
		return nil

	case "spider":
		return runSpider(rest, c, out)

	case "options":
		opts, err := c.Options()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	}
	return errUsage
}

func runSpider(args []string, c controller, out io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	var (
		changed bool
		err     error
	)
	switch args[0] {
	case "add":
		name := ""
		if len(args) > 2 {
			name = args[2]
		}
		changed, err = c.AddSpider(args[1], name)
	case "rm", "remove":
		changed, err = c.RemoveSpider(args[1])
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(out, "no change")
		return nil
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func printActive(out io.Writer) func(model.PageID, error) error {
	return func(id model.PageID, err error) error {
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, id)
		return err
	}
}
