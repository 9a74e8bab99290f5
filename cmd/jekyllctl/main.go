// Package main is the entry point for the jekyllctl application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/okjk/jekyllctl/internal/buildinfo"
	"github.com/okjk/jekyllctl/internal/client"
	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/log"
	"github.com/okjk/jekyllctl/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	urfavecli.VersionPrinter = func(*urfavecli.Context) {
		fmt.Printf("jekyllctl version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n",
			buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy())
	}

	cliApp := &urfavecli.App{
		Name:                 "jekyllctl",
		Usage:                "Local admin tool for a Jekyll blog",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			serveCommand(),
			dashboardCommand(),
			statusCommand(),
			pushCommand(),
		},

		Action: runDashboard,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// setup wires debug logging, loads config, and applies flag overrides. It is
// shared by every command.
func setup(c *urfavecli.Context) *config.AppConfig {
	if debugLog := c.String("debug-log"); debugLog != "" {
		path := debugLog
		if expanded, err := config.ExpandPath(debugLog); err == nil {
			path = expanded
		}
		if err := log.SetFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			path := cfg.DebugLog
			if expanded, err := config.ExpandPath(cfg.DebugLog); err == nil {
				path = expanded
			}
			if err := log.SetFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", path, err)
			}
		} else {
			// No debug log configured, discard any buffered logs.
			_ = log.SetFile("")
		}
	}

	if root := c.String("blog-root"); root != "" {
		if expanded, err := config.ExpandPath(root); err == nil {
			cfg.BlogRoot = expanded
		} else {
			cfg.BlogRoot = root
		}
	}
	if themeName := c.String("theme"); themeName != "" {
		cfg.Theme = themeName
	}
	if addr := c.String("listen"); addr != "" {
		cfg.ListenAddr = addr
		cfg.AdminURL = "http://" + addr
	}

	return cfg
}

// runDashboard is the default action that launches the TUI when no
// subcommand is given.
func runDashboard(c *urfavecli.Context) error {
	cfg := setup(c)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_ = log.Close()
		return fmt.Errorf("not a terminal; use `jekyllctl status` or `jekyllctl serve`")
	}

	stop, err := ensureServer(cfg)
	if err != nil {
		_ = log.Close()
		return err
	}
	defer stop()

	api := client.New(cfg.AdminURL)
	model := tui.NewModel(cfg, api)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		_ = log.Close()
		return err
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}
