package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/content"
	"github.com/okjk/jekyllctl/internal/git"
	"github.com/okjk/jekyllctl/internal/log"
	"github.com/okjk/jekyllctl/internal/models"
	"github.com/okjk/jekyllctl/internal/server"
	"github.com/okjk/jekyllctl/internal/supervisor"
)

func newGitService(cfg *config.AppConfig) *git.Service {
	return git.NewService(cfg.BlogRoot,
		git.WithRemote(cfg.Remote),
		git.WithContentDirs(cfg.PostsDir, cfg.DraftsDir, cfg.AssetsDir),
	)
}

func newServer(cfg *config.AppConfig) (*server.Server, error) {
	return server.New(cfg, content.NewStore(cfg), newGitService(cfg))
}

// ensureServer makes the admin API reachable for the dashboard: it tries to
// bind the configured address in-process, and if the port is taken checks
// that a separate `jekyllctl serve` already answers there.
func ensureServer(cfg *config.AppConfig) (func(), error) {
	srv, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	if serveErr := srv.Serve(); serveErr != nil {
		log.Printf("embedded server not started, probing for external serve: %v", serveErr)
		if !waitForAPI(cfg.AdminURL, 2*time.Second) {
			return nil, fmt.Errorf("admin API unavailable at %s: %w", cfg.AdminURL, serveErr)
		}
		return func() {}, nil
	}
	return func() { _ = srv.Stop() }, nil
}

func serveCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "serve",
		Usage: "Run the admin API server",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "with-site",
				Usage: "Also run the static-site generator alongside the admin server",
			},
		},
		Action: handleServeAction,
	}
}

func handleServeAction(c *urfavecli.Context) error {
	cfg := setup(c)
	defer func() { _ = log.Close() }()

	if !git.GitAvailable() {
		fmt.Fprintln(os.Stderr, "warning: git not found in PATH; the git endpoints will fail")
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var site *supervisor.Supervisor
	if c.Bool("with-site") {
		site = supervisor.New(cfg.SiteCommand, cfg.BlogRoot)
		if err := site.Start(ctx); err != nil {
			return fmt.Errorf("start site generator: %w", err)
		}
		fmt.Printf("site generator: %s\n", cfg.SiteCommand)
	}

	fmt.Printf("admin server on http://%s (blog root %s)\n", cfg.ListenAddr, cfg.BlogRoot)
	err = srv.Start(ctx)

	if site != nil {
		if werr := site.Wait(); werr != nil {
			fmt.Fprintf(os.Stderr, "site generator: %v\n", werr)
		}
	}
	return err
}

func dashboardCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "dashboard",
		Usage:  "Open the TUI dashboard (the default action)",
		Action: runDashboard,
	}
}

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "status",
		Usage: "Print repository status",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "json",
				Usage: "Output status as JSON",
			},
		},
		Action: handleStatusAction,
	}
}

func handleStatusAction(c *urfavecli.Context) error {
	cfg := setup(c)
	defer func() { _ = log.Close() }()

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	status, err := newGitService(cfg).Status(ctx)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if status.Branch != "" {
		fmt.Printf("branch: %s\n", status.Branch)
	}
	if status.Clean {
		fmt.Println("clean")
		return nil
	}
	for _, change := range status.Changes {
		fmt.Printf("%-9s %s\n", change.Status, change.File)
	}
	return nil
}

func pushCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "push",
		Usage: "Stage everything, commit, and push",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Commit message (default is synthesized from the staged files)",
			},
		},
		Action: handlePushAction,
	}
}

func handlePushAction(c *urfavecli.Context) error {
	cfg := setup(c)
	defer func() { _ = log.Close() }()

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()

	result := newGitService(cfg).CommitAndPush(ctx, strings.TrimSpace(c.String("message")))
	switch result.Status {
	case models.CommitSuccess:
		fmt.Printf("committed %s and pushed\n", result.CommitHash)
		return nil
	case models.CommitNothing:
		fmt.Println("nothing to commit")
		return nil
	case models.CommitPushFailed:
		return fmt.Errorf("committed %s but push failed: %s", result.CommitHash, result.PushResult)
	default:
		return fmt.Errorf("commit failed: %s", result.Detail)
	}
}

// waitForAPI polls the admin API until it answers or the deadline passes.
func waitForAPI(baseURL string, deadline time.Duration) bool {
	hc := &http.Client{Timeout: time.Second}
	until := time.Now().Add(deadline)
	for time.Now().Before(until) {
		resp, err := hc.Get(baseURL + "/api/git/status")
		if err == nil {
			resp.Body.Close()
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
