package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/okjk/jekyllctl/internal/config"
)

func flagNames(flags []urfavecli.Flag) []string {
	names := make([]string, 0, len(flags))
	for _, f := range flags {
		names = append(names, f.Names()[0])
	}
	return names
}

func TestGlobalFlags(t *testing.T) {
	names := flagNames(globalFlags())
	assert.Contains(t, names, "blog-root")
	assert.Contains(t, names, "config-file")
	assert.Contains(t, names, "debug-log")
	assert.Contains(t, names, "theme")
	assert.Contains(t, names, "listen")
}

func TestSubcommandsWired(t *testing.T) {
	commands := []*urfavecli.Command{
		serveCommand(),
		dashboardCommand(),
		statusCommand(),
		pushCommand(),
	}
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		require.NotNil(t, c.Action, "%s has no action", c.Name)
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"serve", "dashboard", "status", "push"}, names)
}

func TestPushCommandMessageFlag(t *testing.T) {
	names := flagNames(pushCommand().Flags)
	assert.Contains(t, names, "message")
}

func TestServeCommandWithSiteFlag(t *testing.T) {
	names := flagNames(serveCommand().Flags)
	assert.Contains(t, names, "with-site")
}

func TestWaitForAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/git/status", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, waitForAPI(srv.URL, time.Second))
	assert.False(t, waitForAPI("http://127.0.0.1:1", 200*time.Millisecond))
}

func TestEnsureServerBindsAndStops(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BlogRoot = t.TempDir()
	cfg.ListenAddr = "127.0.0.1:0"

	stop, err := ensureServer(cfg)
	require.NoError(t, err)
	stop()
}
