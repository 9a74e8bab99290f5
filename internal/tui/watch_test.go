package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okjk/jekyllctl/internal/config"
)

func watchConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BlogRoot = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.PostsPath(), 0o750))
	require.NoError(t, os.MkdirAll(cfg.DraftsPath(), 0o750))
	require.NoError(t, os.MkdirAll(cfg.AssetsPath(), 0o750))
	return cfg
}

func TestWatchStartAndStop(t *testing.T) {
	cfg := watchConfig(t)
	w := NewContentWatch()

	started, err := w.Start(cfg)
	require.NoError(t, err)
	require.True(t, started)
	assert.True(t, w.Started)
	assert.Len(t, w.Roots, 3)

	// Starting twice is a no-op.
	startedAgain, err := w.Start(cfg)
	require.NoError(t, err)
	assert.False(t, startedAgain)

	w.Stop()
	assert.False(t, w.Started)
}

func TestWatchDisabledByAutoRefresh(t *testing.T) {
	cfg := watchConfig(t)
	cfg.AutoRefresh = false

	w := NewContentWatch()
	started, err := w.Start(cfg)
	require.NoError(t, err)
	assert.False(t, started)
}

func TestWatchEventDelivery(t *testing.T) {
	cfg := watchConfig(t)
	w := NewContentWatch()
	started, err := w.Start(cfg)
	require.NoError(t, err)
	require.True(t, started)
	defer w.Stop()

	events := w.NextEvent()
	require.NotNil(t, events)

	// Arming twice without a reset returns nil.
	assert.Nil(t, w.NextEvent())

	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.PostsPath(), "2024-01-01-a.md"), []byte("x"), 0o600))

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("no watch event for a new post file")
	}

	w.ResetWaiting()
	assert.NotNil(t, w.NextEvent())
}

func TestShouldRefreshDebounces(t *testing.T) {
	w := NewContentWatch()
	now := time.Now()

	assert.True(t, w.ShouldRefresh(now))
	assert.False(t, w.ShouldRefresh(now.Add(100*time.Millisecond)))
	assert.True(t, w.ShouldRefresh(now.Add(watchDebounce+time.Millisecond)))
}

func TestSignalDoesNotBlockWhenFull(t *testing.T) {
	w := NewContentWatch()
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})

	w.Signal()
	w.Signal() // buffer already full; must not block
	assert.Len(t, w.Events, 1)
}

func TestIsUnderRoot(t *testing.T) {
	w := NewContentWatch()
	w.Roots = []string{"/blog/_posts", "/blog/assets"}

	assert.True(t, w.isUnderRoot("/blog/_posts"))
	assert.True(t, w.isUnderRoot("/blog/assets/img/a.png"))
	assert.False(t, w.isUnderRoot("/blog/_site/index.html"))
	assert.False(t, w.isUnderRoot("/blog/_postsx"))
}
