package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/models"
)

// TestDashboardSmoke runs the full program loop against a fake API: the
// badge loads, the commit dialog opens and submits, and 'q' exits cleanly.
func TestDashboardSmoke(t *testing.T) {
	api := &fakeAPI{
		status: dirtyStatus(),
		result: &models.CommitResult{
			Status:     models.CommitSuccess,
			CommitHash: "abc1234",
			PushResult: "ok",
		},
		posts: []*models.Post{
			{Title: "Hello", Date: "2024-08-01", Filename: "2024-08-01-hello.md", Path: "_posts/2024-08-01-hello.md"},
		},
	}
	cfg := config.DefaultConfig()
	cfg.BlogRoot = t.TempDir()
	cfg.AutoRefresh = false

	m := NewModel(cfg, api)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	// Let the initial refresh land.
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(200 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	fm := tm.FinalModel(t)
	final, ok := fm.(*Model)
	require.True(t, ok)
	final.Close()

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Equal(t, 1, api.commitCalls)
	require.GreaterOrEqual(t, api.statusCalls, 2)
}
