package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okjk/jekyllctl/internal/models"
	"github.com/okjk/jekyllctl/internal/theme"
)

func testScreen(changes []models.ChangeEntry) *CommitScreen {
	return NewCommitScreen(changes, theme.Dracula(), false)
}

func TestCommitScreenViewListsChanges(t *testing.T) {
	s := testScreen([]models.ChangeEntry{
		{Status: models.ChangeModified, File: "_posts/2024-01-01-a.md"},
		{Status: models.ChangeUntracked, File: "assets/img/b.png"},
		{Status: models.ChangeDeleted, File: "old.md"},
	})

	view := s.View()
	assert.Contains(t, view, "Commit 3 change(s)")
	assert.Contains(t, view, "modified")
	assert.Contains(t, view, "untracked")
	assert.Contains(t, view, "deleted")
	assert.Contains(t, view, "_posts/2024-01-01-a.md")
}

func TestCommitScreenSubmitPassesTrimmedMessage(t *testing.T) {
	s := testScreen([]models.ChangeEntry{{Status: models.ChangeModified, File: "a.md"}})

	var submitted string
	s.OnSubmit = func(message string) tea.Cmd {
		submitted = message
		return nil
	}
	s.Input.SetValue("  my message  ")

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, next)
	assert.Equal(t, "my message", submitted)
}

func TestCommitScreenSubmittingRejectsEnter(t *testing.T) {
	s := testScreen([]models.ChangeEntry{{Status: models.ChangeModified, File: "a.md"}})

	called := false
	s.OnSubmit = func(string) tea.Cmd {
		called = true
		return nil
	}
	s.Submitting = true

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, next)
	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Contains(t, s.View(), "Committing...")
}

func TestCommitScreenEscCancels(t *testing.T) {
	s := testScreen([]models.ChangeEntry{{Status: models.ChangeModified, File: "a.md"}})

	cancelled := false
	s.OnCancel = func() tea.Cmd {
		cancelled = true
		return nil
	}

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next, "nil screen closes the dialog")
	assert.True(t, cancelled)
}

func TestCommitScreenTypingReachesInput(t *testing.T) {
	s := testScreen([]models.ChangeEntry{{Status: models.ChangeModified, File: "a.md"}})

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	require.NotNil(t, next)
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	require.NotNil(t, next)

	assert.Equal(t, "hi", next.Input.Value())
}
