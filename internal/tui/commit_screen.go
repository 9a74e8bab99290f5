package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okjk/jekyllctl/internal/models"
	"github.com/okjk/jekyllctl/internal/theme"
)

const commitBoxWidth = 72

// CommitScreen is the modal review dialog: the pending change list in
// backend order plus an optional commit message input.
type CommitScreen struct {
	Changes  []models.ChangeEntry
	Input    textinput.Model
	Viewport viewport.Model
	Thm      *theme.Theme
	Icons    bool

	// Submitting mirrors the commit-in-flight guard; while set, the
	// screen rejects further submissions and shows the trigger disabled.
	Submitting bool

	OnSubmit func(message string) tea.Cmd
	OnCancel func() tea.Cmd
}

// NewCommitScreen builds the review dialog for the given change list.
func NewCommitScreen(changes []models.ChangeEntry, thm *theme.Theme, icons bool) *CommitScreen {
	ti := textinput.New()
	ti.Placeholder = "Commit message (blank for auto)"
	ti.Focus()
	ti.CharLimit = 200
	ti.Prompt = ""
	ti.Width = commitBoxWidth - 8
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)

	height := len(changes)
	if height > 12 {
		height = 12
	}
	vp := viewport.New(commitBoxWidth-4, height)

	s := &CommitScreen{
		Changes:  changes,
		Input:    ti,
		Viewport: vp,
		Thm:      thm,
		Icons:    icons,
	}
	s.Viewport.SetContent(s.renderChanges())
	return s
}

func statusStyleColor(thm *theme.Theme, status string) lipgloss.Color {
	switch status {
	case models.ChangeAdded, models.ChangeUntracked:
		return thm.SuccessFg
	case models.ChangeDeleted:
		return thm.ErrorFg
	case models.ChangeRenamed:
		return thm.Cyan
	default:
		return thm.WarnFg
	}
}

func (s *CommitScreen) renderChanges() string {
	rows := make([]string, 0, len(s.Changes))
	for _, c := range s.Changes {
		tag := lipgloss.NewStyle().
			Foreground(statusStyleColor(s.Thm, c.Status)).
			Render(fmt.Sprintf("%-9s", c.Status))
		file := c.File
		if s.Icons {
			if icon := deviconForName(c.File); icon != "" {
				file = icon + " " + file
			}
		}
		rows = append(rows, fmt.Sprintf("%s %s", tag, file))
	}
	return strings.Join(rows, "\n")
}

// Update handles keys for the dialog. Returning a nil screen closes it.
func (s *CommitScreen) Update(msg tea.KeyMsg) (*CommitScreen, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case "enter":
		if s.Submitting {
			return s, nil
		}
		if s.OnSubmit != nil {
			return s, s.OnSubmit(strings.TrimSpace(s.Input.Value()))
		}
		return s, nil
	case "ctrl+d":
		s.Viewport.HalfPageDown()
		return s, nil
	case "ctrl+u":
		s.Viewport.HalfPageUp()
		return s, nil
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the dialog.
func (s *CommitScreen) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(s.Thm.Accent).
		Render(fmt.Sprintf("Commit %d change(s)", len(s.Changes)))

	label := lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Render("Message:")
	help := lipgloss.NewStyle().Foreground(s.Thm.MutedFg).
		Render("enter commit+push · esc cancel · ctrl+u/d scroll")
	if s.Submitting {
		help = lipgloss.NewStyle().Foreground(s.Thm.WarnFg).Render("Committing...")
	}

	body := strings.Join([]string{
		title,
		"",
		s.Viewport.View(),
		"",
		label,
		s.Input.View(),
		"",
		help,
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(0, 1).
		Width(commitBoxWidth).
		Render(body)
}
