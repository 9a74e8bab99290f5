package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderBadge() string {
	if m.status == nil {
		return lipgloss.NewStyle().Foreground(m.thm.MutedFg).Render("checking...")
	}
	if m.status.Clean {
		return lipgloss.NewStyle().Foreground(m.thm.SuccessFg).Render("✓ clean")
	}
	word := "changes"
	if m.status.ChangeCount == 1 {
		word = "change"
	}
	return lipgloss.NewStyle().Foreground(m.thm.WarnFg).
		Render(fmt.Sprintf("● %d %s", m.status.ChangeCount, word))
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(m.thm.Accent).Render("jekyllctl")

	branch := ""
	if m.status != nil && m.status.Branch != "" {
		branch = lipgloss.NewStyle().Foreground(m.thm.Cyan).
			Render("⎇ " + m.status.Branch)
	}

	parts := []string{title}
	if branch != "" {
		parts = append(parts, branch)
	}
	parts = append(parts, m.renderBadge())
	return strings.Join(parts, "  ")
}

func (m *Model) renderFooter() string {
	return lipgloss.NewStyle().Foreground(m.thm.MutedFg).
		Render("c commit+push · r refresh · j/k navigate · q quit")
}

// View renders the dashboard, overlaying the commit dialog when open.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.commitScreen != nil {
		dialog := m.commitScreen.View()
		if m.width > 0 && m.height > 0 {
			dialog = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, dialog)
		}
		b.WriteString(dialog)
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(m.renderFooter())
	}

	if m.notifier.Active() {
		width := m.width
		if width <= 0 {
			width = 80
		}
		b.WriteString("\n")
		b.WriteString(m.notifier.Render(width, m.thm))
	}

	return b.String()
}
