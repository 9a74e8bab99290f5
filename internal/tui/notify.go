package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/okjk/jekyllctl/internal/theme"
)

// Notification severities.
const (
	severityInfo    = "info"
	severitySuccess = "success"
	severityWarning = "warning"
	severityError   = "error"
)

const toastTTL = 5 * time.Second

type toast struct {
	message  string
	severity string
	shownAt  time.Time
}

// Notifier holds the visible toast stack. It is constructed once at startup
// and handed to whatever needs to raise notices; nothing reaches for shared
// globals.
type Notifier struct {
	toasts []toast
	now    func() time.Time
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

// Notify appends a toast.
func (n *Notifier) Notify(message, severity string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	n.toasts = append(n.toasts, toast{
		message:  message,
		severity: severity,
		shownAt:  n.now(),
	})
}

// Expire drops toasts past their lifetime and reports whether any remain.
func (n *Notifier) Expire() bool {
	cutoff := n.now().Add(-toastTTL)
	kept := n.toasts[:0]
	for _, t := range n.toasts {
		if t.shownAt.After(cutoff) {
			kept = append(kept, t)
		}
	}
	n.toasts = kept
	return len(n.toasts) > 0
}

// Active reports whether any toast is visible.
func (n *Notifier) Active() bool {
	return len(n.toasts) > 0
}

// Messages returns the visible toast texts, oldest first.
func (n *Notifier) Messages() []string {
	out := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		out = append(out, t.message)
	}
	return out
}

func severityColor(thm *theme.Theme, severity string) lipgloss.Color {
	switch severity {
	case severitySuccess:
		return thm.SuccessFg
	case severityWarning:
		return thm.WarnFg
	case severityError:
		return thm.ErrorFg
	default:
		return thm.Cyan
	}
}

// Render draws the toast stack, wrapped to width.
func (n *Notifier) Render(width int, thm *theme.Theme) string {
	if len(n.toasts) == 0 {
		return ""
	}
	if width < 20 {
		width = 20
	}

	lines := make([]string, 0, len(n.toasts))
	for _, t := range n.toasts {
		style := lipgloss.NewStyle().Foreground(severityColor(thm, t.severity))
		lines = append(lines, style.Render(wordwrap.String(t.message, width-2)))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(thm.Border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
