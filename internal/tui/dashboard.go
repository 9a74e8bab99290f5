// Package tui implements the jekyllctl dashboard: a status badge kept
// fresh by polling, a post listing, and the commit review flow.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/log"
	"github.com/okjk/jekyllctl/internal/models"
	"github.com/okjk/jekyllctl/internal/theme"
)

// API is the slice of the admin client the dashboard consumes.
type API interface {
	Status(ctx context.Context) (*models.RepoStatus, error)
	CommitPush(ctx context.Context, message string) (*models.CommitResult, error)
	Posts(ctx context.Context) ([]*models.Post, error)
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	cfg      *config.AppConfig
	thm      *theme.Theme
	api      API
	notifier *Notifier
	ctx      context.Context

	width  int
	height int

	// status is the last successfully fetched snapshot; poll failures
	// leave it untouched so the badge never flickers on a hiccup.
	status *models.RepoStatus

	posts []*models.Post
	table table.Model

	commitScreen *CommitScreen
	// commitInFlight is the single-flight guard for the commit-push
	// action: a second submission while one is outstanding is rejected.
	commitInFlight bool

	toastTicking bool
	watch        *ContentWatch
}

// NewModel constructs the dashboard.
func NewModel(cfg *config.AppConfig, api API) *Model {
	thm := theme.ByName(cfg.Theme)

	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Title", Width: 40},
		{Title: "State", Width: 9},
		{Title: "Path", Width: 34},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return &Model{
		cfg:      cfg,
		thm:      thm,
		api:      api,
		notifier: NewNotifier(),
		ctx:      context.Background(),
		table:    tbl,
		watch:    NewContentWatch(),
	}
}

// Close releases background resources. Call after the program exits.
func (m *Model) Close() {
	m.watch.Stop()
}

func (m *Model) pollInterval() time.Duration {
	interval := time.Duration(m.cfg.PollIntervalSeconds) * time.Second
	if interval < time.Second {
		return time.Second
	}
	return interval
}

// Init triggers an immediate status refresh, then the fixed polling loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshStatus(),
		m.loadPosts(),
		m.pollTick(),
		m.startWatcher(),
	)
}

func (m *Model) refreshStatus() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		status, err := api.Status(ctx)
		if err != nil {
			return statusFailedMsg{err: err}
		}
		return statusLoadedMsg{status: status}
	}
}

func (m *Model) loadPosts() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		posts, err := api.Posts(ctx)
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(m.pollInterval(), func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m *Model) toastTick() tea.Cmd {
	if m.toastTicking || !m.notifier.Active() {
		return nil
	}
	m.toastTicking = true
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

func (m *Model) startWatcher() tea.Cmd {
	started, err := m.watch.Start(m.cfg)
	if err != nil {
		log.Printf("content watcher unavailable: %v", err)
		return nil
	}
	if !started {
		return nil
	}
	return m.waitForWatchEvent()
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-events
		if !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

// openCommitDialog queries status before opening the review dialog so a
// clean tree short-circuits into a notice.
func (m *Model) openCommitDialog() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		status, err := api.Status(ctx)
		return commitDialogStatusMsg{status: status, err: err}
	}
}

// submitCommit starts the commit-push action under the single-flight guard.
func (m *Model) submitCommit(message string) tea.Cmd {
	if m.commitInFlight {
		m.notifier.Notify("A commit is already in progress", severityWarning)
		return m.toastTick()
	}
	m.commitInFlight = true
	if m.commitScreen != nil {
		m.commitScreen.Submitting = true
	}

	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		result, err := api.CommitPush(ctx, message)
		if err != nil {
			return commitDoneMsg{err: err}
		}
		return commitDoneMsg{result: result}
	}
}

// Update is the message loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		return m, tea.Batch(m.refreshStatus(), m.pollTick())

	case toastTickMsg:
		m.toastTicking = false
		if m.notifier.Expire() {
			return m, m.toastTick()
		}
		return m, nil

	case statusLoadedMsg:
		m.status = msg.status
		return m, nil

	case statusFailedMsg:
		// Best-effort background signal: keep the previous badge.
		log.Printf("status poll failed: %v", msg.err)
		return m, nil

	case postsLoadedMsg:
		return m.handlePostsLoaded(msg)

	case commitDialogStatusMsg:
		return m.handleCommitDialogStatus(msg)

	case commitDoneMsg:
		return m.handleCommitDone(msg)

	case watchEventMsg:
		m.watch.ResetWaiting()
		var cmds []tea.Cmd
		if m.watch.ShouldRefresh(time.Now()) {
			cmds = append(cmds, m.refreshStatus(), m.loadPosts())
		}
		cmds = append(cmds, m.waitForWatchEvent())
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commitScreen != nil {
		var cmd tea.Cmd
		m.commitScreen, cmd = m.commitScreen.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, tea.Batch(m.refreshStatus(), m.loadPosts())
	case "c":
		if m.commitInFlight {
			m.notifier.Notify("A commit is already in progress", severityWarning)
			return m, m.toastTick()
		}
		return m, m.openCommitDialog()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handlePostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("post listing failed: %v", msg.err)
		return m, nil
	}
	m.posts = msg.posts

	rows := make([]table.Row, 0, len(msg.posts))
	for _, p := range msg.posts {
		state := "published"
		if p.IsDraft {
			state = "draft"
		}
		title := p.Title
		if m.cfg.ShowIcons {
			if icon := deviconForName(p.Filename); icon != "" {
				title = icon + " " + title
			}
		}
		rows = append(rows, table.Row{p.Date, title, state, p.Path})
	}
	m.table.SetRows(rows)
	return m, nil
}

func (m *Model) handleCommitDialogStatus(msg commitDialogStatusMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notifier.Notify(fmt.Sprintf("Status check failed: %v", msg.err), severityError)
		return m, m.toastTick()
	}

	// Keep the badge honest with whatever we just learned.
	m.status = msg.status

	if msg.status.Clean {
		m.notifier.Notify("Working tree is clean, nothing to commit", severityInfo)
		return m, m.toastTick()
	}

	screen := NewCommitScreen(msg.status.Changes, m.thm, m.cfg.ShowIcons)
	screen.OnSubmit = m.submitCommit
	screen.OnCancel = func() tea.Cmd { return nil }
	m.commitScreen = screen
	return m, nil
}

func (m *Model) handleCommitDone(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	// The guard clears exactly once per invocation, on every path.
	m.commitInFlight = false
	if m.commitScreen != nil {
		m.commitScreen.Submitting = false
	}

	if msg.err != nil {
		m.notifier.Notify(fmt.Sprintf("Commit failed: %v", msg.err), severityError)
		return m, m.toastTick()
	}

	result := msg.result
	switch result.Status {
	case models.CommitSuccess:
		m.notifier.Notify(fmt.Sprintf("Committed %s and pushed", result.CommitHash), severitySuccess)
		m.commitScreen = nil
		return m, tea.Batch(m.refreshStatus(), m.loadPosts(), m.toastTick())

	case models.CommitPushFailed:
		m.notifier.Notify(
			fmt.Sprintf("Committed %s but push failed: %s", result.CommitHash, result.PushResult),
			severityWarning,
		)
		m.commitScreen = nil
		return m, tea.Batch(m.refreshStatus(), m.loadPosts(), m.toastTick())

	case models.CommitNothing:
		m.notifier.Notify("No changes to commit", severityInfo)
		m.commitScreen = nil
		return m, m.toastTick()

	case models.CommitError:
		m.notifier.Notify(result.Detail, severityError)
		return m, m.toastTick()

	default:
		m.notifier.Notify(fmt.Sprintf("Unexpected commit response %q", result.Status), severityError)
		return m, m.toastTick()
	}
}
