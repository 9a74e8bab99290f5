package tui

import "github.com/okjk/jekyllctl/internal/models"

// pollTickMsg fires on the fixed status polling interval.
type pollTickMsg struct{}

// toastTickMsg drives toast expiry while any toast is visible.
type toastTickMsg struct{}

// statusLoadedMsg carries a fresh repository status for the badge.
type statusLoadedMsg struct {
	status *models.RepoStatus
}

// statusFailedMsg reports a failed background status poll. It is swallowed:
// a stale badge beats interrupting the operator.
type statusFailedMsg struct {
	err error
}

// postsLoadedMsg carries the post listing for the table.
type postsLoadedMsg struct {
	posts []*models.Post
	err   error
}

// commitDialogStatusMsg carries the status fetched when the operator asks
// to open the commit review dialog.
type commitDialogStatusMsg struct {
	status *models.RepoStatus
	err    error
}

// commitDoneMsg reports the outcome of a commit-push call. Exactly one of
// result/err is set: err means the request itself failed (transport), result
// carries the backend's logical outcome.
type commitDoneMsg struct {
	result *models.CommitResult
	err    error
}

// watchEventMsg signals filesystem activity under the content tree.
type watchEventMsg struct{}
