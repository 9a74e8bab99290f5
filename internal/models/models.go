// Package models defines the data objects shared across jekyllctl packages.
package models

// Change entry status words. The git porcelain XY codes are mapped to these
// before anything leaves the backend; clients never see raw codes.
const (
	ChangeAdded     = "added"
	ChangeModified  = "modified"
	ChangeDeleted   = "deleted"
	ChangeRenamed   = "renamed"
	ChangeUntracked = "untracked"
)

// ChangeEntry is one line of the working-tree diff summary.
type ChangeEntry struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

// RepoStatus is a point-in-time snapshot of the blog working tree. It is
// produced fresh on every query and never cached.
type RepoStatus struct {
	Clean       bool          `json:"clean"`
	ChangeCount int           `json:"change_count"`
	Branch      string        `json:"branch"`
	Changes     []ChangeEntry `json:"changes"`
}

// CommitResult status tags.
const (
	CommitSuccess    = "success"
	CommitNothing    = "nothing"
	CommitPushFailed = "push_failed"
	CommitError      = "error"
)

// CommitResult reports the outcome of a stage-all/commit/push sequence.
// A status of success or push_failed means a commit exists locally;
// nothing and error mean no new commit was created.
type CommitResult struct {
	Status     string `json:"status"`
	CommitHash string `json:"commit_hash,omitempty"`
	Message    string `json:"message,omitempty"`
	PushResult string `json:"push_result,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// CommitCreated reports whether the result implies a new local commit.
func (r *CommitResult) CommitCreated() bool {
	return r.Status == CommitSuccess || r.Status == CommitPushFailed
}

// Post is a blog article or draft with its front matter split out.
type Post struct {
	Path       string   `json:"path"`
	Filename   string   `json:"filename"`
	Date       string   `json:"date"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	IsDraft    bool     `json:"is_draft"`
	Body       string   `json:"body"`
	Excerpt    string   `json:"excerpt"`
}

// Template is a front-matter preset offered by the editor.
type Template struct {
	Label      string   `json:"label"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// AssetNode is an entry in the nested asset tree. Dirs carry Children,
// files carry Size and Modified.
type AssetNode struct {
	Type     string                `json:"type"` // "dir" or "file"
	Size     int64                 `json:"size,omitempty"`
	Modified string                `json:"modified,omitempty"`
	Children map[string]*AssetNode `json:"children,omitempty"`
}
