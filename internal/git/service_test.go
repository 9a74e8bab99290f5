package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okjk/jekyllctl/internal/models"
)

func TestChangeStatusWord(t *testing.T) {
	tests := []struct {
		name     string
		xy       string
		expected string
	}{
		{name: "untracked", xy: "??", expected: models.ChangeUntracked},
		{name: "staged add", xy: "A", expected: models.ChangeAdded},
		{name: "staged modify", xy: "M", expected: models.ChangeModified},
		{name: "worktree modify", xy: "MM", expected: models.ChangeModified},
		{name: "delete", xy: "D", expected: models.ChangeDeleted},
		{name: "rename", xy: "R", expected: models.ChangeRenamed},
		{name: "rename beats delete", xy: "RD", expected: models.ChangeRenamed},
		{name: "add then modified", xy: "AM", expected: models.ChangeAdded},
		{name: "unmerged fallback", xy: "UU", expected: models.ChangeModified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, changeStatusWord(tt.xy))
		})
	}
}

func TestParsePorcelain(t *testing.T) {
	raw := strings.Join([]string{
		" M _posts/2024-01-01-hello.md",
		"?? assets/img/photo.png",
		"A  _drafts/2024-02-02-wip.md",
		" D old.md",
		"",
	}, "\n")

	changes := parsePorcelain(raw)
	require.Len(t, changes, 4)
	assert.Equal(t, models.ChangeEntry{Status: models.ChangeModified, File: "_posts/2024-01-01-hello.md"}, changes[0])
	assert.Equal(t, models.ChangeEntry{Status: models.ChangeUntracked, File: "assets/img/photo.png"}, changes[1])
	assert.Equal(t, models.ChangeEntry{Status: models.ChangeAdded, File: "_drafts/2024-02-02-wip.md"}, changes[2])
	assert.Equal(t, models.ChangeEntry{Status: models.ChangeDeleted, File: "old.md"}, changes[3])
}

func TestParsePorcelainEmpty(t *testing.T) {
	assert.Empty(t, parsePorcelain(""))
	assert.Empty(t, parsePorcelain("\n\n"))
}

func TestDefaultMessage(t *testing.T) {
	svc := NewService("/tmp/blog")

	tests := []struct {
		name     string
		staged   []string
		expected string
	}{
		{
			name:     "post prefix",
			staged:   []string{"_posts/2024-01-01-hello.md"},
			expected: "Update: post: 2024-01-01-hello.md",
		},
		{
			name:     "mixed prefixes",
			staged:   []string{"_posts/a.md", "_drafts/b.md", "assets/img/c.png", "README.md"},
			expected: "Update: post: a.md, draft: b.md, asset: c.png, README.md",
		},
		{
			name: "overflow is counted",
			staged: []string{
				"_posts/a.md", "_posts/b.md", "_posts/c.md",
				"_posts/d.md", "_posts/e.md", "_posts/f.md", "_posts/g.md",
			},
			expected: "Update: post: a.md, post: b.md, post: c.md, post: d.md, post: e.md, ...and 2 more",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.defaultMessage(tt.staged))
		})
	}
}

func TestServiceOptions(t *testing.T) {
	svc := NewService("/tmp/blog")
	assert.Equal(t, "origin", svc.remote)
	assert.Equal(t, "_posts", svc.postsDir)

	svc = NewService("/tmp/blog", WithRemote("upstream"), WithContentDirs("posts", "drafts", "static"))
	assert.Equal(t, "upstream", svc.remote)
	assert.Equal(t, "posts", svc.postsDir)
	assert.Equal(t, "drafts", svc.draftsDir)
	assert.Equal(t, "static", svc.assetsDir)

	// Blank remote keeps the default.
	svc = NewService("/tmp/blog", WithRemote("  "))
	assert.Equal(t, "origin", svc.remote)
}

// initTestRepo creates a git repo with one commit and returns its path.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if !GitAvailable() {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init")
	run("symbolic-ref", "HEAD", "refs/heads/main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0o600))
	run("add", "-A")
	run("commit", "-m", "init")
	return dir
}

func TestStatusCleanAndDirty(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService(dir)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Clean)
	assert.Zero(t, status.ChangeCount)
	assert.Equal(t, "main", status.Branch)
	assert.Empty(t, status.Changes)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_posts"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_posts", "2024-01-01-a.md"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o600))

	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Clean)
	assert.Equal(t, 2, status.ChangeCount)
	assert.Len(t, status.Changes, 2)
}

func TestStatusOutsideRepo(t *testing.T) {
	if !GitAvailable() {
		t.Skip("git not available")
	}
	svc := NewService(t.TempDir())
	_, err := svc.Status(context.Background())
	assert.Error(t, err)
	assert.False(t, svc.IsRepo(context.Background()))
}

func TestCommitAndPushNothing(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService(dir)

	result := svc.CommitAndPush(context.Background(), "")
	assert.Equal(t, models.CommitNothing, result.Status)
	assert.Empty(t, result.CommitHash)
}

func TestCommitAndPushSuccess(t *testing.T) {
	dir := initTestRepo(t)

	// Bare repo standing in for the remote.
	remote := t.TempDir()
	cmd := exec.Command("git", "init", "--bare", remote)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "%s", out)
	cmd = exec.Command("git", "remote", "add", "origin", remote)
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte("content\n"), 0o600))

	svc := NewService(dir)
	result := svc.CommitAndPush(context.Background(), "add new file")

	require.Equal(t, models.CommitSuccess, result.Status)
	assert.NotEmpty(t, result.CommitHash)
	assert.Equal(t, "add new file", result.Message)
	assert.True(t, result.CommitCreated())
}

func TestCommitAndPushDefaultMessage(t *testing.T) {
	dir := initTestRepo(t)
	remote := t.TempDir()
	out, err := exec.Command("git", "init", "--bare", remote).CombinedOutput()
	require.NoError(t, err, "%s", out)
	cmd := exec.Command("git", "remote", "add", "origin", remote)
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_posts"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_posts", "2024-03-03-x.md"), []byte("x"), 0o600))

	svc := NewService(dir)
	result := svc.CommitAndPush(context.Background(), "   ")

	require.Equal(t, models.CommitSuccess, result.Status)
	assert.Equal(t, "Update: post: 2024-03-03-x.md", result.Message)
}

func TestCommitAndPushPushFailed(t *testing.T) {
	dir := initTestRepo(t)

	// Remote pointing nowhere: the commit lands, the push cannot.
	missing := filepath.Join(t.TempDir(), "gone")
	cmd := exec.Command("git", "remote", "add", "origin", missing)
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte("content\n"), 0o600))

	var notified []string
	svc := NewService(dir, WithNotify(func(message, severity string) {
		notified = append(notified, fmt.Sprintf("%s:%s", severity, message))
	}))
	result := svc.CommitAndPush(context.Background(), "stranded commit")

	require.Equal(t, models.CommitPushFailed, result.Status)
	assert.NotEmpty(t, result.CommitHash)
	assert.NotEmpty(t, result.PushResult)
	assert.True(t, result.CommitCreated())
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0], "warning:")
}
