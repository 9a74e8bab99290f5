// Package git wraps the git commands the admin backend runs against the
// blog working tree.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/okjk/jekyllctl/internal/log"
	"github.com/okjk/jekyllctl/internal/models"
)

// commandTimeout bounds every git invocation; a hung remote should not pin
// the admin server forever.
const commandTimeout = 30 * time.Second

// maxMessageFiles caps how many file names the default commit message lists.
const maxMessageFiles = 5

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// GitAvailable reports whether a git binary can be found in PATH.
func GitAvailable() bool {
	_, err := LookupPath("git")
	return err == nil
}

// NotifyFn receives operator-visible notifications.
type NotifyFn func(message string, severity string)

// Service runs git commands inside a single working tree.
type Service struct {
	root      string
	remote    string
	postsDir  string
	draftsDir string
	assetsDir string
	notify    NotifyFn
}

// Option configures a Service.
type Option func(*Service)

// WithRemote sets the remote pushed to (default "origin").
func WithRemote(remote string) Option {
	return func(s *Service) {
		if strings.TrimSpace(remote) != "" {
			s.remote = remote
		}
	}
}

// WithContentDirs names the posts/drafts/assets directories used when
// synthesising default commit messages.
func WithContentDirs(posts, drafts, assets string) Option {
	return func(s *Service) {
		s.postsDir = posts
		s.draftsDir = drafts
		s.assetsDir = assets
	}
}

// WithNotify sets the notification callback.
func WithNotify(notify NotifyFn) Option {
	return func(s *Service) { s.notify = notify }
}

// NewService constructs a Service rooted at the blog working tree.
func NewService(root string, opts ...Option) *Service {
	s := &Service{
		root:      root,
		remote:    "origin",
		postsDir:  "_posts",
		draftsDir: "_drafts",
		assetsDir: "assets",
		notify:    func(string, string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the working tree the service operates on.
func (s *Service) Root() string { return s.root }

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// runGit executes a git subcommand in the working tree and returns trimmed
// stdout. A non-zero exit becomes an error carrying stderr.
func (s *Service) runGit(ctx context.Context, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, s.root)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.root

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitError.Stderr))
			if stderr == "" {
				stderr = fmt.Sprintf("exit %d", exitError.ExitCode())
			}
			s.debugf("error: %s: %s", command, stderr)
			return "", fmt.Errorf("%s: %s", command, stderr)
		}
		s.debugf("error: %s: %v", command, err)
		return "", fmt.Errorf("%s: %w", command, err)
	}

	s.debugf("ok: %s", command)
	return strings.TrimSpace(string(output)), nil
}

// changeStatusWord maps a porcelain XY code to the status words the API
// exposes. Untracked beats everything; a rename anywhere in the pair wins
// over add/delete.
func changeStatusWord(xy string) string {
	switch {
	case strings.Contains(xy, "?"):
		return models.ChangeUntracked
	case strings.ContainsAny(xy, "R"):
		return models.ChangeRenamed
	case strings.ContainsAny(xy, "A"):
		return models.ChangeAdded
	case strings.ContainsAny(xy, "D"):
		return models.ChangeDeleted
	default:
		return models.ChangeModified
	}
}

// parsePorcelain converts `git status --porcelain` output into change
// entries, preserving git's ordering.
func parsePorcelain(raw string) []models.ChangeEntry {
	changes := []models.ChangeEntry{}
	for _, line := range strings.Split(raw, "\n") {
		if len(line) < 4 {
			continue
		}
		xy := strings.TrimSpace(line[:2])
		file := line[3:]
		changes = append(changes, models.ChangeEntry{
			Status: changeStatusWord(xy),
			File:   file,
		})
	}
	return changes
}

// Status reports the current working-tree state. The snapshot is built
// fresh on every call and never cached.
func (s *Service) Status(ctx context.Context) (*models.RepoStatus, error) {
	raw, err := s.runGit(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	changes := parsePorcelain(raw)

	branch, err := s.runGit(ctx, "branch", "--show-current")
	if err != nil {
		return nil, err
	}

	return &models.RepoStatus{
		Clean:       len(changes) == 0,
		ChangeCount: len(changes),
		Branch:      branch,
		Changes:     changes,
	}, nil
}

// defaultMessage builds a commit message from the staged file list, tagging
// entries by the content directory they live in.
func (s *Service) defaultMessage(staged []string) string {
	parts := make([]string, 0, maxMessageFiles+1)
	for i, f := range staged {
		if i == maxMessageFiles {
			break
		}
		base := path.Base(f)
		switch {
		case strings.HasPrefix(f, s.postsDir+"/"):
			parts = append(parts, "post: "+base)
		case strings.HasPrefix(f, s.draftsDir+"/"):
			parts = append(parts, "draft: "+base)
		case strings.HasPrefix(f, s.assetsDir+"/"):
			parts = append(parts, "asset: "+base)
		default:
			parts = append(parts, base)
		}
	}
	if len(staged) > maxMessageFiles {
		parts = append(parts, fmt.Sprintf("...and %d more", len(staged)-maxMessageFiles))
	}
	return "Update: " + strings.Join(parts, ", ")
}

// CommitAndPush stages everything, commits, and pushes. Failures are
// reported through the CommitResult status tag rather than an error return:
// the four variants are the backend's contract with its clients.
func (s *Service) CommitAndPush(ctx context.Context, message string) *models.CommitResult {
	if _, err := s.runGit(ctx, "add", "-A"); err != nil {
		return &models.CommitResult{
			Status: models.CommitError,
			Detail: fmt.Sprintf("git add failed: %v", err),
		}
	}

	stagedRaw, err := s.runGit(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return &models.CommitResult{
			Status: models.CommitError,
			Detail: fmt.Sprintf("git diff failed: %v", err),
		}
	}
	if stagedRaw == "" {
		return &models.CommitResult{
			Status: models.CommitNothing,
			Detail: "No changes to commit",
		}
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = s.defaultMessage(strings.Split(stagedRaw, "\n"))
	}

	if _, err := s.runGit(ctx, "commit", "-m", message); err != nil {
		return &models.CommitResult{
			Status: models.CommitError,
			Detail: fmt.Sprintf("git commit failed: %v", err),
		}
	}

	hash, err := s.runGit(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		// The commit exists; a missing hash is cosmetic.
		s.debugf("rev-parse after commit failed: %v", err)
	}

	branch, _ := s.runGit(ctx, "branch", "--show-current")
	if branch == "" {
		branch = "main"
	}

	pushOut, pushErr := s.runGit(ctx, "push", s.remote, branch)
	if pushErr != nil {
		s.notify(fmt.Sprintf("Push to %s failed: %v", s.remote, pushErr), "warning")
		return &models.CommitResult{
			Status:     models.CommitPushFailed,
			CommitHash: hash,
			Message:    message,
			PushResult: pushErr.Error(),
		}
	}

	return &models.CommitResult{
		Status:     models.CommitSuccess,
		CommitHash: hash,
		Message:    message,
		PushResult: pushOut,
	}
}

// IsRepo reports whether the root is inside a git work tree.
func (s *Service) IsRepo(ctx context.Context) bool {
	out, err := s.runGit(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}
