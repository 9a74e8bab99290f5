// Package content manages the blog's source tree: posts and drafts with
// their YAML front matter, and the uploaded asset files.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/models"
)

const excerptLen = 120

var (
	postNameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.md$`)
	slugRe     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ErrInvalidPath is returned when a client-supplied path escapes its base.
var ErrInvalidPath = fmt.Errorf("invalid path")

// Store reads and writes posts under the blog root.
type Store struct {
	cfg *config.AppConfig
}

// NewStore creates a Store over the configured blog tree.
func NewStore(cfg *config.AppConfig) *Store {
	return &Store{cfg: cfg}
}

// PostInput is the editable surface of a post as submitted by the editor.
type PostInput struct {
	Title      string   `json:"title"`
	Date       string   `json:"date"`
	Slug       string   `json:"slug"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Body       string   `json:"body"`
	IsDraft    bool     `json:"is_draft"`
}

// frontMatter is the serialized YAML header of a post file.
type frontMatter struct {
	Title      string   `yaml:"title"`
	Tags       []string `yaml:"tags,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

// SafePath resolves requested under base and rejects traversal outside it.
func SafePath(requested, base string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(absBase, requested))
	if target != absBase && !strings.HasPrefix(target, absBase+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return target, nil
}

// splitFrontMatter separates the YAML header from the body. Files without a
// header are treated as all-body.
func splitFrontMatter(raw string) (meta frontMatter, body string, err error) {
	if !strings.HasPrefix(raw, "---\n") {
		return frontMatter{}, raw, nil
	}
	rest := raw[len("---\n"):]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return frontMatter{}, raw, nil
	}
	header := rest[:idx]
	body = rest[idx+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return frontMatter{}, "", fmt.Errorf("parse front matter: %w", err)
	}
	return meta, body, nil
}

func renderPost(meta frontMatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func excerpt(body string) string {
	e := body
	if len(e) > excerptLen {
		e = e[:excerptLen]
	}
	return strings.TrimSpace(strings.ReplaceAll(e, "\n", " "))
}

// ParsePost reads a markdown file and returns its structured form.
func (s *Store) ParsePost(absPath string) (*models.Post, error) {
	raw, err := os.ReadFile(absPath) // #nosec G304 -- callers resolve paths via SafePath
	if err != nil {
		return nil, err
	}
	meta, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(absPath)
	date := time.Now().Format("2006-01-02")
	slug := strings.TrimSuffix(filename, filepath.Ext(filename))
	if m := postNameRe.FindStringSubmatch(filename); m != nil {
		date = m[1]
		slug = m[2]
	}

	rel, err := filepath.Rel(s.cfg.BlogRoot, absPath)
	if err != nil {
		return nil, err
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	categories := meta.Categories
	if categories == nil {
		categories = []string{}
	}

	return &models.Post{
		Path:       filepath.ToSlash(rel),
		Filename:   filename,
		Date:       date,
		Slug:       slug,
		Title:      meta.Title,
		Tags:       tags,
		Categories: categories,
		IsDraft:    strings.HasPrefix(absPath, s.cfg.DraftsPath()+string(filepath.Separator)),
		Body:       body,
		Excerpt:    excerpt(body),
	}, nil
}

// List returns all posts and drafts, newest first. Files that fail to parse
// are skipped; a half-broken draft should not take the whole listing down.
func (s *Store) List() ([]*models.Post, error) {
	items := []*models.Post{}
	for _, dir := range []string{s.cfg.PostsPath(), s.cfg.DraftsPath()} {
		matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return nil, err
		}
		for _, f := range matches {
			post, err := s.ParsePost(f)
			if err != nil {
				continue
			}
			items = append(items, post)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items, nil
}

// Get loads a single post from a path relative to the blog root.
func (s *Store) Get(relPath string) (*models.Post, error) {
	abs, err := SafePath(relPath, s.cfg.BlogRoot)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return nil, os.ErrNotExist
	}
	return s.ParsePost(abs)
}

// Save writes a post to disk and returns the saved file's path relative to
// the blog root. If originalPath is non-empty and the destination differs,
// the old file is removed (rename, publish and unpublish all go through
// here).
func (s *Store) Save(in *PostInput, originalPath string) (string, error) {
	slug := strings.TrimSpace(in.Slug)
	if !slugRe.MatchString(slug) {
		return "", fmt.Errorf("invalid slug %q", in.Slug)
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	targetDir := s.cfg.PostsPath()
	if in.IsDraft {
		targetDir = s.cfg.DraftsPath()
	}
	if err := os.MkdirAll(targetDir, 0o750); err != nil {
		return "", err
	}

	dest := filepath.Join(targetDir, fmt.Sprintf("%s-%s.md", date, slug))

	data, err := renderPost(frontMatter{
		Title:      in.Title,
		Tags:       in.Tags,
		Categories: in.Categories,
	}, in.Body)
	if err != nil {
		return "", err
	}

	if originalPath != "" {
		oldAbs, err := SafePath(originalPath, s.cfg.BlogRoot)
		if err != nil {
			return "", err
		}
		if oldAbs != dest {
			if _, statErr := os.Stat(oldAbs); statErr == nil {
				if err := os.Remove(oldAbs); err != nil {
					return "", fmt.Errorf("remove old file: %w", err)
				}
			}
		}
	}

	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", err
	}

	rel, err := filepath.Rel(s.cfg.BlogRoot, dest)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a post file.
func (s *Store) Delete(relPath string) error {
	abs, err := SafePath(relPath, s.cfg.BlogRoot)
	if err != nil {
		return err
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return os.ErrNotExist
	}
	return os.Remove(abs)
}

// SetDraft republishes a post into the drafts or posts directory and
// returns the new relative path.
func (s *Store) SetDraft(relPath string, draft bool) (string, error) {
	post, err := s.Get(relPath)
	if err != nil {
		return "", err
	}
	return s.Save(&PostInput{
		Title:      post.Title,
		Date:       post.Date,
		Slug:       post.Slug,
		Tags:       post.Tags,
		Categories: post.Categories,
		Body:       post.Body,
		IsDraft:    draft,
	}, relPath)
}

// DiscoverTagsAndCategories scans all posts for the tag and category values
// in use, each sorted alphabetically.
func (s *Store) DiscoverTagsAndCategories() (tags, categories []string, err error) {
	posts, err := s.List()
	if err != nil {
		return nil, nil, err
	}
	tagSet := map[string]bool{}
	catSet := map[string]bool{}
	for _, p := range posts {
		for _, t := range p.Tags {
			tagSet[t] = true
		}
		for _, c := range p.Categories {
			catSet[c] = true
		}
	}
	tags = make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	categories = make([]string, 0, len(catSet))
	for c := range catSet {
		categories = append(categories, c)
	}
	sort.Strings(tags)
	sort.Strings(categories)
	return tags, categories, nil
}
