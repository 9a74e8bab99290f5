package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/models"
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Ext returns the lowercase extension of filename without the dot.
func Ext(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// SanitizeFilename strips path components and characters that have no
// business in an uploaded file name. Returns "" when nothing survives.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// AssetTree walks the assets directory into a nested node map. Hidden files
// and directories are skipped.
func (s *Store) AssetTree() (map[string]*models.AssetNode, error) {
	base := s.cfg.AssetsPath()
	tree := map[string]*models.AssetNode{}

	err := filepath.WalkDir(base, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are simply omitted
		}
		if p == base {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(base, p)
		if relErr != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		node := tree
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part]
			if !ok || child.Children == nil {
				child = &models.AssetNode{Type: "dir", Children: map[string]*models.AssetNode{}}
				node[part] = child
			}
			node = child.Children
		}

		name := parts[len(parts)-1]
		if d.IsDir() {
			if _, ok := node[name]; !ok {
				node[name] = &models.AssetNode{Type: "dir", Children: map[string]*models.AssetNode{}}
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		node[name] = &models.AssetNode{
			Type:     "file",
			Size:     info.Size(),
			Modified: info.ModTime().Format(time.RFC3339),
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return tree, nil
}

// SaveAsset stores an uploaded file under the assets directory and returns
// its path relative to the blog root. Images land in img/, everything else
// in docs/, unless subdir overrides the routing. Name collisions get a
// numeric suffix instead of overwriting.
func (s *Store) SaveAsset(filename, subdir string, r io.Reader) (rel, savedName string, err error) {
	ext := Ext(filename)
	if !s.cfg.UploadAllowed(ext) {
		return "", "", fmt.Errorf("file type .%s not allowed", ext)
	}

	if subdir == "" {
		if config.IsImageExtension(ext) {
			subdir = "img"
		} else {
			subdir = "docs"
		}
	}

	safeName := SanitizeFilename(filename)
	if safeName == "" {
		safeName = fmt.Sprintf("upload_%s.%s", time.Now().Format("20060102150405"), ext)
	}

	destDir, err := SafePath(subdir, s.cfg.AssetsPath())
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", "", err
	}

	dest := filepath.Join(destDir, safeName)
	if _, statErr := os.Stat(dest); statErr == nil {
		base := strings.TrimSuffix(safeName, filepath.Ext(safeName))
		extPart := filepath.Ext(safeName)
		for counter := 1; ; counter++ {
			dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, counter, extPart))
			if _, statErr := os.Stat(dest); os.IsNotExist(statErr) {
				break
			}
		}
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600) // #nosec G304 -- dest is constrained to the assets dir
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", "", err
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}

	relPath, err := filepath.Rel(s.cfg.BlogRoot, dest)
	if err != nil {
		return "", "", err
	}
	return filepath.ToSlash(relPath), filepath.Base(dest), nil
}

// DeleteAsset removes an asset file (path relative to the assets dir).
func (s *Store) DeleteAsset(relPath string) error {
	abs, err := SafePath(relPath, s.cfg.AssetsPath())
	if err != nil {
		return err
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return os.ErrNotExist
	}
	return os.Remove(abs)
}

// FindAssetReferences greps posts, drafts and tab pages for references to
// an asset path (relative to the blog root, e.g. "assets/img/photo.png").
func (s *Store) FindAssetReferences(assetRelPath string) ([]string, error) {
	variants := []string{assetRelPath, "/" + assetRelPath}
	refs := []string{}

	dirs := []string{
		s.cfg.PostsPath(),
		s.cfg.DraftsPath(),
		filepath.Join(s.cfg.BlogRoot, "_tabs"),
	}
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return nil, err
		}
		for _, f := range matches {
			raw, err := os.ReadFile(f) // #nosec G304 -- paths come from globbing known dirs
			if err != nil {
				continue
			}
			text := string(raw)
			for _, v := range variants {
				if strings.Contains(text, v) {
					if rel, relErr := filepath.Rel(s.cfg.BlogRoot, f); relErr == nil {
						refs = append(refs, filepath.ToSlash(rel))
					}
					break
				}
			}
		}
	}
	sort.Strings(refs)
	return refs, nil
}
