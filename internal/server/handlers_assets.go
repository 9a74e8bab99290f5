package server

import (
	"errors"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/okjk/jekyllctl/internal/content"
)

func (s *Server) handleAssetTree(w http.ResponseWriter, _ *http.Request) {
	tree, err := s.store.AssetTree()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "asset tree: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tree": tree})
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "empty filename")
		return
	}

	rel, name, err := s.store.SaveAsset(header.Filename, r.URL.Query().Get("subdir"), file)
	if err != nil {
		writeAssetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"path":     rel,
		"filename": name,
		"url":      "/" + rel,
	})
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAsset(r.PathValue("path")); err != nil {
		writeAssetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAssetUsage serves GET /api/assets/{path}/usage.
func (s *Server) handleAssetUsage(w http.ResponseWriter, r *http.Request) {
	relPath := r.PathValue("path")
	if !strings.HasSuffix(relPath, "/usage") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	relPath = strings.TrimSuffix(relPath, "/usage")
	refs, err := s.store.FindAssetReferences(path.Join(s.cfg.AssetsDir, relPath))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "asset usage: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"references": refs})
}

func writeAssetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidPath):
		writeError(w, http.StatusForbidden, "invalid path")
	case errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusBadRequest, "%v", err)
	}
}
