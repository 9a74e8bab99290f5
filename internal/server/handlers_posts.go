package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/okjk/jekyllctl/internal/content"
	"github.com/okjk/jekyllctl/internal/models"
)

func (s *Server) handleListPosts(w http.ResponseWriter, _ *http.Request) {
	posts, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list posts: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]*models.Post{"posts": posts})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in content.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	path, err := s.store.Save(&in, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, "save post: %v", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path, "status": "created"})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.Get(r.PathValue("path"))
	if err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handlePostAction dispatches the publish/unpublish suffixes on the post
// route tree.
func (s *Server) handlePostAction(w http.ResponseWriter, r *http.Request) {
	relPath := r.PathValue("path")
	switch {
	case strings.HasSuffix(relPath, "/publish"):
		s.setDraft(w, strings.TrimSuffix(relPath, "/publish"), false)
	case strings.HasSuffix(relPath, "/unpublish"):
		s.setDraft(w, strings.TrimSuffix(relPath, "/unpublish"), true)
	default:
		writeError(w, http.StatusNotFound, "unknown post action")
	}
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	relPath := r.PathValue("path")

	if _, err := s.store.Get(relPath); err != nil {
		writePostError(w, err)
		return
	}

	var in content.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	newPath, err := s.store.Save(&in, relPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "save post: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": newPath, "status": "updated"})
}

func (s *Server) setDraft(w http.ResponseWriter, relPath string, draft bool) {
	newPath, err := s.store.SetDraft(relPath, draft)
	if err != nil {
		writePostError(w, err)
		return
	}
	status := "published"
	if draft {
		status = "unpublished"
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": newPath, "status": status})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("path")); err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": content.Templates()})
}

func (s *Server) handleTags(w http.ResponseWriter, _ *http.Request) {
	tags, _, err := s.store.DiscoverTagsAndCategories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "discover tags: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	_, categories, err := s.store.DiscoverTagsAndCategories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "discover categories: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidPath):
		writeError(w, http.StatusForbidden, "invalid path")
	case errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "%v", err)
	}
}
