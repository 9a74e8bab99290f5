package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func (s *Server) handleGitStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.git.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "git status: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type commitPushRequest struct {
	Message string `json:"message"`
}

// handleGitCommitPush performs stage-all, commit, push as one action. All
// four logical outcomes (success, nothing, push_failed, error) are reported
// with HTTP 200; clients dispatch on the status tag. Non-2xx is reserved
// for requests that never reached git.
func (s *Server) handleGitCommitPush(w http.ResponseWriter, r *http.Request) {
	var req commitPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	s.commitMu.Lock()
	result := s.git.CommitAndPush(r.Context(), req.Message)
	s.commitMu.Unlock()

	writeJSON(w, http.StatusOK, result)
}
