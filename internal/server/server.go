// Package server implements the localhost admin API over the blog working
// tree: posts, assets, and the git status/commit-push endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/content"
	"github.com/okjk/jekyllctl/internal/log"
	"github.com/okjk/jekyllctl/internal/models"
)

const shutdownTimeout = 5 * time.Second

// GitService is the slice of the git layer the server consumes.
type GitService interface {
	Status(ctx context.Context) (*models.RepoStatus, error)
	CommitAndPush(ctx context.Context, message string) *models.CommitResult
}

// Server serves the admin API. It is local-only by design: run it on a
// loopback address, there is no authentication.
type Server struct {
	cfg   *config.AppConfig
	store *content.Store
	git   GitService

	srv *http.Server
	mu  sync.Mutex
	// commitMu serializes commit-push requests; two concurrent git
	// mutations against one working tree would corrupt each other.
	commitMu sync.Mutex
}

// New creates a Server over the given store and git service.
func New(cfg *config.AppConfig, store *content.Store, git GitService) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if git == nil {
		return nil, fmt.Errorf("git service is required")
	}
	return &Server{cfg: cfg, store: store, git: git}, nil
}

// Handler builds the route table. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/git/status", s.handleGitStatus)
	mux.HandleFunc("POST /api/git/commit-push", s.handleGitCommitPush)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	mux.HandleFunc("GET /api/posts/{path...}", s.handleGetPost)
	mux.HandleFunc("POST /api/posts/{path...}", s.handlePostAction)
	mux.HandleFunc("PUT /api/posts/{path...}", s.handleUpdatePost)
	mux.HandleFunc("DELETE /api/posts/{path...}", s.handleDeletePost)

	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /api/tags", s.handleTags)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/assets", s.handleAssetTree)
	mux.HandleFunc("GET /api/assets/{path...}", s.handleAssetUsage)
	mux.HandleFunc("POST /api/assets/upload", s.handleUploadAsset)
	mux.HandleFunc("DELETE /api/assets/{path...}", s.handleDeleteAsset)

	// Raw asset files for editor preview.
	mux.Handle("GET /assets/", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(s.cfg.AssetsPath()))))

	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// Serve binds the configured address and serves in the background. The
// returned error covers setup only; runtime serve errors are debug-logged.
func (s *Server) Serve() error {
	if err := os.MkdirAll(s.cfg.DraftsPath(), 0o750); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("admin server: %v", err)
		}
	}()

	log.Printf("admin server listening on %s (blog root %s)", listener.Addr(), s.cfg.BlogRoot)
	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Serve(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	s.srv = nil
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

// writeError reports a transport-level failure. Logical git outcomes never
// go through here; they are part of the CommitResult contract.
func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"detail": fmt.Sprintf(format, args...)})
}
