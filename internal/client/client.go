// Package client is a typed HTTP client for the jekyllctl admin API.
//
// It distinguishes two failure classes: transport errors (the request never
// completed, or the server answered non-2xx) surface as a Go error; logical
// git outcomes arrive inside the decoded CommitResult and are the caller's
// business to dispatch on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okjk/jekyllctl/internal/models"
)

// APIError is a non-2xx response from the admin server.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("admin server returned HTTP %d", e.StatusCode)
}

// Client talks to one admin server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL. The underlying HTTP client
// carries no timeout: this is a loopback API and a hung call is surfaced by
// the UI keeping its trigger disabled, not by a deadline.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// NewWithHTTPClient creates a Client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.http = hc
	}
	return c
}

// do issues a request and decodes a 2xx JSON body into out. Non-2xx bodies
// are decoded as {"detail": ...} and returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&detail); decodeErr == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Status fetches the current repository status.
func (c *Client) Status(ctx context.Context) (*models.RepoStatus, error) {
	var status models.RepoStatus
	if err := c.do(ctx, http.MethodGet, "/api/git/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CommitPush triggers the stage-all/commit/push action. The message is
// trimmed; blank lets the backend synthesise one.
func (c *Client) CommitPush(ctx context.Context, message string) (*models.CommitResult, error) {
	body := map[string]string{"message": strings.TrimSpace(message)}
	var result models.CommitResult
	if err := c.do(ctx, http.MethodPost, "/api/git/commit-push", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Posts lists all posts and drafts, newest first.
func (c *Client) Posts(ctx context.Context) ([]*models.Post, error) {
	var out struct {
		Posts []*models.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// DeletePost removes a post by its blog-root-relative path.
func (c *Client) DeletePost(ctx context.Context, relPath string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+relPath, nil, nil)
}

// Publish moves a draft into the posts directory.
func (c *Client) Publish(ctx context.Context, relPath string) error {
	return c.do(ctx, http.MethodPost, "/api/posts/"+relPath+"/publish", nil, nil)
}

// Unpublish moves a post back into drafts.
func (c *Client) Unpublish(ctx context.Context, relPath string) error {
	return c.do(ctx, http.MethodPost, "/api/posts/"+relPath+"/unpublish", nil, nil)
}
