// Package github wraps the source-control platform's content API: existence
// checks, repository creation, and idempotent file upserts with optimistic
// concurrency.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
)

var _ secondary.RepositorySink = (*Sink)(nil)

const acceptHeader = "application/vnd.github+json"

// Sink writes files into GitHub repositories through the content API
type Sink struct {
	httpClient    *http.Client
	logger        primary.Logger
	apiBase       string
	retryAttempts int
	retryBase     time.Duration
}

// NewSink creates a sink authenticated with the user's access token
func NewSink(cfg *config.GithubConfig, syncCfg *config.SyncCfg, accessToken string, logger primary.Logger) *Sink {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Sink{
		httpClient:    oauth2.NewClient(context.Background(), source),
		logger:        logger,
		apiBase:       cfg.APIBaseURL,
		retryAttempts: syncCfg.WriteRetryAttempts,
		retryBase:     syncCfg.WriteRetryBaseDelay,
	}
}

// contentsResponse is the subset of the GET contents payload we care about
type contentsResponse struct {
	SHA string `json:"sha"`
}

// UpsertFile creates or updates one file. The current revision token is
// fetched immediately before the write; a 404 means create. Any other
// non-success on the existence check is a hard failure and no write is
// attempted. Never panics past this boundary.
func (s *Sink) UpsertFile(ctx context.Context, req *domain.FileWriteRequest) bool {
	apiURL := fmt.Sprintf("%s/repos/%s/contents/%s", s.apiBase, req.RepositoryFullName, req.Path)

	sha, ok := s.currentRevision(ctx, apiURL)
	if !ok {
		return false
	}

	payload := map[string]string{
		"message": req.CommitMessage,
		"content": base64.StdEncoding.EncodeToString([]byte(req.Content)),
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal write payload", "path", req.Path, "error", err)
		return false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, apiURL, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("Failed to create write request", "path", req.Path, "error", err)
		return false
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error("Write request failed", "path", req.Path, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		s.logger.Error("Write rejected", "path", req.Path, "status", resp.StatusCode, "body", string(detail))
		return false
	}

	return true
}

// currentRevision returns the file's revision token, "" when the file does
// not exist yet, and ok=false on any other failure
func (s *Sink) currentRevision(ctx context.Context, apiURL string) (string, bool) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		s.logger.Error("Failed to create revision check request", "url", apiURL, "error", err)
		return "", false
	}
	httpReq.Header.Set("Accept", acceptHeader)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error("Revision check failed", "url", apiURL, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var existing contentsResponse
		if err := json.NewDecoder(resp.Body).Decode(&existing); err != nil {
			s.logger.Error("Failed to parse revision check response", "url", apiURL, "error", err)
			return "", false
		}
		return existing.SHA, true
	case resp.StatusCode == http.StatusNotFound:
		return "", true
	default:
		s.logger.Error("Unexpected revision check status", "url", apiURL, "status", resp.StatusCode)
		return "", false
	}
}

// UpsertFileWithRetry wraps UpsertFile in bounded retry with exponential
// backoff. The repository pre-check runs once; a missing repository
// short-circuits every retry with an immediate false.
func (s *Sink) UpsertFileWithRetry(ctx context.Context, req *domain.FileWriteRequest) bool {
	exists, err := s.RepositoryExists(ctx, req.RepositoryFullName)
	if err != nil {
		s.logger.Error("Repository check failed", "repo", req.RepositoryFullName, "error", err)
		return false
	}
	if !exists {
		s.logger.Error("Repository missing, skipping retries", "repo", req.RepositoryFullName)
		return false
	}

	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		if s.UpsertFile(ctx, req) {
			if attempt > 1 {
				s.logger.Info("Write succeeded on retry", "path", req.Path, "attempt", attempt)
			}
			return true
		}

		if attempt < s.retryAttempts {
			delay := s.retryBase * (1 << (attempt - 1))
			s.logger.Warn("Retrying write", "path", req.Path, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return false
			}
		}
	}

	s.logger.Error("Write failed after all attempts", "path", req.Path, "attempts", s.retryAttempts)
	return false
}

// RepositoryExists checks whether the target repository is accessible
func (s *Sink) RepositoryExists(ctx context.Context, repoFullName string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/repos/%s", s.apiBase, repoFullName), nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", acceptHeader)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("repository check failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("repository check returned status %d", resp.StatusCode)
	}
}

// CreateRepository creates a repository under the authenticated user
func (s *Sink) CreateRepository(ctx context.Context, name string, private bool) error {
	body, err := json.Marshal(map[string]interface{}{
		"name":        name,
		"description": "Codeforces solutions mirrored by cfmirror",
		"private":     private,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal create payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/user/repos", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", acceptHeader)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("create repository failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create repository returned status %d: %s", resp.StatusCode, string(detail))
	}

	s.logger.Info("Repository created", "name", name, "private", private)
	return nil
}

// AuthenticatedUser returns the login of the token's owner
func (s *Sink) AuthenticatedUser(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/user", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", acceptHeader)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user lookup returned status %d", resp.StatusCode)
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}
	return user.Login, nil
}
