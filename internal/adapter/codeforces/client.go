// Package codeforces wraps the platform's read API and the hidden-surface
// path used to pull page content the API does not expose.
package codeforces

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
	"gitlab.com/cfmirror.net/internal/static/errs"
)

var (
	_ secondary.SubmissionSource = (*Client)(nil)
	_ secondary.AccountSource    = (*Client)(nil)
)

// Client reads submissions and profile data from Codeforces
type Client struct {
	httpClient *http.Client
	browser    secondary.SurfaceBrowser
	logger     primary.Logger
	apiBase    string
	siteBase   string
}

// NewClient creates a Codeforces client. The browser is used for content
// that only exists on rendered pages (submission source, statement HTML).
func NewClient(cfg *config.CodeforcesConfig, browser secondary.SurfaceBrowser, logger primary.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		browser:    browser,
		logger:     logger,
		apiBase:    cfg.APIBaseURL,
		siteBase:   cfg.SiteBaseURL,
	}
}

// apiEnvelope is the platform's uniform response wrapper
type apiEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type apiSubmission struct {
	ID                  int64  `json:"id"`
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	ProgrammingLanguage string `json:"programmingLanguage"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int64  `json:"contestId"`
		Index     string `json:"index"`
		Name      string `json:"name"`
	} `json:"problem"`
}

type apiUser struct {
	Handle     string `json:"handle"`
	Rating     int    `json:"rating"`
	MaxRating  int    `json:"maxRating"`
	Rank       string `json:"rank"`
	TitlePhoto string `json:"titlePhoto"`
}

// ListAccepted returns the handle's accepted submissions, newest first. The
// platform already orders user.status newest-first; that ordering is trusted
// as-is.
func (c *Client) ListAccepted(ctx context.Context, handle string, limit int) ([]*domain.Submission, error) {
	endpoint := fmt.Sprintf("%s/user.status?handle=%s&count=%d", c.apiBase, url.QueryEscape(handle), limit)

	result, err := c.call(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrListFailed, err)
	}

	var raw []apiSubmission
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse submission list: %w", err)
	}

	accepted := make([]*domain.Submission, 0, len(raw))
	for _, sub := range raw {
		if domain.Verdict(sub.Verdict) != domain.VerdictAccepted {
			continue
		}
		accepted = append(accepted, &domain.Submission{
			ContestID:    sub.Problem.ContestID,
			SubmissionID: sub.ID,
			ProblemIndex: sub.Problem.Index,
			ProblemName:  sub.Problem.Name,
			Verdict:      domain.Verdict(sub.Verdict),
			Language:     sub.ProgrammingLanguage,
			CreatedAt:    time.Unix(sub.CreationTimeSeconds, 0),
		})
	}

	c.logger.Debug("Listed accepted submissions", "handle", handle, "count", len(accepted))
	return accepted, nil
}

// FetchCode retrieves submission source text through a hidden surface on the
// submission page. No retries here; retries belong to the caller.
func (c *Client) FetchCode(ctx context.Context, contestID, submissionID int64) (string, error) {
	pageURL := fmt.Sprintf("%s/contest/%d/submission/%d", c.siteBase, contestID, submissionID)
	return c.browser.Extract(ctx, pageURL, domain.ExtractionSubmissionCode)
}

// FetchStatement retrieves raw problem statement HTML the same way
func (c *Client) FetchStatement(ctx context.Context, contestID int64, index string) (string, error) {
	pageURL := fmt.Sprintf("%s/contest/%d/problem/%s", c.siteBase, contestID, index)
	return c.browser.Extract(ctx, pageURL, domain.ExtractionProblemStatement)
}

// FetchUserInfo returns public profile info with unrated/unranked fallbacks
func (c *Client) FetchUserInfo(ctx context.Context, handle string) (*domain.AccountInfo, error) {
	endpoint := fmt.Sprintf("%s/user.info?handles=%s", c.apiBase, url.QueryEscape(handle))
	return c.fetchUser(ctx, endpoint)
}

// FetchUserInfoSigned returns profile info through the authenticated API
// variant. The signature is a random 6-digit prefix plus the SHA-512 of
// "rand/method?sortedParams#secret", per the platform's signing scheme.
func (c *Client) FetchUserInfoSigned(ctx context.Context, apiKey, apiSecret, handle string) (*domain.AccountInfo, error) {
	params := map[string]string{
		"apiKey":  apiKey,
		"handles": handle,
		"time":    fmt.Sprintf("%d", time.Now().Unix()),
	}

	query, apiSig := SignRequest("user.info", params, apiSecret)
	endpoint := fmt.Sprintf("%s/user.info?%s&apiSig=%s", c.apiBase, query, apiSig)
	return c.fetchUser(ctx, endpoint)
}

// SignRequest builds the sorted query string and its signature for an
// authenticated API call
func SignRequest(method string, params map[string]string, secret string) (query, apiSig string) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	query = strings.Join(pairs, "&")

	rand6 := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	sigBase := fmt.Sprintf("%s/%s?%s#%s", rand6, method, query, secret)
	hash := sha512.Sum512([]byte(sigBase))

	return query, rand6 + hex.EncodeToString(hash[:])
}

func (c *Client) fetchUser(ctx context.Context, endpoint string) (*domain.AccountInfo, error) {
	result, err := c.call(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var users []apiUser
	if err := json.Unmarshal(result, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user in response")
	}

	user := users[0]
	info := &domain.AccountInfo{
		Handle:    user.Handle,
		Rating:    "Unrated",
		MaxRating: "Unrated",
		Rank:      "Unranked",
		Avatar:    user.TitlePhoto,
	}
	if user.Rating > 0 {
		info.Rating = fmt.Sprintf("%d", user.Rating)
	}
	if user.MaxRating > 0 {
		info.MaxRating = fmt.Sprintf("%d", user.MaxRating)
	}
	if user.Rank != "" {
		info.Rank = user.Rank
	}
	return info, nil
}

// call performs one API request and unwraps the platform envelope
func (c *Client) call(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Status != "OK" {
		return nil, fmt.Errorf("API returned status %q: %s", envelope.Status, envelope.Comment)
	}

	return envelope.Result, nil
}
