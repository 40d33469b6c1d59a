// Package github provides a client for the GitHub REST API v3, covering
// just the endpoints the enrichment pipeline requires.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const userAgent = "resume-intel"

// Client defines the GitHub API operations used by enrichment.
type Client interface {
	// GetUser fetches a user's public profile as the raw API object.
	GetUser(ctx context.Context, login string) (map[string]any, error)
	// ListUserEvents fetches up to perPage recent public events for a user.
	ListUserEvents(ctx context.Context, login string, perPage int) ([]Event, error)
	// ListUserRepos fetches up to perPage owned repositories sorted by
	// last update.
	ListUserRepos(ctx context.Context, login string, perPage int) ([]Repository, error)
	// GetRepo fetches repository metadata as the raw API object plus the
	// parsed fields enrichment derives from.
	GetRepo(ctx context.Context, owner, repo string) (*RepoInfo, error)
	// GetReadme fetches and decodes a repository's README.
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	// GetLanguages fetches a repository's language byte breakdown.
	GetLanguages(ctx context.Context, owner, repo string) (Languages, error)
}

// Event is a public event on a user's timeline. Only the timestamp matters
// for activity computation.
type Event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is one entry from a user's repository listing.
type Repository struct {
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	HTMLURL         string     `json:"html_url"`
	Description     string     `json:"description"`
	StargazersCount int        `json:"stargazers_count"`
	ForksCount      int        `json:"forks_count"`
	CreatedAt       *time.Time `json:"created_at"`
	PushedAt        *time.Time `json:"pushed_at"`
}

// RepoInfo is repository metadata fetched directly by owner/name. Raw holds
// the unparsed API object for passthrough to the caller.
type RepoInfo struct {
	Repository
	Raw map[string]any
}

// Languages maps language name to byte count.
type Languages map[string]int64

// Option configures the GitHub client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a GitHub API client. token may be empty; unauthenticated
// calls work but are subject to much stricter upstream rate limits.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: "https://api.github.com",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues an authenticated GET and unmarshals the response into out.
// Every call is attempted exactly once; callers degrade on any error and
// never distinguish a 404 from a transport failure.
func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "github: create request")
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "github: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "github: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("github: %s returned %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "github: unmarshal %s", path)
	}
	return nil
}

func (c *httpClient) GetUser(ctx context.Context, login string) (map[string]any, error) {
	var profile map[string]any
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(login), &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *httpClient) ListUserEvents(ctx context.Context, login string, perPage int) ([]Event, error) {
	path := fmt.Sprintf("/users/%s/events/public?per_page=%d", url.PathEscape(login), perPage)
	var events []Event
	if err := c.getJSON(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *httpClient) ListUserRepos(ctx context.Context, login string, perPage int) ([]Repository, error) {
	path := fmt.Sprintf("/users/%s/repos?per_page=%d&type=owner&sort=updated", url.PathEscape(login), perPage)
	var repos []Repository
	if err := c.getJSON(ctx, path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *httpClient) GetRepo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))

	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}

	info := &RepoInfo{}
	if err := json.Unmarshal(raw, &info.Repository); err != nil {
		return nil, eris.Wrapf(err, "github: parse repo %s/%s", owner, repo)
	}
	if err := json.Unmarshal(raw, &info.Raw); err != nil {
		return nil, eris.Wrapf(err, "github: parse repo %s/%s", owner, repo)
	}
	return info, nil
}

// readmeResponse is the contents API shape; content arrives base64-encoded.
type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (c *httpClient) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	path := fmt.Sprintf("/repos/%s/%s/readme", url.PathEscape(owner), url.PathEscape(repo))
	var rr readmeResponse
	if err := c.getJSON(ctx, path, &rr); err != nil {
		return "", err
	}
	if rr.Content == "" {
		return "", nil
	}

	// The contents API wraps base64 at 60 columns; strip line breaks
	// before decoding.
	decoded, err := base64.StdEncoding.DecodeString(stripNewlines(rr.Content))
	if err != nil {
		return "", eris.Wrapf(err, "github: decode readme %s/%s", owner, repo)
	}
	return string(decoded), nil
}

func (c *httpClient) GetLanguages(ctx context.Context, owner, repo string) (Languages, error) {
	path := fmt.Sprintf("/repos/%s/%s/languages", url.PathEscape(owner), url.PathEscape(repo))
	var langs Languages
	if err := c.getJSON(ctx, path, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func stripNewlines(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			continue
		}
		b = append(b, s[i])
	}
	return string(b)
}
