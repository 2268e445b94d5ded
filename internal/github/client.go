// Package github talks to the GitHub REST API to discover and download
// release assets.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matze/binge/internal/repo"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	userAgent      = "binge"
)

// Release is the subset of the latest-release payload binge cares about.
// It is fetched fresh on every install or update and never persisted.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// FetchError wraps any failure to obtain release metadata, tied to the
// repository it occurred for.
type FetchError struct {
	Repo repo.Repo
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching latest release of %s: %v", e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client is a shared GitHub API client. It is constructed once per
// process and is safe for concurrent use; after construction all of its
// state is read-only.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option customizes the client during construction.
type Option func(c *Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient builds a client for the GitHub API. The token is optional;
// when empty, requests are unauthenticated and subject to the anonymous
// rate limit.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Minute},
		baseURL: defaultBaseURL,
		token:   token,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

// LatestRelease fetches the latest published release of a repository.
// Network errors, non-2xx responses and malformed bodies are all
// surfaced as a *FetchError; the client never retries.
func (c *Client) LatestRelease(ctx context.Context, r repo.Repo) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, r.Owner, r.Name)
	log.Debug("fetching latest release", "repo", r.String(), "url", url)

	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, &FetchError{Repo: r, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Repo: r, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Repo: r, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, &FetchError{Repo: r, Err: fmt.Errorf("decoding response: %w", err)}
	}

	log.Debug("found release", "repo", r.String(), "tag", release.TagName, "assets", len(release.Assets))

	return &release, nil
}

// Download starts downloading an asset and returns its body along with
// the content length, -1 when unknown. The caller owns the body.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("downloading %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("downloading %s: unexpected status %d", url, resp.StatusCode)
	}

	return resp.Body, resp.ContentLength, nil
}
