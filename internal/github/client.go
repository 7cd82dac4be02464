package github

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
)

// Client defines the GitHub API methods used by this application.
type Client interface {
	// GetRepository fetches the raw JSON document for owner/repo.
	GetRepository(ctx context.Context, owner, repo string) ([]byte, *gh.Response, error)
}

// ClientOptions configures an unauthenticated REST client.
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// realClient wraps the go-github client to implement Client.
type realClient struct {
	inner *gh.Client
}

// NewClient creates a GitHub API client. No credentials are sent.
func NewClient(opts ClientOptions) (Client, error) {
	inner := gh.NewClient(&http.Client{Timeout: opts.Timeout})
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing API URL %q: %w", opts.BaseURL, err)
		}
		inner.BaseURL = u
	}
	if opts.UserAgent != "" {
		inner.UserAgent = opts.UserAgent
	}
	return &realClient{inner: inner}, nil
}

func (c *realClient) GetRepository(ctx context.Context, owner, repo string) ([]byte, *gh.Response, error) {
	req, err := c.inner.NewRequest(http.MethodGet, fmt.Sprintf("repos/%v/%v", owner, repo), nil)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	resp, err := c.inner.Do(ctx, req, &buf)
	return buf.Bytes(), resp, err
}
