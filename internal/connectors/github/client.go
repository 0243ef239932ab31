package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the go-github client with rate limiting and error mapping.
type Client struct {
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// NewClient creates a new GitHub API client with a token provider.
func NewClient(tokenProvider driven.TokenProvider) *Client {
	return &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(ProactiveRate),
	}
}

// NewClientWithHTTPClient creates a client against baseURL using httpClient
// as is. An empty baseURL keeps api.github.com.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, limiter *RateLimiter) (*Client, error) {
	client := gh.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = u
	}
	if limiter == nil {
		limiter = NewRateLimiter(ProactiveRate)
	}
	return &Client{gh: client, rateLimiter: limiter}, nil
}

// ensureClient initializes the go-github client if not already done.
// The token is read lazily so configuration errors surface on first use.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}
	if c.tokenProvider == nil {
		c.gh = gh.NewClient(&http.Client{Timeout: DefaultTimeout})
		return nil
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	c.gh = gh.NewClient(tc)

	return nil
}

// GetTree fetches the entire tree at ref recursively.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	c.observe(resp)
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}
	return tree, nil
}

// GetBlob fetches a blob by SHA and decodes its content.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	c.observe(resp)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}

	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return decoded, nil
	}
	return []byte(blob.GetContent()), nil
}

// GetFileContent fetches a file at ref through the contents API.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	if err := c.before(ctx); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.observe(resp)
	if err != nil {
		return nil, c.wrapError(err, "get contents")
	}
	if content == nil {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return []byte(decoded), nil
}

// ValidateCredentials checks the token by fetching the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.before(ctx); err != nil {
		return err
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	c.observe(resp)
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}
	return nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

func (c *Client) before(ctx context.Context) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (c *Client) observe(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.Observe(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if rlErr := c.rateLimiter.CheckRateLimit(ghErr.Response); rlErr != nil {
			return rlErr
		}
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
