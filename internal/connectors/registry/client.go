package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the default number of attempts for transient errors.
	MaxRetries = 3

	// RetryDelay is the backoff step between attempts.
	RetryDelay = time.Second

	// PageSize is the number of records requested per page (the API maximum).
	PageSize = 100

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// Ensure Client implements the interface.
var _ driven.RegistryClient = (*Client)(nil)

// Client talks to an Airtable-shaped REST registry.
// Requests are issued one at a time and paced by the rate limiter.
type Client struct {
	cfg           *Config
	http          *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	retryDelay    time.Duration
}

// NewClient creates a registry client with a token provider.
func NewClient(cfg *Config, tokenProvider driven.TokenProvider) *Client {
	return &Client{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestDelay),
		retryDelay:    RetryDelay,
	}
}

// NewClientWithHTTPClient creates a registry client with a custom http.Client.
// The caller's client is responsible for authentication.
func NewClientWithHTTPClient(cfg *Config, httpClient *http.Client) *Client {
	return &Client{
		cfg:         cfg,
		http:        httpClient,
		rateLimiter: NewRateLimiter(cfg.RequestDelay),
		retryDelay:  RetryDelay,
	}
}

// SetRetryDelay overrides the backoff step.
func (c *Client) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ensureClient initializes the authenticated http.Client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.http != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return fmt.Errorf("%w: no registry token provider", domain.ErrAuthRequired)
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.cfg.Timeout
	c.http = tc

	return nil
}

type apiRecord struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

type listResponse struct {
	Records []apiRecord `json:"records"`
	Offset  string      `json:"offset"`
}

type createRequest struct {
	Fields map[string]any `json:"fields"`
}

// FetchRecords returns every record matching the query, following the
// offset cursor until the table is exhausted or MaxRecords is reached.
func (c *Client) FetchRecords(ctx context.Context, query driven.RegistryQuery) ([]domain.RegistryRecord, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistryFetch, err)
	}

	var (
		records []domain.RegistryRecord
		offset  string
	)
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(PageSize))
		if offset != "" {
			params.Set("offset", offset)
		}
		if query.View != "" {
			params.Set("view", query.View)
		}
		if query.Formula != "" {
			params.Set("filterByFormula", query.Formula)
		}
		if query.MaxRecords > 0 {
			params.Set("maxRecords", strconv.Itoa(query.MaxRecords))
		}

		var resp listResponse
		endpoint := c.cfg.TableURL() + "?" + params.Encode()
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp, IsTransient); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrRegistryFetch, page, err)
		}
		logger.Debug("Registry page %d: %d records", page, len(resp.Records))

		for _, r := range resp.Records {
			records = append(records, c.toRecord(r))
		}

		if query.MaxRecords > 0 && len(records) >= query.MaxRecords {
			return records[:query.MaxRecords], nil
		}
		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}
}

// CreateRecord creates one record and returns its id.
// Only rate-limited writes are retried, since nothing was created.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	if err := c.ensureClient(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRegistryWrite, err)
	}

	var rec apiRecord
	if err := c.do(ctx, http.MethodPost, c.cfg.TableURL(), createRequest{Fields: fields}, &rec, IsRateLimited); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRegistryWrite, err)
	}
	if rec.ID == "" {
		return "", fmt.Errorf("%w: %w: created record has no id", domain.ErrRegistryWrite, ErrInvalidResponse)
	}
	return rec.ID, nil
}

// toRecord keeps the identifier field as text. A missing or non-string
// identifier becomes empty and fails to parse downstream.
func (c *Client) toRecord(r apiRecord) domain.RegistryRecord {
	ident, _ := r.Fields[c.cfg.IdentifierField].(string)
	return domain.RegistryRecord{
		ID:         r.ID,
		Identifier: ident,
		Fields:     r.Fields,
	}
}

// do sends one request, retrying while retryable(err) holds and attempts remain.
func (c *Client) do(
	ctx context.Context,
	method, endpoint string,
	body, out any,
	retryable func(error) bool,
) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		lastErr = c.send(ctx, method, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}
		if attempt == c.cfg.MaxAttempts || !retryable(lastErr) {
			break
		}

		delay := c.retryDelay * time.Duration(attempt)
		logger.Warn("Registry %s attempt %d/%d failed: %v; retrying in %s",
			method, attempt, c.cfg.MaxAttempts, lastErr, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.wrapError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// wrapError converts an error response to an APIError.
// The body is either {"error": "TYPE"} or {"error": {"type": ..., "message": ...}}.
func (c *Client) wrapError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.Redacted(),
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	var code string
	switch {
	case json.Unmarshal(envelope.Error, &code) == nil:
		apiErr.Type = code
	case json.Unmarshal(envelope.Error, &detail) == nil:
		apiErr.Type = detail.Type
		apiErr.Message = detail.Message
	}
	if apiErr.Type == "" && apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// ValidateCredentials checks the token and table address with a one-record fetch.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	_, err := c.FetchRecords(ctx, driven.RegistryQuery{MaxRecords: 1})
	if err != nil && errors.Is(err, domain.ErrAuthRequired) {
		return fmt.Errorf("validate credentials: %w", err)
	}
	return err
}
