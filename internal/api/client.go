// Package api is the dashboard's client for the platform REST API.
//
// This package implements:
//   - A shared pooled http.Client reused by every request
//   - Bearer-token authentication per operator session
//   - One envelope convention for every response (see Unwrap)
//   - Typed errors for transport, status and shape failures
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "farmops/internal/errors"
)

// sharedClient is the pooled HTTP client used for all API calls.
//
// http.Client is safe for concurrent use, so one instance serves every
// operator session and the digest runner.
var sharedClient *http.Client

func init() {
	sharedClient = NewHTTPClient(30*time.Second, 100)
}

// GetHTTPClient returns the shared HTTP client instance.
func GetHTTPClient() *http.Client {
	return sharedClient
}

// NewHTTPClient creates a new HTTP client with connection pooling.
//
// Connection pool configuration:
//   - MaxIdleConns: maxConns, across all hosts
//   - MaxIdleConnsPerHost: a tenth of maxConns (at least 2)
//   - IdleConnTimeout: 90 seconds
//   - Keep-alives and HTTP/2 enabled
func NewHTTPClient(timeout time.Duration, maxConns int) *http.Client {
	if maxConns < 1 {
		maxConns = 100
	}
	perHost := maxConns / 10
	if perHost < 2 {
		perHost = 2
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxConns,
			MaxIdleConnsPerHost: perHost,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
			ForceAttemptHTTP2:   true,
		},
	}
}

// SetHTTPClient overrides the shared client. Used at startup to apply the
// configured timeout, and by tests.
func SetHTTPClient(client *http.Client) {
	sharedClient = client
}

// Client talks to one API base URL on behalf of one principal.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for baseURL using the shared HTTP client.
// token may be empty for unauthenticated calls such as login.
func NewClient(baseURL, token string) *Client {
	return &Client{baseURL: baseURL, token: token, http: GetHTTPClient()}
}

// WithToken returns a copy of c that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and returns the unwrapped payload.
//
// Status handling:
//   - 2xx: payload after Unwrap
//   - 401: SessionExpiredError
//   - other: APIError carrying the server's message when it sent one
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to read response from "+path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperrors.NewSessionExpiredError(serverMessage(raw, "please sign in again"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewAPIError(resp.StatusCode, path, serverMessage(raw, ""))
	}

	return Unwrap(raw)
}

// get decodes the payload of a GET into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	payload, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(path, payload, out)
}

func decode(path string, payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.NewFetchError("failed to decode response from "+path, err)
	}
	return nil
}
