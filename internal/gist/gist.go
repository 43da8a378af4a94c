// Package gist implements a minimal client for the GitHub Gist REST API.
// It is able to update the files of an existing gist with a bearer token.
package gist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ubuntu/decorate"
	"github.com/xmsleep/stats-reset/internal/constants"
)

// maxErrorBody caps how much of a rejected response body is kept.
const maxErrorBody = 1 << 20

var (
	// ErrEmptyToken is returned when the client is created without a token.
	ErrEmptyToken = errors.New("token cannot be an empty string")
	// ErrInvalidGistID is returned when the gist ID is empty or would escape the gist endpoint.
	ErrInvalidGistID = errors.New("invalid gist ID")
	// ErrTransport is returned when the request could not complete: network unreachable, timeout,
	// TLS error or unreadable response.
	ErrTransport = errors.New("request could not complete")
)

// APIError is returned when GitHub answers with a status other than 200 OK.
type APIError struct {
	StatusCode int
	// Body is the raw response body.
	Body []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Client manages communication with the GitHub Gist API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	userAgent  string
}

type options struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Options represents an optional function to override Client default values.
type Options func(*options)

// WithBaseURL sets the base URL of the API, for GitHub Enterprise Server or tests.
func WithBaseURL(u string) Options {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used to send requests.
func WithHTTPClient(c *http.Client) Options {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Options {
	return func(o *options) {
		o.userAgent = ua
	}
}

// New returns a new gist client authenticating with token.
func New(token string, args ...Options) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	opts := options{
		baseURL:    constants.DefaultAPIURL,
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
		userAgent:  constants.CmdName + "/" + constants.Version,
	}
	for _, opt := range args {
		opt(&opts)
	}

	u, err := url.Parse(opts.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %s: %v", opts.baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", opts.baseURL)
	}

	return &Client{
		httpClient: opts.httpClient,
		baseURL:    u,
		token:      token,
		userAgent:  opts.userAgent,
	}, nil
}

// Endpoint returns the URL of the gist identified by gistID.
func (c *Client) Endpoint(gistID string) (string, error) {
	if gistID == "" || strings.ContainsAny(gistID, "/?#") || gistID == "." || gistID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidGistID, gistID)
	}
	return c.baseURL.JoinPath("gists", gistID).String(), nil
}

// Update sends a single PATCH request replacing the description and files of the gist.
//
// It returns nil only when GitHub answers 200 OK. Any other status is returned as an *APIError
// carrying the raw body, and failures to complete the exchange wrap ErrTransport.
// The request is never retried.
func (c *Client) Update(ctx context.Context, gistID string, body UpdateRequest) (err error) {
	defer decorate.OnError(&err, "could not update gist %s", gistID)

	endpoint, err := c.Endpoint(gistID)
	if err != nil {
		return err
	}

	data, err := body.marshal()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", constants.APIAcceptHeader)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	slog.Debug("Sending gist update", "url", endpoint, "payload", string(data))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return fmt.Errorf("%w: failed to read response body for status %d: %w", ErrTransport, resp.StatusCode, err)
		}
		return &APIError{StatusCode: resp.StatusCode, Body: b}
	}

	// The updated gist is not inspected, but the body must be fully received.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}
	slog.Debug("Gist updated", "url", endpoint, "status", resp.StatusCode)

	return nil
}
