// Package erp is a typed client for the FilaOps ERP REST backend. The
// backend owns every record; this package only fetches and issues commands.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ridha-415/filaops-sub002/internal/shared"
)

const apiPrefix = "/api/v1"

// CallObserver receives the outcome of every upstream call.
type CallObserver interface {
	ObserveUpstreamCall(resource, outcome string)
}

// APIError carries the backend's error payload. The detail string is shown
// to the operator verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("erp: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("erp: status %d", e.Status)
}

// Is maps 404 responses to shared.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == shared.ErrNotFound && e.Status == http.StatusNotFound
}

// Client wraps interactions with the ERP backend API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	serviceToken shared.Token
	observer     CallObserver
}

// Option configures a Client.
type Option func(*Client)

// WithServiceToken sets the fallback credential used when the request
// context carries none.
func WithServiceToken(tok string) Option {
	return func(c *Client) { c.serviceToken = shared.Token(tok) }
}

// WithObserver registers a metrics observer for upstream calls.
func WithObserver(obs CallObserver) Option {
	return func(c *Client) { c.observer = obs }
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient constructs a new client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks if the remote ERP backend is available.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "health", nil, nil)
}

// token resolves the credential for one call: the request-scoped token wins,
// the configured service token is the fallback.
func (c *Client) token(ctx context.Context) (shared.Token, error) {
	if tok := shared.TokenFromContext(ctx); tok != "" {
		return tok, nil
	}
	if c.serviceToken != "" {
		return c.serviceToken, nil
	}
	return "", shared.ErrMissingCredential
}

func (c *Client) observe(resource, outcome string) {
	if c.observer != nil {
		c.observer.ObserveUpstreamCall(resource, outcome)
	}
}

// do issues one request against the backend. A non-2xx response is decoded
// into an APIError carrying the backend detail string.
func (c *Client) do(ctx context.Context, method, path, resource string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("erp: encode %s request: %w", resource, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("erp: build %s request: %w", resource, err)
	}
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+string(tok))
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, "unreachable")
		return fmt.Errorf("%w: %s: %v", shared.ErrUpstreamUnavailable, resource, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		c.observe(resource, "error")
		return decodeError(resp)
	}
	c.observe(resource, "ok")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erp: decode %s response: %w", resource, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(raw, &payload) == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
