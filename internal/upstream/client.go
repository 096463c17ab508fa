// Package upstream is the HTTP client for the remote ERP API. Every call
// carries a bearer access token and the tenant-scoping key header. When a call
// comes back 401 the client refreshes the session once, single-flight: a burst
// of expired requests triggers exactly one refresh, everyone waits on its
// outcome, and each request is retried at most once.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	loginPath   = "/v1/auth/login"
	refreshPath = "/v1/auth/refresh"

	tenantHeader = "X-Tenant-Key"
)

var (
	// ErrNotAuthenticated indicates no usable session (never logged in, or the
	// session was cleared after a failed refresh).
	ErrNotAuthenticated = errors.New("not authenticated")
)

// StatusError is a non-2xx upstream response surfaced to the caller.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the upstream ERP for one tenant.
type Client struct {
	baseURL   string
	tenantKey string
	http      *http.Client
	logger    *log.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a Client for the given ERP base URL and tenant key.
func New(baseURL, tenantKey string, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tenantKey: tenantKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates against the upstream and stores the session tokens.
// Login failures are surfaced directly; they never enter the refresh gate.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var creds credentials
	payload := map[string]string{"email": email, "password": password}
	if _, err := c.send(ctx, http.MethodPost, loginPath, payload, &creds); err != nil {
		return err
	}
	c.setSession(creds)
	return nil
}

// Logout drops the stored session.
func (c *Client) Logout() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// Authenticated reports whether a session is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// TokenExpiry returns the access token's exp claim, or the zero time when the
// token carries none.
func (c *Client) TokenExpiry() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiresAt
}

// Do performs an authenticated JSON call. On a 401 it joins the single-flight
// refresh and retries exactly once; a second 401 is returned as a terminal
// StatusError. When the refresh itself fails the session is cleared and the
// refresh error is returned to every waiting request.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	status, err := c.send(ctx, method, path, body, out)
	if status != http.StatusUnauthorized || path == loginPath || path == refreshPath {
		return err
	}

	if _, refreshErr, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	}); refreshErr != nil {
		c.Logout()
		return fmt.Errorf("refresh session: %w", refreshErr)
	}

	_, err = c.send(ctx, method, path, body, out)
	return err
}

func (c *Client) refresh(ctx context.Context) error {
	c.mu.RLock()
	token := c.refreshToken
	c.mu.RUnlock()
	if token == "" {
		return ErrNotAuthenticated
	}

	var creds credentials
	payload := map[string]string{"refreshToken": token}
	if _, err := c.send(ctx, http.MethodPost, refreshPath, payload, &creds); err != nil {
		return err
	}
	c.setSession(creds)
	if c.logger != nil {
		c.logger.Printf("upstream session refreshed")
	}
	return nil
}

func (c *Client) setSession(creds credentials) {
	exp := tokenExpiry(creds.AccessToken)
	c.mu.Lock()
	c.accessToken = creds.AccessToken
	c.refreshToken = creds.RefreshToken
	c.expiresAt = exp
	c.mu.Unlock()
}

// send performs one HTTP round trip. It returns the status code alongside the
// error so Do can recognize 401 without unwrapping.
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(tenantHeader, c.tenantKey)
	c.mu.RLock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error body"
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "request failed"
	}
	return msg
}
