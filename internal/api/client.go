// Package api is the typed HTTP client for the remote trip planner API.
//
// One Client is bound to one base endpoint. Every request attaches the bearer
// token currently held by the injected TokenSource; every authentication
// rejection is reported to the injected UnauthorizedHandler and still surfaces
// to the caller as an error wrapping domain.ErrUnauthenticated. The client
// performs no retries, no backoff, and no caching — freshness is the query
// cache's job, retry is always a manual user action.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripkit/internal/domain"
)

// TokenSource yields the current bearer token. session.Store implements it.
type TokenSource interface {
	Token() (token string, ok bool)
}

// UnauthorizedHandler is notified when the server rejects the credential.
// The transport only reports the condition; what to do about it (clear the
// session, navigate to login) is owned by a single coordinator so the policy
// lives in exactly one place.
type UnauthorizedHandler interface {
	Unauthorized()
}

// Client talks to the remote API. Construct one per base URL and share it;
// all methods are safe for concurrent use.
type Client struct {
	baseURL      string
	http         *http.Client
	tokens       TokenSource
	unauthorized UnauthorizedHandler
	log          *slog.Logger
}

// NewClient constructs a Client. httpClient carries the request timeout;
// tokens and unauthorized may be nil for unauthenticated use (tests, signup
// before any session exists).
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, unauthorized UnauthorizedHandler, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         httpClient,
		tokens:       tokens,
		unauthorized: unauthorized,
		log:          log,
	}
}

// do runs one round-trip: marshal body (if any), attach headers and bearer
// token, send, map the status code, decode into out (if any).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: %s %s: encoding request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.unauthorized != nil {
			c.unauthorized.Unauthorized()
		}
		return fmt.Errorf("api: %s %s: %w", method, path, domain.ErrUnauthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("api: %s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("api: %s %s: %w", method, path, newAPIError(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A contract mismatch is a failure, never silently swallowed.
		return fmt.Errorf("api: %s %s: decoding response: %w", method, path, err)
	}
	return nil
}
