// Package api is the typed client for the Betya challenge service. One
// method per endpoint, explicit response schemas at the boundary, errors
// classified into the outcomes the workflows care about.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"betyaClient/internal/transport"
)

// ErrSessionExpired is returned when the service rejects the bearer token.
// Callers clear the stored session and force a fresh login.
var ErrSessionExpired = errors.New("session expired")

// ErrInvitationHandled marks the benign 404 on invitation accept/reject:
// someone already resolved it, so the local list entry is simply dropped.
var ErrInvitationHandled = errors.New("invitation already handled")

// Error is a non-success remote outcome with the server's own message, which
// is surfaced to the user verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New builds a client for the given base URL. Pass nil to use a default
// http.Client; production callers hand in one built around
// transport.RoundTripper.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

func (c *Client) get(ctx context.Context, route, path string, out any) error {
	return c.do(ctx, http.MethodGet, route, path, nil, out)
}

func (c *Client) post(ctx context.Context, route, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, path, body, out)
}

func (c *Client) del(ctx context.Context, route, path string, out any) error {
	return c.do(ctx, http.MethodDelete, route, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, route, path string, body, out any) error {
	ctx = transport.WithRoute(ctx, route)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", route, err)
	}
	return nil
}

// decodeError extracts the user-facing message from a FastAPI-style error
// body, where detail is either a plain string or {"status", "message"}.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apiErr
	}

	if envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			apiErr.Message = text
		} else {
			var object struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(envelope.Detail, &object); err == nil && object.Message != "" {
				apiErr.Message = object.Message
			}
		}
	}
	return apiErr
}
