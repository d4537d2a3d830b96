// Package upstream holds the HTTP plumbing shared by the control-plane
// adapters: a typed error for non-2xx responses and a small JSON request
// helper. Calls are never retried; failures surface to the router as-is.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/infra-neo/portal-api/internal/obs"
)

// Error describes a failed upstream call. Status is zero for transport
// failures that never produced a response.
type Error struct {
	Service string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Message)
}

// NotFound reports whether the upstream answered 404.
func (e *Error) NotFound() bool { return e.Status == http.StatusNotFound }

// AsError unwraps an *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// Client issues authenticated JSON requests against one upstream base URL.
// It carries only fixed configuration and is safe for concurrent use.
type Client struct {
	service string
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the named service. The bearer token may be
// empty for endpoints authenticated per-request.
func NewClient(service, baseURL, token string) *Client {
	return &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Service returns the upstream name used in errors and logs.
func (c *Client) Service() string { return c.service }

// DoJSON performs one request with a JSON body (nil for none) and decodes a
// 2xx response into out (nil to discard). Non-2xx responses and transport
// failures return *Error.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &Error{Service: c.service, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Service: c.service, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.do(req, out)
}

// DoForm posts a form-encoded body and decodes a 2xx JSON response into out.
// The stored client token is never sent; OAuth-style endpoints authenticate
// through the form body, or through the explicit bearer when non-empty.
func (c *Client) DoForm(ctx context.Context, path string, form url.Values, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Service: c.service, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, out)
}

// Get performs a GET with an optional per-request bearer token.
func (c *Client) Get(ctx context.Context, path, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Service: c.service, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	switch {
	case bearer != "":
		req.Header.Set("Authorization", "Bearer "+bearer)
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		obs.ObserveUpstream(c.service, "error")
		return &Error{Service: c.service, Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		obs.ObserveUpstream(c.service, "error")
		return &Error{Service: c.service, Status: res.StatusCode, Message: readErrorBody(res.Body)}
	}
	obs.ObserveUpstream(c.service, "ok")
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Service: c.service, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// readErrorBody extracts a message from an upstream error payload, falling
// back to the raw (truncated) body when it is not the usual JSON shape.
func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(raw) == 0 {
		return "upstream request failed"
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
