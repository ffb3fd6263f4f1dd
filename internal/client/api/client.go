// Package api talks to the MDD backend over HTTP/JSON. It contains the
// request interceptor (credential attachment + failure classification),
// the JSON client, and the auth gateway bridging network operations to the
// session store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// failureMessageKey carries a caller-supplied message that replaces the
// interceptor's status default when the call fails.
type failureMessageKey struct{}

// WithFailureMessage returns a context that makes the interceptor publish
// msg instead of the default message for the request's failure status.
func WithFailureMessage(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, failureMessageKey{}, msg)
}

func failureMessage(ctx context.Context) string {
	msg, _ := ctx.Value(failureMessageKey{}).(string)
	return msg
}

// silentFailureKey marks requests whose failures must not reach the
// notification bus (best-effort calls such as the server-side logout).
type silentFailureKey struct{}

// WithSilentFailure returns a context that keeps the interceptor from
// publishing a notification when the request fails. Session invalidation
// on 401 still applies.
func WithSilentFailure(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentFailureKey{}, true)
}

func silentFailure(ctx context.Context) bool {
	v, _ := ctx.Value(silentFailureKey{}).(bool)
	return v
}

// Client is a thin JSON client over net/http. The interceptor is installed
// as the transport, so every call through Client carries credentials and
// gets uniform failure handling.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, ic *Interceptor) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: ic},
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do performs the request and decodes the JSON response into out. Failed
// responses come back as *Error; by the time do returns such an error the
// interceptor has already run its side effects (session invalidation,
// notification), so callers only decide what to display.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The interceptor already published the unreachable notification.
		return &Error{Kind: KindUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// The round trip itself succeeded, so this is a broken response,
		// not an unreachable server.
		return &Error{Kind: KindServer, Message: "truncated server response", Status: resp.StatusCode}
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return classifyStatus(resp.StatusCode, eb)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Kind: KindServer, Message: "malformed server response", Status: resp.StatusCode}
		}
	}
	return nil
}
