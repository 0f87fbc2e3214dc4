package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"golang.org/x/oauth2"
)

type ctxKey string

// accessTokenKey carries the operator's bearer token for the duration of
// one inbound request.
const accessTokenKey ctxKey = "access_token"

// WithAccessToken adds the operator's bearer token to context
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFrom extracts the operator's bearer token from context
func AccessTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}

// Options configures a Client
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ServiceToken string
	MaxPages     int
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
}

// Client talks to the remote REST backend. Every call is authenticated with
// the bearer token found in ctx, or the service token when ctx has none.
type Client struct {
	baseURL      *url.URL
	timeout      time.Duration
	serviceToken string
	maxPages     int
	transport    http.RoundTripper
}

// NewClient creates a backend client
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend: invalid base URL %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 50
	}
	return &Client{
		baseURL:      base,
		timeout:      opts.Timeout,
		serviceToken: opts.ServiceToken,
		maxPages:     opts.MaxPages,
		transport:    opts.Transport,
	}, nil
}

// httpClient returns an http.Client that injects the bearer token
func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	token, ok := AccessTokenFrom(ctx)
	if !ok {
		token = c.serviceToken
	}
	if token == "" {
		return nil, apperror.NewAppError(http.StatusUnauthorized, "Authentication required")
	}

	base := &http.Client{Transport: c.transport}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), src)
	hc.Timeout = c.timeout
	return hc, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return c.baseURL.String() + strings.TrimLeft(path, "/")
	}
	return c.baseURL.ResolveReference(ref).String()
}

// do sends a JSON request and decodes a JSON response into out. Non-2xx
// responses become *apperror.AppError carrying the backend's message.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, headers map[string]string) error {
	hc, err := c.httpClient(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return fmt.Errorf("backend: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		log.Printf("backend: %s %s failed: %v", method, path, err)
		if errors.Is(err, context.Canceled) {
			return apperror.NewUpstreamError(0, "Request was cancelled")
		}
		return apperror.NewUpstreamError(0, "Unable to reach the server")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperror.NewUpstreamError(0, "Failed to read server response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("backend: %s %s returned undecodable body: %v", method, path, err)
		return apperror.NewUpstreamError(0, "Unexpected response from server")
	}
	return nil
}

// list follows pagination links and returns every record of a listing
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	return pagination.Collect(ctx, c.maxPages, func(ctx context.Context, next string) (*pagination.Page[T], error) {
		if next == "" {
			next = path
		}
		var page pagination.Page[T]
		if err := c.do(ctx, http.MethodGet, next, nil, &page, nil); err != nil {
			return nil, err
		}
		return &page, nil
	})
}

// decodeError builds an AppError from an error response body. The
// backend's message is kept verbatim.
func decodeError(status int, raw []byte) error {
	msg, fields := errorMessage(raw)
	if msg == "" {
		msg = defaultMessage(status)
	}
	appErr := apperror.NewUpstreamError(status, msg)
	appErr.Errors = fields
	return appErr
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "You do not have permission to perform this action"
	case http.StatusNotFound:
		return "Resource not found"
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func errorMessage(raw []byte) (string, []apperror.FieldError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		for _, key := range []string{"detail", "message", "error", "non_field_errors"} {
			if v, ok := obj[key]; ok {
				if s := flatten(v); s != "" {
					return s, nil
				}
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var fields []apperror.FieldError
		var parts []string
		for _, k := range keys {
			if s := flatten(obj[k]); s != "" {
				fields = append(fields, apperror.FieldError{Field: k, Message: s})
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; "), fields
	}

	if s := flatten(trimmed); s != "" {
		return s, nil
	}

	text := string(trimmed)
	if strings.HasPrefix(text, "<") {
		// HTML error pages carry nothing useful for the cashier.
		return "", nil
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text, nil
}

// flatten renders a string or a list of strings as one message
func flatten(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(v, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
