// Package client is a typed Go client for the marketplace API. It keeps the
// session cookie in a jar, caches list responses and drops the affected lists
// after each mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/servinear/marketplace-backend/internal/api"
)

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d (%s): %s [%s]", e.Status, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to one marketplace server
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	lists map[string][]byte
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added when it has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		lists:      make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// call sends a request to an endpoint and decodes the JSON response into out
func (c *Client) call(ctx context.Context, ep api.Endpoint, params api.Params, body, out interface{}) error {
	data, err := c.send(ctx, ep.Method, ep.URL(params), nil, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// list is call for GET list endpoints, served from the cache when present
func (c *Client) list(ctx context.Context, ep api.Endpoint, params api.Params, query url.Values, out interface{}) error {
	path := ep.URL(params)
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	c.mu.Lock()
	cached, ok := c.lists[key]
	c.mu.Unlock()
	if ok {
		return decode(cached, out)
	}

	data, err := c.send(ctx, ep.Method, path, query, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lists[key] = data
	c.mu.Unlock()

	return decode(data, out)
}

// invalidate drops cached lists whose key starts with any of the prefixes; none drops everything
func (c *Client) invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(prefixes) == 0 {
		c.lists = make(map[string][]byte)
		return
	}
	for key := range c.lists {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(c.lists, key)
				break
			}
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body api.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		apiErr.Field = body.Field
		return apiErr
	}
	apiErr.Message = http.StatusText(status)
	return apiErr
}

func decode(data []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
