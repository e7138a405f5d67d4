package indexd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Gateway defines the calls the search core and UI make against the index
// server. It is implemented by *Client and can be faked in tests.
type Gateway interface {
	Search(ctx context.Context, query string) (SearchResult, error)
	SetAttribute(ctx context.Context, itemURL, field string, value int) error
	MutateTag(ctx context.Context, itemURL, tag string, action TagAction) error
	FetchSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
	FetchView(ctx context.Context, id ItemID) (string, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// ErrItemIDRequired is returned when a view is requested without an id.
var ErrItemIDRequired = errors.New("item id required")

// Client talks to the index server HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAddress   = "localhost:7172"
	defaultUserAgent = "sift/0.1"
	defaultTimeout   = 10 * time.Second
	maxViewBytes     = 16 << 20
)

// NewClient builds a Client for the given host:port (or full URL). A
// non-positive timeout uses the default.
func NewClient(address string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(address)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the server root the client resolves paths against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Search runs a query. Callers never send the empty query.
func (c *Client) Search(ctx context.Context, query string) (SearchResult, error) {
	if c == nil {
		return SearchResult{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("q", query)
	rel := &url.URL{Path: "/search", RawQuery: values.Encode()}
	var payload SearchResult
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return SearchResult{}, err
	}
	return payload, nil
}

// SetAttribute sets a boolean-like attribute (0 or 1) on the item at itemURL.
func (c *Client) SetAttribute(ctx context.Context, itemURL, field string, value int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("url", itemURL)
	values.Set("field", field)
	values.Set("value", strconv.Itoa(value))
	rel := &url.URL{Path: "/attributes", RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodGet, rel, nil, nil)
}

// MutateTag adds or removes one tag on the item at itemURL.
func (c *Client) MutateTag(ctx context.Context, itemURL, tag string, action TagAction) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if !action.Valid() {
		return fmt.Errorf("unknown tag action %q", action)
	}
	values := url.Values{}
	values.Set("url", itemURL)
	values.Set("field", FieldTag)
	values.Set("value", tag)
	values.Set("action", string(action))
	rel := &url.URL{Path: "/attributes_array", RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodGet, rel, nil, nil)
}

// FetchSettings reads the server's system settings.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	if c == nil {
		return Settings{}, fmt.Errorf("client is nil")
	}
	var payload Settings
	if err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/settings"}, nil, &payload); err != nil {
		return Settings{}, err
	}
	return payload, nil
}

// SaveSettings writes the server's system settings.
func (c *Client) SaveSettings(ctx context.Context, settings Settings) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return c.doURL(ctx, http.MethodPost, &url.URL{Path: "/settings"}, body, nil)
}

// FetchView returns the raw stored content for an item. The content is not
// sanitized.
func (c *Client) FetchView(ctx context.Context, id ItemID) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	trimmed := strings.TrimSpace(id.String())
	if trimmed == "" {
		return "", ErrItemIDRequired
	}
	rel := &url.URL{Path: "/view/" + trimmed}
	resp, err := c.send(ctx, http.MethodGet, rel, nil, "text/plain, */*")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxViewBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(raw), nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body []byte, dest any) error {
	resp, err := c.send(ctx, method, rel, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method string, rel *url.URL, body []byte, accept string) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	return resp, nil
}

func parseBaseURL(address string) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		trimmed = defaultAddress
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server address %q: %w", address, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
