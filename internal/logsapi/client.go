package logsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves log batches. It is implemented by *Client and by test fakes.
type Fetcher interface {
	FetchLogs(ctx context.Context, query Query) (Batch, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

var (
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrDecode wraps bodies that are not a valid batch.
	ErrDecode = errors.New("decode response")
)

// Client talks to a log data endpoint over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultEndpoint  = "127.0.0.1:8087"
	defaultUserAgent = "lookout/0.1"
	requestTimeout   = 5 * time.Second
	logsDataPath     = "logs-data"
)

// NewClient builds a Client for the endpoint base URL or host:port value.
func NewClient(endpoint string) (*Client, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the normalized base URL.
func (c *Client) Endpoint() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Query configures /logs-data requests.
type Query struct {
	CharacterName string
	Offset        Cursor
}

// FetchLogs retrieves the lines appended since query.Offset.
func (c *Client) FetchLogs(ctx context.Context, query Query) (Batch, error) {
	if c == nil {
		return Batch{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("characterName", query.CharacterName)
	if !query.Offset.IsZero() {
		values.Set("offset", query.Offset.String())
	}
	rel := &url.URL{Path: logsDataPath, RawQuery: values.Encode()}
	var payload Batch
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return Batch{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrStatus, rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// parseBaseURL keeps any path prefix so endpoints mounted below a reverse
// proxy resolve to <prefix>/logs-data.
func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", endpoint)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
