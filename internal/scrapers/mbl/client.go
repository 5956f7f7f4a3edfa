// internal/scrapers/mbl/client.go
package mbl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

const (
	DefaultBaseURL   = "http://www.mbl.is/fasteignir"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/104.0.5112.102 Safari/537.36"

	defaultMaxBody = 10 << 20
)

// Client runs searches against the site. A search is two explicit hops: the
// form POST answers with a redirect to a canonical results URL, which is then
// fetched with GET. Redirects are never followed by the http.Client itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxBody    int64
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			cp := *client
			c.httpClient = &cp
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(userAgent) != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout bounds each hop separately.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("mbl: invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		maxBody:    defaultMaxBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search submits the form and returns the body of the results page it
// redirects to.
func (c *Client) Search(ctx context.Context, form SearchForm) ([]byte, error) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{"component": "mbl.Client(Search)"})

	queryURL := c.baseURL + "/query"
	location, err := c.submit(ctx, queryURL, form.Encode())
	if err != nil {
		log.Error("Search form submission failed", err, logger.Fields{"url": queryURL})
		return nil, err
	}

	log.Debug("Following search redirect", logger.Fields{"location": location})
	return c.fetch(ctx, location)
}

// Page fetches a results page directly from a cursor. q and page are passed
// through as the site issued them.
func (c *Client) Page(ctx context.Context, cursor domain.Cursor) ([]byte, error) {
	pageURL := c.baseURL + "/leit?q=" + url.QueryEscape(cursor.Q) + "&page=" + url.QueryEscape(cursor.Page)

	logger.FromContext(ctx).Debug("Fetching results page from cursor", logger.Fields{
		"component": "mbl.Client(Page)",
		"url":       pageURL,
	})
	return c.fetch(ctx, pageURL)
}

// submit posts the form and returns the absolute redirect target.
func (c *Client) submit(ctx context.Context, queryURL, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request for %s: %v", domain.ErrTransport, queryURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify("post "+queryURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))

	if resp.StatusCode >= http.StatusBadRequest || resp.StatusCode < http.StatusOK {
		return "", fmt.Errorf("%w: post %s: status %d", domain.ErrTransport, queryURL, resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: post %s: status %d without Location header", domain.ErrProtocol, queryURL, resp.StatusCode)
	}
	target, err := resp.Request.URL.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: post %s: bad Location %q: %v", domain.ErrProtocol, queryURL, location, err)
	}

	return target.String(), nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", domain.ErrTransport, pageURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify("get "+pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: get %s: status %d", domain.ErrTransport, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, classify("read "+pageURL, err)
	}
	return body, nil
}

func classify(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
}
