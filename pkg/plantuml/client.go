package plantuml

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/matzehuels/umlsync/pkg/buildinfo"
	uerrors "github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/httputil"
	"github.com/matzehuels/umlsync/pkg/observability"
)

// DefaultTimeout bounds a single fetch, retries included.
const DefaultTimeout = 30 * time.Second

// maxImageSize bounds the response body read from the server.
const maxImageSize = 32 << 20

// Client fetches rendered diagrams from a PlantUML server.
// A Client is safe for concurrent use.
type Client struct {
	server   string
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the number of attempts and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// NewClient creates a client for server; an empty server selects
// DefaultServer.
func NewClient(server string, opts ...Option) *Client {
	if server == "" {
		server = DefaultServer
	}
	c := &Client{
		server:   server,
		http:     &http.Client{Timeout: DefaultTimeout},
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Server returns the server base URL.
func (c *Client) Server() string { return c.server }

// URL returns the diagram URL for text on this client's server.
func (c *Client) URL(text string, format Format) string {
	return DiagramURL(c.server, text, format)
}

// Fetch renders text as format and returns the image bytes. Network errors,
// 5xx and 429 responses are retried with exponential backoff.
//
// Errors carry codes from the errors package: ErrCodeInvalidDocument for
// blank text, ErrCodeRender when the server rejects the document,
// ErrCodeRateLimited, ErrCodeTimeout and ErrCodeNetwork otherwise.
func (c *Client) Fetch(ctx context.Context, text string, format Format) ([]byte, error) {
	url := c.URL(text, format)
	if url == "" {
		return nil, uerrors.New(uerrors.ErrCodeInvalidDocument, "document is empty")
	}

	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", buildinfo.UserAgent())
		req.Header.Set("Accept", format.ContentType())

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
		if err := httputil.CheckResponse(resp); err != nil {
			return err
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
		if err != nil {
			return httputil.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// FetchBase64 is Fetch with the image returned as standard base64, the form
// vision models and data URIs expect.
func (c *Client) FetchBase64(ctx context.Context, text string, format Format) (string, error) {
	data, err := c.Fetch(ctx, text, format)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURI formats image bytes as a data: URI.
func DataURI(data []byte, format Format) string {
	return "data:" + format.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func classify(err error) error {
	var se *httputil.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return uerrors.Wrap(uerrors.ErrCodeRateLimited, &uerrors.RateLimitedError{Message: se.Body},
				"plantuml server rate limit")
		case se.StatusCode >= 500:
			return uerrors.Wrap(uerrors.ErrCodeNetwork, err, "plantuml server error")
		default:
			return uerrors.Wrap(uerrors.ErrCodeRender, err, "plantuml server rejected the document (status %d)", se.StatusCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return uerrors.Wrap(uerrors.ErrCodeTimeout, err, "plantuml server timed out")
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return uerrors.Wrap(uerrors.ErrCodeTimeout, err, "plantuml server timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return uerrors.Wrap(uerrors.ErrCodeNetwork, err, "fetch diagram")
}
