// Package wayback retrieves archival snapshots of blocked pages from the
// Internet Archive's availability API.
package wayback

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shellen/pullread-sub001"
)

// DefaultEndpoint is the public availability lookup service.
const DefaultEndpoint = "https://archive.org/wayback/available"

// DefaultTimeout bounds each request against the archive so a hung
// lookup cannot stall the acquisition it is a fallback for.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements pullread.ArchiveService at compile time.
var _ pullread.ArchiveService = (*Client)(nil)

// Client looks up and fetches the closest archived snapshot of a URL.
type Client struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the availability endpoint. Useful for testing.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:   http.DefaultClient,
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// availability mirrors the lookup service's response shape.
type availability struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Snapshot returns the archived page for the URL. When the archive holds
// no snapshot it returns ENOTFOUND.
func (c *Client) Snapshot(ctx context.Context, rawURL string) (*pullread.Response, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lookupURL := c.endpoint + "?url=" + url.QueryEscape(rawURL)
	req, err := http.NewRequestWithContext(lookupCtx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "invalid archive lookup for %q: %v", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return nil, pullread.Errorf(code, "archive lookup %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code := pullread.ClassifyStatus(resp.StatusCode)
		return nil, pullread.Errorf(code, "HTTP %d from archive lookup for %s", resp.StatusCode, rawURL)
	}

	var avail availability
	if err := json.NewDecoder(resp.Body).Decode(&avail); err != nil {
		return nil, pullread.Errorf(pullread.EUNKNOWN, "archive lookup %s: %v", rawURL, err)
	}

	closest := avail.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return nil, pullread.Errorf(pullread.ENOTFOUND, "no archive snapshot for %s", rawURL)
	}

	return c.fetchSnapshot(ctx, closest.URL)
}

// fetchSnapshot retrieves the snapshot page itself under its own timeout.
func (c *Client) fetchSnapshot(ctx context.Context, snapURL string) (*pullread.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapURL, nil)
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "invalid snapshot URL %q: %v", snapURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return nil, pullread.Errorf(code, "fetch snapshot %s: %v", snapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := pullread.ClassifyStatus(resp.StatusCode)
		return nil, pullread.Errorf(code, "HTTP %d for snapshot %s", resp.StatusCode, snapURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pullread.Errorf(pullread.ECONNECTION, "read snapshot %s: %v", snapURL, err)
	}

	finalURL := snapURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &pullread.Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FinalURL:    finalURL,
	}, nil
}
