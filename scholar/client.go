// Package scholar looks up bibliographic metadata for academic papers via
// the Semantic Scholar Graph API, which accepts arXiv IDs and DOIs.
package scholar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shellen/pullread-sub001"
)

// DefaultBaseURL is the public Graph API endpoint.
const DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

// DefaultTimeout bounds each metadata lookup.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements pullread.PaperMetadataService at compile time.
var _ pullread.PaperMetadataService = (*Client)(nil)

// Client queries the citation-metadata API.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Useful for testing.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
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
		client:  http.DefaultClient,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// paperResponse mirrors the fields requested from the API.
type paperResponse struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// Lookup fetches title, authors and abstract for a paper identifier such
// as "arXiv:2009.14050" or a DOI. Unknown papers return ENOTFOUND.
func (c *Client) Lookup(ctx context.Context, paperID string) (*pullread.PaperMetadata, error) {
	if paperID == "" {
		return nil, pullread.Errorf(pullread.EINVALID, "paper ID required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	lookupURL := c.baseURL + "/paper/" + url.PathEscape(paperID) + "?fields=title,abstract,authors"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "invalid metadata lookup for %q: %v", paperID, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return nil, pullread.Errorf(code, "metadata lookup %s: %v", paperID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pullread.Errorf(pullread.ENOTFOUND, "no metadata for %s", paperID)
	}
	if resp.StatusCode != http.StatusOK {
		code := pullread.ClassifyStatus(resp.StatusCode)
		return nil, pullread.Errorf(code, "HTTP %d from metadata lookup for %s", resp.StatusCode, paperID)
	}

	var paper paperResponse
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return nil, pullread.Errorf(pullread.EUNKNOWN, "metadata lookup %s: %v", paperID, err)
	}

	var names []string
	for _, a := range paper.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	return &pullread.PaperMetadata{
		Title:    paper.Title,
		Byline:   strings.Join(names, ", "),
		Abstract: paper.Abstract,
	}, nil
}
