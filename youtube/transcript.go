// Package youtube retrieves video caption transcripts by scraping the
// caption-track list embedded in the watch page's initial player-state
// JSON and fetching the preferred track's timedtext document.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
	xhtml "golang.org/x/net/html"

	"github.com/shellen/pullread-sub001"
)

// DefaultTimeout bounds each caption fetch.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements pullread.TranscriptService at compile time.
var _ pullread.TranscriptService = (*Client)(nil)

// Client fetches caption documents for watch pages.
type Client struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

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
	c := &Client{client: http.DefaultClient, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CaptionTrack is one entry of the watch page's caption-track list.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for authored ones.
	Kind string `json:"kind"`
	Name struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// Transcript scrapes the page's caption tracks, picks the best one and
// returns its decoded text, one caption per line. A page without caption
// tracks returns "" and no error — captions are optional.
func (c *Client) Transcript(ctx context.Context, pageHTML string) (string, error) {
	tracks := ParseCaptionTracks(pageHTML)
	track := PickTrack(tracks)
	if track == nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
	if err != nil {
		return "", pullread.Errorf(pullread.EINVALID, "invalid caption URL %q: %v", track.BaseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return "", pullread.Errorf(code, "fetch captions: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code := pullread.ClassifyStatus(resp.StatusCode)
		return "", pullread.Errorf(code, "HTTP %d for captions", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pullread.Errorf(pullread.ECONNECTION, "read captions: %v", err)
	}

	return decodeTimedText(body)
}

// captionTracksPattern finds the captionTracks array inside the player
// state JSON. Track objects contain no nested arrays, so a lazy match up
// to the closing "}]" is safe.
var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.+?\}\])`)

// ParseCaptionTracks extracts the caption-track list from a watch page.
// A page without captions returns nil.
func ParseCaptionTracks(pageHTML string) []CaptionTrack {
	m := captionTracksPattern.FindStringSubmatch(pageHTML)
	if m == nil {
		return nil
	}

	var tracks []CaptionTrack
	if err := json.Unmarshal([]byte(m[1]), &tracks); err != nil {
		return nil
	}
	return tracks
}

// PickTrack selects a track: a manually authored English track first,
// then an auto-generated English one, then whatever is available.
func PickTrack(tracks []CaptionTrack) *CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}
	for i := range tracks {
		if isEnglish(tracks[i].LanguageCode) && tracks[i].Kind != "asr" {
			return &tracks[i]
		}
	}
	for i := range tracks {
		if isEnglish(tracks[i].LanguageCode) {
			return &tracks[i]
		}
	}
	return &tracks[0]
}

func isEnglish(code string) bool {
	return code == "en" || strings.HasPrefix(code, "en-")
}

// decodeTimedText concatenates the decoded text nodes of a timedtext
// caption document, one per line.
func decodeTimedText(doc []byte) (string, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(doc); err != nil {
		return "", pullread.Errorf(pullread.EUNKNOWN, "malformed caption document: %v", err)
	}

	root := tree.Root()
	if root == nil {
		return "", nil
	}

	var lines []string
	for _, el := range root.FindElements("//text") {
		text := strings.TrimSpace(xhtml.UnescapeString(el.Text()))
		if text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
