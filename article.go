package pullread

import (
	"context"
	"time"
)

// Article is the structured result of one successful acquisition.
// It is immutable after construction and owned by the caller.
type Article struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"` // clean HTML
	Markdown  string    `json:"markdown"`
	Byline    string    `json:"byline,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Lang      string    `json:"lang,omitempty"`
	SourceURL string    `json:"sourceUrl"`
	Hash      string    `json:"hash,omitempty"` // content hash of the markdown
	FetchedAt time.Time `json:"fetchedAt"`
}

// FetchOptions is per-call fetch configuration. There is no shared state.
type FetchOptions struct {
	// UseBrowserCookies attaches decrypted browser session cookies for the
	// target domain to the request when a credential source is configured.
	UseBrowserCookies bool
}

// Response is the payload of a successful fetch.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	// FinalURL is the URL after redirects, used as the base for resolving
	// relative links in the extracted content.
	FinalURL string
}

// Acquirer is the inbound contract of the pipeline: one URL in, one
// article (or a coded error) out.
type Acquirer interface {
	Acquire(ctx context.Context, rawURL string, opts FetchOptions) (*Article, error)
}

// Fetcher performs a timed HTTP request with browser-like headers and
// returns either a response or a classified error (see error codes).
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOptions) (*Response, error)
}

// ShortlinkResolver follows redirect shortlinks (e.g. apple.news) to the
// canonical article URL. Unresolvable shortlinks return the input URL.
type ShortlinkResolver interface {
	ResolveShortlink(ctx context.Context, url string) (string, error)
}

// ExtractResult holds content extracted from an HTML page.
type ExtractResult struct {
	Title     string
	Byline    string
	Excerpt   string
	Thumbnail string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Usable reports whether the result carries enough content to build an
// article from.
func (r *ExtractResult) Usable() bool {
	return r != nil && r.ContentHTML != ""
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// The page URL is used to resolve relative references and for site
// specific handling; it may be empty.
type Extractor interface {
	Extract(html string, pageURL string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// PDFProcessor reconstructs reading-order text from raw PDF bytes.
// Documents with no extractable text yield an EINVALID error.
type PDFProcessor interface {
	Process(data []byte, sourceURL string) (*Article, error)
}

// TranscriptService retrieves a caption transcript for a video watch page.
// A page with no caption tracks returns "" and no error.
type TranscriptService interface {
	Transcript(ctx context.Context, pageHTML string) (string, error)
}

// PaperMetadata is bibliographic metadata for an academic paper.
type PaperMetadata struct {
	Title    string
	Byline   string
	Abstract string
}

// PaperMetadataService looks up bibliographic metadata by paper
// identifier (e.g. "arXiv:2009.14050" or a DOI).
type PaperMetadataService interface {
	Lookup(ctx context.Context, paperID string) (*PaperMetadata, error)
}

// ArchiveService retrieves an archival snapshot of a URL, used as a
// fallback when the live origin refuses the request.
type ArchiveService interface {
	// Snapshot returns the archived page for the URL, or ENOTFOUND if the
	// archive holds no snapshot.
	Snapshot(ctx context.Context, url string) (*Response, error)
}

// CookieSource supplies a Cookie header value for a domain. It is strictly
// best-effort: implementations never fail, they return "" instead.
type CookieSource interface {
	CookiesFor(domain string) string
}

// SessionCookie is a single browser session cookie.
type SessionCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure"`
	HTTPOnly bool      `json:"httpOnly"`
}

// Expired reports whether the cookie has a set expiry in the past.
func (c *SessionCookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// SiteCredential is a set of session cookies for one domain, persisted in
// the OS secret store by the login-capture flow and consumed read-only by
// the fetch path.
type SiteCredential struct {
	Domain  string          `json:"domain"`
	Cookies []SessionCookie `json:"cookies"`
}
