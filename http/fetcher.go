// Package http provides the pullread fetch engine: timed HTTP requests
// with browser-like headers, typed failure classification, bounded retry
// with backoff, and an archival-snapshot fallback for hard blocks.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shellen/pullread-sub001"
)

// DefaultFetchTimeout bounds the wall clock of a single attempt and
// aborts the underlying connection when exceeded.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRetryDelays returns the fixed backoff delays between attempts:
// 2s after the first failure, 5s after the second.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second, 5 * time.Second}
}

// Ensure Fetcher implements the domain interfaces at compile time.
var (
	_ pullread.Fetcher           = (*Fetcher)(nil)
	_ pullread.ShortlinkResolver = (*Fetcher)(nil)
)

// Fetcher retrieves content over HTTP. Failures are classified into the
// pullread error taxonomy; retryable classifications are retried with
// fixed backoff, and bot blocks fall back to an archival snapshot when an
// archive service is configured.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	delays  []time.Duration
	cookies pullread.CookieSource
	archive pullread.ArchiveService
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout. Defaults to
// DefaultFetchTimeout (30s).
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithRetryDelays overrides the backoff delays. Useful for testing
// without waiting for real delays; an empty slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) { f.delays = delays }
}

// WithCookieSource supplies session cookies for requests made with
// FetchOptions.UseBrowserCookies set.
func WithCookieSource(src pullread.CookieSource) Option {
	return func(f *Fetcher) { f.cookies = src }
}

// WithArchive enables the archival-snapshot fallback for bot_blocked
// responses.
func WithArchive(svc pullread.ArchiveService) Option {
	return func(f *Fetcher) { f.archive = svc }
}

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		delays:  DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	return f
}

// Fetch retrieves the URL, retrying retryable failures and falling back
// to an archive snapshot on a bot block. When the retry budget is
// exhausted the last classified error is surfaced — never empty content.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts pullread.FetchOptions) (*pullread.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, pullread.Errorf(pullread.EINVALID, "invalid URL %q", rawURL)
	}

	cookieHeader := ""
	if opts.UseBrowserCookies && f.cookies != nil {
		cookieHeader = f.cookies.CookiesFor(u.Hostname())
	}

	// Explicit retry state: attempt count and last error. The policy
	// mapping failures to classifications lives in the root package so it
	// can be tested without a network.
	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := f.do(ctx, rawURL, cookieHeader)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		code := pullread.ErrorCode(err)
		if code == pullread.EBOTBLOCKED && f.archive != nil {
			// One extra attempt against the archive, then surface the
			// original blocking error so skip tracking records the cause.
			if snap, aerr := f.archive.Snapshot(ctx, rawURL); aerr == nil {
				return snap, nil
			}
			return nil, lastErr
		}
		if !pullread.Retryable(code) || attempt >= len(f.delays) {
			return nil, lastErr
		}
		if code == pullread.EHEADERTOOLARGE {
			// The cause is typically an oversized cookie jar; drop the
			// cookie header entirely rather than truncating it.
			cookieHeader = ""
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}
}

// do performs a single bounded attempt.
func (f *Fetcher) do(ctx context.Context, rawURL, cookieHeader string) (*pullread.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "invalid request for %q: %v", rawURL, err)
	}
	setBrowserHeaders(req)
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return nil, pullread.Errorf(code, "fetch %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := pullread.ClassifyStatus(resp.StatusCode)
		return nil, pullread.Errorf(code, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		code := pullread.ClassifyTransportError(err)
		return nil, pullread.Errorf(code, "read %s: %v", rawURL, err)
	}

	finalURL := rawURL
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
