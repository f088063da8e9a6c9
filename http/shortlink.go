package http

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// shortlinkBodyLimit caps how much of a shortlink response body is
// scanned for a canonical link or meta refresh.
const shortlinkBodyLimit = 256 * 1024

// ResolveShortlink follows a redirect shortlink (e.g. apple.news) to its
// canonical article URL: HEAD redirects first, then GET, then the
// response body's canonical link tag or meta-refresh directive. An
// unresolvable shortlink degrades to the original URL, never an error,
// unless the context is canceled.
func (f *Fetcher) ResolveShortlink(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if final := f.redirectTarget(ctx, http.MethodHead, rawURL); final != "" {
		return final, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL, nil
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return rawURL, nil
	}
	defer resp.Body.Close()

	if final := finalURLOf(resp, rawURL); final != "" {
		return final, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, shortlinkBodyLimit))
	if err != nil {
		return rawURL, nil
	}
	if target := canonicalTarget(string(body)); target != "" {
		return target, nil
	}
	return rawURL, nil
}

// redirectTarget issues one request and reports the post-redirect URL when
// it landed on a different host, or "" when the method failed or did not
// move.
func (f *Fetcher) redirectTarget(ctx context.Context, method, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return ""
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	return finalURLOf(resp, rawURL)
}

// finalURLOf returns the response's final URL when redirects moved it off
// the original host.
func finalURLOf(resp *http.Response, rawURL string) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	final := resp.Request.URL.String()
	if final == rawURL || sameHost(final, rawURL) {
		return ""
	}
	return final
}

func sameHost(a, b string) bool {
	return hostname(a) != "" && hostname(a) == hostname(b)
}

func hostname(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	return ""
}

// canonicalTarget scans an HTML body for a canonical link tag, falling
// back to a meta-refresh directive.
func canonicalTarget(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		if strings.HasPrefix(href, "http") {
			return href
		}
	}

	if content, ok := doc.Find(`meta[http-equiv="refresh"]`).First().Attr("content"); ok {
		// Shape: "0;url=https://example.com/article"
		if i := strings.Index(strings.ToLower(content), "url="); i >= 0 {
			target := strings.TrimSpace(content[i+4:])
			if strings.HasPrefix(target, "http") {
				return target
			}
		}
	}
	return ""
}
