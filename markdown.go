package pullread

import (
	"net/url"
	"regexp"
	"strings"
)

// markdownTarget matches the target of a markdown link or image:
// "[text](target)" or "![alt](target)". Targets never contain whitespace
// in the markdown our converter emits.
var markdownTarget = regexp.MustCompile(`(!?\[[^\]]*\])\(([^()\s]+)\)`)

// ResolveRelativeURLs rewrites relative and root-relative link and image
// targets in markdown against the page's base URL. Absolute targets,
// data: URIs and fragments pass through untouched; Substack CDN proxy
// targets are unwrapped to their origin URL. An unparsable base URL
// returns the markdown unchanged.
func ResolveRelativeURLs(markdown, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return markdown
	}

	return markdownTarget.ReplaceAllStringFunc(markdown, func(m string) string {
		sub := markdownTarget.FindStringSubmatch(m)
		label, target := sub[1], sub[2]

		if simplified := SimplifySubstackURL(target); simplified != target {
			return label + "(" + simplified + ")"
		}
		if strings.HasPrefix(target, "#") || hasScheme(target) {
			return m
		}

		ref, err := url.Parse(target)
		if err != nil {
			return m
		}
		return label + "(" + base.ResolveReference(ref).String() + ")"
	})
}

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

func hasScheme(target string) bool {
	return schemePattern.MatchString(target)
}

// substackProxy matches Substack's image CDN proxy shape:
// https://substackcdn.com/image/fetch/<params>/<encoded origin URL>.
var substackProxy = regexp.MustCompile(`^https://substackcdn\.com/image/fetch/[^/]+/(.+)$`)

// SimplifySubstackURL unwraps a Substack CDN image proxy URL to the direct
// origin URL it wraps. Non-Substack URLs are returned unchanged.
func SimplifySubstackURL(rawURL string) string {
	m := substackProxy.FindStringSubmatch(rawURL)
	if m == nil {
		return rawURL
	}

	inner := m[1]
	if decoded, err := url.PathUnescape(inner); err == nil {
		inner = decoded
	}
	if !strings.HasPrefix(inner, "http://") && !strings.HasPrefix(inner, "https://") {
		return rawURL
	}
	return inner
}
