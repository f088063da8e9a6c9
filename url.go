package pullread

import (
	"net/url"
	"regexp"
	"strings"
)

// Strategy identifies which extraction strategy handles a URL. The set is
// closed: classification is total and side-effect-free, invocation is the
// only effectful step.
type Strategy int

const (
	StrategyGeneric Strategy = iota
	StrategyVideo
	StrategyPaper
	StrategySocial
)

// String returns the strategy name for logging.
func (s Strategy) String() string {
	switch s {
	case StrategyVideo:
		return "video"
	case StrategyPaper:
		return "paper"
	case StrategySocial:
		return "social"
	default:
		return "generic"
	}
}

// ClassifyURL selects the extraction strategy for a normalized URL.
func ClassifyURL(rawURL string) Strategy {
	switch {
	case IsVideoURL(rawURL):
		return StrategyVideo
	case MatchPaperSource(rawURL) != nil:
		return StrategyPaper
	case IsSocialURL(rawURL):
		return StrategySocial
	default:
		return StrategyGeneric
	}
}

// skipDomains are known non-article hosts: app stores and login-walled
// product pages that never yield readable content.
var skipDomains = []string{
	"apps.apple.com",
	"itunes.apple.com",
	"music.apple.com",
	"podcasts.apple.com",
	"play.google.com",
	"open.spotify.com",
}

// SkipReason returns a non-empty reason when the URL is on the skip list
// and must fail immediately without a network call.
func SkipReason(rawURL string) string {
	host := hostOf(rawURL)
	for _, d := range skipDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return "non-article domain: " + d
		}
	}
	return ""
}

// trackingParams are analytics query parameters dropped during
// normalization. Paywall-bypass tokens (unlocked_article_code, gift,
// leadSource) are deliberately kept.
var trackingParams = map[string]bool{
	"fbclid":      true,
	"gclid":       true,
	"igshid":      true,
	"mc_cid":      true,
	"mc_eid":      true,
	"mkt_tok":     true,
	"ref_src":     true,
	"ref_url":     true,
	"smid":        true,
	"CNDID":       true,
	"cmpid":       true,
	"ocid":        true,
	"sref":        true,
	"twclid":      true,
	"share_token": true,
}

// NormalizeURL strips tracking parameters and rewrites platform-specific
// URL shapes to canonical fetch targets. It is idempotent: normalizing an
// already-normalized URL returns it unchanged.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	// A subreddit link collapses to the syndication-friendly host, which
	// serves full pages without the JS application shell.
	if u.Host == "www.reddit.com" || u.Host == "reddit.com" {
		u.Host = "old.reddit.com"
	}

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if trackingParams[name] || strings.HasPrefix(name, "utm_") {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}
	u.Fragment = ""

	return u.String()
}

// StripTrackingParams removes analytics query parameters while leaving
// the rest of the URL byte-for-byte intact. Unlike NormalizeURL it never
// re-encodes the query, so repository URLs carrying slashes in their
// parameter values survive unchanged.
func StripTrackingParams(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}

	pairs := strings.Split(u.RawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		name, _, _ := strings.Cut(pair, "=")
		if trackingParams[name] || strings.HasPrefix(name, "utm_") {
			continue
		}
		kept = append(kept, pair)
	}
	if len(kept) == len(pairs) {
		return rawURL
	}
	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}

// IsVideoURL reports whether the URL points at a YouTube video page.
func IsVideoURL(rawURL string) bool {
	switch hostOf(rawURL) {
	case "youtube.com", "m.youtube.com", "youtu.be":
		return true
	}
	return false
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// VideoID extracts the video ID from a YouTube URL. It understands watch,
// embed, shorts and youtu.be forms and returns "" for non-video pages
// (channels, search results) and invalid URLs.
func VideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	var id string
	switch u.Host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "www.youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	id = strings.Trim(id, "/")
	if !videoIDPattern.MatchString(id) {
		return ""
	}
	return id
}

// VideoThumbnail returns the standard thumbnail URL for a video ID.
func VideoThumbnail(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// IsSocialURL reports whether the URL is a short-post page on one of the
// major social platforms. Such pages commonly carry an empty or
// placeholder title and get one synthesized instead.
func IsSocialURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Host {
	case "x.com", "twitter.com", "mobile.twitter.com":
		return strings.Contains(u.Path, "/status/")
	case "bsky.app":
		return strings.HasPrefix(u.Path, "/profile/") && strings.Contains(u.Path, "/post/")
	}
	return false
}

// SocialPlatform names the platform for a social post URL.
func SocialPlatform(rawURL string) string {
	switch hostOf(rawURL) {
	case "x.com", "twitter.com", "mobile.twitter.com":
		return "X"
	case "bsky.app":
		return "Bluesky"
	}
	return ""
}

// SocialHandle extracts the author handle embedded in a social post URL
// path, without any leading @.
func SocialHandle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	if parts[0] == "profile" && len(parts) > 1 { // bsky.app/profile/<handle>/post/<id>
		return parts[1]
	}
	return parts[0] // x.com/<handle>/status/<id>
}

const maxSocialTitleLen = 80

// SocialTitle synthesizes a title for a social post from its description
// metadata, truncated at a word-safe boundary, or from the author handle
// when no description is available.
func SocialTitle(description, rawURL string) string {
	desc := strings.TrimSpace(description)
	if desc != "" {
		// Length is measured in runes so the cut never splits a multi-byte
		// character.
		runes := []rune(desc)
		if len(runes) <= maxSocialTitleLen {
			return desc
		}
		cut := runes[:maxSocialTitleLen-3]
		if idx := lastSpace(cut); idx > maxSocialTitleLen/2 {
			cut = cut[:idx]
		}
		return string(cut) + "…"
	}

	handle := SocialHandle(rawURL)
	platform := SocialPlatform(rawURL)
	if handle == "" || platform == "" {
		return ""
	}
	return "A post by @" + handle + " on " + platform
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// IsAppleNewsURL reports whether the URL is an Apple News shortlink that
// must be resolved to its canonical article URL before fetching.
func IsAppleNewsURL(rawURL string) bool {
	return hostOf(rawURL) == "apple.news"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
