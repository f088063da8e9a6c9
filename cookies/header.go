package cookies

import (
	"strings"

	"github.com/shellen/pullread-sub001"
)

// MaxHeaderBytes caps the Cookie header to avoid servers rejecting
// oversized headers (431/494).
const MaxHeaderBytes = 6 * 1024

// trackingPrefixes are analytics and consent cookie name prefixes that
// only inflate the header.
var trackingPrefixes = []string{
	"_ga", "_gid", "_gat", "_gcl", // Google Analytics
	"_fbp", "_fbc", // Facebook
	"__utm",          // legacy GA UTM
	"_hp2_", "ajs_", // analytics trackers
	"OptanonConsent", "OptanonAlertBoxClosed", // cookie consent
	"euconsent", "_evidon", // GDPR consent
	"AMCV_", "AMCVS_", "s_cc", "s_sq", "s_vi", // Adobe Analytics
}

// FilterTracking drops cookies whose names carry a known
// analytics/tracking prefix.
func FilterTracking(cookies []pullread.SessionCookie) []pullread.SessionCookie {
	var out []pullread.SessionCookie
	for _, c := range cookies {
		if hasTrackingPrefix(c.Name) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasTrackingPrefix(name string) bool {
	for _, prefix := range trackingPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// BuildHeader concatenates cookies as "name=value" pairs, truncating at a
// whole-cookie boundary so the result never exceeds MaxHeaderBytes.
func BuildHeader(cookies []pullread.SessionCookie) string {
	var b strings.Builder
	for _, c := range cookies {
		pair := c.Name + "=" + c.Value
		if b.Len()+len(pair)+2 > MaxHeaderBytes {
			break
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(pair)
	}
	return b.String()
}
