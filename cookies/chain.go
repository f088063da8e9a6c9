package cookies

import "github.com/shellen/pullread-sub001"

// Ensure Chain implements pullread.CookieSource at compile time.
var _ pullread.CookieSource = (Chain)(nil)

// Chain tries each source in order and returns the first non-empty
// header. Site credentials captured by the login flow come before browser
// cookies in the default wiring.
type Chain []pullread.CookieSource

// NewChain builds the default chain: site credentials, then browser
// cookies.
func NewChain() Chain {
	return Chain{NewSiteStore(), NewBrowserStore()}
}

// CookiesFor returns the first non-empty header from the chain.
func (c Chain) CookiesFor(domain string) string {
	for _, src := range c {
		if header := src.CookiesFor(domain); header != "" {
			return header
		}
	}
	return ""
}
