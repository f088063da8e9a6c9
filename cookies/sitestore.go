package cookies

import (
	"encoding/json"
	"time"

	"github.com/shellen/pullread-sub001"
)

// SiteCredentialService is the secret-store service label under which the
// login-capture flow persists per-domain session cookies.
const SiteCredentialService = "com.pullread.site-credentials"

// SecretReader reads a named secret. *Keychain satisfies it; tests supply
// fakes.
type SecretReader interface {
	Get(account string) (string, error)
}

// Ensure SiteStore implements pullread.CookieSource at compile time.
var _ pullread.CookieSource = (*SiteStore)(nil)

// SiteStore reads SiteCredential records captured by the login flow. It
// is strictly read-only: expired cookies are excluded at read time, never
// mutated in place.
type SiteStore struct {
	secrets SecretReader
	now     func() time.Time
}

// SiteStoreOption configures a SiteStore.
type SiteStoreOption func(*SiteStore)

// WithSecretReader overrides secret-store access. Useful for testing.
func WithSecretReader(r SecretReader) SiteStoreOption {
	return func(s *SiteStore) { s.secrets = r }
}

// WithClock overrides the expiry clock. Useful for testing.
func WithClock(now func() time.Time) SiteStoreOption {
	return func(s *SiteStore) { s.now = now }
}

// NewSiteStore creates a SiteStore backed by the OS keychain.
func NewSiteStore(opts ...SiteStoreOption) *SiteStore {
	s := &SiteStore{
		secrets: NewKeychain(SiteCredentialService),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CookiesFor returns a Cookie header for the domain's stored credential,
// or "" when none exists. It never fails.
func (s *SiteStore) CookiesFor(domain string) string {
	raw, err := s.secrets.Get(trimWWW(domain))
	if err != nil || raw == "" {
		return ""
	}

	var cred pullread.SiteCredential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return ""
	}

	now := s.now()
	var live []pullread.SessionCookie
	for _, c := range cred.Cookies {
		if c.Expired(now) {
			continue
		}
		live = append(live, c)
	}

	return BuildHeader(FilterTracking(live))
}
