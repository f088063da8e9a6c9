// Package cookies is the credential store: it decrypts Chromium-family
// browser session cookies and reads keychain-persisted site credentials,
// supplying Cookie header values to the fetch engine. Every failure at
// every stage degrades to "no cookies" — authentication is strictly an
// enhancement, never a requirement.
package cookies

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/shellen/pullread-sub001"
)

// Browser describes one Chromium-family install: where its cookie
// database lives and which keychain credential unlocks it.
type Browser struct {
	Name        string
	CookiesPath string
	// Service and Account name the Safe Storage passphrase in the OS
	// secret store.
	Service string
	Account string
}

// DefaultBrowsers returns the probe list in fixed preference order.
func DefaultBrowsers() []Browser {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	appSupport := filepath.Join(home, "Library", "Application Support")
	return []Browser{
		{
			Name:        "Chrome",
			CookiesPath: filepath.Join(appSupport, "Google", "Chrome", "Default", "Cookies"),
			Service:     "Chrome Safe Storage",
			Account:     "Chrome",
		},
		{
			Name:        "Brave",
			CookiesPath: filepath.Join(appSupport, "BraveSoftware", "Brave-Browser", "Default", "Cookies"),
			Service:     "Brave Safe Storage",
			Account:     "Brave",
		},
		{
			Name:        "Edge",
			CookiesPath: filepath.Join(appSupport, "Microsoft Edge", "Default", "Cookies"),
			Service:     "Microsoft Edge Safe Storage",
			Account:     "Microsoft Edge",
		},
		{
			Name:        "Chromium",
			CookiesPath: filepath.Join(appSupport, "Chromium", "Default", "Cookies"),
			Service:     "Chromium Safe Storage",
			Account:     "Chromium",
		},
	}
}

// defaultTempPath is where the cookie database snapshot is copied before
// querying, to avoid lock contention with a running browser. The path is
// fixed, so concurrent acquisitions sharing one store must serialize or
// use WithTempPath for per-call paths.
func defaultTempPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".pullread-cookies-temp.db")
	}
	return filepath.Join(home, ".config", "pullread", ".cookies-temp.db")
}

// PassphraseFunc retrieves a Safe Storage passphrase from the OS secret
// store. The real implementation may prompt the user once for consent.
type PassphraseFunc func(service, account string) (string, error)

// Ensure BrowserStore implements pullread.CookieSource at compile time.
var _ pullread.CookieSource = (*BrowserStore)(nil)

// BrowserStore reads session cookies from the first installed browser's
// cookie database.
type BrowserStore struct {
	browsers   []Browser
	tempPath   string
	passphrase PassphraseFunc
}

// StoreOption configures a BrowserStore.
type StoreOption func(*BrowserStore)

// WithBrowsers overrides the browser probe list.
func WithBrowsers(browsers []Browser) StoreOption {
	return func(s *BrowserStore) { s.browsers = browsers }
}

// WithTempPath overrides the temporary database copy location.
func WithTempPath(path string) StoreOption {
	return func(s *BrowserStore) { s.tempPath = path }
}

// WithPassphraseFunc overrides secret-store access. Useful for testing.
func WithPassphraseFunc(fn PassphraseFunc) StoreOption {
	return func(s *BrowserStore) { s.passphrase = fn }
}

// NewBrowserStore creates a BrowserStore with the default probe list.
func NewBrowserStore(opts ...StoreOption) *BrowserStore {
	s := &BrowserStore{
		browsers:   DefaultBrowsers(),
		tempPath:   defaultTempPath(),
		passphrase: keychainPassphrase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CookiesFor returns a Cookie header value for the domain, or "" when no
// browser, key or matching cookies are available. It never fails.
func (s *BrowserStore) CookiesFor(domain string) string {
	browser := s.findBrowser()
	if browser == nil {
		return ""
	}

	pass, err := s.passphrase(browser.Service, browser.Account)
	if err != nil || pass == "" {
		return ""
	}
	key := deriveKey(pass)

	dbPath, cleanup, err := s.snapshotDatabase(browser.CookiesPath)
	if err != nil {
		return ""
	}
	defer cleanup()

	rows, err := queryCookies(dbPath, domain)
	if err != nil {
		return ""
	}

	var cookies []pullread.SessionCookie
	seen := make(map[string]bool)
	for _, row := range rows {
		// Rows are ordered by path length descending; the most specific
		// path wins when deduplicating by name.
		if seen[row.name] {
			continue
		}
		value := decryptValue(row.encryptedValue, key)
		if value == "" {
			continue
		}
		seen[row.name] = true
		cookies = append(cookies, pullread.SessionCookie{
			Name:     row.name,
			Value:    value,
			Domain:   row.hostKey,
			Path:     row.path,
			Secure:   row.isSecure,
			HTTPOnly: row.isHTTPOnly,
		})
	}

	return BuildHeader(FilterTracking(cookies))
}

// findBrowser returns the first browser whose cookie database exists.
func (s *BrowserStore) findBrowser() *Browser {
	for i := range s.browsers {
		if _, err := os.Stat(s.browsers[i].CookiesPath); err == nil {
			return &s.browsers[i]
		}
	}
	return nil
}

// snapshotDatabase copies the live cookie database to the private temp
// path. The returned cleanup deletes the copy unconditionally.
func (s *BrowserStore) snapshotDatabase(src string) (string, func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.tempPath), 0o700); err != nil {
		return "", nil, err
	}
	if err := copyFile(src, s.tempPath); err != nil {
		return "", nil, err
	}
	return s.tempPath, func() { _ = os.Remove(s.tempPath) }, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// cookieRow is one row of the browser's cookies table.
type cookieRow struct {
	name           string
	encryptedValue []byte
	hostKey        string
	path           string
	expiresUTC     int64
	isSecure       bool
	isHTTPOnly     bool
}

// queryCookies reads rows matching the domain and its .domain/www.domain
// variants, most specific path first.
func queryCookies(dbPath, domain string) ([]cookieRow, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	base := trimWWW(domain)
	const query = `
		SELECT name, encrypted_value, host_key, path, expires_utc, is_secure, is_httponly
		FROM cookies
		WHERE host_key IN (?, ?, ?) OR host_key LIKE ?
		ORDER BY LENGTH(path) DESC`

	rows, err := db.Query(query, base, "."+base, "www."+base, "%."+base)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cookieRow
	for rows.Next() {
		var row cookieRow
		var secure, httpOnly int
		if err := rows.Scan(&row.name, &row.encryptedValue, &row.hostKey, &row.path, &row.expiresUTC, &secure, &httpOnly); err != nil {
			return nil, err
		}
		row.isSecure = secure == 1
		row.isHTTPOnly = httpOnly == 1
		out = append(out, row)
	}
	return out, rows.Err()
}

func trimWWW(domain string) string {
	if len(domain) > 4 && domain[:4] == "www." {
		return domain[4:]
	}
	return domain
}
