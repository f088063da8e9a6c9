package http_test

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellen/pullread-sub001"
	prhttp "github.com/shellen/pullread-sub001/http"
	"github.com/shellen/pullread-sub001/mock"
)

// noDelays disables backoff waits so retry tests run instantly.
func noDelays() []time.Duration {
	return []time.Duration{0, 0}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html><body>hello</body></html>")
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
		assert.Equal(t, "<html><body>hello</body></html>", string(resp.Body))
		assert.Equal(t, srv.URL, resp.FinalURL)
	})

	t.Run("sends browser headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept string
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Contains(t, gotUA, "Mozilla/5.0")
		assert.Contains(t, gotUA, "Chrome")
		assert.Contains(t, gotAccept, "text/html")
	})

	t.Run("invalid URL fails without a request", func(t *testing.T) {
		t.Parallel()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), "://not-a-url", pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.EINVALID, pullread.ErrorCode(err))
	})

	t.Run("server error retries then succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(nethttp.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, "recovered")
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Equal(t, "recovered", string(resp.Body))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("server error exhausts retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			calls.Add(1)
			w.WriteHeader(nethttp.StatusInternalServerError)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.ESERVER, pullread.ErrorCode(err))
		assert.Contains(t, pullread.ErrorMessage(err), "HTTP 500")
		assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
	})

	t.Run("not found does not retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			calls.Add(1)
			w.WriteHeader(nethttp.StatusNotFound)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.ENOTFOUND, pullread.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("rate limit classified as server error and retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(nethttp.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, "ok")
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.Body))
	})

	t.Run("bot block falls back to archive snapshot", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			calls.Add(1)
			w.WriteHeader(nethttp.StatusForbidden)
		}))
		defer srv.Close()

		archive := &mock.ArchiveService{
			SnapshotFn: func(ctx context.Context, url string) (*pullread.Response, error) {
				return &pullread.Response{StatusCode: 200, Body: []byte("archived copy")}, nil
			},
		}

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()), prhttp.WithArchive(archive))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Equal(t, "archived copy", string(resp.Body))
		assert.Equal(t, int32(1), calls.Load(), "archive fallback must not re-hit the origin")
	})

	t.Run("bot block surfaces original error when archive misses", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusForbidden)
		}))
		defer srv.Close()

		archive := &mock.ArchiveService{
			SnapshotFn: func(ctx context.Context, url string) (*pullread.Response, error) {
				return nil, pullread.Errorf(pullread.ENOTFOUND, "no snapshot for %s", url)
			},
		}

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()), prhttp.WithArchive(archive))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.EBOTBLOCKED, pullread.ErrorCode(err))
		assert.Contains(t, pullread.ErrorMessage(err), "HTTP 403")
	})

	t.Run("bot block without archive is terminal", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			calls.Add(1)
			w.WriteHeader(nethttp.StatusUnauthorized)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.EBOTBLOCKED, pullread.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("header too large retries without cookies", func(t *testing.T) {
		t.Parallel()

		var cookiesSeen []string
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			cookiesSeen = append(cookiesSeen, r.Header.Get("Cookie"))
			if len(cookiesSeen) == 1 {
				w.WriteHeader(431)
				return
			}
			fmt.Fprint(w, "ok")
		}))
		defer srv.Close()

		cookies := &mock.CookieSource{
			CookiesForFn: func(domain string) string { return "session=abc123" },
		}

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()), prhttp.WithCookieSource(cookies))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{UseBrowserCookies: true})

		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.Body))
		require.Len(t, cookiesSeen, 2)
		assert.Equal(t, "session=abc123", cookiesSeen[0])
		assert.Empty(t, cookiesSeen[1], "retry after 431 must drop the cookie header")
	})

	t.Run("cookies omitted unless requested", func(t *testing.T) {
		t.Parallel()

		var gotCookie string
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			gotCookie = r.Header.Get("Cookie")
		}))
		defer srv.Close()

		cookies := &mock.CookieSource{
			CookiesForFn: func(domain string) string { return "session=abc123" },
		}

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()), prhttp.WithCookieSource(cookies))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Empty(t, gotCookie)
	})

	t.Run("redirect loop classified", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.Redirect(w, r, srv.URL+r.URL.Path+"x", nethttp.StatusFound)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.EREDIRECTLOOP, pullread.ErrorCode(err))
	})

	t.Run("timeout classified", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(
			prhttp.WithTimeout(20*time.Millisecond),
			prhttp.WithRetryDelays(nil),
		)
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.ETIMEOUT, pullread.ErrorCode(err))
	})

	t.Run("connection error classified", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
		srv.Close() // nothing listening anymore

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(nil))
		_, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.Error(t, err)
		assert.Equal(t, pullread.ECONNECTION, pullread.ErrorCode(err))
	})

	t.Run("follows redirects to the final URL", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if r.URL.Path == "/" {
				nethttp.Redirect(w, r, srv.URL+"/final", nethttp.StatusMovedPermanently)
				return
			}
			fmt.Fprint(w, "landed")
		}))
		defer srv.Close()

		f := prhttp.NewFetcher(prhttp.WithRetryDelays(noDelays()))
		resp, err := f.Fetch(context.Background(), srv.URL, pullread.FetchOptions{})

		require.NoError(t, err)
		assert.Equal(t, "landed", string(resp.Body))
		assert.Equal(t, srv.URL+"/final", resp.FinalURL)
	})
}

func TestFetcher_ResolveShortlink(t *testing.T) {
	t.Parallel()

	t.Run("follows cross-host redirect", func(t *testing.T) {
		t.Parallel()

		dest := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, "article")
		}))
		defer dest.Close()

		// The shortlink host redirects to the destination host.
		short := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.Redirect(w, r, dest.URL+"/article", nethttp.StatusFound)
		}))
		defer short.Close()

		f := prhttp.NewFetcher()
		got, err := f.ResolveShortlink(context.Background(), short.URL)

		require.NoError(t, err)
		assert.Equal(t, dest.URL+"/article", got)
	})

	t.Run("falls back to canonical link tag", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `<html><head><link rel="canonical" href="https://publisher.example/story"></head></html>`)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher()
		got, err := f.ResolveShortlink(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "https://publisher.example/story", got)
	})

	t.Run("falls back to meta refresh", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `<html><head><meta http-equiv="refresh" content="0;url=https://publisher.example/story2"></head></html>`)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher()
		got, err := f.ResolveShortlink(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "https://publisher.example/story2", got)
	})

	t.Run("unresolvable shortlink degrades to input", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			fmt.Fprint(w, `<html><body>nothing useful</body></html>`)
		}))
		defer srv.Close()

		f := prhttp.NewFetcher()
		got, err := f.ResolveShortlink(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, srv.URL, got)
	})
}
