package pullread

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// ClassifyStatus maps a non-2xx HTTP status code to an error code.
func ClassifyStatus(status int) string {
	switch {
	case status == 401 || status == 403:
		return EBOTBLOCKED
	case status == 404 || status == 410:
		return ENOTFOUND
	case status == 431 || status == 494:
		return EHEADERTOOLARGE
	// 429 has no class of its own in the taxonomy; server-style retry is
	// the closest policy.
	case status == 429 || status >= 500:
		return ESERVER
	default:
		return EUNKNOWN
	}
}

// ClassifyTransportError maps a transport-level failure to an error code.
func ClassifyTransportError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ETIMEOUT
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ETIMEOUT
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return ECONNECTION
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "stopped after") && strings.Contains(msg, "redirects"):
		return EREDIRECTLOOP
	case strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"):
		return ECONNECTION
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ECONNECTION
	}

	return EUNKNOWN
}

// Retryable reports whether a classification is locally recoverable via
// retry. EBOTBLOCKED is recovered through the archive fallback instead and
// is deliberately not retryable here.
func Retryable(code string) bool {
	switch code {
	case ESERVER, ETIMEOUT, ECONNECTION, EHEADERTOOLARGE:
		return true
	}
	return false
}
