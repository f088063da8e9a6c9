package pullread_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shellen/pullread-sub001"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		code   string
	}{
		{401, pullread.EBOTBLOCKED},
		{403, pullread.EBOTBLOCKED},
		{404, pullread.ENOTFOUND},
		{410, pullread.ENOTFOUND},
		{431, pullread.EHEADERTOOLARGE},
		{494, pullread.EHEADERTOOLARGE},
		{429, pullread.ESERVER},
		{500, pullread.ESERVER},
		{502, pullread.ESERVER},
		{503, pullread.ESERVER},
		{418, pullread.EUNKNOWN},
		{302, pullread.EUNKNOWN},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.code, pullread.ClassifyStatus(tt.status))
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", pullread.ClassifyTransportError(nil))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, pullread.ETIMEOUT, pullread.ClassifyTransportError(context.DeadlineExceeded))
	})

	t.Run("wrapped deadline exceeded", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("Get \"https://example.com\": %w", context.DeadlineExceeded)
		assert.Equal(t, pullread.ETIMEOUT, pullread.ClassifyTransportError(err))
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()
		err := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
		assert.Equal(t, pullread.ECONNECTION, pullread.ClassifyTransportError(err))
	})

	t.Run("connection reset", func(t *testing.T) {
		t.Parallel()
		err := &net.OpError{Op: "read", Err: syscall.ECONNRESET}
		assert.Equal(t, pullread.ECONNECTION, pullread.ClassifyTransportError(err))
	})

	t.Run("unexpected EOF", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, pullread.ECONNECTION, pullread.ClassifyTransportError(io.ErrUnexpectedEOF))
	})

	t.Run("redirect loop", func(t *testing.T) {
		t.Parallel()
		err := errors.New(`Get "https://example.com/a": stopped after 10 redirects`)
		assert.Equal(t, pullread.EREDIRECTLOOP, pullread.ClassifyTransportError(err))
	})

	t.Run("no such host", func(t *testing.T) {
		t.Parallel()
		err := errors.New(`dial tcp: lookup nxdomain.invalid: no such host`)
		assert.Equal(t, pullread.ECONNECTION, pullread.ClassifyTransportError(err))
	})

	t.Run("unrecognized", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, pullread.EUNKNOWN, pullread.ClassifyTransportError(errors.New("boom")))
	})
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	retryable := []string{pullread.ESERVER, pullread.ETIMEOUT, pullread.ECONNECTION, pullread.EHEADERTOOLARGE}
	for _, code := range retryable {
		assert.True(t, pullread.Retryable(code), code)
	}

	terminal := []string{pullread.EBOTBLOCKED, pullread.ENOTFOUND, pullread.EREDIRECTLOOP, pullread.EUNKNOWN, pullread.EINVALID, pullread.ESKIPPED}
	for _, code := range terminal {
		assert.False(t, pullread.Retryable(code), code)
	}
}
