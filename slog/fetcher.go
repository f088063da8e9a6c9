package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/shellen/pullread-sub001"
)

// Ensure LoggingFetcher implements pullread.Fetcher.
var _ pullread.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of each request.
type LoggingFetcher struct {
	next   pullread.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pullread.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped Fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, opts pullread.FetchOptions) (*pullread.Response, error) {
	begin := time.Now()
	resp, err := f.next.Fetch(ctx, url, opts)
	if err != nil {
		f.logger.Debug("fetch failed",
			"url", url,
			"code", pullread.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	f.logger.Debug("fetch ok",
		"url", url,
		"status", resp.StatusCode,
		"contentType", resp.ContentType,
		"bytes", len(resp.Body),
		"duration", time.Since(begin),
	)
	return resp, nil
}
