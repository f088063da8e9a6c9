// Package slog provides logging decorators for pullread services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/shellen/pullread-sub001"
)

// Ensure LoggingAcquirer implements pullread.Acquirer.
var _ pullread.Acquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps an Acquirer with structured logging of every
// acquisition: strategy, duration and outcome.
type LoggingAcquirer struct {
	next   pullread.Acquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next pullread.Acquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Acquire delegates to the wrapped Acquirer and logs the outcome.
func (a *LoggingAcquirer) Acquire(ctx context.Context, rawURL string, opts pullread.FetchOptions) (*pullread.Article, error) {
	begin := time.Now()
	article, err := a.next.Acquire(ctx, rawURL, opts)
	if err != nil {
		a.logger.Warn("acquisition failed",
			"url", rawURL,
			"code", pullread.ErrorCode(err),
			"duration", time.Since(begin),
			"error", pullread.ErrorMessage(err),
		)
		return nil, err
	}
	a.logger.Info("acquired article",
		"url", rawURL,
		"strategy", pullread.ClassifyURL(rawURL).String(),
		"title", article.Title,
		"chars", len(article.Markdown),
		"duration", time.Since(begin),
	)
	return article, nil
}
