// Package mock provides hand-written mocks for pullread interfaces.
package mock

import (
	"context"

	"github.com/shellen/pullread-sub001"
)

var _ pullread.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of pullread.Acquirer.
type Acquirer struct {
	AcquireFn func(ctx context.Context, rawURL string, opts pullread.FetchOptions) (*pullread.Article, error)
}

func (a *Acquirer) Acquire(ctx context.Context, rawURL string, opts pullread.FetchOptions) (*pullread.Article, error) {
	return a.AcquireFn(ctx, rawURL, opts)
}

var _ pullread.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pullread.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts pullread.FetchOptions) (*pullread.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts pullread.FetchOptions) (*pullread.Response, error) {
	return f.FetchFn(ctx, url, opts)
}

var _ pullread.ShortlinkResolver = (*ShortlinkResolver)(nil)

// ShortlinkResolver is a mock implementation of pullread.ShortlinkResolver.
type ShortlinkResolver struct {
	ResolveShortlinkFn func(ctx context.Context, url string) (string, error)
}

func (r *ShortlinkResolver) ResolveShortlink(ctx context.Context, url string) (string, error) {
	return r.ResolveShortlinkFn(ctx, url)
}

var _ pullread.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pullread.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*pullread.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*pullread.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

var _ pullread.Converter = (*Converter)(nil)

// Converter is a mock implementation of pullread.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ pullread.PDFProcessor = (*PDFProcessor)(nil)

// PDFProcessor is a mock implementation of pullread.PDFProcessor.
type PDFProcessor struct {
	ProcessFn func(data []byte, sourceURL string) (*pullread.Article, error)
}

func (p *PDFProcessor) Process(data []byte, sourceURL string) (*pullread.Article, error) {
	return p.ProcessFn(data, sourceURL)
}

var _ pullread.TranscriptService = (*TranscriptService)(nil)

// TranscriptService is a mock implementation of pullread.TranscriptService.
type TranscriptService struct {
	TranscriptFn func(ctx context.Context, pageHTML string) (string, error)
}

func (t *TranscriptService) Transcript(ctx context.Context, pageHTML string) (string, error) {
	return t.TranscriptFn(ctx, pageHTML)
}

var _ pullread.PaperMetadataService = (*PaperMetadataService)(nil)

// PaperMetadataService is a mock implementation of pullread.PaperMetadataService.
type PaperMetadataService struct {
	LookupFn func(ctx context.Context, paperID string) (*pullread.PaperMetadata, error)
}

func (p *PaperMetadataService) Lookup(ctx context.Context, paperID string) (*pullread.PaperMetadata, error) {
	return p.LookupFn(ctx, paperID)
}

var _ pullread.ArchiveService = (*ArchiveService)(nil)

// ArchiveService is a mock implementation of pullread.ArchiveService.
type ArchiveService struct {
	SnapshotFn func(ctx context.Context, url string) (*pullread.Response, error)
}

func (a *ArchiveService) Snapshot(ctx context.Context, url string) (*pullread.Response, error) {
	return a.SnapshotFn(ctx, url)
}

var _ pullread.CookieSource = (*CookieSource)(nil)

// CookieSource is a mock implementation of pullread.CookieSource.
type CookieSource struct {
	CookiesForFn func(domain string) string
}

func (c *CookieSource) CookiesFor(domain string) string {
	return c.CookiesForFn(domain)
}
