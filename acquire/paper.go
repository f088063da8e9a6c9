package acquire

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shellen/pullread-sub001"
)

// minPaperHTMLChars is the markdown length below which a repository's
// HTML rendering is considered a stub (some repositories serve a
// placeholder page for papers without an HTML version).
const minPaperHTMLChars = 200

// acquirePaper prefers the repository's HTML rendering over the PDF. The
// HTML attempt and the citation-metadata lookup run concurrently; the
// metadata, when available, always overrides the extractor-derived
// title, byline and excerpt.
func (a *Acquirer) acquirePaper(ctx context.Context, rawURL string, match *pullread.PaperMatch, opts pullread.FetchOptions) (*pullread.Article, error) {
	var (
		htmlArticle *pullread.Article
		htmlErr     error
		metadata    *pullread.PaperMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		htmlArticle, htmlErr = a.paperFromHTML(gctx, match.HTMLURL, opts)
		return nil
	})
	if a.papers != nil && match.PaperID != "" {
		g.Go(func() error {
			// Best-effort: a failed lookup never sinks the acquisition.
			if meta, err := a.papers.Lookup(gctx, match.PaperID); err == nil {
				metadata = meta
			}
			return nil
		})
	}
	_ = g.Wait()

	article := htmlArticle
	if article == nil {
		var pdfErr error
		article, pdfErr = a.paperFromPDF(ctx, match.PDFURL, opts)
		if article == nil {
			if htmlErr != nil {
				return nil, htmlErr
			}
			return nil, pdfErr
		}
	}
	article.SourceURL = rawURL

	if metadata != nil {
		if metadata.Title != "" {
			article.Title = metadata.Title
		}
		if metadata.Byline != "" {
			article.Byline = metadata.Byline
		}
		if metadata.Abstract != "" {
			article.Excerpt = metadata.Abstract
		}
	}
	return article, nil
}

// paperFromHTML fetches the HTML rendering and extracts it; stub pages
// under minPaperHTMLChars are treated as missing.
func (a *Acquirer) paperFromHTML(ctx context.Context, htmlURL string, opts pullread.FetchOptions) (*pullread.Article, error) {
	resp, err := a.fetcher.Fetch(ctx, htmlURL, opts)
	if err != nil {
		return nil, err
	}
	article, err := a.articleFromHTML(string(resp.Body), resp.FinalURL)
	if err != nil {
		return nil, err
	}
	if len(article.Markdown) < minPaperHTMLChars {
		return nil, pullread.Errorf(pullread.EINVALID, "HTML rendering at %s too short (%d chars)", htmlURL, len(article.Markdown))
	}
	return article, nil
}

// paperFromPDF fetches the PDF and routes it through the post-processor.
func (a *Acquirer) paperFromPDF(ctx context.Context, pdfURL string, opts pullread.FetchOptions) (*pullread.Article, error) {
	if a.pdf == nil {
		return nil, pullread.Errorf(pullread.EINVALID, "no PDF processor configured for %s", pdfURL)
	}
	resp, err := a.fetcher.Fetch(ctx, pdfURL, opts)
	if err != nil {
		return nil, err
	}
	return a.pdf.Process(resp.Body, resp.FinalURL)
}
