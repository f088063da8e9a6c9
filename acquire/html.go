package acquire

import (
	"strings"

	"github.com/shellen/pullread-sub001"
)

// articleFromHTML runs the extraction ladder: content extractors in
// order, then the metadata-only fallback, then social title repair,
// markdown conversion and relative URL resolution.
func (a *Acquirer) articleFromHTML(rawHTML, pageURL string) (*pullread.Article, error) {
	result := a.extract(rawHTML, pageURL)
	if !result.Usable() && a.metadata != nil {
		if fallback, err := a.metadata.Extract(rawHTML, pageURL); err == nil && fallback.Usable() {
			result = mergeResults(result, fallback)
		}
	}
	if !result.Usable() {
		return nil, pullread.Errorf(pullread.EINVALID, "no extractable content at %s", pageURL)
	}

	title := strings.TrimSpace(result.Title)
	if pullread.IsSocialURL(pageURL) && isPlaceholderTitle(title) {
		if synthesized := pullread.SocialTitle(socialDescription(result, rawHTML, pageURL, a.metadata), pageURL); synthesized != "" {
			title = synthesized
		}
	}
	if title == "" {
		title = "Untitled"
	}

	markdown, err := a.converter.Convert(result.ContentHTML)
	if err != nil {
		return nil, err
	}
	markdown = pullread.ResolveRelativeURLs(markdown, pageURL)

	article := newArticle(pageURL, markdown)
	article.Title = title
	article.Content = result.ContentHTML
	article.Byline = result.Byline
	article.Excerpt = result.Excerpt
	article.Thumbnail = result.Thumbnail
	return &article, nil
}

// extract tries each content extractor until one yields usable content.
func (a *Acquirer) extract(rawHTML, pageURL string) *pullread.ExtractResult {
	var best *pullread.ExtractResult
	for _, e := range a.extractors {
		result, err := e.Extract(rawHTML, pageURL)
		if err != nil {
			continue
		}
		if result.Usable() {
			return result
		}
		if best == nil && result != nil {
			best = result
		}
	}
	return best
}

// mergeResults keeps the primary pass's fields where it produced any,
// filling the rest from the metadata fallback.
func mergeResults(primary, fallback *pullread.ExtractResult) *pullread.ExtractResult {
	if primary == nil {
		return fallback
	}
	merged := *fallback
	if primary.Title != "" {
		merged.Title = primary.Title
	}
	if primary.Byline != "" {
		merged.Byline = primary.Byline
	}
	if primary.Excerpt != "" {
		merged.Excerpt = primary.Excerpt
	}
	if primary.Thumbnail != "" {
		merged.Thumbnail = primary.Thumbnail
	}
	return &merged
}

// isPlaceholderTitle reports whether a social post page produced an empty
// or boilerplate title that needs synthesizing.
func isPlaceholderTitle(title string) bool {
	switch title {
	case "", "Untitled", "X", "X.com", "Twitter", "Bluesky":
		return true
	}
	return false
}

// socialDescription finds description text for social title synthesis:
// the extract's excerpt first, then the page's description metadata.
func socialDescription(result *pullread.ExtractResult, rawHTML, pageURL string, metadata pullread.Extractor) string {
	if result.Excerpt != "" {
		return result.Excerpt
	}
	if metadata != nil {
		if meta, err := metadata.Extract(rawHTML, pageURL); err == nil && meta.Excerpt != "" {
			return meta.Excerpt
		}
	}
	return ""
}
