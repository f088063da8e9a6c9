// Package readability provides the primary boilerplate-removal extractor,
// a DOM-density pass that keeps the densest content subtree.
package readability

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/shellen/pullread-sub001"
)

// Ensure Extractor implements pullread.Extractor at compile time.
var _ pullread.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with
// navigation, footers and ads stripped.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*pullread.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pullread.Errorf(pullread.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			base = u
		}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	return &pullread.ExtractResult{
		Title:       article.Title,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		Thumbnail:   article.Image,
		ContentHTML: article.Content,
	}, nil
}
