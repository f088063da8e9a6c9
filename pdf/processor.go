// Package pdf reconstructs reading-order text from PDF bytes: ligature
// repair, running header/footer removal, paragraph rebuilding and title
// sniffing. Full layout reconstruction is out of scope.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/shellen/pullread-sub001"
)

// minExtractedChars rejects documents below this much text as
// scanned/image-only PDFs with nothing to extract.
const minExtractedChars = 100

// Ensure Processor implements pullread.PDFProcessor at compile time.
var _ pullread.PDFProcessor = (*Processor)(nil)

// Processor turns raw PDF bytes into an article.
type Processor struct{}

// NewProcessor creates a new Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process extracts page text, cleans it up and assembles an article.
// Documents whose text is under minExtractedChars yield EINVALID.
func (p *Processor) Process(data []byte, sourceURL string) (*pullread.Article, error) {
	pages, err := extractPages(data)
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "unreadable PDF from %s: %v", sourceURL, err)
	}

	for i, page := range pages {
		pages[i] = pullread.FixLigatures(page)
	}
	pages = pullread.StripRunningHeaders(pages)

	text := pullread.BuildParagraphs(strings.Join(pages, "\n\n"))
	if len(text) < minExtractedChars {
		return nil, pullread.Errorf(pullread.EINVALID, "no extractable text in PDF from %s (likely scanned)", sourceURL)
	}

	var firstLines []string
	if len(pages) > 0 {
		for _, line := range strings.Split(pages[0], "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				firstLines = append(firstLines, trimmed)
			}
		}
	}
	title := pullread.SniffPDFTitle(firstLines, sourceURL)

	paragraphs := strings.Split(text, "\n\n")
	var content strings.Builder
	for _, para := range paragraphs {
		fmt.Fprintf(&content, "<p>%s</p>\n", para)
	}

	return &pullread.Article{
		Title:     title,
		Content:   strings.TrimSpace(content.String()),
		Markdown:  "# " + title + "\n\n" + text,
		Excerpt:   excerptOf(paragraphs),
		SourceURL: sourceURL,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// extractPages returns the plain text of each page, one line per text row.
// The underlying parser panics on some malformed xref tables, so the panic
// is converted to an error here.
func extractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// A single broken page should not sink the document.
			continue
		}

		var lines []string
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				line.WriteString(word.S)
			}
			if trimmed := strings.TrimSpace(line.String()); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages, nil
}

// excerptOf returns the first reasonably sized paragraph.
func excerptOf(paragraphs []string) string {
	for _, para := range paragraphs {
		if len(para) >= 80 {
			if len(para) > 300 {
				cut := para[:300]
				if idx := strings.LastIndex(cut, " "); idx > 0 {
					cut = cut[:idx]
				}
				return cut + "…"
			}
			return para
		}
	}
	return ""
}
