// Package meta is the metadata-only extraction fallback: Open Graph and
// Twitter card tags for title/description/image, and a structured-data
// block for body text when one is present. It is used when boilerplate
// removal yields nothing usable.
package meta

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/shellen/pullread-sub001"
)

// Ensure Extractor implements pullread.Extractor at compile time.
var _ pullread.Extractor = (*Extractor)(nil)

// Extractor extracts page metadata instead of page content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// articleTypes are the schema.org types whose articleBody is trusted as
// body text.
var articleTypes = map[string]bool{
	"Article":     true,
	"NewsArticle": true,
	"BlogPosting": true,
}

// structuredData is the subset of a JSON-LD block this extractor reads.
type structuredData struct {
	Type        string          `json:"@type"`
	Headline    string          `json:"headline"`
	Description string          `json:"description"`
	ArticleBody string          `json:"articleBody"`
	Author      json.RawMessage `json:"author"`
}

// Extract builds a result from page metadata. It fails only when both the
// title and body come up empty.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*pullread.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pullread.Errorf(pullread.EINVALID, "empty HTML input")
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &pullread.ExtractResult{
		Title:   og.Title,
		Excerpt: og.Description,
	}
	if len(og.Images) > 0 {
		result.Thumbnail = og.Images[0].URL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pullread.Errorf(pullread.EINVALID, "failed to parse HTML: %v", err)
	}

	// Twitter card tags fill whatever Open Graph left empty.
	if result.Title == "" {
		result.Title = metaContent(doc, `meta[name="twitter:title"]`)
	}
	if result.Excerpt == "" {
		result.Excerpt = metaContent(doc, `meta[name="twitter:description"]`)
	}
	if result.Thumbnail == "" {
		result.Thumbnail = metaContent(doc, `meta[name="twitter:image"]`)
	}
	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if sd := findStructuredData(doc); sd != nil {
		if result.Title == "" {
			result.Title = sd.Headline
		}
		if result.Excerpt == "" {
			result.Excerpt = sd.Description
		}
		result.Byline = authorName(sd.Author)
		if sd.ArticleBody != "" {
			result.ContentHTML = paragraphsToHTML(sd.ArticleBody)
		}
	}

	// A description is an acceptable stand-in for body text on pages that
	// publish nothing richer (social posts, link hubs).
	if result.ContentHTML == "" && result.Excerpt != "" {
		result.ContentHTML = paragraphsToHTML(result.Excerpt)
	}

	if result.Title == "" && result.ContentHTML == "" {
		return nil, pullread.Errorf(pullread.EINVALID, "page has no usable metadata")
	}
	return result, nil
}

// metaContent returns the content attribute of the first matching meta tag.
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// findStructuredData returns the first JSON-LD block with an article type.
func findStructuredData(doc *goquery.Document) *structuredData {
	var found *structuredData
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := sel.Text()

		var sd structuredData
		if err := json.Unmarshal([]byte(raw), &sd); err == nil && articleTypes[sd.Type] {
			found = &sd
			return false
		}

		// Some sites wrap the article in a JSON-LD array.
		var list []structuredData
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			for i := range list {
				if articleTypes[list[i].Type] {
					found = &list[i]
					return false
				}
			}
		}
		return true
	})
	return found
}

// authorName pulls a name out of a JSON-LD author field, which may be a
// string, an object, or a list of objects.
func authorName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}

	var list []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		var names []string
		for _, a := range list {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

// paragraphsToHTML wraps plain text in paragraph tags, splitting on blank
// lines.
func paragraphsToHTML(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(htmlEscape(para))
		b.WriteString("</p>\n")
	}
	return strings.TrimSpace(b.String())
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
