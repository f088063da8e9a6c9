package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellen/pullread-sub001"
	"github.com/shellen/pullread-sub001/meta"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("open graph tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta property="og:title" content="OG Title"/>
			<meta property="og:description" content="OG description text."/>
			<meta property="og:image" content="https://example.com/img.png"/>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "OG Title", result.Title)
		assert.Equal(t, "OG description text.", result.Excerpt)
		assert.Equal(t, "https://example.com/img.png", result.Thumbnail)
		assert.Contains(t, result.ContentHTML, "OG description text.")
		assert.True(t, result.Usable())
	})

	t.Run("twitter card fills gaps", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta name="twitter:title" content="Card Title"/>
			<meta name="twitter:description" content="Card description."/>
			<meta name="twitter:image" content="https://example.com/card.png"/>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "")

		require.NoError(t, err)
		assert.Equal(t, "Card Title", result.Title)
		assert.Equal(t, "Card description.", result.Excerpt)
		assert.Equal(t, "https://example.com/card.png", result.Thumbnail)
	})

	t.Run("title tag as last resort", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Plain Title</title>
			<meta property="og:description" content="desc"/>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "")

		require.NoError(t, err)
		assert.Equal(t, "Plain Title", result.Title)
	})

	t.Run("json-ld article body and author", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta property="og:title" content="Story"/>
			<script type="application/ld+json">
			{"@type":"NewsArticle","headline":"Story","articleBody":"First paragraph.\n\nSecond paragraph.","author":{"name":"Jane Reporter"}}
			</script>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "")

		require.NoError(t, err)
		assert.Equal(t, "Jane Reporter", result.Byline)
		assert.Contains(t, result.ContentHTML, "<p>First paragraph.</p>")
		assert.Contains(t, result.ContentHTML, "<p>Second paragraph.</p>")
	})

	t.Run("json-ld array form", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<script type="application/ld+json">
			[{"@type":"WebSite","name":"site"},{"@type":"Article","headline":"Array Headline","articleBody":"Body text here.","author":"Solo Author"}]
			</script>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "")

		require.NoError(t, err)
		assert.Equal(t, "Array Headline", result.Title)
		assert.Equal(t, "Solo Author", result.Byline)
		assert.Contains(t, result.ContentHTML, "Body text here.")
	})

	t.Run("escapes markup in structured body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta property="og:title" content="T"/>
			<script type="application/ld+json">
			{"@type":"Article","articleBody":"a < b & c"}
			</script>
		</head><body></body></html>`

		e := meta.NewExtractor()
		result, err := e.Extract(html, "")

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "a &lt; b &amp; c")
	})

	t.Run("no metadata at all", func(t *testing.T) {
		t.Parallel()

		e := meta.NewExtractor()
		_, err := e.Extract(`<html><head></head><body><p>text</p></body></html>`, "")

		require.Error(t, err)
		assert.Equal(t, pullread.EINVALID, pullread.ErrorCode(err))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		e := meta.NewExtractor()
		_, err := e.Extract("", "")

		require.Error(t, err)
		assert.Equal(t, pullread.EINVALID, pullread.ErrorCode(err))
	})
}
