package acquire

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/shellen/pullread-sub001"
)

// acquireVideo builds an article for a video page: title and description
// from the page metadata, a thumbnail block linking back to the video,
// and the caption transcript when one exists. A nil, nil return means
// the URL turned out not to be a video page (channel, search results)
// and the generic path should handle it.
func (a *Acquirer) acquireVideo(ctx context.Context, rawURL string, opts pullread.FetchOptions) (*pullread.Article, error) {
	videoID := pullread.VideoID(rawURL)
	if videoID == "" {
		return nil, nil
	}

	resp, err := a.fetcher.Fetch(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	pageHTML := string(resp.Body)

	title, description := videoMetadata(a.metadata, pageHTML, rawURL)
	if title == "" {
		title = "Untitled video"
	}
	thumbnail := pullread.VideoThumbnail(videoID)

	transcript := ""
	if a.transcripts != nil {
		// Absent captions are not an error; the article is produced
		// without a transcript section.
		if t, terr := a.transcripts.Transcript(ctx, pageHTML); terr == nil {
			transcript = t
		}
	}

	var md strings.Builder
	fmt.Fprintf(&md, "[![%s](%s)](%s)\n", title, thumbnail, rawURL)
	if description != "" {
		md.WriteString("\n" + description + "\n")
	}
	if transcript != "" {
		md.WriteString("\n## Transcript\n\n" + transcript + "\n")
	}

	article := newArticle(rawURL, strings.TrimSpace(md.String()))
	article.Title = title
	article.Content = videoContentHTML(title, thumbnail, rawURL, description, transcript)
	article.Excerpt = description
	article.Thumbnail = thumbnail
	return &article, nil
}

// videoMetadata pulls title and description from the watch page's meta
// tags.
func videoMetadata(metadata pullread.Extractor, pageHTML, pageURL string) (title, description string) {
	if metadata == nil {
		return "", ""
	}
	result, err := metadata.Extract(pageHTML, pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(result.Title), strings.TrimSpace(result.Excerpt)
}

// videoContentHTML mirrors the markdown block as minimal HTML for
// consumers that render the content field directly. Title, description
// and transcript come from the remote page and are escaped.
func videoContentHTML(title, thumbnail, videoURL, description, transcript string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p><a href="%s"><img src="%s" alt="%s"/></a></p>`+"\n",
		html.EscapeString(videoURL), html.EscapeString(thumbnail), html.EscapeString(title))
	if description != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(description))
	}
	if transcript != "" {
		b.WriteString("<h2>Transcript</h2>\n")
		for _, para := range strings.Split(transcript, "\n") {
			if para = strings.TrimSpace(para); para != "" {
				fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(para))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
