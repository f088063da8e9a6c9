package pullread

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// ligatures maps the Unicode ligature codepoints PDF text layers emit to
// their ASCII expansions.
var ligatures = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
)

// FixLigatures expands Unicode ligature codepoints. The transform is pure
// and idempotent.
func FixLigatures(text string) string {
	return ligatures.Replace(text)
}

// headerRepeatThreshold is the fraction of pages a normalized boundary
// line must recur on to count as a running header or footer. The value is
// a tunable; no stronger rationale than "half the pages" is intended.
const headerRepeatThreshold = 0.5

// boundaryLines is how many non-blank lines at each page edge are
// considered header/footer candidates.
const boundaryLines = 3

var (
	pageNumberOnly = regexp.MustCompile(`^\d+$`)
	trailingPageNo = regexp.MustCompile(`\s+\d+$`)
)

// StripRunningHeaders removes running headers and footers: boundary lines
// whose normalized form (trailing page numbers stripped) recurs on at
// least headerRepeatThreshold of the pages, and bare page-number lines.
// Documents under 3 pages are returned unchanged — too little signal.
func StripRunningHeaders(pages []string) []string {
	if len(pages) < 3 {
		return pages
	}

	counts := make(map[string]int)
	pageNoPages := 0
	for _, page := range pages {
		seen := make(map[string]bool)
		sawPageNo := false
		for _, line := range boundaryCandidates(page) {
			if pageNumberOnly.MatchString(line) {
				sawPageNo = true
				continue
			}
			norm := normalizeBoundaryLine(line)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			counts[norm]++
		}
		if sawPageNo {
			pageNoPages++
		}
	}

	minPages := int(headerRepeatThreshold*float64(len(pages)) + 0.5)
	if minPages < 2 {
		minPages = 2
	}
	noise := make(map[string]bool)
	for norm, n := range counts {
		if n >= minPages {
			noise[norm] = true
		}
	}
	stripPageNos := pageNoPages >= minPages

	out := make([]string, len(pages))
	for i, page := range pages {
		var kept []string
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if stripPageNos && pageNumberOnly.MatchString(trimmed) {
				continue
			}
			if noise[normalizeBoundaryLine(trimmed)] {
				continue
			}
			kept = append(kept, line)
		}
		out[i] = strings.Join(kept, "\n")
	}
	return out
}

// boundaryCandidates returns the first and last boundaryLines non-blank
// lines of a page.
func boundaryCandidates(page string) []string {
	var nonBlank []string
	for _, line := range strings.Split(page, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonBlank = append(nonBlank, trimmed)
		}
	}
	if len(nonBlank) <= 2*boundaryLines {
		return nonBlank
	}
	out := make([]string, 0, 2*boundaryLines)
	out = append(out, nonBlank[:boundaryLines]...)
	out = append(out, nonBlank[len(nonBlank)-boundaryLines:]...)
	return out
}

// normalizeBoundaryLine strips a trailing page number so "Title 12" and
// "Title 13" compare equal across pages.
func normalizeBoundaryLine(line string) string {
	return strings.TrimSpace(trailingPageNo.ReplaceAllString(strings.TrimSpace(line), ""))
}

// BuildParagraphs joins consecutive non-blank lines within each
// blank-line-delimited block with single spaces, undoing the hard wraps
// PDF extraction inserts at the column width. Runs of blank lines become
// a single paragraph break.
func BuildParagraphs(text string) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, trimmed)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// titleDenyList matches first-page noise that must not be mistaken for a
// title: running heads, drafts, page markers, bare arXiv IDs, bare URLs.
var titleDenyList = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^running head\b`),
	regexp.MustCompile(`(?i)^draft$`),
	regexp.MustCompile(`(?i)^page \d+`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^arXiv:`),
	regexp.MustCompile(`^https?://`),
}

// titleScanLines is how many first-page lines are scanned for a title.
const titleScanLines = 5

// SniffPDFTitle scans the first lines of a PDF's first page for a
// plausible title: 5-200 characters and not on the deny list. Failing
// that it derives a title from the URL's filename, and finally falls back
// to "Untitled PDF".
func SniffPDFTitle(lines []string, sourceURL string) string {
	n := len(lines)
	if n > titleScanLines {
		n = titleScanLines
	}
scan:
	for _, line := range lines[:n] {
		candidate := strings.TrimSpace(line)
		if len(candidate) < 5 || len(candidate) > 200 {
			continue
		}
		for _, deny := range titleDenyList {
			if deny.MatchString(candidate) {
				continue scan
			}
		}
		return candidate
	}

	if u, err := url.Parse(sourceURL); err == nil {
		name := path.Base(u.Path)
		name = strings.TrimSuffix(name, path.Ext(name))
		name = strings.Map(func(r rune) rune {
			if r == '-' || r == '_' {
				return ' '
			}
			return r
		}, name)
		name = strings.TrimSpace(name)
		if name != "" && name != "/" && name != "." {
			return name
		}
	}
	return "Untitled PDF"
}
