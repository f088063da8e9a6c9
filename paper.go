package pullread

import "regexp"

// PaperSource is a rule for a known academic repository, used to prefer an
// HTML rendering over a PDF when the repository serves one.
type PaperSource struct {
	Name string

	pattern *regexp.Regexp
	// htmlURL builds the HTML-rendering URL from the pattern's submatches.
	htmlURL func(m []string) string
	// pdfURL builds the canonical PDF URL from the pattern's submatches.
	pdfURL func(m []string) string
	// paperID builds a citation-metadata lookup identifier, or "" when
	// the repository exposes none the metadata API understands.
	paperID func(m []string) string
}

// PaperMatch is the result of matching a URL against the source table.
type PaperMatch struct {
	Source *PaperSource

	// HTMLURL is the preferred HTML rendering of the paper.
	HTMLURL string

	// PDFURL is the PDF to fall back to when the HTML rendering is
	// missing or too short.
	PDFURL string

	// PaperID identifies the paper to the citation-metadata API
	// ("arXiv:<id>" or a DOI); empty when unknown.
	PaperID string
}

// paperSources is the static, immutable table of known repositories.
var paperSources = []PaperSource{
	{
		Name: "arxiv",
		// New-style 2009.14050v2 and old-style hep-ph/0601001 IDs.
		pattern: regexp.MustCompile(`^https?://arxiv\.org/(?:abs|pdf|html)/((?:[a-z-]+/)?\d{4}\.?\d{3,5}(?:v\d+)?)/?$`),
		htmlURL: func(m []string) string { return "https://arxiv.org/html/" + m[1] },
		pdfURL:  func(m []string) string { return "https://arxiv.org/pdf/" + m[1] },
		paperID: func(m []string) string { return "arXiv:" + m[1] },
	},
	{
		Name:    "bioRxiv",
		pattern: regexp.MustCompile(`^https?://www\.biorxiv\.org/content/(10\.1101/[^/]+?)(?:\.full)?\.full\.pdf$`),
		htmlURL: func(m []string) string { return "https://www.biorxiv.org/content/" + m[1] + ".full" },
		pdfURL:  func(m []string) string { return "https://www.biorxiv.org/content/" + m[1] + ".full.pdf" },
		paperID: func(m []string) string { return doiOf(m[1]) },
	},
	{
		Name:    "medRxiv",
		pattern: regexp.MustCompile(`^https?://www\.medrxiv\.org/content/(10\.1101/[^/]+?)(?:\.full)?\.full\.pdf$`),
		htmlURL: func(m []string) string { return "https://www.medrxiv.org/content/" + m[1] + ".full" },
		pdfURL:  func(m []string) string { return "https://www.medrxiv.org/content/" + m[1] + ".full.pdf" },
		paperID: func(m []string) string { return doiOf(m[1]) },
	},
	{
		Name:    "PMC",
		pattern: regexp.MustCompile(`^https?://pmc\.ncbi\.nlm\.nih\.gov/articles/(PMC\d+)/pdf/?.*$`),
		htmlURL: func(m []string) string { return "https://pmc.ncbi.nlm.nih.gov/articles/" + m[1] + "/" },
		pdfURL:  func(m []string) string { return "https://pmc.ncbi.nlm.nih.gov/articles/" + m[1] + "/pdf/" },
		paperID: func(m []string) string { return "" },
	},
	{
		Name:    "PLOS",
		pattern: regexp.MustCompile(`^https?://journals\.plos\.org/([a-z]+)/article/file\?id=(10\.[^&]+)&type=printable$`),
		htmlURL: func(m []string) string { return "https://journals.plos.org/" + m[1] + "/article?id=" + m[2] },
		pdfURL: func(m []string) string {
			return "https://journals.plos.org/" + m[1] + "/article/file?id=" + m[2] + "&type=printable"
		},
		paperID: func(m []string) string { return m[2] },
	},
	{
		Name:    "ACM",
		pattern: regexp.MustCompile(`^https?://dl\.acm\.org/doi/pdf/(10\.\d+/[^?#]+)$`),
		htmlURL: func(m []string) string { return "https://dl.acm.org/doi/fullHtml/" + m[1] },
		pdfURL:  func(m []string) string { return "https://dl.acm.org/doi/pdf/" + m[1] },
		paperID: func(m []string) string { return m[1] },
	},
}

// MatchPaperSource matches a URL against the repository table and returns
// the rewrite rule, or nil for non-academic URLs. Abstract pages that
// already render as HTML (e.g. bioRxiv content pages without .full.pdf)
// are not matched; they extract fine through the generic path.
func MatchPaperSource(rawURL string) *PaperMatch {
	for i := range paperSources {
		src := &paperSources[i]
		m := src.pattern.FindStringSubmatch(rawURL)
		if m == nil {
			continue
		}
		return &PaperMatch{
			Source:  src,
			HTMLURL: src.htmlURL(m),
			PDFURL:  src.pdfURL(m),
			PaperID: src.paperID(m),
		}
	}
	return nil
}

// doiOf strips a version suffix (v1, v2...) from a bioRxiv/medRxiv DOI
// path segment.
var rxivVersion = regexp.MustCompile(`v\d+$`)

func doiOf(s string) string {
	return rxivVersion.ReplaceAllString(s, "")
}
