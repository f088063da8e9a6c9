package pullread_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellen/pullread-sub001"
)

func TestMatchPaperSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		source  string
		htmlURL string
		pdfURL  string
		paperID string
	}{
		{
			name:    "arxiv abstract page",
			url:     "https://arxiv.org/abs/2009.14050",
			source:  "arxiv",
			htmlURL: "https://arxiv.org/html/2009.14050",
			pdfURL:  "https://arxiv.org/pdf/2009.14050",
			paperID: "arXiv:2009.14050",
		},
		{
			name:    "arxiv pdf with version",
			url:     "https://arxiv.org/pdf/2009.14050v2",
			source:  "arxiv",
			htmlURL: "https://arxiv.org/html/2009.14050v2",
			pdfURL:  "https://arxiv.org/pdf/2009.14050v2",
			paperID: "arXiv:2009.14050v2",
		},
		{
			name:    "arxiv old-style id",
			url:     "https://arxiv.org/abs/hep-ph/0601001",
			source:  "arxiv",
			htmlURL: "https://arxiv.org/html/hep-ph/0601001",
			pdfURL:  "https://arxiv.org/pdf/hep-ph/0601001",
			paperID: "arXiv:hep-ph/0601001",
		},
		{
			name:    "biorxiv full pdf",
			url:     "https://www.biorxiv.org/content/10.1101/2024.01.15.575712v1.full.pdf",
			source:  "bioRxiv",
			htmlURL: "https://www.biorxiv.org/content/10.1101/2024.01.15.575712v1.full",
			pdfURL:  "https://www.biorxiv.org/content/10.1101/2024.01.15.575712v1.full.pdf",
			paperID: "10.1101/2024.01.15.575712",
		},
		{
			name:    "medrxiv full pdf",
			url:     "https://www.medrxiv.org/content/10.1101/2024.02.20.24303101v2.full.pdf",
			source:  "medRxiv",
			htmlURL: "https://www.medrxiv.org/content/10.1101/2024.02.20.24303101v2.full",
			pdfURL:  "https://www.medrxiv.org/content/10.1101/2024.02.20.24303101v2.full.pdf",
			paperID: "10.1101/2024.02.20.24303101",
		},
		{
			name:    "pmc pdf",
			url:     "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/pdf/",
			source:  "PMC",
			htmlURL: "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/",
			pdfURL:  "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/pdf/",
			paperID: "",
		},
		{
			name:    "pmc pdf with filename",
			url:     "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/pdf/main.pdf",
			source:  "PMC",
			htmlURL: "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/",
			pdfURL:  "https://pmc.ncbi.nlm.nih.gov/articles/PMC10000000/pdf/",
			paperID: "",
		},
		{
			name:    "plos printable pdf",
			url:     "https://journals.plos.org/plosone/article/file?id=10.1371/journal.pone.0123456&type=printable",
			source:  "PLOS",
			htmlURL: "https://journals.plos.org/plosone/article?id=10.1371/journal.pone.0123456",
			pdfURL:  "https://journals.plos.org/plosone/article/file?id=10.1371/journal.pone.0123456&type=printable",
			paperID: "10.1371/journal.pone.0123456",
		},
		{
			name:    "acm pdf",
			url:     "https://dl.acm.org/doi/pdf/10.1145/3600006.3613165",
			source:  "ACM",
			htmlURL: "https://dl.acm.org/doi/fullHtml/10.1145/3600006.3613165",
			pdfURL:  "https://dl.acm.org/doi/pdf/10.1145/3600006.3613165",
			paperID: "10.1145/3600006.3613165",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			match := pullread.MatchPaperSource(tt.url)
			require.NotNil(t, match)
			assert.Equal(t, tt.source, match.Source.Name)
			assert.Equal(t, tt.htmlURL, match.HTMLURL)
			assert.Equal(t, tt.pdfURL, match.PDFURL)
			assert.Equal(t, tt.paperID, match.PaperID)
		})
	}
}

func TestMatchPaperSource_NonPapers(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://example.com/paper.pdf",
		"https://arxiv.org/list/cs.AI/recent",
		"https://www.biorxiv.org/content/10.1101/2024.01.15.575712v1",
		"https://journals.plos.org/plosone/article?id=10.1371/journal.pone.0123456",
		"https://dl.acm.org/doi/10.1145/3600006.3613165",
	}
	for _, u := range urls {
		assert.Nil(t, pullread.MatchPaperSource(u), u)
	}
}
