// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foldlab/protein-research/pkg/types"
)

// Citation patterns.
var (
	// numberedCitePattern matches "[1] Some Title - http://example.com".
	numberedCitePattern = regexp.MustCompile(`\[(\d+)\]\s*(.+?)\s*-\s*(https?://[^\s]+)`)

	// urlPattern matches a bare URL anywhere in a line.
	urlPattern = regexp.MustCompile(`https?://[^\s)\]>]+`)
)

// ExtractCitations scans the document for numbered citation lines pairing a
// bracketed number with a URL. Duplicate numbers collapse to the first
// occurrence. When no bracketed citations exist, every bare URL in the text
// is collected and numbered sequentially instead. The result is capped at
// p.MaxCitations.
func (p *Parser) ExtractCitations(text string) []types.Citation {
	seen := make(map[string]bool)
	var citations []types.Citation

	for _, line := range strings.Split(text, "\n") {
		m := numberedCitePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		number := m[1]
		if seen[number] {
			continue
		}
		seen[number] = true
		citations = append(citations, types.Citation{
			Number: number,
			Title:  stripEmphasis(m[2]),
			URL:    strings.TrimRight(m[3], ".,;"),
		})
		if len(citations) >= p.MaxCitations {
			return citations
		}
	}

	if len(citations) > 0 {
		return citations
	}

	// No bracketed citations — fall back to bare URLs, numbered in order
	// of appearance.
	seenURL := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		m := urlPattern.FindString(line)
		if m == "" {
			continue
		}
		url := strings.TrimRight(m, ".,;")
		if seenURL[url] {
			continue
		}
		seenURL[url] = true
		title := stripEmphasis(strings.TrimSpace(strings.Replace(line, m, "", 1)))
		title = strings.Trim(title, "-–: ")
		citations = append(citations, types.Citation{
			Number: fmt.Sprintf("%d", len(citations)+1),
			Title:  title,
			URL:    url,
		})
		if len(citations) >= p.MaxCitations {
			break
		}
	}

	return citations
}
