// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse converts unstructured agent output into typed sections,
// citations, and items. Everything here is pure: same input, same output,
// no I/O. Parsing never fabricates text; missing fields are left empty for
// the enrichment step to fill.
package parse

import (
	"strings"

	"github.com/foldlab/protein-research/pkg/types"
)

// Parser splits agent output along a caller-specified plan of registered
// section names. The parser is told what to look for next rather than
// self-discovering headers, which tolerates missing sections but not
// arbitrary reordering.
type Parser struct {
	// Plan is the ordered list of section names expected in the output.
	Plan []string

	// MaxCitations caps the citation list (default 15).
	MaxCitations int
}

// NewParser builds a Parser from configuration, applying defaults.
func NewParser(cfg types.ParseConfig) *Parser {
	maxCitations := cfg.MaxCitations
	if maxCitations <= 0 {
		maxCitations = 15
	}
	return &Parser{Plan: cfg.Sections, MaxCitations: maxCitations}
}

// SectionKey normalizes a registered section name into a result map key:
// lowercased with underscores ("ACADEMIC PAPERS" → "academic_papers").
func SectionKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Parse splits raw output into the planned sections and extracts the
// citation list. Sections absent from the output yield entries with empty
// text rather than errors.
func (p *Parser) Parse(raw string) types.SectionedDocument {
	doc := types.SectionedDocument{
		Citations: p.ExtractCitations(raw),
	}
	for i, name := range p.Plan {
		next := ""
		if i+1 < len(p.Plan) {
			next = p.Plan[i+1]
		}
		doc.Sections = append(doc.Sections, types.Section{
			Name: SectionKey(name),
			Text: extractSection(raw, name, next),
		})
	}
	return doc
}

// extractSection returns the text between the line containing sectionName
// and the line containing nextSection (or end of document when nextSection
// is empty or absent). Matching is a case-insensitive substring test on
// standalone lines; re-entry is not supported — the first occurrence opens
// the section and the first close ends it.
func extractSection(text, sectionName, nextSection string) string {
	sectionUpper := strings.ToUpper(sectionName)
	nextUpper := strings.ToUpper(nextSection)

	var sectionLines []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)

		if !inSection {
			if strings.Contains(upper, sectionUpper) {
				inSection = true
			}
			continue
		}

		if nextUpper != "" && strings.Contains(upper, nextUpper) {
			break
		}

		sectionLines = append(sectionLines, line)
	}

	return strings.TrimSpace(strings.Join(sectionLines, "\n"))
}
