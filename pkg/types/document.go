// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Section is one named, contiguous slice of the agent's output text.
type Section struct {
	// Name is the registered section name, lowercased with underscores
	// (e.g. "academic_papers", "summary").
	Name string `json:"name" yaml:"name"`

	// Text is the raw section body. "Section not found in output" style
	// markers are substituted by the pipeline, never by the parser.
	Text string `json:"text" yaml:"text"`
}

// Citation is one numbered reference with a hyperlink.
type Citation struct {
	Number string `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
}

// SectionedDocument is the parsed agent output: ordered sections plus the
// deduplicated citation list. Sections never overlap in source text and
// citation numbers are unique (first occurrence wins).
type SectionedDocument struct {
	Sections  []Section  `json:"sections" yaml:"sections"`
	Citations []Citation `json:"citations" yaml:"citations"`
}

// SectionText returns the body of the named section, or "" when absent.
func (d SectionedDocument) SectionText(name string) string {
	for _, s := range d.Sections {
		if s.Name == name {
			return s.Text
		}
	}
	return ""
}

// EnrichedItem is a single structured record extracted from a section,
// typically one paper. Summary answers how the entity is used; Description
// answers what the paper is about. The two must never be textually identical
// when both are populated.
type EnrichedItem struct {
	Title       string            `json:"title" yaml:"title"`
	Authors     []string          `json:"authors,omitempty" yaml:"authors,omitempty"`
	Venue       string            `json:"venue,omitempty" yaml:"venue,omitempty"`
	Year        int               `json:"year,omitempty" yaml:"year,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`
	Link        string            `json:"link,omitempty" yaml:"link,omitempty"`
	Summary     string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`

	// Synthesized marks items whose missing fields were filled with
	// templated placeholder text rather than fetched metadata.
	Synthesized bool `json:"synthesized,omitempty" yaml:"synthesized,omitempty"`
}

// NormalizeText trims and case-folds a string for duplicate comparison.
func NormalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
