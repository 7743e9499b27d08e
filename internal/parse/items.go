// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foldlab/protein-research/pkg/types"
)

// fieldLabels maps the label aliases seen in agent output to canonical field
// names. Labels are presentation conventions carried as configuration data.
var fieldLabels = map[string]string{
	"title":       "title",
	"paper":       "title",
	"authors":     "authors",
	"author":      "authors",
	"journal":     "venue",
	"venue":       "venue",
	"year":        "year",
	"doi":         "doi",
	"pmid":        "pmid",
	"link":        "link",
	"hyperlink":   "link",
	"url":         "link",
	"summary":     "summary",
	"description": "description",
}

// labelPattern matches a "Label: value" line after markdown stripping.
var labelPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]{0,20}):\s*(.*)$`)

// listMarkerPattern matches leading list markers: "- ", "* ", "1. ", "[3] ".
var listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)]|\[\d+\])\s+`)

// emphasisPattern matches markdown bold/italic runs around values.
var emphasisPattern = regexp.MustCompile(`\*{1,3}|_{1,3}|` + "`")

// stripEmphasis removes markdown emphasis markers from a value.
func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasisPattern.ReplaceAllString(s, ""))
}

// ExtractItems parses the labeled-field records within one section's text.
// Items are delimited by blank lines or by a repeated Title label. Fields
// may arrive in any order and any may be absent; years outside [1900, 2100]
// are discarded as noise. Summary and Description are only ever taken from
// their own labels — conflated or missing values are left for enrichment.
func ExtractItems(text string) []types.EnrichedItem {
	var items []types.EnrichedItem
	var cur *types.EnrichedItem

	flush := func() {
		if cur != nil && itemHasContent(*cur) {
			items = append(items, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = listMarkerPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		m := labelPattern.FindStringSubmatch(stripEmphasis(line))
		if m == nil {
			continue
		}
		field, ok := fieldLabels[strings.ToLower(strings.TrimSpace(m[1]))]
		if !ok {
			continue
		}
		value := stripEmphasis(m[2])
		if value == "" {
			continue
		}

		if cur == nil {
			cur = &types.EnrichedItem{}
		}

		switch field {
		case "title":
			if cur.Title != "" {
				flush()
				cur = &types.EnrichedItem{}
			}
			cur.Title = value
		case "authors":
			cur.Authors = splitAuthors(value)
		case "venue":
			cur.Venue = value
		case "year":
			if y, ok := parseYear(value); ok {
				cur.Year = y
			}
		case "doi", "pmid":
			if cur.ExternalIDs == nil {
				cur.ExternalIDs = map[string]string{}
			}
			cur.ExternalIDs[field] = value
		case "link":
			if u := urlPattern.FindString(value); u != "" {
				cur.Link = strings.TrimRight(u, ".,;")
			}
		case "summary":
			cur.Summary = value
		case "description":
			cur.Description = value
		}
	}
	flush()

	return items
}

// yearPattern extracts a 4-digit year from a value that may carry extra
// text ("2021 (preprint)").
var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// parseYear validates a year value to the sane range [1900, 2100].
func parseYear(value string) (int, bool) {
	m := yearPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || y < 1900 || y > 2100 {
		return 0, false
	}
	return y, true
}

// splitAuthors splits an author value on commas and " and ", dropping a
// trailing "et al." into its own entry.
func splitAuthors(value string) []string {
	value = strings.ReplaceAll(value, " and ", ", ")
	parts := strings.Split(value, ",")
	var authors []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// itemHasContent reports whether the record carries anything worth keeping.
func itemHasContent(item types.EnrichedItem) bool {
	return item.Title != "" || item.Link != "" || len(item.ExternalIDs) > 0
}
