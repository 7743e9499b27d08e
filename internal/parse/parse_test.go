// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/foldlab/protein-research/pkg/types"
)

var testPlan = []string{
	"CITATIONS",
	"ACADEMIC PAPERS",
	"USE CASES",
	"SUMMARY",
}

func testParser() *Parser {
	return NewParser(types.ParseConfig{Sections: testPlan, MaxCitations: 15})
}

const sampleOutput = `CITATIONS

[1] Insulin structure and function - https://example.org/insulin
[2] Receptor binding review - https://example.org/receptor

ACADEMIC PAPERS

Title: Insulin structure and function
Authors: Smith J, Jones K
Journal: Nature
Year: 2021
DOI: 10.1000/insulin
Link: https://example.org/insulin
Summary: Used insulin as the primary binding target.
Description: Reviews the structural biology of insulin.

USE CASES

Insulin is central to diabetes therapeutics.

SUMMARY

Insulin remains the best characterized peptide hormone.`

func TestSectionKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single word", "SUMMARY", "summary"},
		{"two words", "ACADEMIC PAPERS", "academic_papers"},
		{"whitespace trimmed", "  USE CASES ", "use_cases"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SectionKey(tt.in); got != tt.want {
				t.Errorf("SectionKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSplitsSections(t *testing.T) {
	doc := testParser().Parse(sampleOutput)

	if got := len(doc.Sections); got != len(testPlan) {
		t.Fatalf("len(Sections) = %d, want %d", got, len(testPlan))
	}
	if text := doc.SectionText("use_cases"); !strings.Contains(text, "diabetes therapeutics") {
		t.Errorf("use_cases = %q, want diabetes therapeutics content", text)
	}
	if text := doc.SectionText("summary"); !strings.Contains(text, "peptide hormone") {
		t.Errorf("summary = %q, want peptide hormone content", text)
	}
	// Section bodies must not bleed into each other.
	if text := doc.SectionText("use_cases"); strings.Contains(text, "peptide hormone") {
		t.Errorf("use_cases contains summary text: %q", text)
	}
	if text := doc.SectionText("academic_papers"); strings.Contains(text, "diabetes") {
		t.Errorf("academic_papers contains use_cases text: %q", text)
	}
}

func TestParseMissingSectionIsEmpty(t *testing.T) {
	doc := testParser().Parse("SUMMARY\n\nOnly a summary here.")

	if text := doc.SectionText("academic_papers"); text != "" {
		t.Errorf("academic_papers = %q, want empty", text)
	}
	if text := doc.SectionText("summary"); !strings.Contains(text, "Only a summary") {
		t.Errorf("summary = %q, want content", text)
	}
	// All planned sections are still present as entries.
	if got := len(doc.Sections); got != len(testPlan) {
		t.Errorf("len(Sections) = %d, want %d", got, len(testPlan))
	}
}

func TestParseIsIdempotent(t *testing.T) {
	p := testParser()
	first := p.Parse(sampleOutput)
	second := p.Parse(sampleOutput)

	if len(first.Sections) != len(second.Sections) {
		t.Fatalf("section counts differ: %d vs %d", len(first.Sections), len(second.Sections))
	}
	for i := range first.Sections {
		if first.Sections[i] != second.Sections[i] {
			t.Errorf("section %d differs between parses", i)
		}
	}
	if len(first.Citations) != len(second.Citations) {
		t.Errorf("citation counts differ: %d vs %d", len(first.Citations), len(second.Citations))
	}
}

func TestParseCaseInsensitiveHeaders(t *testing.T) {
	doc := testParser().Parse("Summary\n\nlowercase header still matches.")
	if text := doc.SectionText("summary"); !strings.Contains(text, "still matches") {
		t.Errorf("summary = %q, want matched content", text)
	}
}

// --- citations ---

func TestExtractCitations(t *testing.T) {
	citations := testParser().ExtractCitations(sampleOutput)

	if len(citations) != 2 {
		t.Fatalf("len(citations) = %d, want 2", len(citations))
	}
	if citations[0].Number != "1" || citations[0].URL != "https://example.org/insulin" {
		t.Errorf("citation[0] = %+v", citations[0])
	}
	if citations[0].Title != "Insulin structure and function" {
		t.Errorf("citation[0].Title = %q", citations[0].Title)
	}
}

func TestExtractCitationsDuplicateNumberFirstWins(t *testing.T) {
	text := "[1] First title - https://example.org/a\n" +
		"[1] Second title - https://example.org/b\n" +
		"[2] Third title - https://example.org/c\n"

	citations := testParser().ExtractCitations(text)
	if len(citations) != 2 {
		t.Fatalf("len(citations) = %d, want 2", len(citations))
	}
	if citations[0].Title != "First title" {
		t.Errorf("duplicate number should keep first occurrence, got %q", citations[0].Title)
	}
}

func TestExtractCitationsBareURLFallback(t *testing.T) {
	text := "See https://example.org/a for details.\n" +
		"Also https://example.org/b is relevant.\n"

	citations := testParser().ExtractCitations(text)
	if len(citations) != 2 {
		t.Fatalf("len(citations) = %d, want 2", len(citations))
	}
	if citations[0].Number != "1" || citations[1].Number != "2" {
		t.Errorf("bare URLs should number sequentially: %+v", citations)
	}
	if citations[0].URL != "https://example.org/a" {
		t.Errorf("citation[0].URL = %q", citations[0].URL)
	}
}

func TestExtractCitationsCap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "[%d] Paper - https://example.org/%d\n", i, i)
	}

	citations := testParser().ExtractCitations(b.String())
	if len(citations) != 15 {
		t.Errorf("len(citations) = %d, want 15", len(citations))
	}
}

// --- items ---

func TestExtractItems(t *testing.T) {
	text := `Title: Paper One
Authors: Smith J, Jones K
Journal: Nature
Year: 2021
DOI: 10.1000/one
Link: https://example.org/one
Summary: How the protein was used.
Description: What the paper covers.

Title: Paper Two
Link: https://example.org/two`

	items := ExtractItems(text)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.Title != "Paper One" || first.Venue != "Nature" || first.Year != 2021 {
		t.Errorf("first item = %+v", first)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Smith J" {
		t.Errorf("authors = %v", first.Authors)
	}
	if first.ExternalIDs["doi"] != "10.1000/one" {
		t.Errorf("doi = %q", first.ExternalIDs["doi"])
	}
	if items[1].Title != "Paper Two" || items[1].Link != "https://example.org/two" {
		t.Errorf("second item = %+v", items[1])
	}
}

func TestExtractItemsAnyFieldOrder(t *testing.T) {
	text := `Year: 2020
Link: https://example.org/x
Title: Out of Order
Authors: Lee A`

	items := ExtractItems(text)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Title != "Out of Order" || items[0].Year != 2020 {
		t.Errorf("item = %+v", items[0])
	}
}

func TestExtractItemsStripsMarkdown(t *testing.T) {
	text := "- **Title:** *Emphasized Paper*\n- **Link:** https://example.org/e\n"

	items := ExtractItems(text)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Title != "Emphasized Paper" {
		t.Errorf("Title = %q, want markdown stripped", items[0].Title)
	}
}

func TestExtractItemsRepeatedTitleStartsNewItem(t *testing.T) {
	text := `Title: First
Link: https://example.org/1
Title: Second
Link: https://example.org/2`

	items := ExtractItems(text)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
		ok    bool
	}{
		{"plain", "2021", 2021, true},
		{"with suffix", "2019 (preprint)", 2019, true},
		{"too old", "1850", 0, false},
		{"too new", "2150", 0, false},
		{"garbage", "twenty twenty", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseYear(tt.value)
			if got != tt.want || ok != tt.ok {
				t.Errorf("parseYear(%q) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExtractItemsSummaryDescriptionDistinctLabels(t *testing.T) {
	// A value labeled only Summary must not leak into Description.
	text := `Title: One Label
Link: https://example.org/l
Summary: Only a summary here.`

	items := ExtractItems(text)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Description != "" {
		t.Errorf("Description = %q, want empty", items[0].Description)
	}
}
