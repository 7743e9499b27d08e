// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/foldlab/protein-research/pkg/types"
)

func sampleResult() *types.PipelineResult {
	return &types.PipelineResult{
		RunID: "run-42",
		Entity: types.Entity{
			ID:          "P01308",
			DisplayName: "Insulin",
			Organism:    "Homo sapiens",
		},
		Model: "gemini-2.5-pro",
		Sections: map[string]string{
			"summary":         "Insulin regulates glucose uptake.",
			"use_cases":       "Diabetes therapy.",
			"academic_papers": "Title: Paper One",
		},
		Items: []types.EnrichedItem{
			{
				Title:       "Paper One",
				Authors:     []string{"Smith Alice", "Jones Bob"},
				Venue:       "Nature",
				Year:        2021,
				ExternalIDs: map[string]string{"doi": "10.1/x", "pmid": "12345"},
				Link:        "https://example.org/1",
				Summary:     "How it is used: broadly.",
				Description: "What it covers: insulin signaling.",
			},
		},
		Citations: []types.Citation{
			{Number: "1", Title: "Paper One", URL: "https://example.org/1"},
		},
		Degraded:  true,
		Reasons:   []string{"literature-search fell back: no backends configured"},
		RawText:   "SUMMARY\n\nInsulin regulates glucose uptake.",
		CreatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderMarkdown(t *testing.T) {
	var b strings.Builder
	opts := Options{SectionOrder: []string{"ACADEMIC PAPERS", "USE CASES", "SUMMARY"}}
	if err := RenderMarkdown(&b, sampleResult(), opts); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"# Research Report: Insulin",
		"- Run: run-42",
		"- Entity: P01308 (Homo sapiens)",
		"- Model: gemini-2.5-pro",
		"> **Note:** parts of this report were produced by fallback paths:",
		"> - literature-search fell back: no backends configured",
		"## Summary",
		"Insulin regulates glucose uptake.",
		"## Sources",
		"### Paper One",
		"- Authors: Smith Alice, Jones Bob",
		"- Venue: Nature (2021)",
		"- DOI: 10.1/x",
		"- PMID: 12345",
		"- Link: https://example.org/1",
		"## References",
		"1. [Paper One](https://example.org/1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Configured display order is honored.
	papers := strings.Index(out, "## Academic Papers")
	useCases := strings.Index(out, "## Use Cases")
	summary := strings.Index(out, "## Summary")
	if papers < 0 || useCases < 0 || summary < 0 {
		t.Fatalf("section headings missing: %d %d %d", papers, useCases, summary)
	}
	if !(papers < useCases && useCases < summary) {
		t.Errorf("section order wrong: papers=%d useCases=%d summary=%d", papers, useCases, summary)
	}

	// Raw output is excluded unless requested.
	if strings.Contains(out, "## Raw Output") {
		t.Error("raw output included without IncludeRaw")
	}
}

func TestRenderMarkdownRawAndFallbacks(t *testing.T) {
	result := sampleResult()
	result.Entity.DisplayName = ""
	result.Degraded = false
	result.Reasons = nil
	result.Items[0].Synthesized = true

	var b strings.Builder
	if err := RenderMarkdown(&b, result, Options{IncludeRaw: true}); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "# Research Report: P01308") {
		t.Error("title should fall back to entity id")
	}
	if strings.Contains(out, "**Note:**") {
		t.Error("non-degraded results should not carry a fallback note")
	}
	if !strings.Contains(out, "- Provenance: some fields synthesized") {
		t.Error("synthesized items should carry a provenance line")
	}
	if !strings.Contains(out, "## Raw Output") || !strings.Contains(out, "```") {
		t.Error("raw output block missing")
	}
}

func TestRenderMarkdownUnorderedSectionsSorted(t *testing.T) {
	result := sampleResult()
	var b strings.Builder
	if err := RenderMarkdown(&b, result, Options{SectionOrder: []string{"SUMMARY"}}); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := b.String()

	// SUMMARY renders first per the order; the rest follow alphabetically.
	summary := strings.Index(out, "## Summary")
	papers := strings.Index(out, "## Academic Papers")
	useCases := strings.Index(out, "## Use Cases")
	if !(summary < papers && papers < useCases) {
		t.Errorf("order wrong: summary=%d papers=%d useCases=%d", summary, papers, useCases)
	}
}

func TestRenderYAML(t *testing.T) {
	var b strings.Builder
	if err := RenderYAML(&b, sampleResult()); err != nil {
		t.Fatalf("RenderYAML() error: %v", err)
	}

	var decoded types.PipelineResult
	if err := yaml.Unmarshal([]byte(b.String()), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}
	if decoded.RunID != "run-42" || decoded.Entity.ID != "P01308" {
		t.Errorf("decoded = %+v", decoded)
	}
	if !decoded.Degraded || len(decoded.Reasons) != 1 {
		t.Errorf("degraded state lost: %v %v", decoded.Degraded, decoded.Reasons)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].Year != 2021 {
		t.Errorf("items = %+v", decoded.Items)
	}
}

func TestSectionTitle(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"summary", "Summary"},
		{"use_cases", "Use Cases"},
		{"academic_papers", "Academic Papers"},
		{"novel_research", "Novel Research"},
	}
	for _, tt := range tests {
		if got := sectionTitle(tt.key); got != tt.want {
			t.Errorf("sectionTitle(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
