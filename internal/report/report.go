// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders pipeline results for the demo surfaces: a markdown
// document for human reading and a YAML document for downstream tooling.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/foldlab/protein-research/internal/parse"
	"github.com/foldlab/protein-research/pkg/types"
)

// Options controls rendering.
type Options struct {
	// SectionOrder lists section names in display order. Sections present
	// in the result but absent from the order render afterwards, sorted.
	SectionOrder []string

	// IncludeRaw appends the raw agent output at the end of the markdown.
	IncludeRaw bool
}

// RenderMarkdown writes the result as a markdown report.
func RenderMarkdown(w io.Writer, result *types.PipelineResult, opts Options) error {
	title := result.Entity.DisplayName
	if title == "" {
		title = result.Entity.ID
	}
	fmt.Fprintf(w, "# Research Report: %s\n\n", title)

	fmt.Fprintf(w, "- Run: %s\n", result.RunID)
	fmt.Fprintf(w, "- Entity: %s", result.Entity.ID)
	if result.Entity.Organism != "" {
		fmt.Fprintf(w, " (%s)", result.Entity.Organism)
	}
	fmt.Fprintln(w)
	if result.Model != "" {
		fmt.Fprintf(w, "- Model: %s\n", result.Model)
	}
	fmt.Fprintf(w, "- Generated: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintln(w)

	if result.Degraded {
		fmt.Fprintln(w, "> **Note:** parts of this report were produced by fallback paths:")
		for _, reason := range result.Reasons {
			fmt.Fprintf(w, "> - %s\n", reason)
		}
		fmt.Fprintln(w)
	}

	for _, name := range orderedSections(result.Sections, opts.SectionOrder) {
		fmt.Fprintf(w, "## %s\n\n%s\n\n", sectionTitle(name), strings.TrimSpace(result.Sections[name]))
	}

	if len(result.Items) > 0 {
		fmt.Fprintln(w, "## Sources")
		fmt.Fprintln(w)
		for _, item := range result.Items {
			renderItem(w, item)
		}
	}

	if len(result.Citations) > 0 {
		fmt.Fprintln(w, "## References")
		fmt.Fprintln(w)
		for _, c := range result.Citations {
			fmt.Fprintf(w, "%s. [%s](%s)\n", c.Number, c.Title, c.URL)
		}
		fmt.Fprintln(w)
	}

	if opts.IncludeRaw && result.RawText != "" {
		fmt.Fprintf(w, "## Raw Output\n\n```\n%s\n```\n", strings.TrimSpace(result.RawText))
	}
	return nil
}

func renderItem(w io.Writer, item types.EnrichedItem) {
	fmt.Fprintf(w, "### %s\n\n", item.Title)
	fmt.Fprintf(w, "- Authors: %s\n", strings.Join(item.Authors, ", "))
	fmt.Fprintf(w, "- Venue: %s", item.Venue)
	if item.Year > 0 {
		fmt.Fprintf(w, " (%d)", item.Year)
	}
	fmt.Fprintln(w)
	for _, key := range sortedKeys(item.ExternalIDs) {
		fmt.Fprintf(w, "- %s: %s\n", strings.ToUpper(key), item.ExternalIDs[key])
	}
	if item.Link != "" {
		fmt.Fprintf(w, "- Link: %s\n", item.Link)
	}
	if item.Synthesized {
		fmt.Fprintln(w, "- Provenance: some fields synthesized")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n\n%s\n\n", strings.TrimSpace(item.Summary), strings.TrimSpace(item.Description))
}

// RenderYAML writes the full result as YAML.
func RenderYAML(w io.Writer, result *types.PipelineResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return enc.Close()
}

// orderedSections maps the configured display order onto the section keys
// present in the result.
func orderedSections(sections map[string]string, order []string) []string {
	var keys []string
	seen := make(map[string]bool, len(sections))
	for _, name := range order {
		key := parse.SectionKey(name)
		if _, ok := sections[key]; ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range sections {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// sectionTitle converts a section key back into a display heading.
func sectionTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
