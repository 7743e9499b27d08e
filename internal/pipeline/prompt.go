// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/foldlab/protein-research/pkg/types"
)

// researchPromptTmpl is the prompt sent to the completion backend. It asks
// for each registered section by name and a numbered CITATIONS list so the
// parser can split the response deterministically.
var researchPromptTmpl = template.Must(template.New("research").Parse(`You are a biomedical research assistant. Conduct comprehensive research on the protein below and report your findings.

Protein: {{.DisplayName}} ({{.ID}}){{if .Organism}}
Organism: {{.Organism}}{{end}}
{{- if .Context}}

Known relevant publications (verify and extend this list):
{{- range .Context}}
- {{.Title}}{{if .URL}} ({{.URL}}){{end}}{{end}}
{{- end}}

Report the following sections, each introduced by its name on its own line:
{{- range .Sections}}
{{.}}{{end}}

Rules:
- Start with a CITATIONS section listing every source as "[N] Title - URL", one per line.
- Under each papers section, report items as labeled fields, one per line:
  Title:, Authors:, Journal:, Year:, DOI:, Link:, Summary:, Description:.
  Summary states how the protein is used in the work; Description states
  what the work is about. They must not repeat each other.
- Separate items with a blank line.
{{- if .RecencyMonths}}
- NOVEL RESEARCH covers only the past {{.RecencyMonths}} months.{{end}}
- Prefer peer-reviewed, recent, high-impact sources. Aim for 10-15 citations.
`))

// promptData is the input to the research prompt template.
type promptData struct {
	ID            string
	DisplayName   string
	Organism      string
	Sections      []string
	Context       []types.LiteratureHit
	RecencyMonths int
}

// BuildPrompt renders the research prompt for one entity. Pure: the same
// entity, hits, options, and plan always produce the same prompt.
func BuildPrompt(entity types.Entity, hits []types.LiteratureHit, opts Options, plan []string) (string, error) {
	sections := make([]string, 0, len(plan))
	for _, s := range plan {
		if !opts.IncludeNovel && strings.EqualFold(s, "NOVEL RESEARCH") {
			continue
		}
		sections = append(sections, strings.ToUpper(s))
	}

	data := promptData{
		ID:          entity.ID,
		DisplayName: entity.DisplayName,
		Organism:    entity.Organism,
		Sections:    sections,
		Context:     hits,
	}
	if opts.IncludeNovel {
		data.RecencyMonths = opts.RecencyMonths
	}

	var b strings.Builder
	if err := researchPromptTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering research prompt: %w", err)
	}
	return b.String(), nil
}
