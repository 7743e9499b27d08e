// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PipelineResult is the final output of one pipeline run. Every declared
// field is populated, using flagged placeholders where capabilities fell
// back, so callers never special-case structurally missing data.
type PipelineResult struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Entity is the researched subject.
	Entity Entity `json:"entity" yaml:"entity"`

	// Document is the parsed agent output.
	Document SectionedDocument `json:"document" yaml:"document"`

	// Sections maps registered section names to their extracted text, with
	// "not found" markers substituted for missing sections.
	Sections map[string]string `json:"sections" yaml:"sections"`

	// Items are the structured records extracted and enriched from sections.
	Items []EnrichedItem `json:"items" yaml:"items"`

	// Citations is the deduplicated citation list (first occurrence wins).
	Citations []Citation `json:"citations" yaml:"citations"`

	// Literature is the pre-search hit list fed into the agent prompt.
	Literature []LiteratureHit `json:"literature,omitempty" yaml:"literature,omitempty"`

	// Degraded is true when any capability's real provider was unavailable
	// or failed and a synthetic fallback was substituted.
	Degraded bool `json:"degraded" yaml:"degraded"`

	// Reasons explains, per capability, why a fallback was used.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`

	// Model is the model configuration that produced the output, or
	// "fallback" when every alternative failed.
	Model string `json:"model" yaml:"model"`

	// RawText is the unparsed agent output.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
