// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the protein research
// pipeline: the researched entity, provider call outcomes, parsed documents,
// enriched items, and the final pipeline result.
package types

// Entity is the subject of one pipeline run, typically a protein identified
// by a UniProt accession. It is immutable once the identity step resolves it.
type Entity struct {
	// ID is the canonical identifier (e.g. "P01308").
	ID string `json:"id" yaml:"id"`

	// DisplayName is the human-readable name (e.g. "Insulin").
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Organism is the source organism (e.g. "Homo sapiens").
	Organism string `json:"organism,omitempty" yaml:"organism,omitempty"`

	// Attributes carries freeform metadata the identity or structure
	// providers attach (gene name, sequence length, structure model URL).
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// MinimalEntity returns an Entity carrying only the raw identifier and a
// display name derived from it. Used when the identity lookup falls back.
func MinimalEntity(rawID string) Entity {
	return Entity{
		ID:          rawID,
		DisplayName: rawID,
	}
}
