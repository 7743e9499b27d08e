// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LiteratureHit is one candidate paper returned by a literature backend.
type LiteratureHit struct {
	// Identifier is the canonical ID from the source (DOI, PMID, or URL).
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is the journal or repository name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Date is the publication date, zero when the source omits it.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// URL is a direct link to the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Source identifies which backend found this hit (e.g. "europepmc", "openalex").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value between 0.0 and 1.0.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// Metadata holds fields a secondary metadata-by-link fetch can recover for a
// paper: everything is optional, missing fields stay empty.
type Metadata struct {
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Authors     []string          `json:"authors,omitempty" yaml:"authors,omitempty"`
	Venue       string            `json:"venue,omitempty" yaml:"venue,omitempty"`
	Year        int               `json:"year,omitempty" yaml:"year,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`
}

// StructureInfo describes a predicted structure model available for an entity.
type StructureInfo struct {
	ModelURL     string  `json:"model_url" yaml:"model_url"`
	ModelVersion string  `json:"model_version,omitempty" yaml:"model_version,omitempty"`
	Confidence   float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// DockingPose is one ranked pose from a docking run (real or synthetic).
type DockingPose struct {
	Rank    int     `json:"rank" yaml:"rank"`
	Score   float64 `json:"score" yaml:"score"`
	RMSD    float64 `json:"rmsd" yaml:"rmsd"`
	PoseRef string  `json:"pose_ref,omitempty" yaml:"pose_ref,omitempty"`
}
