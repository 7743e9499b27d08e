// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// Options tunes one pipeline run.
type Options struct {
	// IncludeNovel requests the recent-research section.
	IncludeNovel bool

	// RecencyMonths is the window for "novel" research (default 6).
	RecencyMonths int

	// ModelPreference overrides the configured model when non-empty. May
	// be an alias ("gemini-flash") or a full identifier.
	ModelPreference string

	// LigandSpec, when set, requests a docking pass against the entity.
	LigandSpec string
}

// withDefaults returns a copy with defaults applied.
func (o Options) withDefaults() Options {
	if o.RecencyMonths <= 0 {
		o.RecencyMonths = 6
	}
	return o
}
