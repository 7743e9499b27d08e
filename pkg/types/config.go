// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "protein-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IdentityConfig holds settings for the identity/metadata lookup capability.
type IdentityConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled controls whether the real UniProt lookup is used at all.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LiteratureConfig holds settings for the literature pre-search capability.
type LiteratureConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of hits to return (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableEuropePMC controls whether the Europe PMC backend is used.
	EnableEuropePMC bool `json:"enable_europepmc" yaml:"enable_europepmc"`

	// EnableOpenAlex controls whether the OpenAlex backend is used.
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// RecencyBiasWindow is the time window for boosting recent papers (default 2 years).
	RecencyBiasWindow time.Duration `json:"recency_bias_window" yaml:"recency_bias_window"`
}

// AgentConfig holds settings for the completion/agent capability.
type AgentConfig struct {
	// Model is the preferred model identifier or alias (e.g. "gemini-pro").
	Model string `json:"model" yaml:"model"`

	// FallbackModels is the ordered list of alternative models tried after
	// the preferred model exhausts its retries.
	FallbackModels []string `json:"fallback_models,omitempty" yaml:"fallback_models,omitempty"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the number of attempts per model for transient
	// failures (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// EnableSearchTool attaches the web-search tool to agent invocations.
	// Tool-attributed failures are retried once without it.
	EnableSearchTool bool `json:"enable_search_tool" yaml:"enable_search_tool"`

	// Timeout bounds a single agent invocation.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// EnrichConfig holds settings for the post-parse enrichment step.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// Concurrency bounds the number of simultaneous secondary metadata
	// fetches (default 3).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// StructureConfig holds settings for the structure lookup capability.
type StructureConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled controls whether the structure database is queried.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// DockingConfig holds settings for the docking capability. The capability is
// unavailable unless an endpoint is configured; fallbacks substitute
// deterministic synthetic poses.
type DockingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the docking service URL. Empty means unavailable.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Poses is the number of poses to request or synthesize (default 5).
	Poses int `json:"poses" yaml:"poses"`
}

// ParseConfig holds the registered section-name plan and citation limits for
// the output parser. Section names are presentation conventions carried as
// configuration, not hard-coded logic.
type ParseConfig struct {
	// Sections is the ordered list of section names the parser expects.
	Sections []string `json:"sections" yaml:"sections"`

	// ItemSections names the sections whose bodies contain labeled-field
	// item records (papers and similar).
	ItemSections []string `json:"item_sections" yaml:"item_sections"`

	// MaxCitations caps the citation list (default 15).
	MaxCitations int `json:"max_citations" yaml:"max_citations"`
}

// StoreConfig holds settings for the run store.
type StoreConfig struct {
	// Dir is the base directory for the run database and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxList is the maximum number of runs returned by listings (default 20).
	MaxList int `json:"max_list" yaml:"max_list"`
}

// PipelineConfig aggregates all capability settings for one pipeline.
type PipelineConfig struct {
	Identity   IdentityConfig   `json:"identity" yaml:"identity"`
	Literature LiteratureConfig `json:"literature" yaml:"literature"`
	Agent      AgentConfig      `json:"agent" yaml:"agent"`
	Enrich     EnrichConfig     `json:"enrich" yaml:"enrich"`
	Structure  StructureConfig  `json:"structure" yaml:"structure"`
	Docking    DockingConfig    `json:"docking" yaml:"docking"`
	Parse      ParseConfig      `json:"parse" yaml:"parse"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}

// DefaultPipelineConfig returns a PipelineConfig with all defaults applied.
func DefaultPipelineConfig() PipelineConfig {
	httpCfg := HTTPConfig{
		Timeout:   30 * time.Second,
		UserAgent: "protein-research/0.1",
	}
	return PipelineConfig{
		Identity: IdentityConfig{HTTPConfig: httpCfg, Enabled: true},
		Literature: LiteratureConfig{
			HTTPConfig:        httpCfg,
			MaxResults:        10,
			EnableEuropePMC:   true,
			EnableOpenAlex:    true,
			RecencyBiasWindow: 2 * 365 * 24 * time.Hour,
		},
		Agent: AgentConfig{
			Model:            "gemini-pro",
			FallbackModels:   []string{"gemini-flash"},
			MaxAttempts:      3,
			EnableSearchTool: true,
			Timeout:          5 * time.Minute,
		},
		Enrich:    EnrichConfig{HTTPConfig: httpCfg, Concurrency: 3},
		Structure: StructureConfig{HTTPConfig: httpCfg, Enabled: true},
		Docking:   DockingConfig{HTTPConfig: httpCfg, Poses: 5},
		Parse: ParseConfig{
			Sections: []string{
				"CITATIONS",
				"ACADEMIC PAPERS",
				"USE CASES",
				"DRUG DEVELOPMENT",
				"RESEARCH REFERENCES",
				"NOVEL RESEARCH",
				"SUMMARY",
			},
			ItemSections: []string{"ACADEMIC PAPERS", "NOVEL RESEARCH"},
			MaxCitations: 15,
		},
		Store: StoreConfig{Dir: "runs", MaxList: 20},
	}
}
