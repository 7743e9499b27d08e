// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foldlab/protein-research/internal/agent"
	"github.com/foldlab/protein-research/internal/literature"
	"github.com/foldlab/protein-research/internal/pipeline"
	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// pipelineConfig builds the effective configuration: built-in defaults
// overlaid with config-file and environment values, then credentials from
// the secrets directory.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if viper.IsSet("http.timeout") {
		timeout := viper.GetDuration("http.timeout")
		cfg.Identity.Timeout = timeout
		cfg.Literature.Timeout = timeout
		cfg.Enrich.Timeout = timeout
		cfg.Structure.Timeout = timeout
		cfg.Docking.Timeout = timeout
	}

	if viper.IsSet("identity.enabled") {
		cfg.Identity.Enabled = viper.GetBool("identity.enabled")
	}
	if viper.IsSet("literature.max_results") {
		cfg.Literature.MaxResults = viper.GetInt("literature.max_results")
	}
	if viper.IsSet("literature.enable_europepmc") {
		cfg.Literature.EnableEuropePMC = viper.GetBool("literature.enable_europepmc")
	}
	if viper.IsSet("literature.enable_openalex") {
		cfg.Literature.EnableOpenAlex = viper.GetBool("literature.enable_openalex")
	}
	cfg.Literature.OpenAlexEmail = secretDefault("openalex-email",
		viper.GetString("literature.openalex_email"))

	if viper.IsSet("agent.model") {
		cfg.Agent.Model = viper.GetString("agent.model")
	}
	if viper.IsSet("agent.fallback_models") {
		cfg.Agent.FallbackModels = viper.GetStringSlice("agent.fallback_models")
	}
	if viper.IsSet("agent.max_attempts") {
		cfg.Agent.MaxAttempts = viper.GetInt("agent.max_attempts")
	}
	if viper.IsSet("agent.enable_search_tool") {
		cfg.Agent.EnableSearchTool = viper.GetBool("agent.enable_search_tool")
	}
	if viper.IsSet("agent.timeout") {
		cfg.Agent.Timeout = viper.GetDuration("agent.timeout")
	}
	apiKey := secretDefault("gemini-api-key", viper.GetString("agent.api_key"))
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.Agent.APIKey = apiKey

	if viper.IsSet("enrich.concurrency") {
		cfg.Enrich.Concurrency = viper.GetInt("enrich.concurrency")
	}
	if viper.IsSet("structure.enabled") {
		cfg.Structure.Enabled = viper.GetBool("structure.enabled")
	}
	if viper.IsSet("docking.endpoint") {
		cfg.Docking.Endpoint = viper.GetString("docking.endpoint")
	}
	if viper.IsSet("docking.poses") {
		cfg.Docking.Poses = viper.GetInt("docking.poses")
	}
	if viper.IsSet("parse.sections") {
		cfg.Parse.Sections = viper.GetStringSlice("parse.sections")
	}
	if viper.IsSet("parse.item_sections") {
		cfg.Parse.ItemSections = viper.GetStringSlice("parse.item_sections")
	}
	if viper.IsSet("parse.max_citations") {
		cfg.Parse.MaxCitations = viper.GetInt("parse.max_citations")
	}
	if viper.IsSet("store.dir") {
		cfg.Store.Dir = viper.GetString("store.dir")
	}
	if viper.IsSet("store.max_list") {
		cfg.Store.MaxList = viper.GetInt("store.max_list")
	}
	return cfg
}

// httpClient builds an http.Client with the capability's timeout.
func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// buildPipeline wires providers, backends, and the agent into a Pipeline.
func buildPipeline(cfg types.PipelineConfig, log *zap.Logger) (*pipeline.Pipeline, error) {
	var backends []literature.Backend
	if cfg.Literature.EnableEuropePMC {
		backends = append(backends, &literature.EuropePMCBackend{
			Client: httpClient(cfg.Literature.Timeout),
		})
	}
	if cfg.Literature.EnableOpenAlex {
		backends = append(backends, &literature.OpenAlexBackend{
			Client: httpClient(cfg.Literature.Timeout),
			Email:  cfg.Literature.OpenAlexEmail,
		})
	}

	gemini, err := agent.NewGemini(cfg.Agent)
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Identity:   &provider.IdentityClient{Client: httpClient(cfg.Identity.Timeout), Config: cfg.Identity},
		Structure:  &provider.StructureClient{Client: httpClient(cfg.Structure.Timeout), Config: cfg.Structure},
		Metadata:   &provider.MetadataClient{Client: httpClient(cfg.Enrich.Timeout), Config: cfg.Enrich},
		Docking:    &provider.DockingClient{Client: httpClient(cfg.Docking.Timeout), Config: cfg.Docking},
		Literature: &literature.Searcher{Backends: backends, Config: cfg.Literature},
		Agent:      gemini,
		Logger:     log,
	}
	return pipeline.New(cfg, deps), nil
}
