// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one research run: identify the entity,
// gather pre-search context, invoke the completion agent with retries and
// model fallbacks, parse the output into sections, and enrich the extracted
// items. Operational failures of any capability route through the fallback
// policy and surface as a degraded result, never as an error to the caller.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foldlab/protein-research/internal/agent"
	"github.com/foldlab/protein-research/internal/fallback"
	"github.com/foldlab/protein-research/internal/literature"
	"github.com/foldlab/protein-research/internal/metrics"
	"github.com/foldlab/protein-research/internal/parse"
	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// Deps holds the already-resolved collaborators a Pipeline needs. Capability
// availability is decided by bootstrap code before injection; the pipeline
// itself never probes the environment.
type Deps struct {
	Identity   provider.Client
	Structure  provider.Client
	Metadata   provider.Client
	Docking    provider.Client
	Literature *literature.Searcher
	Agent      agent.Backend
	Logger     *zap.Logger
}

// Pipeline runs research requests. It is stateless across runs and safe for
// concurrent use; per-run state lives on the stack of Run.
type Pipeline struct {
	cfg    types.PipelineConfig
	deps   Deps
	policy *fallback.Policy
	log    *zap.Logger
}

// New builds a Pipeline from configuration and resolved collaborators.
func New(cfg types.PipelineConfig, deps Deps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		policy: &fallback.Policy{DockingPoses: cfg.Docking.Poses},
		log:    log,
	}
}

// Run executes the full pipeline for one entity. It returns an error only
// for invalid input; every operational failure degrades into the result.
func (p *Pipeline) Run(ctx context.Context, entityID string, opts Options) (*types.PipelineResult, error) {
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity id must not be empty")
	}
	opts = opts.withDefaults()

	start := time.Now()
	result := &types.PipelineResult{
		RunID:     uuid.NewString(),
		CreatedAt: start.UTC(),
	}
	log := p.log.With(zap.String("run_id", result.RunID), zap.String("entity_id", entityID))

	// IdentifyEntity. Failure is never fatal: the run continues with a
	// minimal entity carrying the raw identifier.
	result.Entity = p.identifyEntity(ctx, entityID, result)

	// Parallel gather: literature pre-search and structure decoration run
	// concurrently; both only feed context, so neither can fail the run.
	p.gather(ctx, result)

	// PrepareQuery. Pure; an error here is programmer error.
	plan := p.sectionPlan(opts)
	prompt, err := BuildPrompt(result.Entity, result.Literature, opts, plan)
	if err != nil {
		return nil, err
	}

	// InvokeAgent with retry, model fallback, and template fallback.
	rawText, model := p.invokeAgent(ctx, prompt, entityID, opts, plan, result)
	result.RawText = rawText
	result.Model = model

	// ParseOutput. Pure and tolerant: missing sections come back empty.
	parser := parse.Parser{Plan: plan, MaxCitations: p.maxCitations()}
	doc := parser.Parse(rawText)
	result.Document = doc
	result.Citations = doc.Citations
	result.Sections = p.sectionMap(doc, plan)

	// Enrich extracted items with bounded-concurrency secondary fetches.
	items := p.collectItems(doc)
	result.Items = p.enrich(ctx, items, result)

	// Optional docking pass.
	if opts.LigandSpec != "" {
		p.dock(ctx, entityID, opts.LigandSpec, result)
	}

	result.Elapsed = time.Since(start)
	metrics.Default().IncRun(result.Degraded)
	log.Info("pipeline run complete",
		zap.Bool("degraded", result.Degraded),
		zap.Int("citations", len(result.Citations)),
		zap.Int("items", len(result.Items)),
		zap.String("model", result.Model),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// degrade records a fallback substitution on the result.
func (p *Pipeline) degrade(result *types.PipelineResult, cap provider.Capability, reason string) {
	result.Degraded = true
	result.Reasons = append(result.Reasons, reason)
	metrics.Default().IncFallback(string(cap))
	p.log.Warn("capability degraded", zap.String("capability", string(cap)), zap.String("reason", reason))
}

// callProvider invokes a client and records call metrics. A nil or
// unavailable client resolves as a not_found failure so the caller's
// fallback path engages uniformly.
func (p *Pipeline) callProvider(ctx context.Context, client provider.Client, req provider.Request) types.ProviderResult {
	if client == nil || !client.Available() {
		name := "unconfigured"
		if client != nil {
			name = client.Name()
		}
		return types.Failure(name, types.ErrNotFound, "provider unavailable", 0)
	}
	done := metrics.TimeProvider(client.Name())
	res := client.Call(ctx, req)
	done(res.Succeeded)
	return res
}

// identifyEntity resolves the raw identifier, falling back to a minimal
// entity on any failure.
func (p *Pipeline) identifyEntity(ctx context.Context, entityID string, result *types.PipelineResult) types.Entity {
	req := provider.Request{Key: entityID}
	res := p.callProvider(ctx, p.deps.Identity, req)
	if res.Succeeded {
		if entity, ok := res.Payload.(types.Entity); ok {
			return entity
		}
	}

	resolution, used := p.policy.Resolve(provider.CapIdentity, req, res)
	if used {
		p.degrade(result, provider.CapIdentity, resolution.Reason)
	}
	return resolution.Payload.(types.Entity)
}

// gather runs the literature pre-search and the structure lookup
// concurrently. Both are context only: failures degrade, never abort.
func (p *Pipeline) gather(ctx context.Context, result *types.PipelineResult) {
	var g errgroup.Group

	g.Go(func() error {
		hits := p.preSearch(ctx, result)
		result.Literature = hits
		return nil
	})

	if p.deps.Structure != nil {
		entityID := result.Entity.ID
		g.Go(func() error {
			res := p.callProvider(ctx, p.deps.Structure, provider.Request{Key: entityID})
			if res.Succeeded {
				if info, ok := res.Payload.(types.StructureInfo); ok && info.ModelURL != "" {
					if result.Entity.Attributes == nil {
						result.Entity.Attributes = map[string]string{}
					}
					result.Entity.Attributes["structure_model"] = info.ModelURL
					result.Entity.Attributes["structure_version"] = info.ModelVersion
				}
			}
			// A missing structure model is common and not a degradation.
			return nil
		})
	}

	g.Wait()
}

// preSearch runs the literature fan-out. An empty hit list, whether from
// backend failures or genuinely no results, degrades the run: the agent
// then works without pre-search context.
func (p *Pipeline) preSearch(ctx context.Context, result *types.PipelineResult) []types.LiteratureHit {
	req := provider.Request{Key: result.Entity.ID, Terms: []string{result.Entity.ID, result.Entity.DisplayName}}
	if p.deps.Literature == nil {
		resolution, _ := p.policy.Resolve(provider.CapLiterature,
			req, types.Failure("literature", types.ErrNotFound, "no backends configured", 0))
		p.degrade(result, provider.CapLiterature, resolution.Reason)
		return nil
	}

	out := p.deps.Literature.Search(ctx, literature.Query{
		Terms: req.Terms,
		Limit: p.cfg.Literature.MaxResults,
	})
	for _, msg := range out.BackendErrors {
		p.log.Warn("literature backend failed", zap.String("backend_error", msg))
	}
	if len(out.Hits) == 0 {
		detail := "no results"
		if len(out.BackendErrors) > 0 {
			detail = strings.Join(out.BackendErrors, "; ")
		}
		resolution, _ := p.policy.Resolve(provider.CapLiterature,
			req, types.Failure("literature", types.ErrNotFound, detail, 0))
		p.degrade(result, provider.CapLiterature, resolution.Reason)
		return nil
	}
	return out.Hits
}

// sectionPlan returns the registered section list for this run, dropping
// the novel-research section when not requested.
func (p *Pipeline) sectionPlan(opts Options) []string {
	plan := make([]string, 0, len(p.cfg.Parse.Sections))
	for _, s := range p.cfg.Parse.Sections {
		if !opts.IncludeNovel && strings.EqualFold(s, "NOVEL RESEARCH") {
			continue
		}
		plan = append(plan, s)
	}
	return plan
}

func (p *Pipeline) maxCitations() int {
	if p.cfg.Parse.MaxCitations > 0 {
		return p.cfg.Parse.MaxCitations
	}
	return 15
}

// sectionMap converts the parsed document into the per-section text map,
// substituting a not-found marker for sections absent from the output.
func (p *Pipeline) sectionMap(doc types.SectionedDocument, plan []string) map[string]string {
	sections := make(map[string]string, len(plan))
	for _, name := range plan {
		key := parse.SectionKey(name)
		text := doc.SectionText(key)
		if strings.TrimSpace(text) == "" {
			text = fmt.Sprintf("No %s section found", strings.ToLower(name))
		}
		sections[key] = text
	}
	return sections
}

// collectItems extracts labeled-field records from the configured item
// sections.
func (p *Pipeline) collectItems(doc types.SectionedDocument) []types.EnrichedItem {
	var items []types.EnrichedItem
	for _, name := range p.cfg.Parse.ItemSections {
		text := doc.SectionText(parse.SectionKey(name))
		if text == "" {
			continue
		}
		items = append(items, parse.ExtractItems(text)...)
	}
	return items
}

// dock runs the docking capability for the requested ligand, substituting
// synthetic poses when the docking service is unavailable or fails.
func (p *Pipeline) dock(ctx context.Context, target, ligand string, result *types.PipelineResult) {
	poses, degraded, reason := p.Dock(ctx, target, ligand)
	if degraded {
		p.degrade(result, provider.CapDocking, reason)
	}
	if result.Entity.Attributes == nil {
		result.Entity.Attributes = map[string]string{}
	}
	if len(poses) > 0 {
		result.Entity.Attributes["docking_best_score"] = fmt.Sprintf("%.2f", poses[0].Score)
		result.Entity.Attributes["docking_poses"] = fmt.Sprintf("%d", len(poses))
	}
}

// Dock submits a docking request for target against ligand. The returned
// bool reports whether synthetic poses were substituted.
func (p *Pipeline) Dock(ctx context.Context, target, ligand string) ([]types.DockingPose, bool, string) {
	req := provider.Request{Key: target, Terms: []string{ligand}, Limit: p.cfg.Docking.Poses}
	res := p.callProvider(ctx, p.deps.Docking, req)
	if res.Succeeded {
		if poses, ok := res.Payload.([]types.DockingPose); ok {
			return poses, false, ""
		}
	}
	resolution, _ := p.policy.Resolve(provider.CapDocking, req, res)
	return resolution.Payload.([]types.DockingPose), true, resolution.Reason
}
