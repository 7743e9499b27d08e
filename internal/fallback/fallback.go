// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fallback decides what synthetic payload to substitute when a
// capability's real provider is absent, erroring, or timed out. Generators
// are deterministic, seeded by the request, so repeated calls with the same
// input under the same fallback path are reproducible.
package fallback

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"

	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// Resolution is the outcome of resolving one capability failure.
type Resolution struct {
	// Payload is the synthetic substitute, typed per capability.
	Payload any

	// Reason is a human-readable explanation attached to the pipeline
	// result when the fallback is used.
	Reason string
}

// Policy generates capability-specific synthetic payloads.
type Policy struct {
	// DockingPoses is the number of synthetic poses to generate (default 5).
	DockingPoses int
}

// seed derives a deterministic RNG seed from capability and request key.
func seed(cap provider.Capability, key string) int64 {
	h := sha256.Sum256([]byte(string(cap) + "\x00" + key))
	return int64(binary.BigEndian.Uint64(h[:8]) >> 1)
}

// reason formats the standard fallback reason string.
func reason(cap provider.Capability, res types.ProviderResult, note string) string {
	kind := res.ErrorKind
	if kind == "" {
		kind = types.ErrUnknown
	}
	return fmt.Sprintf("%s fell back (%s): %s", cap, kind, note)
}

// Resolve returns the synthetic payload for a failed capability call. The
// bool result is true whenever a fallback payload was substituted; callers
// propagate it into PipelineResult.Degraded.
func (p *Policy) Resolve(cap provider.Capability, req provider.Request, res types.ProviderResult) (Resolution, bool) {
	switch cap {
	case provider.CapIdentity:
		return Resolution{
			Payload: types.MinimalEntity(req.Key),
			Reason:  reason(cap, res, "using minimal entity with raw identifier"),
		}, true

	case provider.CapLiterature:
		return Resolution{
			Payload: []types.LiteratureHit{},
			Reason:  reason(cap, res, "continuing without pre-search context"),
		}, true

	case provider.CapCompletion:
		return Resolution{
			Payload: templateDocument(req.Key, req.Terms),
			Reason:  reason(cap, res, "substituted template document"),
		}, true

	case provider.CapMetadata:
		return Resolution{
			Payload: syntheticMetadata(req.Key, req.URL),
			Reason:  reason(cap, res, "synthesized placeholder metadata"),
		}, true

	case provider.CapStructure:
		return Resolution{
			Payload: types.StructureInfo{},
			Reason:  reason(cap, res, "no structure model attached"),
		}, true

	case provider.CapDocking:
		return Resolution{
			Payload: p.syntheticPoses(req.Key),
			Reason:  reason(cap, res, "substituted synthetic docking poses"),
		}, true
	}

	return Resolution{}, false
}

// templateDocument produces an empty-but-parseable document carrying the
// registered section headers with not-found markers, so downstream parsing
// and rendering never special-case a missing agent response.
func templateDocument(entityID string, sections []string) string {
	var b strings.Builder
	for _, name := range sections {
		fmt.Fprintf(&b, "%s\n\nNo %s available for %s.\n\n",
			strings.ToUpper(name), strings.ToLower(name), entityID)
	}
	return strings.TrimSpace(b.String())
}

// Canned placeholder texts for item fields. Summary and description answer
// different questions (how vs what) and must stay textually distinct.
const (
	placeholderSummary     = "How it is used: no usage summary could be retrieved for this source."
	placeholderDescription = "What it covers: no description could be retrieved for this source."
)

// syntheticMetadata builds placeholder metadata from whatever the request
// carried. Summary-like and description-like fields use distinct canned text.
func syntheticMetadata(title, url string) types.Metadata {
	meta := types.Metadata{
		Description: placeholderDescription,
	}
	if title != "" {
		meta.Title = title
	} else if url != "" {
		meta.Title = "Untitled source (" + url + ")"
	} else {
		meta.Title = "Untitled source"
	}
	return meta
}

// PlaceholderSummary returns the canned summary text, distinct from any
// description placeholder.
func PlaceholderSummary() string { return placeholderSummary }

// PlaceholderDescription returns the canned description text.
func PlaceholderDescription() string { return placeholderDescription }

// syntheticPoses generates a deterministic ranked pose list seeded by the
// target identifier.
func (p *Policy) syntheticPoses(target string) []types.DockingPose {
	n := p.DockingPoses
	if n <= 0 {
		n = 5
	}
	rng := rand.New(rand.NewSource(seed(provider.CapDocking, target)))

	poses := make([]types.DockingPose, n)
	score := -4.0 - rng.Float64()*3.0 // best pose in [-7, -4] kcal/mol
	for i := range poses {
		poses[i] = types.DockingPose{
			Rank:    i + 1,
			Score:   round2(score),
			RMSD:    round2(rng.Float64() * 2.5),
			PoseRef: fmt.Sprintf("synthetic:%s:%d", target, i+1),
		}
		score += rng.Float64() * 0.8 // monotonically worse
	}
	return poses
}

func round2(f float64) float64 {
	return float64(int(f*100)) / 100
}
