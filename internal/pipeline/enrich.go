// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/foldlab/protein-research/internal/fallback"
	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// enrich fills gaps in extracted items with bounded-concurrency metadata
// fetches, then normalizes every item so no display field is empty and
// summary and description never collapse into the same text. Fetch failures
// synthesize placeholder fields; one aggregate degradation reason covers
// all of them.
func (p *Pipeline) enrich(ctx context.Context, items []types.EnrichedItem, result *types.PipelineResult) []types.EnrichedItem {
	if len(items) == 0 {
		return items
	}

	concurrency := p.cfg.Enrich.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for i := range items {
		if !needsMetadata(items[i]) {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(item *types.EnrichedItem) {
			defer wg.Done()
			defer sem.Release(1)
			if !p.fetchMetadata(ctx, item) {
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}(&items[i])
	}
	wg.Wait()

	if failures > 0 {
		p.degrade(result, provider.CapMetadata,
			fmt.Sprintf("%s fell back: synthesized fields for %d of %d items",
				provider.CapMetadata, failures, len(items)))
	}

	for i := range items {
		finalizeItem(&items[i])
	}
	return items
}

// needsMetadata reports whether an item is worth a secondary fetch: it has
// a link to resolve and at least one display field still missing.
func needsMetadata(item types.EnrichedItem) bool {
	if item.Link == "" {
		return false
	}
	return item.Summary == "" || item.Description == "" ||
		len(item.Authors) == 0 || item.Venue == "" || item.Year == 0
}

// fetchMetadata resolves one item's link and merges the result into the
// item, filling only fields the agent left empty. Returns false when the
// fetch failed and synthetic metadata was merged instead.
func (p *Pipeline) fetchMetadata(ctx context.Context, item *types.EnrichedItem) bool {
	req := provider.Request{Key: item.Title, URL: item.Link}
	res := p.callProvider(ctx, p.deps.Metadata, req)

	var meta types.Metadata
	ok := false
	if res.Succeeded {
		if m, isMeta := res.Payload.(types.Metadata); isMeta {
			meta, ok = m, true
		}
	}
	if !ok {
		resolution, _ := p.policy.Resolve(provider.CapMetadata, req, res)
		meta = resolution.Payload.(types.Metadata)
		item.Synthesized = true
	}
	mergeMetadata(item, meta)
	return ok
}

// mergeMetadata copies fetched fields into empty slots only; the agent's
// own output always wins.
func mergeMetadata(item *types.EnrichedItem, meta types.Metadata) {
	if item.Title == "" {
		item.Title = meta.Title
	}
	if len(item.Authors) == 0 && len(meta.Authors) > 0 {
		item.Authors = provider.CapAuthors(meta.Authors, 5)
	}
	if item.Venue == "" {
		item.Venue = meta.Venue
	}
	if item.Year == 0 {
		item.Year = meta.Year
	}
	if item.Description == "" {
		item.Description = meta.Description
	}
	if item.ExternalIDs == nil {
		item.ExternalIDs = map[string]string{}
	}
	for k, v := range meta.ExternalIDs {
		if _, exists := item.ExternalIDs[k]; !exists && v != "" {
			item.ExternalIDs[k] = v
		}
	}
}

// finalizeItem guarantees the invariants every rendered item must hold:
// non-empty display fields and textually distinct summary and description.
func finalizeItem(item *types.EnrichedItem) {
	if item.Title == "" {
		item.Title = "Untitled source"
		item.Synthesized = true
	}
	if len(item.Authors) == 0 {
		item.Authors = []string{"Unknown authors"}
	}
	if item.Venue == "" {
		item.Venue = "Unknown venue"
	}
	if item.Summary == "" {
		item.Summary = fallback.PlaceholderSummary()
		item.Synthesized = true
	}
	if item.Description == "" {
		item.Description = fallback.PlaceholderDescription()
		item.Synthesized = true
	}
	if types.NormalizeText(item.Summary) == types.NormalizeText(item.Description) {
		item.Description = fallback.PlaceholderDescription()
		if types.NormalizeText(item.Summary) == types.NormalizeText(item.Description) {
			item.Summary = fallback.PlaceholderSummary()
		}
	}
}
