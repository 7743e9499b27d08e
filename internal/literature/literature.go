// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature queries bibliographic APIs and returns unified,
// deduplicated hits used as pre-search context for the research agent.
package literature

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/foldlab/protein-research/pkg/types"
)

// Backend searches a single bibliographic API. Each backend (Europe PMC,
// OpenAlex) implements this interface so the searcher can fan out.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.LiteratureConfig) ([]types.LiteratureHit, error)
}

// Query holds the pre-search parameters.
type Query struct {
	// Terms are joined into the free-text query (entity ID, display name).
	Terms []string

	// Limit caps the number of hits per backend.
	Limit int

	// Since restricts results to publications after this date, when set.
	Since time.Time
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	for _, t := range q.Terms {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}

// Output holds the merged hits and per-backend failure notes.
type Output struct {
	Hits          []types.LiteratureHit
	DupsRemoved   int
	BackendErrors []string
}

// Searcher fans queries out to all configured backends.
type Searcher struct {
	Backends []Backend
	Config   types.LiteratureConfig
}

// Search queries all backends concurrently, deduplicates hits by identifier
// and normalized title, applies recency bias, and returns the top N. Backend
// failures never fail the search; they are reported in Output.BackendErrors
// and an empty hit list is a valid, degraded outcome.
func (s *Searcher) Search(ctx context.Context, query Query) Output {
	if query.IsEmpty() || len(s.Backends) == 0 {
		return Output{}
	}

	type backendResult struct {
		hits []types.LiteratureHit
		err  error
		name string
	}

	ch := make(chan backendResult, len(s.Backends))
	var wg sync.WaitGroup

	for _, b := range s.Backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			hits, err := b.Search(ctx, query, s.Config)
			ch <- backendResult{hits: hits, err: err, name: b.Name()}
		}(b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.LiteratureHit
	var backendErrors []string
	for br := range ch {
		if br.err != nil {
			backendErrors = append(backendErrors, br.name+": "+br.err.Error())
			continue
		}
		all = append(all, br.hits...)
	}

	deduped, removed := deduplicate(all)

	if s.Config.RecencyBiasWindow > 0 {
		applyRecencyBias(deduped, s.Config.RecencyBiasWindow)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RelevanceScore > deduped[j].RelevanceScore
	})

	maxResults := s.Config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}

	return Output{
		Hits:          deduped,
		DupsRemoved:   removed,
		BackendErrors: backendErrors,
	}
}

// deduplicate merges hits that share an identifier or normalized title.
func deduplicate(hits []types.LiteratureHit) ([]types.LiteratureHit, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.LiteratureHit
	removed := 0

	for _, h := range hits {
		key := ""
		if h.Identifier != "" {
			key = "id:" + strings.ToLower(h.Identifier)
		}
		titleKey := "title:" + normalizeTitle(h.Title)

		if key != "" {
			if idx, ok := seen[key]; ok {
				mergeInto(&deduped[idx], h)
				removed++
				continue
			}
		}
		if titleKey != "title:" {
			if idx, ok := seen[titleKey]; ok {
				mergeInto(&deduped[idx], h)
				removed++
				continue
			}
		}

		idx := len(deduped)
		deduped = append(deduped, h)
		if key != "" {
			seen[key] = idx
		}
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

// mergeInto fills empty fields of dst from src and keeps the higher score.
func mergeInto(dst *types.LiteratureHit, src types.LiteratureHit) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Venue == "" && src.Venue != "" {
		dst.Venue = src.Venue
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.Date.IsZero() && !src.Date.IsZero() {
		dst.Date = src.Date
	}
	if src.RelevanceScore > dst.RelevanceScore {
		dst.RelevanceScore = src.RelevanceScore
	}
	if dst.Source != src.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// applyRecencyBias boosts scores for papers published within the window.
func applyRecencyBias(hits []types.LiteratureHit, window time.Duration) {
	now := time.Now()
	for i := range hits {
		if hits[i].Date.IsZero() {
			continue
		}
		age := now.Sub(hits[i].Date)
		if age <= window {
			boost := 0.2 * (1.0 - float64(age)/float64(window))
			hits[i].RelevanceScore = math.Min(1.0, hits[i].RelevanceScore+boost)
		}
	}
}
