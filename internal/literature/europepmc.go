// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foldlab/protein-research/internal/httputil"
	"github.com/foldlab/protein-research/pkg/types"
)

// europePMCSearchBase is the Europe PMC REST search endpoint. Declared as a
// var so tests can substitute an httptest server.
var europePMCSearchBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// EuropePMCBackend queries the Europe PMC REST API.
type EuropePMCBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *EuropePMCBackend) Name() string { return "europepmc" }

// europePMCResponse is the subset of the search response we consume.
type europePMCResponse struct {
	ResultList struct {
		Result []struct {
			ID           string `json:"id"`
			Source       string `json:"source"`
			PMID         string `json:"pmid"`
			DOI          string `json:"doi"`
			Title        string `json:"title"`
			AuthorString string `json:"authorString"`
			JournalTitle string `json:"journalTitle"`
			PubYear      string `json:"pubYear"`
			FirstPublicationDate string `json:"firstPublicationDate"`
		} `json:"result"`
	} `json:"resultList"`
}

// Search queries Europe PMC and converts the hits.
func (b *EuropePMCBackend) Search(ctx context.Context, query Query, cfg types.LiteratureConfig) ([]types.LiteratureHit, error) {
	terms := strings.Join(query.Terms, " ")
	if strings.TrimSpace(terms) == "" {
		return nil, fmt.Errorf("empty Europe PMC query")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = cfg.MaxResults
	}
	if limit <= 0 {
		limit = 10
	}

	q := terms
	if !query.Since.IsZero() {
		q = fmt.Sprintf("%s AND FIRST_PDATE:[%s TO *]", terms, query.Since.Format("2006-01-02"))
	}

	params := url.Values{
		"query":    {q},
		"format":   {"json"},
		"pageSize": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, europePMCSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Europe PMC returned HTTP %d", resp.StatusCode)
	}

	var epr europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&epr); err != nil {
		return nil, fmt.Errorf("parsing Europe PMC response: %w", err)
	}

	results := epr.ResultList.Result
	hits := make([]types.LiteratureHit, 0, len(results))
	for i, r := range results {
		hit := types.LiteratureHit{
			Title:  r.Title,
			Venue:  r.JournalTitle,
			Source: b.Name(),
			// Rank-derived score: Europe PMC returns relevance order.
			RelevanceScore: 1.0 - float64(i)*0.05,
		}
		if hit.RelevanceScore < 0.1 {
			hit.RelevanceScore = 0.1
		}
		switch {
		case r.DOI != "":
			hit.Identifier = r.DOI
			hit.URL = "https://doi.org/" + r.DOI
		case r.PMID != "":
			hit.Identifier = "pmid:" + r.PMID
			hit.URL = "https://pubmed.ncbi.nlm.nih.gov/" + r.PMID + "/"
		default:
			hit.Identifier = r.Source + ":" + r.ID
		}
		if r.AuthorString != "" {
			hit.Authors = splitAuthorString(r.AuthorString)
		}
		if d, err := time.Parse("2006-01-02", r.FirstPublicationDate); err == nil {
			hit.Date = d
		} else if y, err := time.Parse("2006", r.PubYear); err == nil {
			hit.Date = y
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// splitAuthorString splits Europe PMC's "Smith A, Jones B." author string.
func splitAuthorString(s string) []string {
	parts := strings.Split(strings.TrimSuffix(s, "."), ",")
	var authors []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
