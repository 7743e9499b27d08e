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

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexBackend queries the OpenAlex API.
type OpenAlexBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return "openalex" }

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DOI             string `json:"doi"`
	PublicationDate string `json:"publication_date"`
	PublicationYear int    `json:"publication_year"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

// Search queries the OpenAlex API and converts the hits.
func (b *OpenAlexBackend) Search(ctx context.Context, query Query, cfg types.LiteratureConfig) ([]types.LiteratureHit, error) {
	terms := strings.Join(query.Terms, " ")
	if strings.TrimSpace(terms) == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = cfg.MaxResults
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"search":   {terms},
		"per_page": {fmt.Sprintf("%d", limit)},
		"page":     {"1"},
	}
	if !query.Since.IsZero() {
		params.Set("filter", "from_publication_date:"+query.Since.Format("2006-01-02"))
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	total := len(oar.Results)
	hits := make([]types.LiteratureHit, 0, total)
	for i, work := range oar.Results {
		hit := types.LiteratureHit{
			Title:  work.Title,
			Venue:  work.PrimaryLocation.Source.DisplayName,
			Source: b.Name(),
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				hit.Authors = append(hit.Authors, authorship.Author.DisplayName)
			}
		}

		if work.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", work.PublicationDate); parseErr == nil {
				hit.Date = t
			}
		} else if work.PublicationYear > 0 {
			hit.Date = time.Date(work.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC)
		}

		// Prefer DOI as identifier since OpenAlex is DOI-centric.
		if work.DOI != "" {
			doi := strings.TrimPrefix(work.DOI, "https://doi.org/")
			hit.Identifier = doi
			hit.URL = "https://doi.org/" + doi
		} else if work.ID != "" {
			hit.Identifier = work.ID
			hit.URL = work.ID
		}

		// Position-based relevance score. OpenAlex returns results
		// sorted by relevance by default.
		if total > 1 {
			hit.RelevanceScore = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			hit.RelevanceScore = 1.0
		}

		hits = append(hits, hit)
	}
	return hits, nil
}
