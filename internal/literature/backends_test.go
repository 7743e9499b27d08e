// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEuropePMCSearch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultList": {"result": [
				{"id": "12345", "source": "MED", "pmid": "12345", "doi": "10.1000/insulin",
				 "title": "Insulin signalling", "authorString": "Smith A, Jones B.",
				 "journalTitle": "Nature", "pubYear": "2021", "firstPublicationDate": "2021-06-15"},
				{"id": "67890", "source": "MED", "pmid": "67890",
				 "title": "Receptor binding", "journalTitle": "Cell", "pubYear": "2020"}
			]}
		}`))
	}))
	defer server.Close()

	orig := europePMCSearchBase
	europePMCSearchBase = server.URL
	defer func() { europePMCSearchBase = orig }()

	b := &EuropePMCBackend{Client: server.Client()}
	hits, err := b.Search(context.Background(), Query{Terms: []string{"insulin"}}, testCfg())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if gotQuery != "insulin" {
		t.Errorf("query = %q, want insulin", gotQuery)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}

	first := hits[0]
	if first.Identifier != "10.1000/insulin" {
		t.Errorf("Identifier = %q, want DOI preferred", first.Identifier)
	}
	if first.URL != "https://doi.org/10.1000/insulin" {
		t.Errorf("URL = %q", first.URL)
	}
	if len(first.Authors) != 2 || first.Authors[1] != "Jones B" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if first.Date.Year() != 2021 {
		t.Errorf("Date = %v, want 2021", first.Date)
	}
	if hits[1].Identifier != "pmid:67890" {
		t.Errorf("second Identifier = %q, want PMID fallback", hits[1].Identifier)
	}
	if hits[0].RelevanceScore <= hits[1].RelevanceScore {
		t.Errorf("rank-derived scores not descending: %f vs %f",
			hits[0].RelevanceScore, hits[1].RelevanceScore)
	}
}

func TestEuropePMCSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	orig := europePMCSearchBase
	europePMCSearchBase = server.URL
	defer func() { europePMCSearchBase = orig }()

	b := &EuropePMCBackend{Client: server.Client()}
	if _, err := b.Search(context.Background(), Query{Terms: []string{"x"}}, testCfg()); err == nil {
		t.Error("Search() should error on HTTP 500")
	}
}

func TestOpenAlexSearch(t *testing.T) {
	var gotMailto string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"id": "https://openalex.org/W1", "title": "Insulin review",
				 "doi": "https://doi.org/10.1000/rev", "publication_date": "2022-03-01",
				 "authorships": [{"author": {"display_name": "Ada Lovelace"}}],
				 "primary_location": {"source": {"display_name": "Science"}}},
				{"id": "https://openalex.org/W2", "title": "Untyped work", "publication_year": 2019}
			]
		}`))
	}))
	defer server.Close()

	orig := openAlexSearchBase
	openAlexSearchBase = server.URL
	defer func() { openAlexSearchBase = orig }()

	b := &OpenAlexBackend{Client: server.Client(), Email: "user@example.com"}
	hits, err := b.Search(context.Background(), Query{Terms: []string{"insulin"}}, testCfg())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if gotMailto != "user@example.com" {
		t.Errorf("mailto = %q, want polite pool email", gotMailto)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}

	first := hits[0]
	if first.Identifier != "10.1000/rev" {
		t.Errorf("Identifier = %q, want bare DOI", first.Identifier)
	}
	if first.Venue != "Science" {
		t.Errorf("Venue = %q", first.Venue)
	}
	if len(first.Authors) != 1 || first.Authors[0] != "Ada Lovelace" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if hits[1].Identifier != "https://openalex.org/W2" {
		t.Errorf("second Identifier = %q, want OpenAlex ID fallback", hits[1].Identifier)
	}
	if hits[1].Date.Year() != 2019 {
		t.Errorf("second Date = %v, want year-only fallback", hits[1].Date)
	}
	if first.RelevanceScore != 1.0 {
		t.Errorf("first score = %f, want 1.0", first.RelevanceScore)
	}
}

func TestOpenAlexSearchEmptyQuery(t *testing.T) {
	b := &OpenAlexBackend{Client: http.DefaultClient}
	if _, err := b.Search(context.Background(), Query{}, testCfg()); err == nil {
		t.Error("Search() should reject an empty query")
	}
}
