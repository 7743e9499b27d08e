// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/foldlab/protein-research/internal/httputil"
	"github.com/foldlab/protein-research/pkg/types"
)

// API bases for metadata resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	pubmedEFetchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	crossrefWorksBase = "https://api.crossref.org/works/"
)

// pmidPattern extracts the PMID from a PubMed URL path.
var pmidPattern = regexp.MustCompile(`/(\d+)/?(?:\?.*)?$`)

// doiPattern extracts a DOI from a doi.org URL or any path containing one.
var doiPattern = regexp.MustCompile(`(10\.\d{4,9}/[^\s?#]+)`)

// htmlTitlePattern extracts the document title from a generic HTML page.
var htmlTitlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// metaDescPattern extracts the meta description from a generic HTML page.
var metaDescPattern = regexp.MustCompile(`(?is)<meta\s+name=["']description["']\s+content=["']([^"']+)["']`)

// MetadataClient fetches paper metadata (authors, description, external IDs)
// from a URL. PubMed and DOI links go through their structured APIs; anything
// else falls back to scraping the page title and meta description.
type MetadataClient struct {
	Client *http.Client
	Config types.EnrichConfig
}

// Name returns the client identifier.
func (c *MetadataClient) Name() string { return "metadata" }

// Capability returns the capability this client serves.
func (c *MetadataClient) Capability() Capability { return CapMetadata }

// Available reports whether the fetcher can run. It needs no credential.
func (c *MetadataClient) Available() bool { return true }

// Call fetches metadata for req.URL.
func (c *MetadataClient) Call(ctx context.Context, req Request) types.ProviderResult {
	start := time.Now()

	if req.URL == "" {
		return types.Failure(c.Name(), types.ErrNotFound, "no URL to fetch", time.Since(start))
	}

	var (
		meta types.Metadata
		err  error
	)
	switch {
	case strings.Contains(req.URL, "pubmed.ncbi.nlm.nih.gov"), strings.Contains(req.URL, "ncbi.nlm.nih.gov/pubmed"):
		meta, err = c.fetchPubMed(ctx, req.URL)
	case strings.Contains(req.URL, "doi.org"), doiPattern.MatchString(req.URL):
		meta, err = c.fetchCrossref(ctx, req.URL)
	default:
		meta, err = c.fetchGeneric(ctx, req.URL)
	}

	if err != nil {
		kind := ClassifyErr(err)
		var se statusError
		if isStatusError(err, &se) {
			kind = ClassifyStatus(se.status)
		}
		return types.Failure(c.Name(), kind, err.Error(), time.Since(start))
	}

	return types.Success(c.Name(), meta, time.Since(start))
}

// statusError carries a non-200 HTTP status through the fetch helpers.
type statusError struct {
	status int
	url    string
}

func (e statusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.status, e.url)
}

func isStatusError(err error, out *statusError) bool {
	se, ok := err.(statusError)
	if ok {
		*out = se
	}
	return ok
}

// get issues a GET with retry on 429 and returns the body on HTTP 200.
func (c *MetadataClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError{status: resp.StatusCode, url: url}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// pubmedArticle is the subset of the efetch XML response we consume.
type pubmedArticle struct {
	Authors []struct {
		LastName string `xml:"LastName"`
		ForeName string `xml:"ForeName"`
	} `xml:"PubmedArticle>MedlineCitation>Article>AuthorList>Author"`
	Abstract []string `xml:"PubmedArticle>MedlineCitation>Article>Abstract>AbstractText"`
	Title    string   `xml:"PubmedArticle>MedlineCitation>Article>ArticleTitle"`
	Journal  string   `xml:"PubmedArticle>MedlineCitation>Article>Journal>Title"`
	DOI      []struct {
		Type  string `xml:"EIdType,attr"`
		Value string `xml:",chardata"`
	} `xml:"PubmedArticle>PubmedData>ArticleIdList>ArticleId"`
}

// fetchPubMed resolves metadata through the NCBI efetch API.
func (c *MetadataClient) fetchPubMed(ctx context.Context, pageURL string) (types.Metadata, error) {
	m := pmidPattern.FindStringSubmatch(pageURL)
	if m == nil {
		return types.Metadata{}, fmt.Errorf("no PMID in URL %s", pageURL)
	}
	pmid := m[1]

	body, err := c.get(ctx, pubmedEFetchBase+"?db=pubmed&retmode=xml&rettype=abstract&id="+pmid)
	if err != nil {
		return types.Metadata{}, err
	}

	var article pubmedArticle
	if err := xml.Unmarshal(body, &article); err != nil {
		return types.Metadata{}, fmt.Errorf("parsing PubMed response: %w", err)
	}

	meta := types.Metadata{
		Title:       article.Title,
		Venue:       article.Journal,
		Description: strings.TrimSpace(strings.Join(article.Abstract, " ")),
		ExternalIDs: map[string]string{"pmid": pmid},
	}
	for _, a := range article.Authors {
		name := strings.TrimSpace(a.LastName + " " + a.ForeName)
		if name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	meta.Authors = CapAuthors(meta.Authors, 5)
	for _, id := range article.DOI {
		if id.Type == "doi" {
			meta.ExternalIDs["doi"] = strings.TrimSpace(id.Value)
		}
	}
	return meta, nil
}

// crossrefWork is the subset of the Crossref works response we consume.
type crossrefWork struct {
	Message struct {
		Title  []string `json:"title"`
		Author []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		ContainerTitle []string `json:"container-title"`
		Abstract       string   `json:"abstract"`
		DOI            string   `json:"DOI"`
		Issued         struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
	} `json:"message"`
}

// fetchCrossref resolves metadata through the Crossref works API.
func (c *MetadataClient) fetchCrossref(ctx context.Context, pageURL string) (types.Metadata, error) {
	m := doiPattern.FindStringSubmatch(pageURL)
	if m == nil {
		return types.Metadata{}, fmt.Errorf("no DOI in URL %s", pageURL)
	}
	doi := m[1]

	body, err := c.get(ctx, crossrefWorksBase+doi)
	if err != nil {
		return types.Metadata{}, err
	}

	var work crossrefWork
	if err := json.Unmarshal(body, &work); err != nil {
		return types.Metadata{}, fmt.Errorf("parsing Crossref response: %w", err)
	}

	meta := types.Metadata{
		Description: stripJATS(work.Message.Abstract),
		ExternalIDs: map[string]string{"doi": doi},
	}
	if len(work.Message.Title) > 0 {
		meta.Title = work.Message.Title[0]
	}
	if len(work.Message.ContainerTitle) > 0 {
		meta.Venue = work.Message.ContainerTitle[0]
	}
	for _, a := range work.Message.Author {
		name := strings.TrimSpace(a.Family + " " + a.Given)
		if name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	meta.Authors = CapAuthors(meta.Authors, 5)
	if parts := work.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		meta.Year = parts[0][0]
	}
	return meta, nil
}

// jatsTagPattern strips JATS markup Crossref embeds in abstracts.
var jatsTagPattern = regexp.MustCompile(`</?jats:[^>]+>`)

func stripJATS(s string) string {
	return strings.TrimSpace(jatsTagPattern.ReplaceAllString(s, ""))
}

// fetchGeneric scrapes the page title and meta description of any other URL.
func (c *MetadataClient) fetchGeneric(ctx context.Context, pageURL string) (types.Metadata, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return types.Metadata{}, err
	}

	var meta types.Metadata
	if m := htmlTitlePattern.FindSubmatch(body); m != nil {
		meta.Title = strings.TrimSpace(string(m[1]))
	}
	if m := metaDescPattern.FindSubmatch(body); m != nil {
		meta.Description = strings.TrimSpace(string(m[1]))
	}
	if meta.Title == "" && meta.Description == "" {
		return types.Metadata{}, fmt.Errorf("no usable metadata at %s", pageURL)
	}
	return meta, nil
}

// CapAuthors truncates an author list to max entries, appending "et al."
// when names were dropped.
func CapAuthors(authors []string, max int) []string {
	if len(authors) <= max {
		return authors
	}
	capped := make([]string, max, max+1)
	copy(capped, authors[:max])
	return append(capped, "et al.")
}
