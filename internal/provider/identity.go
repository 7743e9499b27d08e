// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/foldlab/protein-research/internal/httputil"
	"github.com/foldlab/protein-research/pkg/types"
)

// IDKind classifies an input entity identifier.
type IDKind int

const (
	IDUnknown IDKind = iota
	IDAccession
	IDPDB
	IDName
)

func (k IDKind) String() string {
	switch k {
	case IDAccession:
		return "accession"
	case IDPDB:
		return "pdb"
	case IDName:
		return "name"
	default:
		return "unknown"
	}
}

// accessionPattern matches UniProt accessions: "P01308", "Q9Y6K9", "A0A024R161".
var accessionPattern = regexp.MustCompile(`^[OPQ][0-9][A-Z0-9]{3}[0-9]$|^[A-NR-Z][0-9](?:[A-Z][A-Z0-9]{2}[0-9]){1,2}$`)

// pdbPattern matches 4-character PDB entry IDs: "1ABC", "6VXX".
var pdbPattern = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// ClassifyEntityID determines the identifier kind and returns the normalized
// form. Accessions and PDB IDs are uppercased; anything else is treated as a
// free-text protein name.
func ClassifyEntityID(id string) (IDKind, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return IDUnknown, ""
	}

	upper := strings.ToUpper(id)
	if accessionPattern.MatchString(upper) {
		return IDAccession, upper
	}
	if pdbPattern.MatchString(upper) {
		return IDPDB, upper
	}
	return IDName, id
}

// uniprotEntryBase is the UniProtKB entry endpoint. Declared as a var so
// tests can substitute an httptest server.
var uniprotEntryBase = "https://rest.uniprot.org/uniprotkb/"

// commonProteins maps well-known free-text names to accessions, used when
// the input is not an accession. Mirrors the lookup table the search surface
// keeps for demo queries.
var commonProteins = map[string]string{
	"insulin":     "P01308",
	"hemoglobin":  "P69905",
	"lysozyme":    "P61626",
	"albumin":     "P02768",
	"collagen":    "P02452",
	"myoglobin":   "P02144",
	"ferritin":    "P02794",
	"ubiquitin":   "P0CG48",
	"p53":         "P04637",
	"gfp":         "P42212",
	"trypsin":     "P07477",
	"pepsin":      "P00790",
	"catalase":    "P04040",
	"keratin":     "P04264",
	"elastin":     "P15502",
	"actin":       "P60709",
	"tubulin":     "Q71U36",
	"fibrinogen":  "P02671",
	"thrombin":    "P00734",
	"interferon":  "P01574",
	"erythropoietin": "P01588",
}

// IdentityClient resolves an entity identifier to an Entity via the UniProt
// REST API.
type IdentityClient struct {
	Client *http.Client
	Config types.IdentityConfig
}

// Name returns the client identifier.
func (c *IdentityClient) Name() string { return "uniprot" }

// Capability returns the capability this client serves.
func (c *IdentityClient) Capability() Capability { return CapIdentity }

// Available reports whether the lookup is enabled. UniProt requires no
// credential, so availability is purely a configuration switch.
func (c *IdentityClient) Available() bool { return c.Config.Enabled }

// uniprotEntry is the subset of the UniProtKB entry response we consume.
type uniprotEntry struct {
	PrimaryAccession   string `json:"primaryAccession"`
	ProteinDescription struct {
		RecommendedName struct {
			FullName struct {
				Value string `json:"value"`
			} `json:"fullName"`
		} `json:"recommendedName"`
	} `json:"proteinDescription"`
	Organism struct {
		ScientificName string `json:"scientificName"`
	} `json:"organism"`
	Genes []struct {
		GeneName struct {
			Value string `json:"value"`
		} `json:"geneName"`
	} `json:"genes"`
	Sequence struct {
		Length int `json:"length"`
	} `json:"sequence"`
}

// Call resolves req.Key to an Entity. Free-text names first go through the
// common-protein table; unresolvable names fail as not_found so the pipeline
// can fall back to a minimal entity.
func (c *IdentityClient) Call(ctx context.Context, req Request) types.ProviderResult {
	start := time.Now()

	kind, normalized := ClassifyEntityID(req.Key)
	accession := normalized
	if kind == IDName {
		acc, ok := commonProteins[strings.ToLower(normalized)]
		if !ok {
			return types.Failure(c.Name(), types.ErrNotFound,
				fmt.Sprintf("no accession known for name %q", normalized), time.Since(start))
		}
		accession = acc
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uniprotEntryBase+accession+".json", nil)
	if err != nil {
		return types.Failure(c.Name(), types.ErrUnknown, err.Error(), time.Since(start))
	}
	httpReq.Header.Set("User-Agent", c.Config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.Client, httpReq, 2)
	if err != nil {
		return types.Failure(c.Name(), ClassifyErr(err), err.Error(), time.Since(start))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Failure(c.Name(), ClassifyStatus(resp.StatusCode),
			fmt.Sprintf("UniProt returned HTTP %d for %s", resp.StatusCode, accession), time.Since(start))
	}

	var entry uniprotEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return types.Failure(c.Name(), types.ErrUnknown,
			fmt.Sprintf("parsing UniProt response: %v", err), time.Since(start))
	}

	entity := entityFromEntry(entry, accession)
	return types.Success(c.Name(), entity, time.Since(start))
}

// entityFromEntry converts a UniProtKB entry into an Entity, filling
// DisplayName from the accession when the record carries no name.
func entityFromEntry(entry uniprotEntry, accession string) types.Entity {
	entity := types.Entity{
		ID:          entry.PrimaryAccession,
		DisplayName: entry.ProteinDescription.RecommendedName.FullName.Value,
		Organism:    entry.Organism.ScientificName,
		Attributes:  map[string]string{},
	}
	if entity.ID == "" {
		entity.ID = accession
	}
	if entity.DisplayName == "" {
		entity.DisplayName = entity.ID
	}
	if len(entry.Genes) > 0 && entry.Genes[0].GeneName.Value != "" {
		entity.Attributes["gene"] = entry.Genes[0].GeneName.Value
	}
	if entry.Sequence.Length > 0 {
		entity.Attributes["sequence_length"] = fmt.Sprintf("%d", entry.Sequence.Length)
	}
	return entity
}
