// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foldlab/protein-research/internal/httputil"
	"github.com/foldlab/protein-research/pkg/types"
)

// alphafoldPredictionBase is the AlphaFold DB prediction endpoint. Declared
// as a var so tests can substitute an httptest server.
var alphafoldPredictionBase = "https://alphafold.ebi.ac.uk/api/prediction/"

// StructureClient checks the AlphaFold structure database for a predicted
// model of the entity.
type StructureClient struct {
	Client *http.Client
	Config types.StructureConfig
}

// Name returns the client identifier.
func (c *StructureClient) Name() string { return "alphafold" }

// Capability returns the capability this client serves.
func (c *StructureClient) Capability() Capability { return CapStructure }

// Available reports whether structure lookup is enabled.
func (c *StructureClient) Available() bool { return c.Config.Enabled }

// alphafoldPrediction is the subset of the prediction response we consume.
// The endpoint returns an array of models, newest first.
type alphafoldPrediction struct {
	PDBURL         string  `json:"pdbUrl"`
	LatestVersion  int     `json:"latestVersion"`
	GlobalMetric   float64 `json:"globalMetricValue"`
}

// Call fetches the predicted structure record for the accession in req.Key.
func (c *StructureClient) Call(ctx context.Context, req Request) types.ProviderResult {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, alphafoldPredictionBase+req.Key, nil)
	if err != nil {
		return types.Failure(c.Name(), types.ErrUnknown, err.Error(), time.Since(start))
	}
	httpReq.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, httpReq, 2)
	if err != nil {
		return types.Failure(c.Name(), ClassifyErr(err), err.Error(), time.Since(start))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Failure(c.Name(), ClassifyStatus(resp.StatusCode),
			fmt.Sprintf("AlphaFold DB returned HTTP %d for %s", resp.StatusCode, req.Key), time.Since(start))
	}

	var predictions []alphafoldPrediction
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return types.Failure(c.Name(), types.ErrUnknown,
			fmt.Sprintf("parsing AlphaFold response: %v", err), time.Since(start))
	}
	if len(predictions) == 0 {
		return types.Failure(c.Name(), types.ErrNotFound,
			fmt.Sprintf("no predicted structure for %s", req.Key), time.Since(start))
	}

	p := predictions[0]
	info := types.StructureInfo{
		ModelURL:     p.PDBURL,
		ModelVersion: fmt.Sprintf("v%d", p.LatestVersion),
		Confidence:   p.GlobalMetric,
	}
	return types.Success(c.Name(), info, time.Since(start))
}
