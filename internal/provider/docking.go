// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foldlab/protein-research/pkg/types"
)

// DockingClient submits ligand docking requests to an external docking
// service. Without a configured endpoint the capability is unavailable and
// the fallback policy substitutes deterministic synthetic poses.
type DockingClient struct {
	Client *http.Client
	Config types.DockingConfig
}

// Name returns the client identifier.
func (c *DockingClient) Name() string { return "docking" }

// Capability returns the capability this client serves.
func (c *DockingClient) Capability() Capability { return CapDocking }

// Available reports whether a docking endpoint is configured.
func (c *DockingClient) Available() bool { return c.Config.Endpoint != "" }

// dockingRequest is the request body sent to the docking service.
type dockingRequest struct {
	Target string `json:"target"`
	Ligand string `json:"ligand"`
	Poses  int    `json:"poses"`
}

// dockingResponse is the response body from the docking service.
type dockingResponse struct {
	Poses []types.DockingPose `json:"poses"`
}

// Call submits a docking job for req.Key (target accession) with req.Terms[0]
// as the ligand spec when present.
func (c *DockingClient) Call(ctx context.Context, req Request) types.ProviderResult {
	start := time.Now()

	if c.Config.Endpoint == "" {
		return types.Failure(c.Name(), types.ErrNotFound, "no docking endpoint configured", time.Since(start))
	}

	poses := req.Limit
	if poses <= 0 {
		poses = c.Config.Poses
	}
	body := dockingRequest{Target: req.Key, Poses: poses}
	if len(req.Terms) > 0 {
		body.Ligand = req.Terms[0]
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return types.Failure(c.Name(), types.ErrUnknown, err.Error(), time.Since(start))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.Failure(c.Name(), types.ErrUnknown, err.Error(), time.Since(start))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return types.Failure(c.Name(), ClassifyErr(err), err.Error(), time.Since(start))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Failure(c.Name(), ClassifyStatus(resp.StatusCode),
			fmt.Sprintf("docking service returned HTTP %d", resp.StatusCode), time.Since(start))
	}

	var dr dockingResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return types.Failure(c.Name(), types.ErrUnknown,
			fmt.Sprintf("parsing docking response: %v", err), time.Since(start))
	}

	return types.Success(c.Name(), dr.Poses, time.Since(start))
}
