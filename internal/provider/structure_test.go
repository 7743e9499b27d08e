// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foldlab/protein-research/pkg/types"
)

func structureCfg() types.StructureConfig {
	return types.StructureConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "test/0.1"},
		Enabled:    true,
	}
}

func TestStructureCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/P01308" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[{"pdbUrl": "https://alphafold.ebi.ac.uk/files/AF-P01308-F1-model_v4.pdb",
			"latestVersion": 4, "globalMetricValue": 88.5}]`))
	}))
	defer server.Close()

	orig := alphafoldPredictionBase
	alphafoldPredictionBase = server.URL + "/"
	defer func() { alphafoldPredictionBase = orig }()

	c := &StructureClient{Client: server.Client(), Config: structureCfg()}
	res := c.Call(context.Background(), Request{Key: "P01308"})
	if !res.Succeeded {
		t.Fatalf("Call failed: %s", res.Detail)
	}

	info := res.Payload.(types.StructureInfo)
	if info.ModelURL == "" || info.ModelVersion != "v4" || info.Confidence != 88.5 {
		t.Errorf("info = %+v", info)
	}
}

func TestStructureCallNoModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	orig := alphafoldPredictionBase
	alphafoldPredictionBase = server.URL + "/"
	defer func() { alphafoldPredictionBase = orig }()

	c := &StructureClient{Client: server.Client(), Config: structureCfg()}
	res := c.Call(context.Background(), Request{Key: "X99999"})
	if res.Succeeded {
		t.Fatal("empty prediction list should fail")
	}
	if res.ErrorKind != types.ErrNotFound {
		t.Errorf("ErrorKind = %v, want not_found", res.ErrorKind)
	}
}

func TestDockingCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.Write([]byte(`{"poses": [
			{"rank": 1, "score": -6.8, "rmsd": 0.4, "pose_ref": "svc:1"},
			{"rank": 2, "score": -6.1, "rmsd": 1.1, "pose_ref": "svc:2"}
		]}`))
	}))
	defer server.Close()

	cfg := types.DockingConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "test/0.1"},
		Endpoint:   server.URL,
		Poses:      5,
	}
	c := &DockingClient{Client: server.Client(), Config: cfg}
	res := c.Call(context.Background(), Request{Key: "P01308", Terms: []string{"CC(=O)O"}})
	if !res.Succeeded {
		t.Fatalf("Call failed: %s", res.Detail)
	}

	poses := res.Payload.([]types.DockingPose)
	if len(poses) != 2 || poses[0].Score != -6.8 {
		t.Errorf("poses = %+v", poses)
	}
}

func TestDockingUnavailableWithoutEndpoint(t *testing.T) {
	c := &DockingClient{Client: http.DefaultClient, Config: types.DockingConfig{}}
	if c.Available() {
		t.Error("docking without an endpoint should be unavailable")
	}
	res := c.Call(context.Background(), Request{Key: "P01308"})
	if res.Succeeded {
		t.Fatal("call without endpoint should fail")
	}
	if res.ErrorKind != types.ErrNotFound {
		t.Errorf("ErrorKind = %v, want not_found", res.ErrorKind)
	}
}
