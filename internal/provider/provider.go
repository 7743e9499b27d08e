// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider wraps the external dependencies of the research pipeline
// behind a single client contract. Each client declares its capability and
// availability; operational failures are returned as ProviderResult values,
// never as Go errors.
package provider

import (
	"context"

	"github.com/foldlab/protein-research/pkg/types"
)

// Capability names an abstract external function the pipeline needs.
type Capability string

const (
	CapIdentity   Capability = "identity-lookup"
	CapLiterature Capability = "literature-search"
	CapCompletion Capability = "agent-completion"
	CapMetadata   Capability = "metadata-fetch"
	CapStructure  Capability = "structure-fetch"
	CapDocking    Capability = "docking"
)

// Request is the capability-agnostic call input. Only the fields relevant to
// the client's capability are consulted.
type Request struct {
	// Key is the primary identifier: entity ID for identity and structure
	// lookups, ligand spec for docking.
	Key string

	// Terms are free-text search terms for search-style capabilities.
	Terms []string

	// URL is the link for metadata-by-link fetches.
	URL string

	// Limit caps the number of returned records where applicable.
	Limit int
}

// Client is the contract every external provider implements. Call performs
// network I/O bound by the client's configured timeout and must not block
// past cancellation of ctx. Available is a cheap configuration check with no
// network I/O: a client missing its credential or endpoint reports false.
type Client interface {
	Name() string
	Capability() Capability
	Available() bool
	Call(ctx context.Context, req Request) types.ProviderResult
}
