// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent abstracts the completion/agent capability: a model that
// turns a research prompt into a long-form sectioned answer, optionally with
// an attached web-search tool.
package agent

import (
	"context"
	"errors"
	"strings"
)

// Request is one completion invocation.
type Request struct {
	// Prompt is the full research prompt.
	Prompt string

	// Model is the resolved model identifier.
	Model string

	// UseSearchTool attaches the web-search tool to the invocation.
	UseSearchTool bool
}

// Backend completes prompts against one provider. Implementations return
// ordinary Go errors; the pipeline classifies them for retry and fallback
// decisions.
type Backend interface {
	Name() string
	Available() bool
	Complete(ctx context.Context, req Request) (string, error)
}

// modelAliases maps short model aliases to full identifiers, mirroring the
// aliases the API surface accepts.
var modelAliases = map[string]string{
	"gemini":       "gemini-2.5-pro",
	"gemini-pro":   "gemini-2.5-pro",
	"gemini-flash": "gemini-2.5-flash",
	"flash":        "gemini-2.5-flash",
}

// ResolveModel resolves a model alias to its full identifier. Unknown names
// pass through unchanged so callers can supply full identifiers directly.
func ResolveModel(model string) string {
	if full, ok := modelAliases[strings.ToLower(strings.TrimSpace(model))]; ok {
		return full
	}
	return model
}

// ToolError marks a completion failure attributed to an attached tool
// rather than the model itself. The pipeline retries such failures once
// without the tool before falling back.
type ToolError struct {
	Err error
}

func (e *ToolError) Error() string { return "tool capability: " + e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// IsToolError reports whether err is attributed to a tool capability.
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
