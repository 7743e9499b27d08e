// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// Gemini completes prompts against the Gemini API.
type Gemini struct {
	client *genai.Client
	apiKey string
}

// NewGemini creates a Gemini backend. The client is only constructed when an
// API key is present; without one the backend reports unavailable and every
// call fails, which routes the pipeline to its fallback chain.
func NewGemini(cfg types.AgentConfig) (*Gemini, error) {
	g := &Gemini{apiKey: cfg.APIKey}
	if cfg.APIKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Name returns the backend identifier.
func (g *Gemini) Name() string { return "gemini" }

// Available reports whether an API key was configured.
func (g *Gemini) Available() bool { return g.client != nil }

// Complete sends the prompt to the requested model, optionally with the
// Google Search tool attached.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini backend not configured")
	}

	config := &genai.GenerateContentConfig{}
	if req.UseSearchTool {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		if req.UseSearchTool && looksToolAttributed(err) {
			return "", &ToolError{Err: err}
		}
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

// looksToolAttributed reports whether the API error blames the attached
// tool rather than the model or quota.
func looksToolAttributed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "tool") || strings.Contains(msg, "google_search") ||
		strings.Contains(msg, "grounding")
}

// ClassifyError maps a completion failure to an ErrorKind for the retry and
// fallback decisions.
func ClassifyError(err error) types.ErrorKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return types.ErrRateLimited
		case apiErr.Code == 404:
			return types.ErrNotFound
		case apiErr.Code == 408 || apiErr.Code == 504:
			return types.ErrTimeout
		case apiErr.Code >= 500:
			return types.ErrTransientServer
		case apiErr.Code >= 400:
			return types.ErrUnknown
		}
	}
	return provider.ClassifyErr(err)
}
