// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foldlab/protein-research/internal/agent"
	"github.com/foldlab/protein-research/internal/metrics"
	"github.com/foldlab/protein-research/internal/provider"
	"github.com/foldlab/protein-research/pkg/types"
)

// backoffBase is the first retry delay; each subsequent retry on the same
// model doubles it. Overridable for tests.
var backoffBase = 2 * time.Second

// fallbackModelName marks results produced by the template document rather
// than any model.
const fallbackModelName = "fallback"

// invokeAgent walks the model chain: the preferred model first, then each
// configured fallback model in order. Per model, transient failures retry
// with exponential backoff up to the attempt budget, and a tool-attributed
// failure is retried once immediately without the tool. When the whole chain
// is exhausted the template document is substituted and the run degrades.
func (p *Pipeline) invokeAgent(ctx context.Context, prompt, entityID string, opts Options, plan []string, result *types.PipelineResult) (string, string) {
	models := p.modelChain(opts)

	req := provider.Request{Key: entityID, Terms: plan}
	if p.deps.Agent == nil || !p.deps.Agent.Available() {
		resolution, _ := p.policy.Resolve(provider.CapCompletion, req,
			types.Failure("agent", types.ErrNotFound, "agent backend unavailable", 0))
		p.degrade(result, provider.CapCompletion, resolution.Reason)
		return resolution.Payload.(string), fallbackModelName
	}

	var lastErr error
	for _, model := range models {
		text, err := p.invokeModel(ctx, prompt, model, opts)
		if err == nil {
			return text, model
		}
		lastErr = err
		p.log.Warn("model exhausted", zap.String("model", model), zap.Error(err))
	}

	kind := agent.ClassifyError(lastErr)
	resolution, _ := p.policy.Resolve(provider.CapCompletion, req,
		types.Failure(p.deps.Agent.Name(), kind, lastErr.Error(), 0))
	p.degrade(result, provider.CapCompletion, resolution.Reason)
	return resolution.Payload.(string), fallbackModelName
}

// modelChain resolves the preferred model plus configured fallbacks,
// dropping duplicates while preserving order.
func (p *Pipeline) modelChain(opts Options) []string {
	preferred := opts.ModelPreference
	if preferred == "" {
		preferred = p.cfg.Agent.Model
	}

	seen := map[string]bool{}
	var models []string
	for _, m := range append([]string{preferred}, p.cfg.Agent.FallbackModels...) {
		resolved := agent.ResolveModel(m)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		models = append(models, resolved)
	}
	return models
}

// invokeModel runs the attempt loop for a single model.
func (p *Pipeline) invokeModel(ctx context.Context, prompt, model string, opts Options) (string, error) {
	maxAttempts := p.cfg.Agent.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	useTool := p.cfg.Agent.EnableSearchTool

	var lastErr error
	delay := backoffBase
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := p.complete(ctx, prompt, model, useTool)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// A failure the backend blames on the attached tool gets one
		// immediate retry without it; that retry does not consume an
		// attempt from the budget.
		if useTool && agent.IsToolError(err) {
			p.log.Warn("tool-attributed failure, retrying without tool",
				zap.String("model", model), zap.Error(err))
			useTool = false
			text, err = p.complete(ctx, prompt, model, useTool)
			if err == nil {
				return text, nil
			}
			lastErr = err
		}

		if !agent.ClassifyError(lastErr).Transient() {
			return "", lastErr
		}
		if attempt == maxAttempts {
			break
		}

		metrics.Default().IncAgentRetry(model)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2
	}
	return "", lastErr
}

func (p *Pipeline) complete(ctx context.Context, prompt, model string, useTool bool) (string, error) {
	callCtx := ctx
	if p.cfg.Agent.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.cfg.Agent.Timeout)
		defer cancel()
	}
	return p.deps.Agent.Complete(callCtx, agent.Request{
		Prompt:        prompt,
		Model:         model,
		UseSearchTool: useTool,
	})
}
