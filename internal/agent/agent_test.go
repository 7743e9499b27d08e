// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"default alias", "gemini", "gemini-2.5-pro"},
		{"pro alias", "gemini-pro", "gemini-2.5-pro"},
		{"flash alias", "flash", "gemini-2.5-flash"},
		{"case insensitive", "GEMINI-FLASH", "gemini-2.5-flash"},
		{"whitespace trimmed", "  gemini-pro ", "gemini-2.5-pro"},
		{"full identifier passes through", "gemini-2.0-pro-exp", "gemini-2.0-pro-exp"},
		{"unknown passes through", "some-other-model", "some-other-model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModel(tt.in); got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToolError(t *testing.T) {
	base := errors.New("google_search quota exceeded")
	err := &ToolError{Err: base}

	if !IsToolError(err) {
		t.Error("IsToolError should detect a direct ToolError")
	}
	if !IsToolError(fmt.Errorf("completing: %w", err)) {
		t.Error("IsToolError should detect a wrapped ToolError")
	}
	if IsToolError(base) {
		t.Error("IsToolError should not fire on the underlying error")
	}
	if !errors.Is(err, base) {
		t.Error("ToolError should unwrap to the underlying error")
	}
}

func TestLooksToolAttributed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"tool mention", errors.New("tool invocation failed"), true},
		{"google_search mention", errors.New("google_search unavailable"), true},
		{"grounding mention", errors.New("grounding backend error"), true},
		{"plain quota error", errors.New("quota exceeded"), false},
		{"plain server error", errors.New("internal error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksToolAttributed(tt.err); got != tt.want {
				t.Errorf("looksToolAttributed(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGeminiUnavailableWithoutKey(t *testing.T) {
	g := &Gemini{}
	if g.Available() {
		t.Error("backend without a client should report unavailable")
	}
	if _, err := g.Complete(context.Background(), Request{Prompt: "x", Model: "gemini-2.5-pro"}); err == nil {
		t.Error("Complete without a client should error")
	}
}
