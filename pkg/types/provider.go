// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ErrorKind classifies a failed provider call. Transient kinds are eligible
// for retry with backoff; all other kinds degrade immediately.
type ErrorKind string

const (
	ErrTimeout         ErrorKind = "timeout"
	ErrRateLimited     ErrorKind = "rate_limited"
	ErrNotFound        ErrorKind = "not_found"
	ErrTransientServer ErrorKind = "transient_server_error"
	ErrUnknown         ErrorKind = "unknown"
)

// Transient reports whether a call failing with this kind may succeed on retry.
func (k ErrorKind) Transient() bool {
	switch k {
	case ErrTimeout, ErrRateLimited, ErrTransientServer:
		return true
	}
	return false
}

// ProviderResult is the outcome of one external call. Operational failures
// are carried as values here, never as Go errors: a provider returns
// Succeeded=false with an ErrorKind and the pipeline decides whether to
// retry or fall back.
type ProviderResult struct {
	// Provider identifies which client produced this result.
	Provider string `json:"provider" yaml:"provider"`

	// Succeeded reports whether the call returned a usable payload.
	Succeeded bool `json:"succeeded" yaml:"succeeded"`

	// Payload is the capability-specific result (Entity, []LiteratureHit,
	// Metadata, ...). Nil when the call failed.
	Payload any `json:"-" yaml:"-"`

	// ErrorKind classifies the failure. Empty on success.
	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Detail is a short human-readable failure description.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// Latency is the wall-clock duration of the call.
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// Success builds a successful ProviderResult.
func Success(provider string, payload any, latency time.Duration) ProviderResult {
	return ProviderResult{
		Provider:  provider,
		Succeeded: true,
		Payload:   payload,
		Latency:   latency,
	}
}

// Failure builds a failed ProviderResult.
func Failure(provider string, kind ErrorKind, detail string, latency time.Duration) ProviderResult {
	return ProviderResult{
		Provider:  provider,
		ErrorKind: kind,
		Detail:    detail,
		Latency:   latency,
	}
}
