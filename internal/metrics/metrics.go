// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides a minimal instrumentation interface with a no-op
// default and an optional Prometheus-backed implementation.
package metrics

import (
	"sync"
	"time"
)

// Recorder defines the instrumentation surface used by the pipeline.
type Recorder interface {
	IncProviderCall(provider string, success bool)
	ObserveProviderSeconds(provider string, success bool, seconds float64)
	IncFallback(capability string)
	IncAgentRetry(model string)
	IncRun(degraded bool)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (noopRecorder) IncProviderCall(string, bool)                {}
func (noopRecorder) ObserveProviderSeconds(string, bool, float64) {}
func (noopRecorder) IncFallback(string)                          {}
func (noopRecorder) IncAgentRetry(string)                        {}
func (noopRecorder) IncRun(bool)                                 {}

var (
	recMu    sync.RWMutex
	recorder Recorder = noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeProvider times one provider call and records both the counter and
// the latency observation.
func TimeProvider(provider string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncProviderCall(provider, success)
		Default().ObserveProviderSeconds(provider, success, dur)
	}
}
