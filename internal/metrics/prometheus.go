// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	providerTotal   *prom.CounterVec
	providerSeconds *prom.HistogramVec
	fallbackTotal   *prom.CounterVec
	retryTotal      *prom.CounterVec
	runTotal        *prom.CounterVec
}

func (p *promRecorder) IncProviderCall(provider string, success bool) {
	p.providerTotal.WithLabelValues(provider, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveProviderSeconds(provider string, success bool, seconds float64) {
	p.providerSeconds.WithLabelValues(provider, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncFallback(capability string) {
	p.fallbackTotal.WithLabelValues(capability).Inc()
}

func (p *promRecorder) IncAgentRetry(model string) {
	p.retryTotal.WithLabelValues(model).Inc()
}

func (p *promRecorder) IncRun(degraded bool) {
	p.runTotal.WithLabelValues(fmt.Sprintf("%t", degraded)).Inc()
}

// EnablePrometheus installs a Prometheus-backed recorder and serves
// /metrics and /healthz on addr.
func EnablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		providerTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of external provider calls",
		}, []string{"provider", "success"}),
		providerSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "provider_call_seconds",
			Help:    "External provider call duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"provider", "success"}),
		fallbackTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "capability_fallbacks_total",
			Help: "Total number of capability fallbacks",
		}, []string{"capability"}),
		retryTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "agent_retries_total",
			Help: "Total number of agent invocation retries",
		}, []string{"model"}),
		runTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs",
		}, []string{"degraded"}),
	}

	registry.MustRegister(p.providerTotal, p.providerSeconds, p.fallbackTotal, p.retryTotal, p.runTotal)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
