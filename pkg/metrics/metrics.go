package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects the counters the HTTP layer and provider clients report into.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	ProviderCalls *prometheus.CounterVec
	PollerTicks   *prometheus.CounterVec
	LLMTokens     *prometheus.CounterVec
}

// NewRegistry builds an isolated Prometheus registry with the service collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartliving",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, path and status class.",
		}, []string{"method", "path", "status"}),
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartliving",
			Name:      "provider_calls_total",
			Help:      "Upstream provider calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		PollerTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartliving",
			Name:      "telemetry_poll_ticks_total",
			Help:      "Telemetry poll ticks, by outcome (ok, failed, skipped).",
		}, []string{"outcome"}),
		LLMTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartliving",
			Name:      "llm_tokens_total",
			Help:      "LLM tokens consumed, by model and kind (prompt, completion).",
		}, []string{"model", "kind"}),
	}
}

// Gatherer exposes the registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ReportProvider is a convenience wrapper used by infra clients.
func (r *Registry) ReportProvider(provider string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.ProviderCalls.WithLabelValues(provider, outcome).Inc()
}
