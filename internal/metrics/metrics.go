/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exposes the gateway's Prometheus instrumentation. It
// is process-global, mirroring the teacher's internal/metrics package,
// but registers against a private registry rather than
// controller-runtime's shared one, since this gateway is not a
// Kubernetes controller.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Registry is the private Prometheus registry the HTTP frontend
	// exposes at GET /metrics.
	Registry = prometheus.NewRegistry()

	// Router metrics.

	RouteDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariv_route_decisions_total",
			Help: "Total number of routing decisions, labeled by selected model and whether a fallback fired.",
		},
		[]string{"model", "fallback"},
	)

	// Resident manager metrics.

	ResidentModelsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ariv_resident_models",
			Help: "Current number of models tracked as resident by the manager.",
		},
	)

	ModelEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ariv_model_evictions_total",
			Help: "Total number of model evictions triggered by LRU pressure.",
		},
	)

	// Streaming runner metrics.

	RunnerSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariv_runner_sessions_total",
			Help: "Total number of runner sessions, labeled by terminal state.",
		},
		[]string{"state"}, // succeeded | failed
	)

	RunnerTokensEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ariv_runner_tokens_emitted_total",
			Help: "Total number of tokens emitted across all runner sessions.",
		},
	)

	RunnerSessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariv_runner_session_duration_seconds",
			Help:    "Wall-clock duration of a runner session from spawn to terminal state.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// Benchmark harness metrics.

	BenchmarkRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariv_benchmark_runs_total",
			Help: "Total number of benchmark harness invocations, labeled by model.",
		},
		[]string{"model"},
	)

	BenchmarkThroughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ariv_benchmark_throughput_tokens_per_second",
			Help: "Most recent measured throughput for a (model, lang, subset) benchmark.",
		},
		[]string{"model", "lang", "subset"},
	)

	// HTTP frontend metrics.

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariv_http_requests_total",
			Help: "Total number of HTTP requests, labeled by route and status class.",
		},
		[]string{"route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		RouteDecisionsTotal,
		ResidentModelsGauge,
		ModelEvictionsTotal,
		RunnerSessionsTotal,
		RunnerTokensEmittedTotal,
		RunnerSessionDuration,
		BenchmarkRunsTotal,
		BenchmarkThroughput,
		HTTPRequestsTotal,
	)
}
