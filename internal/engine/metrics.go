package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "engine",
		Name:      "turns_total",
		Help:      "Turns answered, by reply source",
	}, []string{"source"})

	intentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "engine",
		Name:      "intents_total",
		Help:      "Classified intents",
	}, []string{"intent"})

	contextRulesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "engine",
		Name:      "context_rules_total",
		Help:      "Context short-circuits by rule",
	}, []string{"rule"})

	matcherFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "matcher",
		Name:      "failures_total",
		Help:      "External matcher queries that failed or timed out",
	})

	teachTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "knowledge",
		Name:      "teach_total",
		Help:      "Teach commands by outcome",
	}, []string{"outcome"})

	persistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "futurechat",
		Subsystem: "knowledge",
		Name:      "persist_failures_total",
		Help:      "Knowledge store saves that failed",
	})

	turnLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "futurechat",
		Subsystem: "engine",
		Name:      "turn_latency_seconds",
		Help:      "Time to answer one turn",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
	})
)
