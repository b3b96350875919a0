/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Process-level counters and timings for the operational surface: events
  ingested, rankings computed and timed, awards granted, suggestions
  created, decisions applied. Exposed on /metrics via promhttp (see
  server.go).
*/
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_events_ingested_total",
		Help: "Events accepted by the ingestion endpoints, by kind.",
	}, []string{"kind"})

	rankingsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_rankings_computed_total",
		Help: "Ranking computations served, by period type.",
	}, []string{"period"})

	rankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "perf_ranking_duration_seconds",
		Help:    "Wall time of a full ranking computation.",
		Buckets: prometheus.DefBuckets,
	})

	awardsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_awards_granted_total",
		Help: "Awards persisted, by category.",
	}, []string{"category"})

	suggestionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_suggestions_created_total",
		Help: "New suggestion rows created by generation runs.",
	})

	decisionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_suggestion_decisions_total",
		Help: "Suggestion status updates applied, by target status.",
	}, []string{"status"})

	schedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_scheduler_runs_total",
		Help: "Scheduled generation runs, by outcome.",
	}, []string{"outcome"})
)
