/*
engine.go - Pipeline orchestrator

PURPOSE:
  Runs the full computation for one scope and period: collect performance
  metrics, calculate reliability, fetch risk flags - concurrently, since the
  reads have no data dependency - then join, score, rank, and filter.

FAILURE POLICY:
  Order/void/discount/anomaly/attendance/shift/directory failures abort the
  run. A risk-source failure degrades to "no risk flags attached" with a
  logged warning, so one collaborator outage does not take down ranking.

STATE:
  The engine is stateless; every call recomputes from scratch over the full
  window. There is no incremental path.
*/
package perf

import (
	"context"
	"log"
	"sync"
	"time"
)

// Engine wires the collector, the reliability calculator, and the risk
// source into the full ranking pipeline.
type Engine struct {
	Sources Sources

	collector   *Collector
	reliability *ReliabilityCalculator
}

// NewEngine builds an engine over the given sources.
func NewEngine(s Sources) *Engine {
	return &Engine{
		Sources:     s,
		collector:   &Collector{Orders: s.Orders, Voids: s.Voids, Discounts: s.Discounts, Anomalies: s.Anomalies},
		reliability: &ReliabilityCalculator{Attendance: s.Attendance, Shifts: s.Shifts, Directory: s.Directory},
	}
}

// Ranking is the result of one pipeline run.
type Ranking struct {
	Scope  Scope
	Period Period

	// All holds every observed employee with full-set ranks and eligibility
	// marks. Eligible holds only passing entries, re-ranked densely 1..M.
	All      []RankedStaff
	Eligible []RankedStaff
}

// Top returns the first n eligible entries (fewer if the set is smaller).
func (r *Ranking) Top(n int) []RankedStaff {
	if n > len(r.Eligible) {
		n = len(r.Eligible)
	}
	return r.Eligible[:n]
}

// Bottom returns the last n entries of the full ranking - the risk-staff
// view. Eligibility does not gate this: a critical-risk employee is exactly
// who this view is for.
func (r *Ranking) Bottom(n int) []RankedStaff {
	if n > len(r.All) {
		n = len(r.All)
	}
	out := make([]RankedStaff, n)
	for i := 0; i < n; i++ {
		out[i] = r.All[len(r.All)-1-i]
	}
	return out
}

// CollectMetrics exposes the raw per-employee metrics for a window.
func (e *Engine) CollectMetrics(ctx context.Context, scope Scope, w Window) ([]PerformanceMetric, error) {
	return e.collector.Collect(ctx, scope, w)
}

// Rank executes the pipeline for a resolved period. A nil rules pointer
// selects the default rule set for the period type.
func (e *Engine) Rank(ctx context.Context, scope Scope, period Period, cfg ScoringConfig, rules *EligibilityRules) (*Ranking, error) {
	w := PeriodWindow(period)
	if err := w.Validate(); err != nil {
		return nil, err
	}

	var (
		wg sync.WaitGroup

		metrics     []PerformanceMetric
		metricsErr  error
		relMetrics  []ReliabilityMetric
		relErr      error
		roster      []Employee
		rosterErr   error
		riskByStaff map[EmployeeID][]RiskFlag
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		metrics, metricsErr = e.collector.Collect(ctx, scope, w)
	}()
	go func() {
		defer wg.Done()
		relMetrics, relErr = e.reliability.Calculate(ctx, scope, w)
	}()
	go func() {
		defer wg.Done()
		roster, rosterErr = e.Sources.Directory.Employees(ctx, scope)
	}()
	go func() {
		defer wg.Done()
		flags, err := e.Sources.Risk.RiskFlagsInWindow(ctx, scope, w.From, w.To)
		if err != nil {
			// Degrade, don't abort: ranking proceeds without flags.
			log.Printf("[perf] risk source unavailable, continuing without flags: %v", err)
			return
		}
		riskByStaff = flags
	}()
	wg.Wait()

	for _, err := range []error{metricsErr, relErr, rosterErr} {
		if err != nil {
			return nil, err
		}
	}

	scored := ScoreCohort(metrics, cfg)
	all := MergeAndRank(scored, relMetrics, roster, riskByStaff, period.End)

	r := rules
	if r == nil {
		def := RulesForPeriod(period.Type)
		r = &def
	}
	eligible := ApplyEligibility(all, *r)

	return &Ranking{Scope: scope, Period: period, All: all, Eligible: eligible}, nil
}

// RankAt resolves the period for a reference date and runs the pipeline.
func (e *Engine) RankAt(ctx context.Context, scope Scope, pt PeriodType, ref time.Time, cfg ScoringConfig, rules *EligibilityRules) (*Ranking, error) {
	return e.Rank(ctx, scope, ResolvePeriod(pt, ref), cfg, rules)
}
