/*
scoring.go - Scoring Engine

PURPOSE:
  Normalizes performance metrics across the cohort and computes a weighted
  performance score per employee.

NORMALIZATION:
  Each metric is scaled by the cohort maximum (with a floor of 1 to avoid
  division by zero): norm = value / max(cohortMax, 1). This is pure
  cohort-relative normalization - one outstanding employee suppresses
  everyone else's normalized values toward zero. That is the intended
  trade-off, not a bug: scores compare staff within the same query, never
  across queries.

EXPLAINABILITY:
  The per-component breakdown is retained on every result so a score can be
  decomposed in responses and asserted on in tests.
*/
package perf

// =============================================================================
// SCORING CONFIG - Injectable weights, overridable per tenant
// =============================================================================

// ScoringConfig is a value object carrying the scoring weights. It is passed
// per call; there is no package-level mutable default.
type ScoringConfig struct {
	SalesWeight           float64 `json:"sales_weight"`
	AvgCheckWeight        float64 `json:"avg_check_weight"`
	VoidPenaltyWeight     float64 `json:"void_penalty_weight"`
	DiscountPenaltyWeight float64 `json:"discount_penalty_weight"`
	NoDrinksPenaltyWeight float64 `json:"no_drinks_penalty_weight"`
	AnomalyPenaltyWeight  float64 `json:"anomaly_penalty_weight"`
}

// DefaultScoringConfig returns the standard weight set.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		SalesWeight:           0.40,
		AvgCheckWeight:        0.20,
		VoidPenaltyWeight:     0.15,
		DiscountPenaltyWeight: 0.10,
		NoDrinksPenaltyWeight: 0.05,
		AnomalyPenaltyWeight:  0.10,
	}
}

// =============================================================================
// SCORE BREAKDOWN - Per-component explainability
// =============================================================================

// ScoreBreakdown records the normalized inputs and weighted components that
// produced a performance score.
type ScoreBreakdown struct {
	SalesNorm    float64 `json:"sales_norm"`
	AvgCheckNorm float64 `json:"avg_check_norm"`
	VoidNorm     float64 `json:"void_norm"`
	DiscountNorm float64 `json:"discount_norm"`
	NoDrinksRate float64 `json:"no_drinks_rate"`
	AnomalyNorm  float64 `json:"anomaly_norm"`

	SalesComponent    float64 `json:"sales_component"`
	AvgCheckComponent float64 `json:"avg_check_component"`
	VoidPenalty       float64 `json:"void_penalty"`
	DiscountPenalty   float64 `json:"discount_penalty"`
	NoDrinksPenalty   float64 `json:"no_drinks_penalty"`
	AnomalyPenalty    float64 `json:"anomaly_penalty"`
}

// ScoredMetric pairs a performance metric with its weighted score.
type ScoredMetric struct {
	Metric    PerformanceMetric
	Score     float64
	Breakdown ScoreBreakdown
}

// =============================================================================
// COHORT SCORING
// =============================================================================

// cohortMaxima holds the normalization denominators, floored at 1.
type cohortMaxima struct {
	sales    float64
	avgCheck float64
	voids    float64
	discount float64
	anomaly  float64
}

func maxima(metrics []PerformanceMetric) cohortMaxima {
	m := cohortMaxima{sales: 1, avgCheck: 1, voids: 1, discount: 1, anomaly: 1}
	for _, pm := range metrics {
		if v := pm.TotalSales.InexactFloat64(); v > m.sales {
			m.sales = v
		}
		if v := pm.AvgCheckSize.InexactFloat64(); v > m.avgCheck {
			m.avgCheck = v
		}
		if v := pm.VoidValue.InexactFloat64(); v > m.voids {
			m.voids = v
		}
		if v := pm.DiscountValue.InexactFloat64(); v > m.discount {
			m.discount = v
		}
		if pm.AnomalyScore > m.anomaly {
			m.anomaly = pm.AnomalyScore
		}
	}
	return m
}

// ScoreCohort computes the weighted performance score for every metric in
// the cohort. Input order is preserved.
func ScoreCohort(metrics []PerformanceMetric, cfg ScoringConfig) []ScoredMetric {
	max := maxima(metrics)

	scored := make([]ScoredMetric, len(metrics))
	for i, pm := range metrics {
		b := ScoreBreakdown{
			SalesNorm:    pm.TotalSales.InexactFloat64() / max.sales,
			AvgCheckNorm: pm.AvgCheckSize.InexactFloat64() / max.avgCheck,
			VoidNorm:     pm.VoidValue.InexactFloat64() / max.voids,
			DiscountNorm: pm.DiscountValue.InexactFloat64() / max.discount,
			NoDrinksRate: pm.NoDrinksRate,
			AnomalyNorm:  pm.AnomalyScore / max.anomaly,
		}

		b.SalesComponent = cfg.SalesWeight * b.SalesNorm
		b.AvgCheckComponent = cfg.AvgCheckWeight * b.AvgCheckNorm
		b.VoidPenalty = cfg.VoidPenaltyWeight * b.VoidNorm
		b.DiscountPenalty = cfg.DiscountPenaltyWeight * b.DiscountNorm
		b.NoDrinksPenalty = cfg.NoDrinksPenaltyWeight * b.NoDrinksRate
		b.AnomalyPenalty = cfg.AnomalyPenaltyWeight * b.AnomalyNorm

		score := b.SalesComponent + b.AvgCheckComponent -
			b.VoidPenalty - b.DiscountPenalty - b.NoDrinksPenalty - b.AnomalyPenalty

		scored[i] = ScoredMetric{Metric: pm, Score: score, Breakdown: b}
	}
	return scored
}
