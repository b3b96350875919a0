/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, shifts,
	attendance, and sales events that demonstrate specific features.

AVAILABLE SCENARIOS:

	steady-month:   Four servers with a clean month of sales, good for
	                ranking and award demos
	training-gaps:  Servers whose numbers trip each training rule (low
	                checks, void spikes, missing drink sales)
	risk-audit:     Strong sellers undermined by risk flags and absences,
	                good for eligibility and risk-staff demos

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees
 3. Schedule shifts and record attendance for the current month
 4. Ingest orders, voids, discounts, anomalies, and risk flags

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "training-gaps"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - server.go: Scenario routes
  - store/sqlite/sqlite.go: Reset
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-month",
		Name:        "Steady Month",
		Description: "Four servers with a clean month of sales and full attendance",
		Category:    "ranking",
	},
	{
		ID:          "training-gaps",
		Name:        "Training Gaps",
		Description: "Low checks, void spikes, and missing drink sales trigger each training rule",
		Category:    "suggestions",
	},
	{
		ID:          "risk-audit",
		Name:        "Risk Audit",
		Description: "Strong sellers undermined by risk flags, anomalies, and absences",
		Category:    "risk",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	loader := scenarioLoader{
		handler: h,
		scope:   perf.Scope{OrgID: h.DefaultOrgID, BranchID: "main"},
		month:   monthStart(time.Now().UTC()),
	}

	var err error
	switch req.ScenarioID {
	case "steady-month":
		err = loader.loadSteadyMonth(ctx)
	case "training-gaps":
		err = loader.loadTrainingGaps(ctx)
	case "risk-audit":
		err = loader.loadRiskAudit(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioLoader seeds one scenario anchored to the current month.
type scenarioLoader struct {
	handler *Handler
	scope   perf.Scope
	month   time.Time
}

func (l scenarioLoader) day(d int) time.Time {
	return l.month.AddDate(0, 0, d-1)
}

// seedEmployee saves one active employee and a run of scheduled shifts with
// the given attendance statuses, one per shift day starting on the 1st.
func (l scenarioLoader) seedEmployee(ctx context.Context, id, name string, tenureMonths int, attendance []perf.AttendanceStatus) error {
	emp := perf.Employee{
		ID:       perf.EmployeeID(id),
		Name:     name,
		Active:   true,
		HireDate: l.month.AddDate(0, -tenureMonths, 0),
	}
	if err := l.handler.Store.SaveEmployee(ctx, l.scope, emp); err != nil {
		return err
	}

	for i, status := range attendance {
		date := l.day(i + 1)
		shiftID := fmt.Sprintf("%s-shift-%02d", id, i+1)
		shift := perf.DutyShift{ID: shiftID, EmployeeID: emp.ID, Date: date}
		if err := l.handler.Store.SaveShift(ctx, l.scope, shift); err != nil {
			return err
		}
		rec := perf.AttendanceRecord{EmployeeID: emp.ID, Date: date, Status: status}
		if err := l.handler.Store.SaveAttendance(ctx, l.scope, shiftID+"-att", rec); err != nil {
			return err
		}
	}
	return nil
}

// seedOrders spreads count closed orders across the month.
func (l scenarioLoader) seedOrders(ctx context.Context, id string, count int, avgCheck int64, noDrinksEvery int) error {
	for i := 0; i < count; i++ {
		order := perf.Order{
			ID:         fmt.Sprintf("%s-order-%03d", id, i),
			EmployeeID: perf.EmployeeID(id),
			Status:     perf.OrderClosed,
			Total:      decimal.NewFromInt(avgCheck),
			ClosedAt:   l.day(i%18 + 1).Add(time.Duration(11+i%8) * time.Hour),
		}
		if noDrinksEvery > 0 && i%noDrinksEvery == 0 {
			order.NoDrinks = true
		}
		if err := l.handler.Store.SaveOrder(ctx, l.scope, order); err != nil {
			return err
		}
	}
	return nil
}

func allPresent(n int) []perf.AttendanceStatus {
	statuses := make([]perf.AttendanceStatus, n)
	for i := range statuses {
		statuses[i] = perf.AttendancePresent
	}
	return statuses
}

func (l scenarioLoader) loadSteadyMonth(ctx context.Context) error {
	// A clean cohort: every eligibility gate passes, sales spread wide
	// enough that ranks, normalization, and award picks are all visible.
	servers := []struct {
		id, name string
		tenure   int
		orders   int
		avgCheck int64
	}{
		{"emp-ava", "Ava Chen", 36, 30, 18000},
		{"emp-ben", "Ben Ortiz", 24, 24, 16500},
		{"emp-cara", "Cara Singh", 12, 18, 15500},
		{"emp-dan", "Dan Petrov", 4, 12, 15200},
	}
	for _, s := range servers {
		if err := l.seedEmployee(ctx, s.id, s.name, s.tenure, allPresent(18)); err != nil {
			return err
		}
		if err := l.seedOrders(ctx, s.id, s.orders, s.avgCheck, 0); err != nil {
			return err
		}
	}
	return nil
}

func (l scenarioLoader) loadTrainingGaps(ctx context.Context) error {
	// One server per training rule, in rule order.
	if err := l.seedEmployee(ctx, "emp-lena", "Lena Brooks", 6, allPresent(16)); err != nil {
		return err
	}
	// Low checks: well under the upsell floor
	if err := l.seedOrders(ctx, "emp-lena", 20, 6000, 0); err != nil {
		return err
	}

	if err := l.seedEmployee(ctx, "emp-marc", "Marc Fontaine", 18, allPresent(16)); err != nil {
		return err
	}
	// Healthy checks but a void spike
	if err := l.seedOrders(ctx, "emp-marc", 20, 17000, 0); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		void := perf.VoidEvent{
			ID:      fmt.Sprintf("emp-marc-void-%d", i),
			ActorID: "emp-marc",
			Amount:  decimal.NewFromInt(4500),
			At:      l.day(5 + i*4).Add(21 * time.Hour),
		}
		if err := l.handler.Store.SaveVoidEvent(ctx, l.scope, void); err != nil {
			return err
		}
	}

	if err := l.seedEmployee(ctx, "emp-nora", "Nora Ellis", 9, allPresent(16)); err != nil {
		return err
	}
	// Every third ticket goes out without drinks
	return l.seedOrders(ctx, "emp-nora", 21, 17500, 3)
}

func (l scenarioLoader) loadRiskAudit(ctx context.Context) error {
	// Top seller with a critical flag: ranked first in the full list but
	// filtered from awards.
	if err := l.seedEmployee(ctx, "emp-omar", "Omar Haddad", 30, allPresent(18)); err != nil {
		return err
	}
	if err := l.seedOrders(ctx, "emp-omar", 32, 19000, 0); err != nil {
		return err
	}
	flag := perf.RiskFlag{
		Code:     "CASH_DRAWER_VARIANCE",
		Severity: perf.SeverityCritical,
		Detail:   "Repeated end-of-shift drawer shortfalls",
	}
	if err := l.handler.Store.SaveRiskFlag(ctx, l.scope, "rf-omar", "emp-omar", flag, l.day(9)); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		anomaly := perf.AnomalyEvent{
			ID:        fmt.Sprintf("emp-omar-anomaly-%d", i),
			SubjectID: "emp-omar",
			Severity:  perf.SeverityWarn,
			At:        l.day(8 + i*2).Add(22 * time.Hour),
		}
		if err := l.handler.Store.SaveAnomalyEvent(ctx, l.scope, anomaly); err != nil {
			return err
		}
	}

	// Solid seller who misses the absence gate
	attendance := allPresent(18)
	for _, d := range []int{3, 7, 11, 14, 16} {
		attendance[d] = perf.AttendanceAbsent
	}
	if err := l.seedEmployee(ctx, "emp-pia", "Pia Novak", 20, attendance); err != nil {
		return err
	}
	if err := l.seedOrders(ctx, "emp-pia", 22, 17800, 0); err != nil {
		return err
	}

	// Quiet baseline so the ranking has an eligible winner
	if err := l.seedEmployee(ctx, "emp-ruth", "Ruth Kimathi", 15, allPresent(18)); err != nil {
		return err
	}
	return l.seedOrders(ctx, "emp-ruth", 20, 16000, 0)
}
