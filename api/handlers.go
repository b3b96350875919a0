/*
handlers.go - HTTP API handlers for the performance ranking system

PURPOSE:
  Exposes the ranking engine and decision workflow via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees               List employees
    POST   /api/employees               Create or update employee
    GET    /api/employees/{id}          Get employee details

  Events (ingestion):
    POST   /api/events/orders           Record an order
    POST   /api/events/voids            Record a void audit entry
    POST   /api/events/discounts        Record a discount
    POST   /api/events/anomalies        Record an anomaly event
    POST   /api/events/attendance       Record a per-day attendance entry
    POST   /api/events/shifts           Record a scheduled shift
    POST   /api/events/risk-flags       Record an external risk flag

  Performance:
    GET    /api/performance/metrics     Raw aggregated metrics for a window
    GET    /api/performance/ranking     Full ranked list for a period
    GET    /api/performance/top         Top N eligible staff
    GET    /api/performance/risk-staff  Bottom N of the full ranking

  Awards:
    GET    /api/awards/preview          Recommend a winner without persisting
    POST   /api/awards                  Select and persist an award
    GET    /api/awards                  List persisted awards

  Scenarios (demo):
    GET    /api/scenarios               List available demo scenarios
    GET    /api/scenarios/current       Currently loaded scenario
    POST   /api/scenarios/load          Reset and load a demo scenario

  Suggestions:
    GET    /api/suggestions/preview     Generate without persisting
    POST   /api/suggestions/generate    Generate and persist (idempotent)
    GET    /api/suggestions             List persisted suggestions
    GET    /api/suggestions/{id}        Get one suggestion
    PUT    /api/suggestions/{id}/status Apply a decision

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Workflow: ranking engine + decision persistence
  - Store: database access for ingestion and employee management

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (decision already locked)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - review/workflow.go: The decision workflow the handlers delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
	"github.com/warp/performance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Workflow *review.Workflow
	Store    *sqlite.Store

	// DefaultOrgID scopes requests that do not carry ?org=.
	DefaultOrgID string

	currentScenario string
}

// NewHandler creates a new handler backed by the given store and workflow.
func NewHandler(store *sqlite.Store, wf *review.Workflow, defaultOrg string) *Handler {
	return &Handler{Workflow: wf, Store: store, DefaultOrgID: defaultOrg}
}

// scope reads org/branch query parameters with the default org fallback.
func (h *Handler) scope(r *http.Request) perf.Scope {
	org := r.URL.Query().Get("org")
	if org == "" {
		org = h.DefaultOrgID
	}
	return perf.Scope{OrgID: org, BranchID: r.URL.Query().Get("branch")}
}

// periodParams reads the period type and reference date.
func periodParams(r *http.Request) (perf.PeriodType, time.Time, error) {
	pt, ok := perf.ParsePeriodType(r.URL.Query().Get("period"))
	if !ok {
		if r.URL.Query().Get("period") == "" {
			pt = perf.PeriodMonth
		} else {
			return "", time.Time{}, fmt.Errorf("unknown period %q", r.URL.Query().Get("period"))
		}
	}
	ref := time.Now().UTC()
	if raw := r.URL.Query().Get("ref"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("invalid ref date %q (use YYYY-MM-DD)", raw)
		}
		ref = parsed
	}
	return pt, ref, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees in scope.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.Employees(r.Context(), h.scope(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), perf.EmployeeID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// UpsertEmployee creates or updates an employee.
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	emp := perf.Employee{
		ID:       perf.EmployeeID(req.ID),
		Name:     req.Name,
		Active:   active,
		HireDate: hireDate,
	}
	if err := h.Store.SaveEmployee(r.Context(), h.scope(r), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func toEmployeeDTO(e perf.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Active:   e.Active,
		HireDate: e.HireDate.Format("2006-01-02"),
	}
}

// =============================================================================
// EVENT INGESTION HANDLERS
// =============================================================================

// RecordOrder ingests one order.
func (h *Handler) RecordOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total", err)
		return
	}
	closedAt, err := time.Parse(time.RFC3339, req.ClosedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid closed_at (use RFC3339)", err)
		return
	}

	order := perf.Order{
		ID:         req.ID,
		EmployeeID: perf.EmployeeID(req.EmployeeID),
		Status:     perf.OrderStatus(req.Status),
		Total:      total,
		NoDrinks:   req.NoDrinks,
		ClosedAt:   closedAt,
	}
	if err := h.Store.SaveOrder(r.Context(), h.scope(r), order); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save order", err)
		return
	}
	eventsIngested.WithLabelValues("order").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": order.ID})
}

// RecordVoid ingests one void audit entry.
func (h *Handler) RecordVoid(w http.ResponseWriter, r *http.Request) {
	var req VoidEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at (use RFC3339)", err)
		return
	}

	ev := perf.VoidEvent{ID: req.ID, ActorID: perf.EmployeeID(req.ActorID), Amount: amount, At: at}
	if err := h.Store.SaveVoidEvent(r.Context(), h.scope(r), ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save void event", err)
		return
	}
	eventsIngested.WithLabelValues("void").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": ev.ID})
}

// RecordDiscount ingests one discount record.
func (h *Handler) RecordDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid value", err)
		return
	}
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at (use RFC3339)", err)
		return
	}

	d := perf.Discount{ID: req.ID, EmployeeID: perf.EmployeeID(req.EmployeeID), Value: value, At: at}
	if err := h.Store.SaveDiscount(r.Context(), h.scope(r), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save discount", err)
		return
	}
	eventsIngested.WithLabelValues("discount").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": d.ID})
}

// RecordAnomaly ingests one anomaly event.
func (h *Handler) RecordAnomaly(w http.ResponseWriter, r *http.Request) {
	var req AnomalyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	severity, ok := perf.ParseRiskSeverity(req.Severity)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid severity (use INFO, WARN or CRITICAL)", nil)
		return
	}
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at (use RFC3339)", err)
		return
	}

	ev := perf.AnomalyEvent{ID: req.ID, SubjectID: perf.EmployeeID(req.EmployeeID), Severity: severity, At: at}
	if err := h.Store.SaveAnomalyEvent(r.Context(), h.scope(r), ev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save anomaly event", err)
		return
	}
	eventsIngested.WithLabelValues("anomaly").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": ev.ID})
}

// RecordAttendance ingests one per-day attendance record.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	switch perf.AttendanceStatus(req.Status) {
	case perf.AttendancePresent, perf.AttendanceAbsent, perf.AttendanceLate, perf.AttendanceLeftEarly:
	default:
		writeError(w, http.StatusBadRequest, "Invalid attendance status", nil)
		return
	}

	rec := perf.AttendanceRecord{
		EmployeeID: perf.EmployeeID(req.EmployeeID),
		Date:       date,
		Status:     perf.AttendanceStatus(req.Status),
		CoverFor:   perf.EmployeeID(req.CoverFor),
	}
	if err := h.Store.SaveAttendance(r.Context(), h.scope(r), req.ID, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}
	eventsIngested.WithLabelValues("attendance").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// RecordShift ingests one scheduled duty shift.
func (h *Handler) RecordShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	sh := perf.DutyShift{ID: req.ID, EmployeeID: perf.EmployeeID(req.EmployeeID), Date: date}
	if err := h.Store.SaveShift(r.Context(), h.scope(r), sh); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	eventsIngested.WithLabelValues("shift").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": sh.ID})
}

// RecordRiskFlag ingests one external risk flag.
func (h *Handler) RecordRiskFlag(w http.ResponseWriter, r *http.Request) {
	var req RiskFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	severity, ok := perf.ParseRiskSeverity(req.Severity)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid severity (use INFO, WARN or CRITICAL)", nil)
		return
	}
	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at (use RFC3339)", err)
		return
	}

	flag := perf.RiskFlag{Code: req.Code, Severity: severity, Detail: req.Detail}
	if err := h.Store.SaveRiskFlag(r.Context(), h.scope(r), req.ID, perf.EmployeeID(req.EmployeeID), flag, at); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save risk flag", err)
		return
	}
	eventsIngested.WithLabelValues("risk_flag").Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

// =============================================================================
// PERFORMANCE HANDLERS
// =============================================================================

// GetMetrics returns raw aggregated performance metrics. The window comes
// from a ?shift= id (that shift's day), an explicit ?from=/?to= date range,
// or the period parameters, in that order of precedence.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	window, ok := h.metricsWindow(w, r)
	if !ok {
		return
	}

	metrics, err := h.Workflow.Engine.CollectMetrics(r.Context(), h.scope(r), window)
	if err != nil {
		h.writeDomainError(w, "Failed to collect metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, metricsToDTO(metrics))
}

// metricsWindow resolves the aggregation window for GetMetrics. On failure
// it writes the response and returns ok=false.
func (h *Handler) metricsWindow(w http.ResponseWriter, r *http.Request) (perf.Window, bool) {
	if shiftID := r.URL.Query().Get("shift"); shiftID != "" {
		shift, err := h.Store.GetShift(r.Context(), shiftID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve shift", err)
			return perf.Window{}, false
		}
		if shift == nil {
			h.writeDomainError(w, "Shift not found", perf.ErrShiftNotFound)
			return perf.Window{}, false
		}
		return perf.DayWindow(shift.Date), true
	}

	from, err := dateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return perf.Window{}, false
	}
	to, err := dateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return perf.Window{}, false
	}
	if !from.IsZero() || !to.IsZero() {
		if from.IsZero() || to.IsZero() {
			h.writeDomainError(w, "Incomplete date range", perf.ErrUnresolvedWindow)
			return perf.Window{}, false
		}
		return perf.RangeWindow(from, to), true
	}

	pt, ref, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period parameters", err)
		return perf.Window{}, false
	}
	return perf.PeriodWindow(perf.ResolvePeriod(pt, ref)), true
}

// GetRanking returns the full ranked list for a period.
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, ok := h.rank(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRankingResponse(ranking, ranking.All))
}

// GetTopStaff returns the top N eligible staff for a period.
func (h *Handler) GetTopStaff(w http.ResponseWriter, r *http.Request) {
	ranking, ok := h.rank(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRankingResponse(ranking, ranking.Top(limitParam(r, 3))))
}

// GetRiskStaff returns the bottom N of the full ranking.
func (h *Handler) GetRiskStaff(w http.ResponseWriter, r *http.Request) {
	ranking, ok := h.rank(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRankingResponse(ranking, ranking.Bottom(limitParam(r, 3))))
}

func (h *Handler) rank(w http.ResponseWriter, r *http.Request) (*perf.Ranking, bool) {
	pt, ref, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period parameters", err)
		return nil, false
	}

	start := time.Now()
	ranking, err := h.Workflow.Rank(r.Context(), h.scope(r), pt, ref)
	if err != nil {
		h.writeDomainError(w, "Failed to compute ranking", err)
		return nil, false
	}
	rankingDuration.Observe(time.Since(start).Seconds())
	rankingsComputed.WithLabelValues(string(pt)).Inc()
	return ranking, true
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// =============================================================================
// AWARD HANDLERS
// =============================================================================

// PreviewAward recommends a winner without persisting anything.
func (h *Handler) PreviewAward(w http.ResponseWriter, r *http.Request) {
	pt, ref, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period parameters", err)
		return
	}
	category, ok := review.ParseAwardCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid award category", nil)
		return
	}

	rec, err := h.Workflow.PreviewAward(r.Context(), h.scope(r), pt, ref, category)
	if err != nil {
		h.writeDomainError(w, "Failed to preview award", err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusOK, map[string]any{"recommendation": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendation": rec})
}

// GrantAward selects and persists an award for a period.
func (h *Handler) GrantAward(w http.ResponseWriter, r *http.Request) {
	var req GrantAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pt, ok := perf.ParsePeriodType(req.Period)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid period", nil)
		return
	}
	category, ok := review.ParseAwardCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid award category", nil)
		return
	}
	ref := time.Now().UTC()
	if req.Ref != "" {
		parsed, err := time.Parse("2006-01-02", req.Ref)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid ref date (use YYYY-MM-DD)", err)
			return
		}
		ref = parsed
	}

	scope := h.scope(r)
	scope.BranchID = req.BranchID

	award, err := h.Workflow.GrantAward(r.Context(), scope, pt, ref, category, req.Actor)
	if err != nil {
		h.writeDomainError(w, "Failed to grant award", err)
		return
	}
	if award == nil {
		writeJSON(w, http.StatusOK, map[string]any{"award": nil})
		return
	}
	awardsGranted.WithLabelValues(string(category)).Inc()
	writeJSON(w, http.StatusCreated, toAwardDTO(*award))
}

// ListAwards returns persisted awards matching the query filters.
func (h *Handler) ListAwards(w http.ResponseWriter, r *http.Request) {
	scope := h.scope(r)
	q := r.URL.Query()

	from, err := dateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	filter := review.AwardFilter{
		OrgID:      scope.OrgID,
		BranchID:   scope.BranchID,
		EmployeeID: perf.EmployeeID(q.Get("employee")),
		PeriodType: perf.PeriodType(q.Get("period")),
		Category:   review.AwardCategory(q.Get("category")),
		From:       from,
		To:         to,
		Limit:      limitParam(r, 50),
		Offset:     offsetParam(r),
	}

	awards, err := h.Workflow.Store.ListAwards(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list awards", err)
		return
	}

	dtos := make([]StaffAwardDTO, len(awards))
	for i, a := range awards {
		dtos[i] = toAwardDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SUGGESTION HANDLERS
// =============================================================================

// PreviewSuggestions generates suggestions without persisting them.
func (h *Handler) PreviewSuggestions(w http.ResponseWriter, r *http.Request) {
	pt, ref, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period parameters", err)
		return
	}

	suggestions, err := h.Workflow.PreviewSuggestions(r.Context(), h.scope(r), pt, ref)
	if err != nil {
		h.writeDomainError(w, "Failed to preview suggestions", err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// GenerateSuggestions runs a persisted generation. Safe to repeat: decided
// rows are never overwritten.
func (h *Handler) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateSuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pt, ok := perf.ParsePeriodType(req.Period)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid period", nil)
		return
	}
	ref := time.Now().UTC()
	if req.Ref != "" {
		parsed, err := time.Parse("2006-01-02", req.Ref)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid ref date (use YYYY-MM-DD)", err)
			return
		}
		ref = parsed
	}

	scope := h.scope(r)
	scope.BranchID = req.BranchID

	result, err := h.Workflow.GenerateAndPersist(r.Context(), scope, pt, ref, req.Actor)
	if err != nil {
		h.writeDomainError(w, "Failed to generate suggestions", err)
		return
	}
	suggestionsGenerated.Add(float64(result.Created))
	writeJSON(w, http.StatusOK, result)
}

// GetSuggestion returns one persisted suggestion.
func (h *Handler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sg, err := h.Workflow.Store.GetSuggestion(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get suggestion", err)
		return
	}
	if sg == nil {
		writeError(w, http.StatusNotFound, "Suggestion not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSuggestionDTO(*sg))
}

// ListSuggestions returns persisted suggestions matching the query filters.
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	scope := h.scope(r)
	q := r.URL.Query()

	from, err := dateParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	filter := review.SuggestionFilter{
		OrgID:      scope.OrgID,
		BranchID:   scope.BranchID,
		EmployeeID: perf.EmployeeID(q.Get("employee")),
		PeriodType: perf.PeriodType(q.Get("period")),
		Category:   review.SuggestionCategory(q.Get("category")),
		Status:     review.SuggestionStatus(q.Get("status")),
		From:       from,
		To:         to,
		Limit:      limitParam(r, 50),
		Offset:     offsetParam(r),
	}

	suggestions, err := h.Workflow.Store.ListSuggestions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list suggestions", err)
		return
	}

	dtos := make([]SuggestionDTO, len(suggestions))
	for i, sg := range suggestions {
		dtos[i] = toSuggestionDTO(sg)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateSuggestionStatus applies a decision to a suggestion.
func (h *Handler) UpdateSuggestionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status, ok := review.ParseSuggestionStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	sg, err := h.Workflow.UpdateSuggestionStatus(r.Context(), id, status, req.Actor, req.Notes)
	if err != nil {
		h.writeDomainError(w, "Failed to update suggestion status", err)
		return
	}
	decisionsApplied.WithLabelValues(string(status)).Inc()
	writeJSON(w, http.StatusOK, toSuggestionDTO(*sg))
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func metricsToDTO(metrics []perf.PerformanceMetric) []map[string]any {
	out := make([]map[string]any, len(metrics))
	for i, m := range metrics {
		out[i] = map[string]any{
			"employee_id":    string(m.EmployeeID),
			"total_sales":    m.TotalSales.String(),
			"order_count":    m.OrderCount,
			"avg_check_size": m.AvgCheckSize.String(),
			"void_count":     m.VoidCount,
			"void_value":     m.VoidValue.String(),
			"discount_count": m.DiscountCount,
			"discount_value": m.DiscountValue.String(),
			"no_drinks_rate": m.NoDrinksRate,
			"anomaly_count":  m.AnomalyCount,
			"anomaly_score":  m.AnomalyScore,
		}
	}
	return out
}

func toRankingResponse(ranking *perf.Ranking, staff []perf.RankedStaff) RankingResponse {
	dtos := make([]RankedStaffDTO, len(staff))
	for i, e := range staff {
		dtos[i] = toRankedStaffDTO(e)
	}
	return RankingResponse{
		OrgID:       ranking.Scope.OrgID,
		BranchID:    ranking.Scope.BranchID,
		PeriodType:  string(ranking.Period.Type),
		PeriodStart: ranking.Period.Start.Format("2006-01-02"),
		PeriodEnd:   ranking.Period.End.Format("2006-01-02"),
		PeriodLabel: ranking.Period.Label,
		Staff:       dtos,
	}
}

func toRankedStaffDTO(e perf.RankedStaff) RankedStaffDTO {
	flags := make([]RiskFlagDTO, len(e.RiskFlags))
	for i, f := range e.RiskFlags {
		flags[i] = RiskFlagDTO{Code: f.Code, Severity: string(f.Severity), Detail: f.Detail}
	}
	return RankedStaffDTO{
		EmployeeID:        string(e.EmployeeID),
		EmployeeName:      e.EmployeeName,
		Rank:              e.Rank,
		CompositeScore:    e.CompositeScore,
		PerformanceScore:  e.PerformanceScore,
		ReliabilityScore:  e.ReliabilityScore,
		TotalSales:        e.Performance.TotalSales.String(),
		OrderCount:        e.Performance.OrderCount,
		AvgCheckSize:      e.Performance.AvgCheckSize.String(),
		VoidCount:         e.Performance.VoidCount,
		VoidValue:         e.Performance.VoidValue.String(),
		NoDrinksRate:      e.Performance.NoDrinksRate,
		AnomalyCount:      e.Performance.AnomalyCount,
		ShiftsScheduled:   e.Reliability.ShiftsScheduled,
		ShiftsWorked:      e.Reliability.ShiftsWorked,
		AttendanceRate:    e.Reliability.AttendanceRate,
		TenureMonths:      e.TenureMonths,
		Active:            e.Active,
		Breakdown:         e.Breakdown,
		RiskFlags:         flags,
		IsCriticalRisk:    e.IsCriticalRisk,
		IsEligible:        e.IsEligible,
		EligibilityReason: e.EligibilityReason,
	}
}

func toAwardDTO(a review.StaffAward) StaffAwardDTO {
	return StaffAwardDTO{
		ID:          a.ID,
		EmployeeID:  string(a.EmployeeID),
		Category:    string(a.Category),
		Score:       a.Score,
		Rank:        a.Rank,
		Reason:      a.Reason,
		PeriodType:  string(a.PeriodType),
		PeriodStart: a.PeriodStart.Format("2006-01-02"),
		PeriodLabel: a.PeriodLabel,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

func toSuggestionDTO(sg review.PromotionSuggestion) SuggestionDTO {
	dto := SuggestionDTO{
		ID:              sg.ID,
		EmployeeID:      string(sg.EmployeeID),
		Category:        string(sg.Category),
		Score:           sg.ScoreAtSuggestion,
		Snapshot:        sg.Snapshot,
		Reason:          sg.Reason,
		Status:          string(sg.Status),
		StatusUpdatedBy: sg.StatusUpdatedBy,
		DecisionNotes:   sg.DecisionNotes,
		PeriodType:      string(sg.PeriodType),
		PeriodStart:     sg.PeriodStart.Format("2006-01-02"),
		PeriodLabel:     sg.PeriodLabel,
		CreatedAt:       sg.CreatedAt.Format(time.RFC3339),
	}
	if sg.StatusUpdatedAt != nil {
		dto.StatusUpdatedAt = sg.StatusUpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func offsetParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// dateParam parses an optional YYYY-MM-DD query parameter. Zero time when
// the parameter is absent.
func dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (use YYYY-MM-DD)", name, raw)
	}
	return parsed, nil
}

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case review.IsNotFound(err) || perf.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, review.ErrDecisionLocked):
		writeError(w, http.StatusConflict, message, err)
	case review.IsClientError(err) || perf.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
