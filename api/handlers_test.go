package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/performance-engine/api"
	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
	"github.com/warp/performance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := perf.NewEngine(store.Sources())
	wf := review.NewWorkflow(engine, store)
	return api.NewRouter(api.NewHandler(store, wf, "default"))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// seedMarch ingests one employee with a full run of March shifts, present
// attendance, and small tickets, all through the public API.
func seedMarch(t *testing.T, router http.Handler, id string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/employees", api.UpsertEmployeeRequest{
		ID: id, Name: "Server " + id, HireDate: "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for d := 1; d <= 12; d++ {
		date := fmt.Sprintf("2025-03-%02d", d)
		rec = doJSON(t, router, http.MethodPost, "/api/events/shifts", api.ShiftRequest{
			ID: fmt.Sprintf("%s-shift-%d", id, d), EmployeeID: id, Date: date,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/api/events/attendance", api.AttendanceRequest{
			ID: fmt.Sprintf("%s-att-%d", id, d), EmployeeID: id, Date: date, Status: "PRESENT",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	for i := 0; i < 4; i++ {
		rec = doJSON(t, router, http.MethodPost, "/api/events/orders", api.OrderRequest{
			ID:         fmt.Sprintf("%s-order-%d", id, i),
			EmployeeID: id,
			Status:     "CLOSED",
			Total:      "100.00",
			ClosedAt:   fmt.Sprintf("2025-03-10T%02d:00:00Z", 10+i),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

// =============================================================================
// EMPLOYEE ENDPOINT TESTS
// =============================================================================

func TestAPI_Employees_UpsertAndGet(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/employees", api.UpsertEmployeeRequest{
		ID: "emp-1", Name: "Aruzhan", HireDate: "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/employees/emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.EmployeeDTO
	decodeInto(t, rec, &got)
	assert.Equal(t, "Aruzhan", got.Name)
	assert.True(t, got.Active, "active defaults to true when omitted")
	assert.Equal(t, "2024-06-01", got.HireDate)
}

func TestAPI_Employees_UnknownID_Returns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/employees/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Employees_MissingFields_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/employees", api.UpsertEmployeeRequest{
		Name: "No ID", HireDate: "2024-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	decodeInto(t, rec, &resp)
	assert.NotEmpty(t, resp.Error)
}

// =============================================================================
// INGESTION VALIDATION TESTS
// =============================================================================

func TestAPI_Ingestion_RejectsBadPayloads(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"order with bad decimal", "/api/events/orders",
			api.OrderRequest{ID: "o-1", EmployeeID: "emp-1", Status: "CLOSED", Total: "not-money", ClosedAt: "2025-03-10T12:00:00Z"}},
		{"order with bad timestamp", "/api/events/orders",
			api.OrderRequest{ID: "o-1", EmployeeID: "emp-1", Status: "CLOSED", Total: "10.00", ClosedAt: "yesterday"}},
		{"anomaly with unknown severity", "/api/events/anomalies",
			api.AnomalyRequest{ID: "a-1", EmployeeID: "emp-1", Severity: "SEVERE", At: "2025-03-10T12:00:00Z"}},
		{"attendance with unknown status", "/api/events/attendance",
			api.AttendanceRequest{ID: "at-1", EmployeeID: "emp-1", Date: "2025-03-10", Status: "SLEEPING"}},
		{"shift with bad date", "/api/events/shifts",
			api.ShiftRequest{ID: "sh-1", EmployeeID: "emp-1", Date: "March 10"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// =============================================================================
// METRICS ENDPOINT TESTS
// =============================================================================

func TestAPI_Metrics_ShiftWindow_ScopesToShiftDay(t *testing.T) {
	// GIVEN: A month of shifts where all orders land on March 10
	// WHEN: Metrics are requested for that day's shift and for a quiet one
	// THEN: Only the shift's own day is aggregated

	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	rec := doJSON(t, router, http.MethodGet, "/api/performance/metrics?shift=emp-1-shift-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics []map[string]any
	decodeInto(t, rec, &metrics)
	require.Len(t, metrics, 1)
	assert.Equal(t, "emp-1", metrics[0]["employee_id"])
	assert.Equal(t, "400", metrics[0]["total_sales"])

	rec = doJSON(t, router, http.MethodGet, "/api/performance/metrics?shift=emp-1-shift-5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	metrics = nil
	decodeInto(t, rec, &metrics)
	assert.Empty(t, metrics)
}

func TestAPI_Metrics_UnknownShift_Returns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/performance/metrics?shift=ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Metrics_ExplicitRange(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	rec := doJSON(t, router, http.MethodGet, "/api/performance/metrics?from=2025-03-09&to=2025-03-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics []map[string]any
	decodeInto(t, rec, &metrics)
	require.Len(t, metrics, 1)
	assert.Equal(t, "400", metrics[0]["total_sales"])
}

func TestAPI_Metrics_HalfOpenRange_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/performance/metrics?from=2025-03-09", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// RANKING ENDPOINT TESTS
// =============================================================================

func TestAPI_Ranking_ReturnsScoredStaff(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	rec := doJSON(t, router, http.MethodGet, "/api/performance/ranking?period=MONTH&ref=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.RankingResponse
	decodeInto(t, rec, &resp)
	assert.Equal(t, "default", resp.OrgID)
	assert.Equal(t, "MONTH", resp.PeriodType)
	assert.Equal(t, "March 2025", resp.PeriodLabel)
	require.Len(t, resp.Staff, 1)

	staff := resp.Staff[0]
	assert.Equal(t, "emp-1", staff.EmployeeID)
	assert.Equal(t, 1, staff.Rank)
	assert.Equal(t, "400", staff.TotalSales)
	assert.Equal(t, 4, staff.OrderCount)
	assert.Equal(t, 12, staff.ShiftsWorked)
	assert.InDelta(t, 1.0, staff.AttendanceRate, 1e-9)
	assert.True(t, staff.IsEligible)
}

func TestAPI_Ranking_UnknownPeriod_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/performance/ranking?period=FORTNIGHT", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_TopStaff_HonorsLimit(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")
	seedMarch(t, router, "emp-2")

	rec := doJSON(t, router, http.MethodGet, "/api/performance/top?period=MONTH&ref=2025-03-10&n=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.RankingResponse
	decodeInto(t, rec, &resp)
	assert.Len(t, resp.Staff, 1)
}

// =============================================================================
// AWARD ENDPOINT TESTS
// =============================================================================

func TestAPI_GrantAward_PersistsAndLists(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	rec := doJSON(t, router, http.MethodPost, "/api/awards", api.GrantAwardRequest{
		Period: "MONTH", Ref: "2025-03-10", Category: "TOP_PERFORMER", Actor: "manager",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var award api.StaffAwardDTO
	decodeInto(t, rec, &award)
	assert.Equal(t, "emp-1", award.EmployeeID)
	assert.Equal(t, "TOP_PERFORMER", award.Category)
	assert.Equal(t, "March 2025", award.PeriodLabel)

	rec = doJSON(t, router, http.MethodGet, "/api/awards?category=TOP_PERFORMER", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []api.StaffAwardDTO
	decodeInto(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, award.ID, listed[0].ID)
}

func TestAPI_GrantAward_EmptyCohort_ReturnsNilAward(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/awards", api.GrantAwardRequest{
		Period: "MONTH", Ref: "2025-03-10", Category: "TOP_PERFORMER",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeInto(t, rec, &resp)
	assert.Nil(t, resp["award"])
}

func TestAPI_GrantAward_BadCategory_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/awards", api.GrantAwardRequest{
		Period: "MONTH", Category: "EMPLOYEE_OF_THE_CENTURY",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SUGGESTION ENDPOINT TESTS
// =============================================================================

func generateSuggestions(t *testing.T, router http.Handler) []api.SuggestionDTO {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/suggestions/generate", api.GenerateSuggestionsRequest{
		Period: "MONTH", Ref: "2025-03-10", Actor: "scheduler",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []api.SuggestionDTO
	decodeInto(t, rec, &listed)
	return listed
}

func TestAPI_GenerateSuggestions_FullDecisionFlow(t *testing.T) {
	// GIVEN: A seeded month where small tickets trigger the upsell rule
	// WHEN: Suggestions are generated and the manager decides one
	// THEN: The decision persists and conflicting decisions return 409

	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	listed := generateSuggestions(t, router)
	require.Len(t, listed, 1)
	assert.Equal(t, "TRAINING", listed[0].Category)
	assert.Equal(t, "PENDING", listed[0].Status)
	id := listed[0].ID

	rec := doJSON(t, router, http.MethodPut, "/api/suggestions/"+id+"/status", api.UpdateStatusRequest{
		Status: "ACCEPTED", Actor: "manager", Notes: "booked",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var decided api.SuggestionDTO
	decodeInto(t, rec, &decided)
	assert.Equal(t, "ACCEPTED", decided.Status)
	assert.Equal(t, "manager", decided.StatusUpdatedBy)
	assert.NotEmpty(t, decided.StatusUpdatedAt)

	// The decision is locked against a different target
	rec = doJSON(t, router, http.MethodPut, "/api/suggestions/"+id+"/status", api.UpdateStatusRequest{
		Status: "REJECTED", Actor: "other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Re-confirming the same status still succeeds
	rec = doJSON(t, router, http.MethodPut, "/api/suggestions/"+id+"/status", api.UpdateStatusRequest{
		Status: "ACCEPTED", Actor: "director",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_GenerateSuggestions_RerunDoesNotDuplicate(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	first := generateSuggestions(t, router)
	second := generateSuggestions(t, router)
	assert.Equal(t, len(first), len(second))
}

func TestAPI_GetSuggestion_Unknown_Returns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/suggestions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateStatus_Unknown_Returns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/suggestions/ghost/status", api.UpdateStatusRequest{
		Status: "ACCEPTED",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateStatus_BadStatus_Returns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/suggestions/ghost/status", api.UpdateStatusRequest{
		Status: "MAYBE",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_PreviewSuggestions_DoesNotPersist(t *testing.T) {
	router := newTestRouter(t)
	seedMarch(t, router, "emp-1")

	rec := doJSON(t, router, http.MethodGet, "/api/suggestions/preview?period=MONTH&ref=2025-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []api.SuggestionDTO
	decodeInto(t, rec, &listed)
	assert.Empty(t, listed)
}
