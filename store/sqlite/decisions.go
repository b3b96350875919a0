/*
decisions.go - Award and suggestion persistence (review.DecisionStore)

PURPOSE:
  Implements the decision workflow's storage contract:
  - staff_awards: upsert keyed on (org, employee, period_type,
    period_start, rank); rows are never deleted.
  - promotion_suggestions: idempotent upsert keyed on (org, employee,
    period_type, period_start, category). Regeneration refreshes rows
    still PENDING and leaves decided rows untouched; status changes are a
    single atomic UPDATE with the decided-row guard in the WHERE clause,
    so concurrent updates resolve on the database's compare-and-swap.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
)

var _ review.DecisionStore = (*Store)(nil)

// =============================================================================
// STAFF AWARDS
// =============================================================================

// SaveAward persists an award. A re-run for the same identity refreshes the
// score/reason in place; the row itself is permanent.
func (s *Store) SaveAward(ctx context.Context, a review.StaffAward) (review.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	periodStart := a.PeriodStart.UTC().Format(time.RFC3339)

	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM staff_awards
		 WHERE org_id = ? AND employee_id = ? AND period_type = ? AND period_start = ? AND rank = ?`,
		a.OrgID, string(a.EmployeeID), string(a.PeriodType), periodStart, a.Rank,
	).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return "", err
	}

	query := `
		INSERT INTO staff_awards
		(id, org_id, branch_id, employee_id, category, score, rank, reason,
		 period_type, period_start, period_label, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, employee_id, period_type, period_start, rank) DO UPDATE SET
			category = excluded.category,
			score = excluded.score,
			reason = excluded.reason,
			period_label = excluded.period_label
	`
	_, err = s.db.ExecContext(ctx, query,
		a.ID, a.OrgID, a.BranchID, string(a.EmployeeID), string(a.Category),
		a.Score, a.Rank, a.Reason, string(a.PeriodType), periodStart,
		a.PeriodLabel, a.CreatedBy, a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return review.OutcomeUpdated, nil
	}
	return review.OutcomeCreated, nil
}

// ListAwards returns historical awards matching the filter, newest period
// first.
func (s *Store) ListAwards(ctx context.Context, f review.AwardFilter) ([]review.StaffAward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, org_id, branch_id, employee_id, category, score, rank, reason,
		       period_type, period_start, period_label, created_by, created_at
		FROM staff_awards
		WHERE org_id = ?
	`
	args := []any{f.OrgID}

	if f.BranchID != "" {
		query += " AND branch_id = ?"
		args = append(args, f.BranchID)
	}
	if f.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, string(f.EmployeeID))
	}
	if f.PeriodType != "" {
		query += " AND period_type = ?"
		args = append(args, string(f.PeriodType))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if !f.From.IsZero() {
		query += " AND period_start >= ?"
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		query += " AND period_start <= ?"
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}

	query += " ORDER BY period_start DESC, rank ASC"
	query, args = paginate(query, args, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []review.StaffAward
	for rows.Next() {
		var (
			a                      review.StaffAward
			periodStart, createdAt string
		)
		if err := rows.Scan(
			&a.ID, &a.OrgID, &a.BranchID, &a.EmployeeID, &a.Category,
			&a.Score, &a.Rank, &a.Reason, &a.PeriodType, &periodStart,
			&a.PeriodLabel, &a.CreatedBy, &createdAt,
		); err != nil {
			return nil, err
		}
		a.PeriodStart, _ = time.Parse(time.RFC3339, periodStart)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// =============================================================================
// PROMOTION SUGGESTIONS
// =============================================================================

// UpsertSuggestion applies the idempotent generation write:
//   - no row for the identity: insert as PENDING -> created
//   - existing row still PENDING: refresh score/snapshot/reason -> updated
//   - existing row decided: leave intact -> untouched
func (s *Store) UpsertSuggestion(ctx context.Context, sg review.PromotionSuggestion) (review.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	periodStart := sg.PeriodStart.UTC().Format(time.RFC3339)

	var (
		existingID     string
		existingStatus string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status FROM promotion_suggestions
		 WHERE org_id = ? AND employee_id = ? AND period_type = ? AND period_start = ? AND category = ?`,
		sg.OrgID, string(sg.EmployeeID), string(sg.PeriodType), periodStart, string(sg.Category),
	).Scan(&existingID, &existingStatus)

	switch {
	case err == sql.ErrNoRows:
		snapshotJSON, err := json.Marshal(sg.Snapshot)
		if err != nil {
			return "", err
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO promotion_suggestions
			(id, org_id, branch_id, employee_id, category, score, snapshot_json, reason,
			 status, period_type, period_start, period_label, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sg.ID, sg.OrgID, sg.BranchID, string(sg.EmployeeID), string(sg.Category),
			sg.ScoreAtSuggestion, string(snapshotJSON), sg.Reason,
			string(review.StatusPending), string(sg.PeriodType), periodStart,
			sg.PeriodLabel, sg.CreatedBy, sg.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return "", err
		}
		return review.OutcomeCreated, nil

	case err != nil:
		return "", err

	case existingStatus == string(review.StatusPending):
		snapshotJSON, err := json.Marshal(sg.Snapshot)
		if err != nil {
			return "", err
		}
		// The status guard repeats in the WHERE clause so a concurrent
		// decision between our read and this write wins.
		_, err = s.db.ExecContext(ctx, `
			UPDATE promotion_suggestions
			SET score = ?, snapshot_json = ?, reason = ?, period_label = ?
			WHERE id = ? AND status = ?`,
			sg.ScoreAtSuggestion, string(snapshotJSON), sg.Reason, sg.PeriodLabel,
			existingID, string(review.StatusPending),
		)
		if err != nil {
			return "", err
		}
		return review.OutcomeUpdated, nil

	default:
		return review.OutcomeUntouched, nil
	}
}

// GetSuggestion returns one suggestion by id, or nil when absent.
func (s *Store) GetSuggestion(ctx context.Context, id string) (*review.PromotionSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getSuggestionLocked(ctx, id)
}

func (s *Store) getSuggestionLocked(ctx context.Context, id string) (*review.PromotionSuggestion, error) {
	row := s.db.QueryRowContext(ctx, suggestionColumns+" WHERE id = ?", id)
	sg, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sg, nil
}

// ListSuggestions returns suggestions matching the filter, newest period
// first.
func (s *Store) ListSuggestions(ctx context.Context, f review.SuggestionFilter) ([]review.PromotionSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := suggestionColumns + " WHERE org_id = ?"
	args := []any{f.OrgID}

	if f.BranchID != "" {
		query += " AND branch_id = ?"
		args = append(args, f.BranchID)
	}
	if f.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, string(f.EmployeeID))
	}
	if f.PeriodType != "" {
		query += " AND period_type = ?"
		args = append(args, string(f.PeriodType))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		query += " AND period_start >= ?"
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		query += " AND period_start <= ?"
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}

	query += " ORDER BY period_start DESC, employee_id ASC, category ASC"
	query, args = paginate(query, args, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []review.PromotionSuggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, *sg)
	}
	return suggestions, rows.Err()
}

// UpdateSuggestionStatus applies a status change atomically. The WHERE
// clause carries the state-machine guard: a decided row only matches when
// the target equals its current status, so a lost race surfaces as zero
// affected rows, never as an overwritten decision.
func (s *Store) UpdateSuggestionStatus(ctx context.Context, id string, status review.SuggestionStatus, actor, notes string, at time.Time) (*review.PromotionSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE promotion_suggestions
		SET status = ?, status_updated_at = ?, status_updated_by = ?, decision_notes = ?
		WHERE id = ? AND (status NOT IN (?, ?) OR status = ?)`,
		string(status), at.UTC().Format(time.RFC3339), actor, notes,
		id, string(review.StatusAccepted), string(review.StatusRejected), string(status),
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		existing, err := s.getSuggestionLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, review.ErrSuggestionNotFound
		}
		return nil, &review.TransitionError{SuggestionID: id, From: existing.Status, To: status}
	}

	return s.getSuggestionLocked(ctx, id)
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

const suggestionColumns = `
	SELECT id, org_id, branch_id, employee_id, category, score, snapshot_json,
	       reason, status, status_updated_at, status_updated_by, decision_notes,
	       period_type, period_start, period_label, created_by, created_at
	FROM promotion_suggestions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (*review.PromotionSuggestion, error) {
	var (
		sg              review.PromotionSuggestion
		employeeID      string
		snapshotJSON    string
		statusUpdatedAt sql.NullString
		periodStart     string
		createdAt       string
	)
	err := row.Scan(
		&sg.ID, &sg.OrgID, &sg.BranchID, &employeeID, &sg.Category,
		&sg.ScoreAtSuggestion, &snapshotJSON, &sg.Reason, &sg.Status,
		&statusUpdatedAt, &sg.StatusUpdatedBy, &sg.DecisionNotes,
		&sg.PeriodType, &periodStart, &sg.PeriodLabel, &sg.CreatedBy, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	sg.EmployeeID = perf.EmployeeID(employeeID)
	json.Unmarshal([]byte(snapshotJSON), &sg.Snapshot)
	sg.PeriodStart, _ = time.Parse(time.RFC3339, periodStart)
	sg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if statusUpdatedAt.Valid {
		t, _ := time.Parse(time.RFC3339, statusUpdatedAt.String)
		sg.StatusUpdatedAt = &t
	}
	return &sg, nil
}

func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	return query, append(args, limit, offset)
}
