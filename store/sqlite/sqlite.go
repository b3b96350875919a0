/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every upstream read collaborator the perf engine consumes
  (orders, void audit log, discounts, anomalies, attendance, duty shifts,
  employee directory, risk flags) plus the review.DecisionStore for awards
  and suggestions. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  employees:              Staff directory (active status, hire date)
  orders:                 Order ledger read model
  void_events:            VOID audit-log entries with amount metadata
  discounts:              Discount records with creator and value
  anomaly_events:         Severity-tagged anomaly log
  attendance:             Per-employee daily attendance outcomes
  duty_shifts:            Scheduled shifts
  risk_flags:             Anti-theft summary flags
  staff_awards:           Persisted awards (append/upsert only, no delete)
  promotion_suggestions:  Decision workflow rows (no delete)

UNIQUE KEYS:
  idx_awards_identity:      (org, employee, period_type, period_start, rank)
  idx_suggestions_identity: (org, employee, period_type, period_start,
                             category)
  These back the idempotent upsert semantics of the decision workflow.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; SQLite is opened with WAL so readers
  don't block each other.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a versioned
  migration tool.

SEE ALSO:
  - perf/sources.go: The read interfaces implemented here
  - review/store.go: The DecisionStore interface (decisions.go)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/performance-engine/perf"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time checks against the perf source interfaces.
var (
	_ perf.OrderSource       = (*Store)(nil)
	_ perf.VoidAuditSource   = (*Store)(nil)
	_ perf.DiscountSource    = (*Store)(nil)
	_ perf.AnomalySource     = (*Store)(nil)
	_ perf.AttendanceSource  = (*Store)(nil)
	_ perf.ShiftSource       = (*Store)(nil)
	_ perf.EmployeeDirectory = (*Store)(nil)
	_ perf.RiskSource        = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sources returns the store bundled as the engine's source set.
func (s *Store) Sources() perf.Sources {
	return perf.Sources{
		Orders:     s,
		Voids:      s,
		Discounts:  s,
		Anomalies:  s,
		Attendance: s,
		Shifts:     s,
		Directory:  s,
		Risk:       s,
	}
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Staff directory
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(org_id, branch_id);

	-- Order ledger read model
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		total TEXT NOT NULL,
		no_drinks BOOLEAN NOT NULL DEFAULT FALSE,
		closed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_window ON orders(org_id, closed_at);
	CREATE INDEX IF NOT EXISTS idx_orders_employee ON orders(employee_id, closed_at);

	-- VOID audit-log entries
	CREATE TABLE IF NOT EXISTS void_events (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		actor_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_voids_window ON void_events(org_id, at);

	-- Discount records
	CREATE TABLE IF NOT EXISTS discounts (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		value TEXT NOT NULL,
		at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_discounts_window ON discounts(org_id, at);

	-- Anomaly events
	CREATE TABLE IF NOT EXISTS anomaly_events (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		subject_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_anomalies_window ON anomaly_events(org_id, at);

	-- Attendance outcomes (one row per employee-day)
	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		cover_for TEXT NOT NULL DEFAULT ''
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_day
		ON attendance(org_id, employee_id, date);

	-- Scheduled duty shifts
	CREATE TABLE IF NOT EXISTS duty_shifts (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shifts_window ON duty_shifts(org_id, date);

	-- Anti-theft summary flags
	CREATE TABLE IF NOT EXISTS risk_flags (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		code TEXT NOT NULL,
		severity TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_risk_window ON risk_flags(org_id, at);

	-- Persisted awards (append/upsert only - functions as audit history)
	CREATE TABLE IF NOT EXISTS staff_awards (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		category TEXT NOT NULL,
		score REAL NOT NULL,
		rank INTEGER NOT NULL,
		reason TEXT NOT NULL,
		period_type TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_label TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_awards_identity
		ON staff_awards(org_id, employee_id, period_type, period_start, rank);

	-- Decision workflow rows (no delete operation exists)
	CREATE TABLE IF NOT EXISTS promotion_suggestions (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		employee_id TEXT NOT NULL,
		category TEXT NOT NULL,
		score REAL NOT NULL,
		snapshot_json TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		status_updated_at TEXT,
		status_updated_by TEXT NOT NULL DEFAULT '',
		decision_notes TEXT NOT NULL DEFAULT '',
		period_type TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_label TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_suggestions_identity
		ON promotion_suggestions(org_id, employee_id, period_type, period_start, category);
	CREATE INDEX IF NOT EXISTS idx_suggestions_status
		ON promotion_suggestions(org_id, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// scopeClause appends org/branch predicates for a scope. An empty branch id
// matches all branches.
func scopeClause(scope perf.Scope, args []any) (string, []any) {
	clause := "org_id = ?"
	args = append(args, scope.OrgID)
	if scope.BranchID != "" {
		clause += " AND branch_id = ?"
		args = append(args, scope.BranchID)
	}
	return clause, args
}

// =============================================================================
// EMPLOYEE DIRECTORY (perf.EmployeeDirectory)
// =============================================================================

// SaveEmployee inserts or updates a directory record.
func (s *Store) SaveEmployee(ctx context.Context, scope perf.Scope, e perf.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, org_id, branch_id, name, active, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			hire_date = excluded.hire_date,
			branch_id = excluded.branch_id
	`
	_, err := s.db.ExecContext(ctx, query,
		string(e.ID), scope.OrgID, scope.BranchID, e.Name, e.Active,
		e.HireDate.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee returns a directory record, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id perf.EmployeeID) (*perf.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e        perf.Employee
		hireDate string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, active, hire_date FROM employees WHERE id = ?",
		string(id),
	).Scan(&e.ID, &e.Name, &e.Active, &hireDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.HireDate, _ = time.Parse(time.RFC3339, hireDate)
	return &e, nil
}

// ActiveEmployees returns the active roster for a scope.
func (s *Store) ActiveEmployees(ctx context.Context, scope perf.Scope) ([]perf.Employee, error) {
	return s.listEmployees(ctx, scope, true)
}

// Employees returns the full roster for a scope, active or not.
func (s *Store) Employees(ctx context.Context, scope perf.Scope) ([]perf.Employee, error) {
	return s.listEmployees(ctx, scope, false)
}

func (s *Store) listEmployees(ctx context.Context, scope perf.Scope, activeOnly bool) ([]perf.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT id, name, active, hire_date FROM employees WHERE " + clause
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []perf.Employee
	for rows.Next() {
		var (
			e        perf.Employee
			hireDate string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Active, &hireDate); err != nil {
			return nil, err
		}
		e.HireDate, _ = time.Parse(time.RFC3339, hireDate)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// ORDER LEDGER (perf.OrderSource)
// =============================================================================

// SaveOrder records one order into the read model.
func (s *Store) SaveOrder(ctx context.Context, scope perf.Scope, o perf.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO orders (id, org_id, branch_id, employee_id, status, total, no_drinks, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			total = excluded.total,
			no_drinks = excluded.no_drinks,
			closed_at = excluded.closed_at
	`
	_, err := s.db.ExecContext(ctx, query,
		o.ID, scope.OrgID, scope.BranchID, string(o.EmployeeID),
		string(o.Status), o.Total.String(), o.NoDrinks,
		o.ClosedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// OrdersInWindow returns orders closed within [from, to].
func (s *Store) OrdersInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := `
		SELECT id, employee_id, status, total, no_drinks, closed_at
		FROM orders
		WHERE ` + clause + ` AND closed_at >= ? AND closed_at <= ?
		ORDER BY closed_at ASC
	`
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []perf.Order
	for rows.Next() {
		var (
			o        perf.Order
			total    string
			closedAt string
		)
		if err := rows.Scan(&o.ID, &o.EmployeeID, &o.Status, &total, &o.NoDrinks, &closedAt); err != nil {
			return nil, err
		}
		o.Total = mustDecimal(total)
		o.ClosedAt, _ = time.Parse(time.RFC3339, closedAt)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// =============================================================================
// VOID AUDIT LOG (perf.VoidAuditSource)
// =============================================================================

// SaveVoidEvent records a VOID audit entry.
func (s *Store) SaveVoidEvent(ctx context.Context, scope perf.Scope, v perf.VoidEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO void_events (id, org_id, branch_id, actor_id, amount, at) VALUES (?, ?, ?, ?, ?, ?)",
		v.ID, scope.OrgID, scope.BranchID, string(v.ActorID), v.Amount.String(),
		v.At.UTC().Format(time.RFC3339),
	)
	return err
}

// VoidsInWindow returns VOID events within [from, to].
func (s *Store) VoidsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.VoidEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT id, actor_id, amount, at FROM void_events WHERE " + clause +
		" AND at >= ? AND at <= ? ORDER BY at ASC"
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var voids []perf.VoidEvent
	for rows.Next() {
		var (
			v      perf.VoidEvent
			amount string
			at     string
		)
		if err := rows.Scan(&v.ID, &v.ActorID, &amount, &at); err != nil {
			return nil, err
		}
		v.Amount = mustDecimal(amount)
		v.At, _ = time.Parse(time.RFC3339, at)
		voids = append(voids, v)
	}
	return voids, rows.Err()
}

// =============================================================================
// DISCOUNT LEDGER (perf.DiscountSource)
// =============================================================================

// SaveDiscount records a discount entry.
func (s *Store) SaveDiscount(ctx context.Context, scope perf.Scope, d perf.Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO discounts (id, org_id, branch_id, employee_id, value, at) VALUES (?, ?, ?, ?, ?, ?)",
		d.ID, scope.OrgID, scope.BranchID, string(d.EmployeeID), d.Value.String(),
		d.At.UTC().Format(time.RFC3339),
	)
	return err
}

// DiscountsInWindow returns discounts within [from, to].
func (s *Store) DiscountsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT id, employee_id, value, at FROM discounts WHERE " + clause +
		" AND at >= ? AND at <= ? ORDER BY at ASC"
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discounts []perf.Discount
	for rows.Next() {
		var (
			d     perf.Discount
			value string
			at    string
		)
		if err := rows.Scan(&d.ID, &d.EmployeeID, &value, &at); err != nil {
			return nil, err
		}
		d.Value = mustDecimal(value)
		d.At, _ = time.Parse(time.RFC3339, at)
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

// =============================================================================
// ANOMALY LOG (perf.AnomalySource)
// =============================================================================

// SaveAnomalyEvent records an anomaly entry.
func (s *Store) SaveAnomalyEvent(ctx context.Context, scope perf.Scope, a perf.AnomalyEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO anomaly_events (id, org_id, branch_id, subject_id, severity, at) VALUES (?, ?, ?, ?, ?, ?)",
		a.ID, scope.OrgID, scope.BranchID, string(a.SubjectID), string(a.Severity),
		a.At.UTC().Format(time.RFC3339),
	)
	return err
}

// AnomaliesInWindow returns anomaly events within [from, to].
func (s *Store) AnomaliesInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.AnomalyEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT id, subject_id, severity, at FROM anomaly_events WHERE " + clause +
		" AND at >= ? AND at <= ? ORDER BY at ASC"
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []perf.AnomalyEvent
	for rows.Next() {
		var (
			a  perf.AnomalyEvent
			at string
		)
		if err := rows.Scan(&a.ID, &a.SubjectID, &a.Severity, &at); err != nil {
			return nil, err
		}
		a.At, _ = time.Parse(time.RFC3339, at)
		events = append(events, a)
	}
	return events, rows.Err()
}

// =============================================================================
// ATTENDANCE (perf.AttendanceSource)
// =============================================================================

// SaveAttendance records one employee-day. Re-recording the same day
// replaces the earlier outcome.
func (s *Store) SaveAttendance(ctx context.Context, scope perf.Scope, id string, a perf.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (id, org_id, branch_id, employee_id, date, status, cover_for)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, employee_id, date) DO UPDATE SET
			status = excluded.status,
			cover_for = excluded.cover_for
	`
	_, err := s.db.ExecContext(ctx, query,
		id, scope.OrgID, scope.BranchID, string(a.EmployeeID),
		a.Date.UTC().Format("2006-01-02"), string(a.Status), string(a.CoverFor),
	)
	return err
}

// AttendanceInWindow returns attendance rows within [from, to].
func (s *Store) AttendanceInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT employee_id, date, status, cover_for FROM attendance WHERE " + clause +
		" AND date >= ? AND date <= ? ORDER BY date ASC"
	args = append(args, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []perf.AttendanceRecord
	for rows.Next() {
		var (
			r    perf.AttendanceRecord
			date string
		)
		if err := rows.Scan(&r.EmployeeID, &date, &r.Status, &r.CoverFor); err != nil {
			return nil, err
		}
		r.Date, _ = time.Parse("2006-01-02", date)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// DUTY SHIFTS (perf.ShiftSource)
// =============================================================================

// SaveShift records one scheduled shift.
func (s *Store) SaveShift(ctx context.Context, scope perf.Scope, sh perf.DutyShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO duty_shifts (id, org_id, branch_id, employee_id, date) VALUES (?, ?, ?, ?, ?)",
		sh.ID, scope.OrgID, scope.BranchID, string(sh.EmployeeID),
		sh.Date.UTC().Format("2006-01-02"),
	)
	return err
}

// GetShift returns one scheduled shift, or nil when absent. Backs the
// shift-scoped metrics window.
func (s *Store) GetShift(ctx context.Context, id string) (*perf.DutyShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sh   perf.DutyShift
		date string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, date FROM duty_shifts WHERE id = ?", id,
	).Scan(&sh.ID, &sh.EmployeeID, &date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sh.Date, _ = time.Parse("2006-01-02", date)
	return &sh, nil
}

// ShiftsInWindow returns scheduled shifts within [from, to].
func (s *Store) ShiftsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.DutyShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT id, employee_id, date FROM duty_shifts WHERE " + clause +
		" AND date >= ? AND date <= ? ORDER BY date ASC"
	args = append(args, from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []perf.DutyShift
	for rows.Next() {
		var (
			sh   perf.DutyShift
			date string
		)
		if err := rows.Scan(&sh.ID, &sh.EmployeeID, &date); err != nil {
			return nil, err
		}
		sh.Date, _ = time.Parse("2006-01-02", date)
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// =============================================================================
// RISK FLAGS (perf.RiskSource)
// =============================================================================

// SaveRiskFlag records one anti-theft summary flag.
func (s *Store) SaveRiskFlag(ctx context.Context, scope perf.Scope, id string, employee perf.EmployeeID, f perf.RiskFlag, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO risk_flags (id, org_id, branch_id, employee_id, code, severity, detail, at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, scope.OrgID, scope.BranchID, string(employee),
		f.Code, string(f.Severity), f.Detail, at.UTC().Format(time.RFC3339),
	)
	return err
}

// RiskFlagsInWindow returns flags within [from, to] grouped by employee.
func (s *Store) RiskFlagsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) (map[perf.EmployeeID][]perf.RiskFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := scopeClause(scope, nil)
	query := "SELECT employee_id, code, severity, detail FROM risk_flags WHERE " + clause +
		" AND at >= ? AND at <= ? ORDER BY at ASC"
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make(map[perf.EmployeeID][]perf.RiskFlag)
	for rows.Next() {
		var (
			employee perf.EmployeeID
			f        perf.RiskFlag
		)
		if err := rows.Scan(&employee, &f.Code, &f.Severity, &f.Detail); err != nil {
			return nil, err
		}
		flags[employee] = append(flags[employee], f)
	}
	return flags, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"promotion_suggestions", "staff_awards", "risk_flags", "duty_shifts",
		"attendance", "anomaly_events", "discounts", "void_events", "orders",
		"employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
