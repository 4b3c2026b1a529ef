package leave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// balanceColumns maps a deductible leave category to its users-table column.
// Unpaid leave is absent on purpose: it has no balance.
var balanceColumns = map[string]string{
	TypeAnnual: "annual_balance",
	TypeSick:   "sick_balance",
	TypeCasual: "casual_balance",
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	FindAll(ctx context.Context, filter LeaveFilter) ([]Leave, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	MarkReviewed(ctx context.Context, l *Leave) (bool, error)
	DeleteIfPending(ctx context.Context, id string) (bool, error)
	DeleteByEmployee(ctx context.Context, employeeID string) error
	GetBalance(ctx context.Context, employeeID, leaveType string) (int, error)
	DeductBalance(ctx context.Context, employeeID, leaveType string, days int) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	ApprovedTypeStats(ctx context.Context) ([]TypeStat, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	query := `
        INSERT INTO leaves (
            id, employee_id, leave_type, start_date, end_date,
            number_of_days, reason, status, review_note, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate,
		l.NumberOfDays, l.Reason, l.Status, l.ReviewNote,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context, filter LeaveFilter) ([]Leave, error) {
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer")

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}

	var leaves []Leave
	err := db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}

// MarkReviewed flips a pending request to its terminal status. The status
// predicate makes the update a compare-and-swap: of two concurrent reviewers
// only one sees a row updated, the other gets false.
func (r *repository) MarkReviewed(ctx context.Context, l *Leave) (bool, error) {
	query := `
UPDATE leaves
SET status = $2, reviewed_by = $3, review_note = $4, reviewed_at = $5, updated_at = NOW()
WHERE id = $1 AND status = $6
`

	res, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.Status, l.ReviewedBy, l.ReviewNote, l.ReviewedAt, StatusPending,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) DeleteIfPending(ctx context.Context, id string) (bool, error) {
	res, err := r.execer().ExecContext(
		ctx,
		`DELETE FROM leaves WHERE id = $1 AND status = $2`,
		id, StatusPending,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *repository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Delete(&Leave{}, "employee_id = ?", employeeID).Error
}

func (r *repository) GetBalance(ctx context.Context, employeeID, leaveType string) (int, error) {
	column, ok := balanceColumns[leaveType]
	if !ok {
		return 0, fmt.Errorf("leave type %q has no balance", leaveType)
	}

	var balance int
	err := r.db.WithContext(ctx).
		Table("users").
		Select(column).
		Where("id = ?", employeeID).
		Scan(&balance).Error
	return balance, err
}

// DeductBalance decrements atomically at the store so concurrent approvals
// against the same employee never lose an update.
func (r *repository) DeductBalance(ctx context.Context, employeeID, leaveType string, days int) error {
	column, ok := balanceColumns[leaveType]
	if !ok {
		return fmt.Errorf("leave type %q has no balance", leaveType)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s = %s - $2, updated_at = NOW() WHERE id = $1`,
		column, column,
	)

	_, err := r.execer().ExecContext(ctx, query, employeeID, days)
	return err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *repository) ApprovedTypeStats(ctx context.Context) ([]TypeStat, error) {
	var stats []TypeStat
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("leave_type, COUNT(*) AS count, COALESCE(SUM(number_of_days), 0) AS total_days").
		Where("status = ?", StatusApproved).
		Group("leave_type").
		Order("leave_type ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	if db, err := r.db.DB(); err == nil {
		return db
	}
	return noopExecer{}
}

type noopExecer struct{}

func (noopExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
