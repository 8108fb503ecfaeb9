package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrhub/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrLeaveNotFound is returned by writes that match no leave request.
var ErrLeaveNotFound = errors.New("leave request not found")

// LeaveRepository defines operations for leave requests
type LeaveRepository interface {
	// Create returns ErrEmployeeNotFound when the employee does not exist.
	Create(ctx context.Context, leave *model.LeaveRequest) error
	FindByID(ctx context.Context, id int64) (*model.LeaveRequest, error)
	FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error)
	UpdateStatus(ctx context.Context, leave *model.LeaveRequest) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type leaveRepository struct {
	db DBTX
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db DBTX) LeaveRepository {
	return &leaveRepository{db: db}
}

const leaveColumns = `id, employee_id, start_date, end_date, reason, status, created_at, updated_at`

func (r *leaveRepository) Create(ctx context.Context, l *model.LeaveRequest) error {
	sql := `INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql, l.EmployeeID, l.StartDate, l.EndDate, l.Reason, l.Status, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// FindByID retrieves a leave request by ID. Returns nil, nil when absent.
func (r *leaveRepository) FindByID(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	l := &model.LeaveRequest{}
	err := r.db.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id).Scan(
		&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.Reason, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find leave request by ID: %w", err)
	}
	return l, nil
}

// FindAll lists leave requests, newest start date first
func (r *leaveRepository) FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + leaveColumns + ` FROM leave_requests`)

	args := []interface{}{}
	var conditions []string
	if filters.EmployeeID != nil {
		args = append(args, *filters.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filters.Status != nil && *filters.Status != "" {
		args = append(args, *filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY start_date DESC, id DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	leaves := []model.LeaveRequest{}
	for rows.Next() {
		var l model.LeaveRequest
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.Reason, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave request rows: %w", err)
	}
	return leaves, nil
}

func (r *leaveRepository) UpdateStatus(ctx context.Context, l *model.LeaveRequest) error {
	err := r.db.QueryRow(ctx, `UPDATE leave_requests SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`,
		l.Status, l.ID).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLeaveNotFound
		}
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

func (r *leaveRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return n, nil
}
