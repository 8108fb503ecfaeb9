package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrhub/internal/model"
)

// AttendanceRepository defines operations for daily attendance
type AttendanceRepository interface {
	// Upsert keeps one record per employee and day; a second call for the
	// same day replaces the status. It returns ErrEmployeeNotFound when
	// the employee does not exist.
	Upsert(ctx context.Context, record *model.AttendanceRecord) error
	FindAll(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error)
	CountByStatusOn(ctx context.Context, day time.Time) (map[string]int64, error)
}

type attendanceRepository struct {
	db DBTX
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db DBTX) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Upsert(ctx context.Context, a *model.AttendanceRecord) error {
	sql := `INSERT INTO attendance (employee_id, date, status, created_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (employee_id, date) DO UPDATE SET status = EXCLUDED.status
            RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, a.EmployeeID, a.Date, a.Status, a.CreatedAt).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to record attendance: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindAll(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, employee_id, date, status, created_at FROM attendance`)

	args := []interface{}{}
	var conditions []string
	if filters.EmployeeID != nil {
		args = append(args, *filters.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filters.Date != nil {
		args = append(args, model.Day(*filters.Date))
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY date DESC, employee_id ASC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		var a model.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

func (r *attendanceRepository) CountByStatusOn(ctx context.Context, day time.Time) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM attendance WHERE date = $1 GROUP BY status`, model.Day(day))
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance counts: %w", err)
	}
	return counts, nil
}
