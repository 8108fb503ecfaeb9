package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrhub/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrEmployeeNotFound is returned by writes that match no row.
var ErrEmployeeNotFound = errors.New("employee not found")

// EmployeeRepository defines operations for employee data
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id int64) (*model.Employee, error)
	FindAll(ctx context.Context, filters model.EmployeeFilters) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*model.DashboardStats, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, name, email, department, position, salary, status, hired_at, created_at, updated_at`

// Create inserts a new employee into the database
func (r *employeeRepository) Create(ctx context.Context, e *model.Employee) error {
	sql := `INSERT INTO employees (name, email, department, position, salary, status, hired_at, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRow(ctx, sql, e.Name, e.Email, e.Department, e.Position, e.Salary, e.Status, e.HiredAt, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindByID retrieves an employee by ID. Returns nil, nil when absent.
func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	e := &model.Employee{}
	sql := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Department, &e.Position, &e.Salary,
		&e.Status, &e.HiredAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return e, nil
}

// FindAll lists employees matching the optional filters
func (r *employeeRepository) FindAll(ctx context.Context, filters model.EmployeeFilters) ([]model.Employee, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + employeeColumns + ` FROM employees`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.Department != nil && *filters.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argCount))
		args = append(args, *filters.Department)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name ASC, id ASC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Email, &e.Department, &e.Position, &e.Salary,
			&e.Status, &e.HiredAt, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}
	return employees, nil
}

// Update modifies an existing employee
func (r *employeeRepository) Update(ctx context.Context, e *model.Employee) error {
	sql := `UPDATE employees
            SET name = $1, email = $2, department = $3, position = $4, salary = $5, status = $6, hired_at = $7, updated_at = NOW()
            WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, e.Name, e.Email, e.Department, e.Position, e.Salary, e.Status, e.HiredAt, e.ID).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

// Delete removes an employee from the database
func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// GetStats aggregates headcount by status and department plus the monthly payroll
func (r *employeeRepository) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{
		ByStatus:     make(map[string]int64),
		ByDepartment: make(map[string]int64),
	}

	var payroll int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*),
            COALESCE(SUM(CASE WHEN status <> 'terminated' THEN salary ELSE 0 END), 0)
        FROM employees`).Scan(&stats.TotalEmployees, &payroll)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee totals: %w", err)
	}
	stats.MonthlyPayroll = &payroll

	if err := r.countBy(ctx, "status", stats.ByStatus); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "department", stats.ByDepartment); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy fills dst with COUNT(*) grouped by column. column is never user input.
func (r *employeeRepository) countBy(ctx context.Context, column string, dst map[string]int64) error {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM employees GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("failed to count employees by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan employees by %s: %w", column, err)
		}
		dst[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating employees by %s: %w", column, err)
	}
	return nil
}
