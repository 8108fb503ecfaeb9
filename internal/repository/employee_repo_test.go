package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hrhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeCols = []string{"id", "name", "email", "department", "position", "salary", "status", "hired_at", "created_at", "updated_at"}

func TestEmployeeRepository_FindAll_WithFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dept, status := "Engineering", "active"

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE department = $1 AND status = $2 ORDER BY name ASC")).
		WithArgs("Engineering", "active").
		WillReturnRows(pgxmock.NewRows(employeeCols).
			AddRow(int64(1), "Bob", "bob@x.com", "Engineering", "Dev", int64(500000), "active", ts, ts, ts).
			AddRow(int64(2), "Cid", "cid@x.com", "Engineering", "QA", int64(400000), "active", ts, ts, ts))

	employees, err := repo.FindAll(context.Background(), model.EmployeeFilters{Department: &dept, Status: &status})

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Bob", employees[0].Name)
	assert.Equal(t, int64(400000), employees[1].Salary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindAll_NoFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees ORDER BY name ASC")).
		WillReturnRows(pgxmock.NewRows(employeeCols))

	employees, err := repo.FindAll(context.Background(), model.EmployeeFilters{})

	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	e, err := repo.FindByID(context.Background(), 9)

	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE employees")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int64(4)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), &model.Employee{ID: 4})

	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestEmployeeRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetStats(t *testing.T) {
	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(pgxmock.NewRows([]string{"count", "payroll"}).AddRow(int64(3), int64(900000)))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("active", int64(2)).
			AddRow("terminated", int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY department")).
		WillReturnRows(pgxmock.NewRows([]string{"department", "count"}).AddRow("Engineering", int64(3)))

	stats, err := repo.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEmployees)
	require.NotNil(t, stats.MonthlyPayroll)
	assert.Equal(t, int64(900000), *stats.MonthlyPayroll)
	assert.Equal(t, map[string]int64{"active": 2, "terminated": 1}, stats.ByStatus)
	assert.Equal(t, map[string]int64{"Engineering": 3}, stats.ByDepartment)
	assert.NoError(t, mock.ExpectationsWereMet())
}
