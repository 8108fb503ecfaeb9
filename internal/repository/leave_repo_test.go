package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hrhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leaveCols = []string{"id", "employee_id", "start_date", "end_date", "reason", "status", "created_at", "updated_at"}

func TestLeaveRepository_Create_UnknownEmployee(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLeaveRepository(mock)
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO leave_requests")).
		WithArgs(int64(7), day, day, "", model.LeaveStatusPending, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "leave_requests_employee_id_fkey"})

	err := repo.Create(context.Background(), &model.LeaveRequest{EmployeeID: 7, StartDate: day, EndDate: day, Status: model.LeaveStatusPending})

	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_FindAll_WithFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLeaveRepository(mock)
	ts := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	employeeID, status := int64(3), model.LeaveStatusPending

	mock.ExpectQuery(regexp.QuoteMeta("FROM leave_requests WHERE employee_id = $1 AND status = $2 ORDER BY start_date DESC, id DESC")).
		WithArgs(int64(3), "pending").
		WillReturnRows(pgxmock.NewRows(leaveCols).
			AddRow(int64(1), int64(3), ts, ts, "trip", "pending", ts, ts))

	leaves, err := repo.FindAll(context.Background(), model.LeaveFilters{EmployeeID: &employeeID, Status: &status})

	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "trip", leaves[0].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLeaveRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE leave_requests SET status = $1")).
		WithArgs("approved", int64(9)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.UpdateStatus(context.Background(), &model.LeaveRequest{ID: 9, Status: "approved"})

	assert.ErrorIs(t, err, ErrLeaveNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepository_CountByStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLeaveRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leave_requests WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := repo.CountByStatus(context.Background(), model.LeaveStatusPending)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
