package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrhub/internal/model"
	"hrhub/internal/repository"
)

// AttendanceService records daily attendance
type AttendanceService interface {
	// RecordAttendance sets the status for an employee and day, replacing any earlier entry.
	RecordAttendance(ctx context.Context, req model.RecordAttendanceRequest) (*model.AttendanceRecord, error)
	ListAttendance(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error)
}

type attendanceService struct {
	repo repository.AttendanceRepository
	now  func() time.Time
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(repo repository.AttendanceRepository) AttendanceService {
	return &attendanceService{repo: repo, now: time.Now}
}

func (s *attendanceService) RecordAttendance(ctx context.Context, req model.RecordAttendanceRequest) (*model.AttendanceRecord, error) {
	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	record := &model.AttendanceRecord{
		EmployeeID: req.EmployeeID,
		Date:       model.Day(date),
		Status:     req.Status,
		CreatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to record attendance in repo: %w", err)
	}
	return record, nil
}

func (s *attendanceService) ListAttendance(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error) {
	records, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance from repo: %w", err)
	}
	return records, nil
}
