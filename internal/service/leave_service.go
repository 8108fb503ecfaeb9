package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrhub/internal/model"
	"hrhub/internal/repository"
)

// LeaveService files and decides leave requests
type LeaveService interface {
	CreateLeave(ctx context.Context, req model.CreateLeaveRequest) (*model.LeaveRequest, error)
	ListLeaves(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error)
	// DecideLeave approves or rejects a pending request. Decided requests are final.
	DecideLeave(ctx context.Context, id int64, req model.DecideLeaveRequest) (*model.LeaveRequest, error)
}

type leaveService struct {
	repo repository.LeaveRepository
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(repo repository.LeaveRepository) LeaveService {
	return &leaveService{repo: repo}
}

func (s *leaveService) CreateLeave(ctx context.Context, req model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	start, end := model.Day(req.StartDate), model.Day(req.EndDate)
	if end.Before(start) {
		return nil, ErrLeaveDateRange
	}

	now := time.Now()
	leave := &model.LeaveRequest{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     model.LeaveStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to create leave request in repo: %w", err)
	}
	return leave, nil
}

func (s *leaveService) ListLeaves(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error) {
	leaves, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests from repo: %w", err)
	}
	return leaves, nil
}

func (s *leaveService) DecideLeave(ctx context.Context, id int64, req model.DecideLeaveRequest) (*model.LeaveRequest, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave request by ID: %w", err)
	}
	if leave == nil {
		return nil, ErrLeaveNotFound
	}
	if leave.Status != model.LeaveStatusPending {
		return nil, ErrLeaveAlreadyDecided
	}

	leave.Status = req.Status
	if err := s.repo.UpdateStatus(ctx, leave); err != nil {
		if errors.Is(err, repository.ErrLeaveNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to update leave request in repo: %w", err)
	}
	return leave, nil
}
