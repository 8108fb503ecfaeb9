package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hrhub/internal/model"
	"hrhub/internal/repository"
)

// ErrEmployeeEmailTaken is returned when another employee already uses the email.
var ErrEmployeeEmailTaken = &ValidationError{Message: "Employee email already exists"}

// EmployeeService defines operations on the HR employee records
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req model.CreateEmployeeRequest) (*model.Employee, error)
	// GetEmployee and ListEmployees show salaries to admins only.
	GetEmployee(ctx context.Context, role model.Role, id int64) (*model.EmployeeView, error)
	ListEmployees(ctx context.Context, role model.Role, filters model.EmployeeFilters) ([]model.EmployeeView, error)
	UpdateEmployee(ctx context.Context, id int64, req model.UpdateEmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	// Dashboard hides payroll figures from non-admin roles.
	Dashboard(ctx context.Context, role model.Role) (*model.DashboardStats, error)
	ExportCSV(ctx context.Context, filters model.EmployeeFilters) (*bytes.Buffer, error)
}

type employeeService struct {
	repo       repository.EmployeeRepository
	leaves     repository.LeaveRepository
	attendance repository.AttendanceRepository
	now        func() time.Time
}

// NewEmployeeService creates a new EmployeeService. The leave and attendance
// repositories feed the dashboard counters.
func NewEmployeeService(repo repository.EmployeeRepository, leaves repository.LeaveRepository, attendance repository.AttendanceRepository) EmployeeService {
	return &employeeService{repo: repo, leaves: leaves, attendance: attendance, now: time.Now}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req model.CreateEmployeeRequest) (*model.Employee, error) {
	now := time.Now()
	hiredAt := req.HiredAt
	if hiredAt.IsZero() {
		hiredAt = now
	}
	status := req.Status
	if status == "" {
		status = model.EmployeeStatusActive
	}

	employee := &model.Employee{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		Salary:     req.Salary,
		Status:     status,
		HiredAt:    hiredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmployeeEmailTaken
		}
		return nil, fmt.Errorf("failed to create employee in repo: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, role model.Role, id int64) (*model.EmployeeView, error) {
	employee, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := employee.ViewFor(role)
	return &view, nil
}

func (s *employeeService) find(ctx context.Context, id int64) (*model.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, role model.Role, filters model.EmployeeFilters) ([]model.EmployeeView, error) {
	employees, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees from repo: %w", err)
	}
	views := make([]model.EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, e.ViewFor(role))
	}
	return views, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id int64, req model.UpdateEmployeeRequest) (*model.Employee, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		existing.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		existing.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		existing.Position = strings.TrimSpace(*req.Position)
	}
	if req.Salary != nil {
		existing.Salary = *req.Salary
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}
	if req.HiredAt != nil {
		existing.HiredAt = *req.HiredAt
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmployeeNotFound):
			return nil, ErrEmployeeNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmployeeEmailTaken
		}
		return nil, fmt.Errorf("failed to update employee in repo: %w", err)
	}
	return existing, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee in repo: %w", err)
	}
	return nil
}

func (s *employeeService) Dashboard(ctx context.Context, role model.Role) (*model.DashboardStats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	if role != model.RoleAdmin {
		stats.MonthlyPayroll = nil
	}

	if stats.PendingLeaves, err = s.leaves.CountByStatus(ctx, model.LeaveStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending leave requests: %w", err)
	}
	today, err := s.attendance.CountByStatusOn(ctx, model.Day(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance for today: %w", err)
	}
	// Late arrivals are present.
	stats.PresentToday = today[model.AttendanceStatusPresent] + today[model.AttendanceStatusLate]
	stats.AbsentToday = today[model.AttendanceStatusAbsent]
	return stats, nil
}

func (s *employeeService) ExportCSV(ctx context.Context, filters model.EmployeeFilters) (*bytes.Buffer, error) {
	employees, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees for CSV export: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "Name", "Email", "Department", "Position", "Salary", "Status", "HiredAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range employees {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			e.Email,
			e.Department,
			e.Position,
			strconv.FormatInt(e.Salary, 10), // cents
			e.Status,
			e.HiredAt.Format("2006-01-02"),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}
