package model

import "time"

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusOnLeave    = "on_leave"
	EmployeeStatusTerminated = "terminated"
)

// Employee represents a staff record managed by HR
type Employee struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Salary     int64     `json:"salary"` // Monthly, in cents
	Status     string    `json:"status"`
	HiredAt    time.Time `json:"hired_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmployeeView is an employee as returned to a caller. Salary is only set
// for admins.
type EmployeeView struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Salary     *int64    `json:"salary,omitempty"`
	Status     string    `json:"status"`
	HiredAt    time.Time `json:"hired_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ViewFor returns e as role may see it.
func (e Employee) ViewFor(role Role) EmployeeView {
	v := EmployeeView{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Status:     e.Status,
		HiredAt:    e.HiredAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if role == RoleAdmin {
		salary := e.Salary
		v.Salary = &salary
	}
	return v
}

// CreateEmployeeRequest is used for creating a new employee
type CreateEmployeeRequest struct {
	Name       string    `json:"name" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Department string    `json:"department" binding:"required"`
	Position   string    `json:"position" binding:"required"`
	Salary     int64     `json:"salary" binding:"gte=0"`
	Status     string    `json:"status" binding:"omitempty,oneof=active on_leave terminated"`
	HiredAt    time.Time `json:"hired_at"`
}

// UpdateEmployeeRequest carries a partial update; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name       *string    `json:"name,omitempty"`
	Email      *string    `json:"email,omitempty" binding:"omitempty,email"`
	Department *string    `json:"department,omitempty"`
	Position   *string    `json:"position,omitempty"`
	Salary     *int64     `json:"salary,omitempty" binding:"omitempty,gte=0"`
	Status     *string    `json:"status,omitempty" binding:"omitempty,oneof=active on_leave terminated"`
	HiredAt    *time.Time `json:"hired_at,omitempty"`
}

// EmployeeFilters narrows employee listings
type EmployeeFilters struct {
	Department *string
	Status     *string
}

// DashboardStats is the aggregate shown on the dashboard
type DashboardStats struct {
	TotalEmployees int64            `json:"total_employees"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByDepartment   map[string]int64 `json:"by_department"`
	MonthlyPayroll *int64           `json:"monthly_payroll,omitempty"` // admin only
	PendingLeaves  int64            `json:"pending_leaves"`
	PresentToday   int64            `json:"present_today"`
	AbsentToday    int64            `json:"absent_today"`
}
