package model

import "time"

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveRequest is a request for time off by an employee
type LeaveRequest struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateLeaveRequest files a new leave request
type CreateLeaveRequest struct {
	EmployeeID int64     `json:"employee_id" binding:"required,gt=0"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Reason     string    `json:"reason" binding:"max=500"`
}

// DecideLeaveRequest approves or rejects a pending request
type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type LeaveFilters struct {
	EmployeeID *int64
	Status     *string
}
