package model

import "time"

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
)

// AttendanceRecord is one employee's attendance for one day
type AttendanceRecord struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordAttendanceRequest sets the attendance of an employee. Date defaults to today.
type RecordAttendanceRequest struct {
	EmployeeID int64     `json:"employee_id" binding:"required,gt=0"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status" binding:"required,oneof=present absent late"`
}

type AttendanceFilters struct {
	EmployeeID *int64
	Date       *time.Time
}

// Day truncates t to its calendar date, in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
