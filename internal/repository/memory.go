package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hrhub/internal/model"
)

// MemoryStore implements the user, employee, leave and attendance
// repositories in process memory. It backs STORAGE=memory and the HTTP tests.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]model.User
	employees  map[int64]model.Employee
	leaves     map[int64]model.LeaveRequest
	attendance map[int64]model.AttendanceRecord

	userIDCounter       int64
	employeeIDCounter   int64
	leaveIDCounter      int64
	attendanceIDCounter int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]model.User),
		employees:  make(map[int64]model.Employee),
		leaves:     make(map[int64]model.LeaveRequest),
		attendance: make(map[int64]model.AttendanceRecord),
	}
}

// Ensure interfaces are met.
var _ UserRepository = (*MemoryUsers)(nil)
var _ EmployeeRepository = (*MemoryEmployees)(nil)
var _ LeaveRepository = (*MemoryLeaves)(nil)
var _ AttendanceRepository = (*MemoryAttendance)(nil)

// Users returns the UserRepository view of the store.
func (s *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{s: s} }

// Employees returns the EmployeeRepository view of the store.
func (s *MemoryStore) Employees() *MemoryEmployees { return &MemoryEmployees{s: s} }

// Leaves returns the LeaveRepository view of the store.
func (s *MemoryStore) Leaves() *MemoryLeaves { return &MemoryLeaves{s: s} }

// Attendance returns the AttendanceRepository view of the store.
func (s *MemoryStore) Attendance() *MemoryAttendance { return &MemoryAttendance{s: s} }

// --- UserRepository ---

// MemoryUsers is the in-memory UserRepository.
type MemoryUsers struct{ s *MemoryStore }

func (m *MemoryUsers) Create(ctx context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	m.s.userIDCounter++
	user.ID = m.s.userIDCounter
	m.s.users[user.ID] = *user
	return nil
}

func (m *MemoryUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	email = strings.TrimSpace(email)
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// --- EmployeeRepository ---

// MemoryEmployees is the in-memory EmployeeRepository.
type MemoryEmployees struct{ s *MemoryStore }

func (m *MemoryEmployees) Create(ctx context.Context, e *model.Employee) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.emailTaken(e.Email, 0) {
		return ErrDuplicateEmail
	}
	m.s.employeeIDCounter++
	e.ID = m.s.employeeIDCounter
	m.s.employees[e.ID] = *e
	return nil
}

func (m *MemoryEmployees) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e, ok := m.s.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *MemoryEmployees) FindAll(ctx context.Context, filters model.EmployeeFilters) ([]model.Employee, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := []model.Employee{}
	for _, e := range m.s.employees {
		if filters.Department != nil && *filters.Department != "" && e.Department != *filters.Department {
			continue
		}
		if filters.Status != nil && *filters.Status != "" && e.Status != *filters.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryEmployees) Update(ctx context.Context, e *model.Employee) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.employees[e.ID]; !ok {
		return ErrEmployeeNotFound
	}
	if m.emailTaken(e.Email, e.ID) {
		return ErrDuplicateEmail
	}
	e.UpdatedAt = time.Now()
	m.s.employees[e.ID] = *e
	return nil
}

func (m *MemoryEmployees) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.s.employees, id)
	for lid, l := range m.s.leaves {
		if l.EmployeeID == id {
			delete(m.s.leaves, lid)
		}
	}
	for aid, a := range m.s.attendance {
		if a.EmployeeID == id {
			delete(m.s.attendance, aid)
		}
	}
	return nil
}

func (m *MemoryEmployees) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stats := &model.DashboardStats{
		ByStatus:     make(map[string]int64),
		ByDepartment: make(map[string]int64),
	}
	var payroll int64
	for _, e := range m.s.employees {
		stats.TotalEmployees++
		stats.ByStatus[e.Status]++
		stats.ByDepartment[e.Department]++
		if e.Status != model.EmployeeStatusTerminated {
			payroll += e.Salary
		}
	}
	stats.MonthlyPayroll = &payroll
	return stats, nil
}

// emailTaken must be called with mu held.
func (m *MemoryEmployees) emailTaken(email string, exceptID int64) bool {
	for id, e := range m.s.employees {
		if id != exceptID && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

// --- LeaveRepository ---

// MemoryLeaves is the in-memory LeaveRepository.
type MemoryLeaves struct{ s *MemoryStore }

func (m *MemoryLeaves) Create(ctx context.Context, l *model.LeaveRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.employees[l.EmployeeID]; !ok {
		return ErrEmployeeNotFound
	}
	m.s.leaveIDCounter++
	l.ID = m.s.leaveIDCounter
	m.s.leaves[l.ID] = *l
	return nil
}

func (m *MemoryLeaves) FindByID(ctx context.Context, id int64) (*model.LeaveRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	l, ok := m.s.leaves[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *MemoryLeaves) FindAll(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := []model.LeaveRequest{}
	for _, l := range m.s.leaves {
		if filters.EmployeeID != nil && l.EmployeeID != *filters.EmployeeID {
			continue
		}
		if filters.Status != nil && *filters.Status != "" && l.Status != *filters.Status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (m *MemoryLeaves) UpdateStatus(ctx context.Context, l *model.LeaveRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.leaves[l.ID]
	if !ok {
		return ErrLeaveNotFound
	}
	stored.Status = l.Status
	stored.UpdatedAt = time.Now()
	m.s.leaves[l.ID] = stored
	l.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MemoryLeaves) CountByStatus(ctx context.Context, status string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var n int64
	for _, l := range m.s.leaves {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

// --- AttendanceRepository ---

// MemoryAttendance is the in-memory AttendanceRepository.
type MemoryAttendance struct{ s *MemoryStore }

func (m *MemoryAttendance) Upsert(ctx context.Context, a *model.AttendanceRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.employees[a.EmployeeID]; !ok {
		return ErrEmployeeNotFound
	}
	a.Date = model.Day(a.Date)
	for id, existing := range m.s.attendance {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			existing.Status = a.Status
			m.s.attendance[id] = existing
			a.ID, a.CreatedAt = existing.ID, existing.CreatedAt
			return nil
		}
	}
	m.s.attendanceIDCounter++
	a.ID = m.s.attendanceIDCounter
	m.s.attendance[a.ID] = *a
	return nil
}

func (m *MemoryAttendance) FindAll(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := []model.AttendanceRecord{}
	for _, a := range m.s.attendance {
		if filters.EmployeeID != nil && a.EmployeeID != *filters.EmployeeID {
			continue
		}
		if filters.Date != nil && !a.Date.Equal(model.Day(*filters.Date)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *MemoryAttendance) CountByStatusOn(ctx context.Context, day time.Time) (map[string]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	day = model.Day(day)
	counts := make(map[string]int64)
	for _, a := range m.s.attendance {
		if a.Date.Equal(day) {
			counts[a.Status]++
		}
	}
	return counts, nil
}
