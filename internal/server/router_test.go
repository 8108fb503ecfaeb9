package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrhub/internal/repository"
	"hrhub/internal/service"
	"hrhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const adminEmail = "boss@x.com"

func newTestRouter(t *testing.T, health map[string]Pinger) (*gin.Engine, service.AuthService) {
	t.Helper()
	store := repository.NewMemoryStore()
	jwtUtil := utils.NewJWTUtil("router-secret", "hrhub", time.Hour)
	auth, err := service.NewAuthService(store.Users(), repository.NewMemoryRevocationStore(), jwtUtil,
		service.AuthConfig{InitialAdminEmail: adminEmail, BcryptCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)
	return NewRouter(Deps{
		Auth:       auth,
		Employees:  service.NewEmployeeService(store.Employees(), store.Leaves(), store.Attendance()),
		Leave:      service.NewLeaveService(store.Leaves()),
		Attendance: service.NewAttendanceService(store.Attendance()),
		Logger:     zap.NewNop(),
		Health:     health,
	}), auth
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func register(t *testing.T, r http.Handler, name, email string) string {
	t.Helper()
	w, body := call(t, r, http.MethodPost, "/register", "", gin.H{"name": name, "email": email, "password": "Secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestRegisterLoginScenario(t *testing.T) {
	r, auth := newTestRouter(t, nil)

	w, body := call(t, r, http.MethodPost, "/register", "", gin.H{"name": "Ann", "email": "ann@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@x.com", "role": "employee"}, body["user"])
	t1, _ := body["token"].(string)
	require.NotEmpty(t, t1)
	assert.NotContains(t, w.Body.String(), "password")

	w, _ = call(t, r, http.MethodPost, "/login", "", gin.H{"email": "ann@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	w, body = call(t, r, http.MethodPost, "/login", "", gin.H{"email": "ann@x.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	t2, _ := body["token"].(string)
	require.NotEmpty(t, t2)

	id1, err := auth.Verify(context.Background(), t1)
	require.NoError(t, err)
	id2, err := auth.Verify(context.Background(), t2)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	register(t, r, "Ann", "ann@x.com")

	wrong, _ := call(t, r, http.MethodPost, "/login", "", gin.H{"email": "ann@x.com", "password": "nope1234"})
	unknown, _ := call(t, r, http.MethodPost, "/login", "", gin.H{"email": "ghost@x.com", "password": "nope1234"})

	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestLogin_MalformedBodyLooksLikeWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	register(t, r, "Ann", "ann@x.com")
	wrong, _ := call(t, r, http.MethodPost, "/login", "", gin.H{"email": "ann@x.com", "password": "nope1234"})

	for _, raw := range []string{`{"email":`, `{"email":"ann@x.com"}`, `{"email":5,"password":"x"}`, ``} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, wrong.Code, w.Code, raw)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String(), raw)
	}
}

func TestRegister_Failures(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	register(t, r, "Ann", "ann@x.com")

	w, body := call(t, r, http.MethodPost, "/register", "", gin.H{"name": "Ann", "email": "ANN@x.com", "password": "Secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", body["error"])

	w, body = call(t, r, http.MethodPost, "/register", "", gin.H{"name": "Bob", "email": "bob@x.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["error"])

	w, _ = call(t, r, http.MethodPost, "/register", "", gin.H{"email": "bob@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for _, path := range []string{"/api/me", "/api/employees", "/api/dashboard", "/api/navigation", "/api/leave", "/api/attendance"} {
		w, body := call(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Session expired, please log in again", body["error"], path)
	}
}

func TestMeAndLogout(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	token := register(t, r, "Ann", "ann@x.com")

	w, body := call(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@x.com", "role": "employee"}, body["user"])

	w, _ = call(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmployees_RoleRestrictions(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")

	newEmployee := gin.H{"name": "Bob", "email": "bob@x.com", "department": "Ops", "position": "Dev", "salary": 500000}

	w, _ := call(t, r, http.MethodPost, "/api/employees", staffToken, newEmployee)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := call(t, r, http.MethodPost, "/api/employees", adminToken, newEmployee)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := int64(body["id"].(float64))
	assert.Equal(t, "active", body["status"])

	w, _ = call(t, r, http.MethodGet, "/api/employees?department=Ops", staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w, _ = call(t, r, http.MethodGet, "/api/employees/999", staffToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = call(t, r, http.MethodGet, "/api/employees/abc", staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPut, "/api/employees/"+itoa(id), adminToken, gin.H{"status": "on_leave"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodPut, "/api/employees/"+itoa(id), adminToken, gin.H{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/employees/export/csv", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, r, http.MethodGet, "/api/employees/export/csv", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "bob@x.com")

	w, _ = call(t, r, http.MethodDelete, "/api/employees/"+itoa(id), staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, r, http.MethodDelete, "/api/employees/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodDelete, "/api/employees/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployees_SalaryForAdminsOnly(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")
	w, body := call(t, r, http.MethodPost, "/api/employees", adminToken, gin.H{"name": "Bob", "email": "bob@x.com", "department": "Ops", "position": "Dev", "salary": 500000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	one := "/api/employees/" + itoa(int64(body["id"].(float64)))

	list := func(token string) []map[string]any {
		w, _ := call(t, r, http.MethodGet, "/api/employees", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out, 1)
		return out
	}

	staffList := list(staffToken)
	assert.NotContains(t, staffList[0], "salary")
	assert.Equal(t, "Bob", staffList[0]["name"])
	_, staffOne := call(t, r, http.MethodGet, one, staffToken, nil)
	assert.NotContains(t, staffOne, "salary")
	assert.Equal(t, "bob@x.com", staffOne["email"])

	assert.Equal(t, float64(500000), list(adminToken)[0]["salary"])
	_, adminOne := call(t, r, http.MethodGet, one, adminToken, nil)
	assert.Equal(t, float64(500000), adminOne["salary"])
}

func TestLeave_FileListAndDecide(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")
	w, body := call(t, r, http.MethodPost, "/api/employees", adminToken, gin.H{"name": "Bob", "email": "bob@x.com", "department": "Ops", "position": "Dev", "salary": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	employeeID := int64(body["id"].(float64))

	w, body = call(t, r, http.MethodPost, "/api/leave", staffToken, gin.H{
		"employee_id": employeeID, "start_date": "2026-05-04T00:00:00Z", "end_date": "2026-05-06T00:00:00Z", "reason": "trip",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", body["status"])
	leavePath := "/api/leave/" + itoa(int64(body["id"].(float64)))

	w, _ = call(t, r, http.MethodPost, "/api/leave", staffToken, gin.H{
		"employee_id": employeeID, "start_date": "2026-05-06T00:00:00Z", "end_date": "2026-05-04T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/leave?status=pending", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leaves []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leaves))
	assert.Len(t, leaves, 1)
	w, _ = call(t, r, http.MethodGet, "/api/leave?employee_id=x", staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPut, leavePath, staffToken, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, body = call(t, r, http.MethodPut, leavePath, adminToken, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", body["status"])
	w, body = call(t, r, http.MethodPut, leavePath, adminToken, gin.H{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Leave request has already been decided", body["error"])
	w, _ = call(t, r, http.MethodPut, "/api/leave/999", adminToken, gin.H{"status": "rejected"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendance_RecordAdminOnly(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")
	w, body := call(t, r, http.MethodPost, "/api/employees", adminToken, gin.H{"name": "Bob", "email": "bob@x.com", "department": "Ops", "position": "Dev", "salary": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	mark := gin.H{"employee_id": body["id"], "date": "2026-05-04T09:00:00Z", "status": "late"}

	w, _ = call(t, r, http.MethodPost, "/api/attendance", staffToken, mark)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/attendance", adminToken, mark)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = call(t, r, http.MethodPost, "/api/attendance", adminToken, gin.H{"employee_id": 999, "status": "present"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, r, http.MethodGet, "/api/attendance?date=2026-05-04", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "late", records[0]["status"])

	w, _ = call(t, r, http.MethodGet, "/api/attendance?date=05/04/2026", staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard_PayrollForAdminsOnly(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")
	w, _ := call(t, r, http.MethodPost, "/api/employees", adminToken, gin.H{"name": "Bob", "email": "bob@x.com", "department": "Ops", "position": "Dev", "salary": 100})
	require.Equal(t, http.StatusCreated, w.Code)

	_, adminView := call(t, r, http.MethodGet, "/api/dashboard", adminToken, nil)
	_, staffView := call(t, r, http.MethodGet, "/api/dashboard", staffToken, nil)

	assert.Equal(t, float64(100), adminView["monthly_payroll"])
	assert.NotContains(t, staffView, "monthly_payroll")
	assert.Equal(t, float64(1), staffView["total_employees"])
}

func TestDashboard_LeaveAndAttendanceCounters(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	adminToken := register(t, r, "Boss", adminEmail)
	staffToken := register(t, r, "Ann", "ann@x.com")

	var ids []any
	for _, email := range []string{"bob@x.com", "cid@x.com"} {
		w, body := call(t, r, http.MethodPost, "/api/employees", adminToken, gin.H{"name": "E", "email": email, "department": "Ops", "position": "Dev", "salary": 100})
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, body["id"])
	}
	w, _ := call(t, r, http.MethodPost, "/api/leave", staffToken, gin.H{"employee_id": ids[0], "start_date": "2026-05-04T00:00:00Z", "end_date": "2026-05-04T00:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/attendance", adminToken, gin.H{"employee_id": ids[0], "status": "present"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/attendance", adminToken, gin.H{"employee_id": ids[1], "status": "absent"})
	require.Equal(t, http.StatusOK, w.Code)

	w, stats := call(t, r, http.MethodGet, "/api/dashboard", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), stats["pending_leaves"])
	assert.Equal(t, float64(1), stats["present_today"])
	assert.Equal(t, float64(1), stats["absent_today"])
}

func TestNavigation(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	staffToken := register(t, r, "Ann", "ann@x.com")

	w, body := call(t, r, http.MethodGet, "/api/navigation?route=/payroll", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	assert.Len(t, items, 5)
	assert.Equal(t, map[string]any{"outcome": "redirect(forbidden)", "target": "/forbidden"}, body["decision"])
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, map[string]Pinger{
		"db": func(context.Context) error { return nil },
	})
	w, body := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["db"])

	r, _ = newTestRouter(t, map[string]Pinger{
		"redis": func(context.Context) error { return errors.New("down") },
	})
	w, body = call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", body["redis"])
}

func itoa(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
