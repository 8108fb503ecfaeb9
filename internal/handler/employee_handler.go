package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hrhub/internal/middleware"
	"hrhub/internal/model"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmployeeHandler handles employee and dashboard requests
type EmployeeHandler struct {
	service service.EmployeeService
	log     *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(s service.EmployeeService, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: s, log: log}
}

func employeeFilters(c *gin.Context) model.EmployeeFilters {
	var filters model.EmployeeFilters
	if dept := c.Query("department"); dept != "" {
		filters.Department = &dept
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	return filters
}

func employeeID(c *gin.Context) (int64, bool) {
	return pathID(c, "Invalid employee ID")
}

func pathID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter.
func queryID(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return nil, false
	}
	return &id, true
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	role, _ := middleware.GetAuthRole(c)
	employees, err := h.service.ListEmployees(c.Request.Context(), role, employeeFilters(c))
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetAuthRole(c)
	employee, err := h.service.GetEmployee(c.Request.Context(), role, id)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req model.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	employee, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	var req model.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	employee, err := h.service.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "Failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

func (h *EmployeeHandler) Dashboard(c *gin.Context) {
	role, _ := middleware.GetAuthRole(c)
	stats, err := h.service.Dashboard(c.Request.Context(), role)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *EmployeeHandler) ExportCSV(c *gin.Context) {
	csvBuffer, err := h.service.ExportCSV(c.Request.Context(), employeeFilters(c))
	if err != nil {
		respondError(c, h.log, err, "Failed to export employees to CSV")
		return
	}

	fileName := fmt.Sprintf("employees_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterEmployeeRoutes registers employee routes on an authenticated group
func (h *EmployeeHandler) RegisterEmployeeRoutes(protected *gin.RouterGroup, adminMW gin.HandlerFunc) {
	protected.GET("/dashboard", h.Dashboard)

	employees := protected.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.GET("/export/csv", adminMW, h.ExportCSV)
		employees.GET("/:id", h.GetEmployee)
		employees.POST("", adminMW, h.CreateEmployee)
		employees.PUT("/:id", adminMW, h.UpdateEmployee)
		employees.DELETE("/:id", adminMW, h.DeleteEmployee)
	}
}
