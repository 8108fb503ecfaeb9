package handler

import (
	"net/http"
	"time"

	"hrhub/internal/model"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AttendanceHandler handles attendance endpoints
type AttendanceHandler struct {
	service service.AttendanceService
	log     *zap.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(s service.AttendanceService, log *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{service: s, log: log}
}

func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var filters model.AttendanceFilters
	employeeID, ok := queryID(c, "employee_id")
	if !ok {
		return
	}
	filters.EmployeeID = employeeID
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		filters.Date = &date
	}

	records, err := h.service.ListAttendance(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve attendance")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req model.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	record, err := h.service.RecordAttendance(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to record attendance")
		return
	}
	c.JSON(http.StatusOK, record)
}

// RegisterAttendanceRoutes registers attendance routes on an authenticated group
func (h *AttendanceHandler) RegisterAttendanceRoutes(protected *gin.RouterGroup, adminMW gin.HandlerFunc) {
	attendance := protected.Group("/attendance")
	{
		attendance.GET("", h.ListAttendance)
		attendance.POST("", adminMW, h.RecordAttendance)
	}
}
