package handler

import (
	"net/http"

	"hrhub/internal/model"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeaveHandler handles leave request endpoints
type LeaveHandler struct {
	service service.LeaveService
	log     *zap.Logger
}

// NewLeaveHandler creates a new LeaveHandler
func NewLeaveHandler(s service.LeaveService, log *zap.Logger) *LeaveHandler {
	return &LeaveHandler{service: s, log: log}
}

func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	var filters model.LeaveFilters
	employeeID, ok := queryID(c, "employee_id")
	if !ok {
		return
	}
	filters.EmployeeID = employeeID
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}

	leaves, err := h.service.ListLeaves(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve leave requests")
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	var req model.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	leave, err := h.service.CreateLeave(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Failed to create leave request")
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	id, ok := pathID(c, "Invalid leave request ID")
	if !ok {
		return
	}
	var req model.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	leave, err := h.service.DecideLeave(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update leave request")
		return
	}
	c.JSON(http.StatusOK, leave)
}

// RegisterLeaveRoutes registers leave routes on an authenticated group
func (h *LeaveHandler) RegisterLeaveRoutes(protected *gin.RouterGroup, adminMW gin.HandlerFunc) {
	leave := protected.Group("/leave")
	{
		leave.GET("", h.ListLeaves)
		leave.POST("", h.CreateLeave)
		leave.PUT("/:id", adminMW, h.DecideLeave)
	}
}
