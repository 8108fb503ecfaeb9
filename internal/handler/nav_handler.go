package handler

import (
	"net/http"

	"hrhub/internal/gate"
	"hrhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NavHandler serves the navigation shell for the caller's role.
type NavHandler struct {
	table *gate.Table
}

func NewNavHandler(table *gate.Table) *NavHandler {
	return &NavHandler{table: table}
}

// Navigation lists the pages the caller may open. With ?route= it also
// reports the gate decision for that route.
func (h *NavHandler) Navigation(c *gin.Context) {
	role, _ := middleware.GetAuthRole(c)
	resp := gin.H{"role": role, "items": h.table.NavItems(role)}
	if route := c.Query("route"); route != "" {
		d := h.table.CanAccess(gate.ForRole(role), route)
		resp["decision"] = gin.H{"outcome": d.Outcome.String(), "target": d.Target}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NavHandler) RegisterNavRoutes(protected *gin.RouterGroup) {
	protected.GET("/navigation", h.Navigation)
}
