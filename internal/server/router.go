package server

import (
	"context"
	"net/http"

	"hrhub/internal/gate"
	"hrhub/internal/handler"
	"hrhub/internal/middleware"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Deps is everything the router needs.
type Deps struct {
	Auth        service.AuthService
	Employees   service.EmployeeService
	Leave       service.LeaveService
	Attendance  service.AttendanceService
	Gate        *gate.Table
	Logger      *zap.Logger
	CORSOrigins []string
	// Health checks, keyed by component name ("db", "redis").
	Health map[string]Pinger
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) *gin.Engine {
	if d.Gate == nil {
		d.Gate = gate.Default
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		gin.Recovery(),
		middleware.CORS(d.CORSOrigins),
	)

	authHandler := handler.NewAuthHandler(d.Auth, d.Logger)
	employeeHandler := handler.NewEmployeeHandler(d.Employees, d.Logger)
	leaveHandler := handler.NewLeaveHandler(d.Leave, d.Logger)
	attendanceHandler := handler.NewAttendanceHandler(d.Attendance, d.Logger)
	navHandler := handler.NewNavHandler(d.Gate)

	jwtAuthMW := middleware.JWTAuthMiddleware(d.Auth, d.Logger)
	adminRoleMW := middleware.AdminMiddleware()

	protected := router.Group("/api", jwtAuthMW)
	authHandler.RegisterAuthRoutes(&router.RouterGroup, protected)
	employeeHandler.RegisterEmployeeRoutes(protected, adminRoleMW)
	leaveHandler.RegisterLeaveRoutes(protected, adminRoleMW)
	attendanceHandler.RegisterAttendanceRoutes(protected, adminRoleMW)
	navHandler.RegisterNavRoutes(protected)

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok"}
		for name, ping := range d.Health {
			if err := ping(c.Request.Context()); err != nil {
				d.Logger.Warn("health check failed", zap.String("component", name), zap.Error(err))
				status = http.StatusServiceUnavailable
				body["status"] = "error"
				body[name] = "unhealthy"
				continue
			}
			body[name] = "healthy"
		}
		c.JSON(status, body)
	})

	return router
}
