package handler

import (
	"errors"
	"net/http"

	"hrhub/internal/middleware"
	"hrhub/internal/model"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	log     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password are required"})
		return
	}

	res, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.credentialError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, model.AuthResponse{User: res.Profile, Token: res.Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidCredentials.Message})
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.credentialError(c, err, "Failed to login")
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{User: res.Profile, Token: res.Token})
}

// Me returns the caller's public profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrSessionExpired.Message})
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Logout revokes the bearer token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.AuthTokenKey)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.log, err, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// credentialError answers register and login failures. Credential problems
// are 400 here, never 401, so clients do not mistake them for an expired session.
func (h *AuthHandler) credentialError(c *gin.Context, err error, fallback string) {
	var vErr *service.ValidationError
	var aErr *service.AuthenticationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.As(err, &aErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": aErr.Message})
	default:
		h.log.Error(fallback, zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterAuthRoutes registers the public credential routes on rg and the
// session routes on protected.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, protected *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)

	protected.GET("/me", h.Me)
	protected.POST("/logout", h.Logout)
}
