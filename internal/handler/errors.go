package handler

import (
	"errors"
	"net/http"

	"hrhub/internal/middleware"
	"hrhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors on the protected surface to status codes.
// Anything unrecognised is logged and answered with fallback.
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var (
		vErr  *service.ValidationError
		aErr  *service.AuthenticationError
		zErr  *service.AuthorizationError
		nfErr *service.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.As(err, &aErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrSessionExpired.Message})
	case errors.As(err, &zErr):
		c.JSON(http.StatusForbidden, gin.H{"error": zErr.Message})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Message})
	default:
		log.Error(fallback, zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
