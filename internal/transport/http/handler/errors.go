package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/percefons/auth-service/internal/domain"
)

const (
	errInternalServer = "Internal server error"
	errInvalidBody    = "Invalid request body"
	errUserExists     = "A user with that username or email already exists."
	errAuthFailed     = "Username/password is incorrect."
	errRefreshDenied  = "Refresh token is invalid or expired."
	errUserNotFound   = "User not found"
)

// writeError maps err onto a status code and a JSON body. Unknown errors are
// logged and reported as a bare 500.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var fe *domain.FieldError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Message, "code": fe.Code, "field": fe.Field})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": errUserExists, "code": domain.CodeUserExists})
	case errors.Is(err, domain.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthFailed})
	case errors.Is(err, domain.ErrRefreshDenied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errRefreshDenied})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
	default:
		logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
