package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/percefons/auth-service/internal/domain"
)

const errInactive = "User account is inactive"

// UserLoader is satisfied by *usecase.AuthUsecase.
type UserLoader interface {
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// ActiveUser runs after Auth. It loads the token's user, rejects deleted and
// deactivated accounts, and stores the user for handlers.
func ActiveUser(users UserLoader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		user, err := users.Me(c.Request.Context(), userID)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		case err != nil:
			logger.ErrorContext(c.Request.Context(), "load current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		case !user.IsActive:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errInactive})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user ActiveUser stored, if any.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
