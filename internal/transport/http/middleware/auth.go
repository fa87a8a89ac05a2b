package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/percefons/auth-service/internal/domain"
	ctxlog "github.com/percefons/auth-service/internal/log"
)

const (
	errUnauthorized = "Unauthorized"
	errTokenExpired = "Token has expired"

	userIDKey = "userID"
	userKey   = "user"
)

// AccessVerifier is satisfied by *token.Service.
type AccessVerifier interface {
	VerifyAccess(raw string) domain.VerifyResult
}

// Auth validates a Bearer access token and sets the numeric "userID" in the
// gin context.
func Auth(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		res := verifier.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
		switch res.Status {
		case domain.StatusSuccess:
		case domain.StatusExpired:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenExpired})
			return
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		userID, err := strconv.ParseInt(res.Payload.Subject, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// UserID returns the ID Auth stored, if any.
func UserID(c *gin.Context) (int64, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	v, ok := id.(int64)
	return v, ok
}
