package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
)

const (
	// UserIDKey is the gin context key holding the request's user scope.
	UserIDKey = "userID"
	// UserHeader is the request header naming the user.
	UserHeader = "X-User-ID"
	// UserQueryParam is the query parameter naming the user.
	UserQueryParam = "userId"

	maxUserIDLength = 128
)

// UserScope resolves the user every record belongs to, from the userId query
// parameter or the X-User-ID header, and stores it under UserIDKey. The id is
// an opaque key, not an authenticated identity.
func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Query(UserQueryParam))
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader(UserHeader))
		}
		if userID == "" || len(userID) > maxUserIDLength {
			err := apperrors.ErrMissingUser
			c.AbortWithStatusJSON(err.StatusCode,
				gin.H{"error": gin.H{"code": err.Code, "message": err.Message}})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
