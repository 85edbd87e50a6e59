package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "filestashUser"

// TokenHeader is the request header carrying the opaque session token.
const TokenHeader = "X-Token"

// Middleware resolves the session token and injects the user identity,
// aborting with 401 when the token is missing or does not resolve.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := service.Resolve(c.Request.Context(), c.GetHeader(TokenHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(string(userContextKey), userID)
		c.Next()
	}
}

// Identify resolves the token when present but never aborts; routes behind it
// serve anonymous callers with a Nil identity.
func Identify(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := service.Resolve(c.Request.Context(), c.GetHeader(TokenHeader)); err == nil {
			c.Set(string(userContextKey), userID)
		}
		c.Next()
	}
}

// CurrentUser extracts the resolved identity from the context; uuid.Nil when
// the caller is anonymous.
func CurrentUser(c *gin.Context) uuid.UUID {
	value, exists := c.Get(string(userContextKey))
	if !exists {
		return uuid.Nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
