package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/policy"
	"inventory-system/internal/utils"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

type tokenParser interface {
	ParseToken(token string) (*utils.Claims, error)
}

func abortWith(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"message": message,
	})
}

// JWTAuth checks the bearer token and stores the caller identity in the
// context.
func JWTAuth(tokens tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			abortWith(c, http.StatusUnauthorized, "Authorization header must start with Bearer")
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			zap.L().Debug("rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			abortWith(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		userID, _ := claims.UserID()

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequirePolicy rejects callers whose role claim does not satisfy p. It must
// run after JWTAuth.
func RequirePolicy(p policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(p, c.GetString(ContextRole)); err != nil {
			abortWith(c, http.StatusForbidden, "You do not have permission to access this resource")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller id set by JWTAuth.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
