package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/pkg/utils"
)

// Context keys set by Authenticate.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	contextClaims = "claims"
)

// Authenticate is a gin middleware validating the Bearer token in the
// Authorization header.
func Authenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondUnauthorizedError(c, "Access token required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondUnauthorizedError(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := tm.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				c.Error(err)
			}
			utils.RespondUnauthorizedError(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(contextClaims, claims)

		c.Next()
	}
}

// RequireRoles rejects authenticated requests whose role is not listed with
// 403. It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.RespondForbiddenError(c, "Access denied for role "+quoteRole(role))
	}
}

func quoteRole(role string) string {
	if role == "" {
		return "(none)"
	}
	return "'" + role + "'"
}

// CurrentUserID returns the authenticated user id.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentRole returns the authenticated role.
func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// CurrentClaims returns the verified claims of the request token.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
