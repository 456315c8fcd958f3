package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRole denies callers whose role is not listed. Admin passes every check.
// It must run after JWTAuth.
func RequireRole(logger *zap.Logger, roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !roleAllowed(claims.Role, allowed) {
			if logger != nil {
				logger.Warn("Role denied",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
			}
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient role")
			return
		}
		c.Next()
	}
}

// HasRole reports whether the authenticated caller holds one of roles
func HasRole(c *gin.Context, roles ...identity.Role) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return roleAllowed(claims.Role, allowed)
}

func roleAllowed(role string, allowed map[string]struct{}) bool {
	if role == string(identity.RoleAdmin) {
		return true
	}
	_, ok := allowed[role]
	return ok
}
