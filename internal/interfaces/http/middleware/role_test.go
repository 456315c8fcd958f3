package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
)

func roleRouter(role string, allowed ...identity.Role) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(JWTClaimsKey, &auth.Claims{UserID: "u-1", Role: role})
		}
		c.Next()
	})
	r.Use(RequireRole(nil, allowed...))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		allowed []identity.Role
		want    int
	}{
		{"staff allowed", "staff", []identity.Role{identity.RoleStaff}, http.StatusOK},
		{"admin always allowed", "admin", []identity.Role{identity.RoleStaff}, http.StatusOK},
		{"customer denied", "customer", []identity.Role{identity.RoleStaff}, http.StatusForbidden},
		{"admin only denies staff", "staff", []identity.Role{identity.RoleAdmin}, http.StatusForbidden},
		{"no claims", "", []identity.Role{identity.RoleStaff}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			roleRouter(tt.role, tt.allowed...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRole_ForbiddenCode(t *testing.T) {
	w := httptest.NewRecorder()
	roleRouter("customer", identity.RoleStaff).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "ERR_FORBIDDEN", errorCode(t, w))
}

func TestHasRole(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HasRole(c, identity.RoleStaff))

	c.Set(JWTClaimsKey, &auth.Claims{Role: "staff"})
	assert.True(t, HasRole(c, identity.RoleStaff, identity.RoleAdmin))
	assert.False(t, HasRole(c, identity.RoleAdmin))
}
