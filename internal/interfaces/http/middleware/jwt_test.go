package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/menswear/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func issueTokens(t *testing.T, svc *auth.JWTService, role string) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	subject := auth.Subject{UserID: uuid.New(), Email: "staff@example.com", Role: role}
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair, subject
}

type revocationFunc func(ctx context.Context, claims *auth.Claims) error

func (f revocationFunc) CheckRevoked(ctx context.Context, claims *auth.Claims) error {
	return f(ctx, claims)
}

func jwtRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(cfg))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetJWTUserID(c),
			"role":        GetJWTRole(c),
			"ctx_user_id": logger.GetUserID(c.Request.Context()),
		})
	})
	return r
}

func getWithToken(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, subject := issueTokens(t, svc, "staff")

	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), pair.AccessToken)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, subject.UserID.String(), body["user_id"])
	assert.Equal(t, "staff", body["role"])
	assert.Equal(t, subject.UserID.String(), body["ctx_user_id"])
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_INVALID_TOKEN", errorCode(t, w))
}

func TestJWTAuth_MalformedScheme(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	jwtRouter(JWTMiddlewareConfig{JWTService: svc}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), "not.a.token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_INVALID_TOKEN", errorCode(t, w))
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	pair, _ := issueTokens(t, svc, "staff")

	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_TOKEN_EXPIRED", errorCode(t, w))
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "staff")

	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), pair.RefreshToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "staff")
	revoked := revocationFunc(func(context.Context, *auth.Claims) error {
		return shared.NewDomainError("INVALID_TOKEN", "revoked")
	})

	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc, Revocation: revoked}), pair.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_TOKEN_REVOKED", errorCode(t, w))
}

func TestJWTAuth_RevocationStoreDownFailsOpen(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "customer")
	broken := revocationFunc(func(context.Context, *auth.Claims) error {
		return errors.New("redis: connection refused")
	})

	w := getWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc, Revocation: broken}), pair.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
}

func optionalRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	r := gin.New()
	r.Use(OptionalJWTAuth(cfg))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTRole(c))
	})
	return r
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "admin")
	r := optionalRouter(JWTMiddlewareConfig{JWTService: svc})

	t.Run("anonymous passes", func(t *testing.T) {
		w := getWithToken(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		w := getWithToken(r, "garbage")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		w := getWithToken(r, pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())
	})
}

func TestOptionalJWTAuth_RevokedStaffTokenIsAnonymous(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "staff")

	store := auth.NewMemoryRevocationStore()
	checker := revocationFunc(func(ctx context.Context, claims *auth.Claims) error {
		revoked, err := store.TokenRevoked(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return shared.NewDomainError("INVALID_TOKEN", "revoked")
		}
		return nil
	})
	r := optionalRouter(JWTMiddlewareConfig{JWTService: svc, Revocation: checker})

	w := getWithToken(r, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "staff", w.Body.String())

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, store.RevokeToken(context.Background(), claims.ID, time.Hour))

	w = getWithToken(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String(), "logged-out token must not unlock the staff view")
}

func TestOptionalJWTAuth_RevocationStoreDownIsAnonymous(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issueTokens(t, svc, "staff")
	broken := revocationFunc(func(context.Context, *auth.Claims) error {
		return errors.New("redis: connection refused")
	})

	w := getWithToken(optionalRouter(JWTMiddlewareConfig{JWTService: svc, Revocation: broken}), pair.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetJWTClaims_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTRole(c))
}
