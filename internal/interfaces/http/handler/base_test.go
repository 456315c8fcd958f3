package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/menswear/backend/internal/interfaces/http/dto"
	"github.com/menswear/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope mirrors dto.Response with raw data for per-test decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}

// asUser authenticates the request as a user with role
func asUser(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{UserID: userID.String(), Role: role})
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(mw...)
	return r
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/x", func(c *gin.Context) { h.SuccessWithMeta(c, []string{"a"}, 45, 0, 0) })

	w := perform(r, http.MethodGet, "/x", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(45), env.Meta.Total)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 20, env.Meta.PageSize)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

func TestBaseHandler_CreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.POST("/x", func(c *gin.Context) { h.Created(c, gin.H{"id": "1"}) })
	r.DELETE("/x", func(c *gin.Context) { h.NoContent(c) })

	assert.Equal(t, http.StatusCreated, perform(r, http.MethodPost, "/x", nil).Code)
	w := perform(r, http.MethodDelete, "/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"already exists", shared.NewDomainError("ALREADY_EXISTS", "dup"), http.StatusConflict, "ERR_ALREADY_EXISTS"},
		{"insufficient stock", shared.NewDomainError("INSUFFICIENT_STOCK", "none left"), http.StatusConflict, "ERR_INSUFFICIENT_STOCK"},
		{"transition", shared.NewDomainError("INVALID_STATUS_TRANSITION", "no"), http.StatusConflict, "ERR_INVALID_STATUS_TRANSITION"},
		{"invalid family", shared.NewDomainError("INVALID_SIZE", "bad size"), http.StatusBadRequest, "ERR_INVALID_SIZE"},
		{"forbidden", shared.NewDomainError("FORBIDDEN", "no"), http.StatusForbidden, "ERR_FORBIDDEN"},
		{"wrapped domain", fmt.Errorf("create: %w", shared.ErrNotFound), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"plain error", fmt.Errorf("connection reset"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newTestRouter()
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := perform(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
		})
	}
}

func TestBaseHandler_PlainErrorHidesMessage(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, fmt.Errorf("pq: password authentication failed")) })

	w := perform(r, http.MethodGet, "/x", nil)

	assert.NotContains(t, w.Body.String(), "password")
}

func TestBaseHandler_ParseID(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	w := perform(r, http.MethodGet, "/x/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_INVALID_ID", decode(t, w).Error.Code)

	id := uuid.New()
	w = perform(r, http.MethodGet, "/x/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBaseHandler_CurrentUserID(t *testing.T) {
	h := &BaseHandler{}
	handler := func(c *gin.Context) {
		if _, ok := h.currentUserID(c); ok {
			h.NoContent(c)
		}
	}

	anon := newTestRouter()
	anon.GET("/me", handler)
	assert.Equal(t, http.StatusUnauthorized, perform(anon, http.MethodGet, "/me", nil).Code)

	authed := newTestRouter(asUser(uuid.New(), "staff"))
	authed.GET("/me", handler)
	assert.Equal(t, http.StatusNoContent, perform(authed, http.MethodGet, "/me", nil).Code)
}
