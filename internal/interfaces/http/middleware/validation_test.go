package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/menswear/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingInput struct {
	Email string `json:"customer_email" binding:"required,email"`
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
	Qty   int    `json:"quantity" binding:"gte=1"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var in bookingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	_, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := postJSON(validationRouter(), `{"customer_email":"nope","date":"12/01/2026","quantity":0}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid email format", messages["customer_email"])
	assert.Equal(t, "Must match the format 2006-01-02", messages["date"])
	assert.Equal(t, "Must be greater than or equal to 1", messages["quantity"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	r := validationRouter()

	for _, body := range []string{`{"customer_email":`, `not json`, ``} {
		w := postJSON(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, w), body)
	}
}

func TestHandleValidationError_WrongType(t *testing.T) {
	w := postJSON(validationRouter(), `{"customer_email":"a@b.co","date":"2026-01-02","quantity":"two"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
}

func TestHandleValidationError_Valid(t *testing.T) {
	w := postJSON(validationRouter(), `{"customer_email":"a@b.co","date":"2026-01-02","quantity":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Name  string   `validate:"min=5"`
		Tags  []string `validate:"max=1"`
		Kind  string   `validate:"oneof=a b c"`
		ID    string   `validate:"uuid"`
		Other int      `validate:"ne=0"`
	}
	v := validator.New()
	err := v.Struct(sample{Name: "ab", Tags: []string{"x", "y"}, Kind: "d", ID: "bad"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "Must be at least 5 characters", got["Name"])
	assert.Equal(t, "Must contain at most 1 items", got["Tags"])
	assert.Equal(t, "Must be one of: a b c", got["Kind"])
	assert.Equal(t, "Invalid UUID format", got["ID"])
	assert.Equal(t, "Must not equal 0", got["Other"])
}
