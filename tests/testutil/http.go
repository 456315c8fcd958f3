package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope is the JSON shape every API response shares
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details,omitempty"`
	} `json:"error,omitempty"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta,omitempty"`
}

// APIClient sends JSON requests to an in-process handler
type APIClient struct {
	Handler http.Handler
	// Token is sent as a bearer token when set
	Token string
}

// APIResponse is a recorded response
type APIResponse struct {
	Code   int
	Header http.Header
	Body   []byte
}

// Do sends body as JSON when it is not nil
func (c *APIClient) Do(t *testing.T, method, path string, body any) *APIResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return &APIResponse{Code: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
}

// Envelope decodes the response envelope
func (r *APIResponse) Envelope(t *testing.T) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(r.Body, &env), "Failed to parse response: %s", r.Body)
	return env
}

// ErrorCode returns the error code, or "" for a success response
func (r *APIResponse) ErrorCode(t *testing.T) string {
	t.Helper()

	env := r.Envelope(t)
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

// DecodeData unmarshals the data field of a successful response into T
func DecodeData[T any](t *testing.T, r *APIResponse) T {
	t.Helper()

	env := r.Envelope(t)
	require.True(t, env.Success, "Expected success, got %d: %s", r.Code, r.Body)

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to parse data: %s", env.Data)
	return out
}
