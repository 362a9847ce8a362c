package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

func newCtx() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_WritesEnvelope(t *testing.T) {
	c, w := newCtx()
	resp := Success(c, http.StatusCreated, gin.H{"id": "1"}, "created", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	body := decode(t, w)
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
}

func TestError_DefaultStatus(t *testing.T) {
	c, w := newCtx()
	Error[any](c, 0, "bad", map[string]string{"title": "is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"title": "is required"}, body["error"])
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.Validation("no image uploaded"), http.StatusBadRequest, "no image uploaded"},
		{"conflict", apperror.Conflict("user already exists"), http.StatusConflict, "user already exists"},
		{"forbidden", apperror.Forbidden("not the owner"), http.StatusForbidden, "not the owner"},
		{"media", apperror.Media("upload failed", errors.New("gcs: 503")), http.StatusInternalServerError, "media service error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newCtx()
			FromError(c, nil, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decode(t, w)["message"])
		})
	}
}

func TestAbort(t *testing.T) {
	c, w := newCtx()
	Abort(c, http.StatusUnauthorized, "missing access token", nil)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
