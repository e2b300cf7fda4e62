package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/mddforum/mdd-api/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func failWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Fail(ctx, err)
	return w
}

func TestFailValidationEnvelope(t *testing.T) {
	fields := apperror.FieldErrors{}
	fields.Add("email", "Email is required")
	w := failWith(t, fields.Err())

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Equal(t, "VALIDATION_ERROR", gjson.Get(body, "code").String())
	assert.Equal(t, int64(400), gjson.Get(body, "status").Int())
	assert.Equal(t, "Email is required", gjson.Get(body, "errors.email").String())
	assert.NotEmpty(t, gjson.Get(body, "timestamp").String())
}

func TestFailInternalHidesCause(t *testing.T) {
	w := failWith(t, errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := w.Body.String()
	assert.Equal(t, "INTERNAL_ERROR", gjson.Get(body, "code").String())
	assert.NotContains(t, body, "10.0.0.5")
	assert.False(t, gjson.Get(body, "errors").Exists())
}

func TestFailKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.InvalidCredentials(), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "ACCESS_DENIED"},
		{apperror.NotFound(apperror.CodePostNotFound, "Post not found"), http.StatusNotFound, "POST_NOT_FOUND"},
		{apperror.Conflict(apperror.CodeAlreadySubscribed, "dup"), http.StatusConflict, "ALREADY_SUBSCRIBED"},
		{apperror.TooManyRequests("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	}
	for _, tc := range cases {
		w := failWith(t, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.code, gjson.Get(w.Body.String(), "code").String())
	}
}

func TestRecoveryRendersInternal(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithZap(Logger, false))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", gjson.Get(w.Body.String(), "code").String())
}
