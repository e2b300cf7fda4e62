package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/mddforum/mdd-api/config"
	"github.com/mddforum/mdd-api/testutil"
	"github.com/mddforum/mdd-api/utils"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	utils.SetRedis(nil)
	cfg := config.AppConfig{
		GinMode:            "test",
		JWTSecret:          "test-secret",
		JWTIssuer:          "mdd",
		JWTTTL:             time.Hour,
		RateLimitPerMinute: 600,
		AllowedOrigins:     []string{"*"},
	}
	return SetupRouter(testutil.NewDB(t), cfg)
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r http.Handler, email, username string) string {
	t.Helper()
	w := call(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "username": username, "password": "Aa1!aaaa"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return gjson.Get(w.Body.String(), "token").String()
}

func TestExampleScenario(t *testing.T) {
	r := newTestRouter(t)

	token := register(t, r, "a@x.com", "alice")
	require.NotEmpty(t, token)

	w := call(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.com", "password": "Wrong1!pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", gjson.Get(w.Body.String(), "code").String())

	w = call(t, r, http.MethodPost, "/api/subjects/1/subscribe", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, gjson.Get(w.Body.String(), "isSubscribed").Bool())

	w = call(t, r, http.MethodPost, "/api/subjects/1/subscribe", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_SUBSCRIBED", gjson.Get(w.Body.String(), "code").String())

	w = call(t, r, http.MethodPost, "/api/posts", token, gin.H{"title": "Hello Java", "content": "My very first post", "subjectId": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := gjson.Get(w.Body.String(), "id").Int()
	assert.Equal(t, "alice", gjson.Get(w.Body.String(), "author").String())
	assert.Equal(t, "Java", gjson.Get(w.Body.String(), "subject").String())

	w = call(t, r, http.MethodGet, "/api/posts/subscribed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := gjson.Parse(w.Body.String()).Array()
	require.Len(t, feed, 1)
	assert.Equal(t, postID, feed[0].Get("id").Int())
}

func TestAuthEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@x.com", "alice")

	w := call(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@x.com", "username": "other", "password": "Aa1!aaaa"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", gjson.Get(w.Body.String(), "code").String())

	w = call(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "bad", "username": "x", "password": "weak"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Equal(t, "VALIDATION_ERROR", gjson.Get(body, "code").String())
	assert.True(t, gjson.Get(body, "errors.email").Exists())
	assert.True(t, gjson.Get(body, "errors.username").Exists())
	assert.True(t, gjson.Get(body, "errors.password").Exists())

	w = call(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@x.com", "password": "Aa1!aaaa"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, gjson.Get(w.Body.String(), "token").String())

	w = call(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", gjson.Get(w.Body.String(), "username").String())
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2}$`, gjson.Get(w.Body.String(), "createdAt").String())
	assert.False(t, gjson.Get(w.Body.String(), "passwordHash").Exists())

	w = call(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(t, r, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodGet, "/api/auth/oauth/github/login", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@x.com", "alice")
	register(t, r, "b@x.com", "bob")

	w := call(t, r, http.MethodGet, "/api/users/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", gjson.Get(w.Body.String(), "username").String())

	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/users/99", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/users/abc", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/users/0", "", nil).Code)

	w = call(t, r, http.MethodPut, "/api/users/me", token, gin.H{"email": "b@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(t, r, http.MethodPut, "/api/users/me", token, gin.H{"email": "new@x.com", "username": "  alicia  "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Equal(t, "alicia", gjson.Get(body, "user.username").String())
	assert.Equal(t, "new@x.com", gjson.Get(body, "user.email").String())

	// The old token's subject no longer resolves; the returned one does.
	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/api/auth/me", token, nil).Code)
	fresh := gjson.Get(body, "token").String()
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/auth/me", fresh, nil).Code)
}

func TestSubjectEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@x.com", "alice")

	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/api/subjects", "", nil).Code)

	w := call(t, r, http.MethodGet, "/api/subjects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	subjects := gjson.Parse(w.Body.String()).Array()
	require.NotEmpty(t, subjects)
	assert.Equal(t, int64(1), subjects[0].Get("id").Int())

	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, "/api/subjects/2/subscribe", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodPost, "/api/subjects/999/subscribe", token, nil).Code)

	w = call(t, r, http.MethodGet, "/api/subjects/subscriptions/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, s := range gjson.Parse(w.Body.String()).Array() {
		assert.Equal(t, s.Get("id").Int() == 2, s.Get("isSubscribed").Bool())
	}

	w = call(t, r, http.MethodGet, "/api/subjects/subscribed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", gjson.Get(w.Body.String(), "#.id").Array()[0].String())

	assert.Equal(t, http.StatusNoContent, call(t, r, http.MethodDelete, "/api/subjects/2/unsubscribe", token, nil).Code)
	w = call(t, r, http.MethodDelete, "/api/subjects/2/unsubscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SUBSCRIPTION_NOT_FOUND", gjson.Get(w.Body.String(), "code").String())
}

func TestPostAndCommentEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "a@x.com", "alice")

	w := call(t, r, http.MethodPost, "/api/posts", token, gin.H{"title": "Go", "content": "short", "subjectId": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "errors").Map(), 3)

	w = call(t, r, http.MethodPost, "/api/posts", token, gin.H{"title": "Lost", "content": "no such subject here", "subjectId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodPost, "/api/posts", token, gin.H{"title": "Goroutines", "content": "Cheap concurrent functions", "subjectId": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "id").String()

	w = call(t, r, http.MethodGet, "/api/posts/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Goroutines", gjson.Get(w.Body.String(), "title").String())
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/posts/999", "", nil).Code)

	// Not subscribed to subject 2, so the feed is empty.
	w = call(t, r, http.MethodGet, "/api/posts/subscribed?order=asc", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/posts/subscribed?order=up", token, nil).Code)

	w = call(t, r, http.MethodPost, "/api/comments/post/"+id, token, gin.H{"content": "Great read"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", gjson.Get(w.Body.String(), "author").String())

	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodPost, "/api/comments/post/"+id, "", gin.H{"content": "anon"}).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, "/api/comments/post/"+id, token, gin.H{"content": ""}).Code)

	w = call(t, r, http.MethodGet, "/api/comments/post/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Great read", gjson.Get(w.Body.String(), "0.content").String())
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/comments/post/999", "", nil).Code)

	w = call(t, r, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "posts").Int())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "comments").Int())
}

func TestOperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(t, r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", gjson.Get(w.Body.String(), "code").String())

	w = call(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mdd_http_requests_total")
}
