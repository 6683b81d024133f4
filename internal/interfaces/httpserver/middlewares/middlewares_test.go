package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

func TestSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie", cookie: "from-cookie", want: "from-cookie"},
		{name: "cookie wins over header", cookie: "from-cookie", header: "Bearer from-header", want: "from-cookie"},
		{name: "bearer header", header: "Bearer from-header", want: "from-header"},
		{name: "case insensitive scheme", header: "bearer  spaced ", want: "spaced"},
		{name: "basic auth ignored", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "anonymous", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(SessionToken("crm_session"))
			var got string
			engine.GET("/", func(c *gin.Context) { got = TokenFromContext(c) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "crm_session", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			engine.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	var fromGin, fromCtx string
	engine.GET("/", func(c *gin.Context) {
		fromGin = RequestIDFromContext(c)
		fromCtx = platformerrors.RequestIDFromContext(c.Request.Context())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	engine.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-1", fromGin)
	assert.Equal(t, "req-1", fromCtx)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, w.Header().Get("X-Request-Id"), fromGin)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPageOf(t *testing.T) {
	tests := map[string]string{
		"/":                           "landing",
		"/follow-ups/:id/complete":    "follow-ups",
		"/conversations/:id/messages": "conversations",
		"/auth/sign-in":               "auth",
		"unmatched":                   "unmatched",
	}
	for route, want := range tests {
		assert.Equal(t, want, pageOf(route), route)
	}
	assert.True(t, untraced("/healthz"))
	assert.True(t, untraced("/swagger/index.html"))
	assert.False(t, untraced("/contacts"))
}
