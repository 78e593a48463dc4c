package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"feedback-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(jwtManager *token.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestAdminAuthMiddleware(t *testing.T) {
	jwtManager := token.NewJWTManager("secret", 1)
	adminToken, err := jwtManager.GenerateToken("admin", token.RoleAdmin)
	require.NoError(t, err)
	userToken, err := jwtManager.GenerateToken("bob", "USER")
	require.NoError(t, err)
	r := newAdminRouter(jwtManager)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"not bearer", func(req *http.Request) { req.Header.Set("Authorization", adminToken) }, http.StatusUnauthorized},
		{"wrong role", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+userToken) }, http.StatusForbidden},
		{"header", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+adminToken) }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: AdminTokenCookie, Value: adminToken}) }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.POST("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": c.GetString(RequestIDKey)})
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.JSONEq(t, `{"requestId":"`+generated+`"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/echo", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"requestId":"fixed-id"}`, rec.Body.String())
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/api/submissions", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/submissions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
