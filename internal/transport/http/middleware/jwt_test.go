package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"medichat/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func newGuardedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{AuthJWT(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(ContextUserIDKey),
			"role":    c.GetString(ContextRoleKey),
		})
	})

	router.GET("/guarded", handlers...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWTValidToken(t *testing.T) {
	token, err := jwtutil.GenerateToken(testSecret, time.Minute, 5, "a@x.com", "A", "patient")
	assert.NoError(t, err)

	rec := doRequest(newGuardedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
	assert.Contains(t, rec.Body.String(), `"role":"patient"`)
}

func TestAuthJWTRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(newGuardedRouter(), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthJWTExpiredToken(t *testing.T) {
	token, err := jwtutil.GenerateToken(testSecret, -time.Minute, 5, "a@x.com", "A", "patient")
	assert.NoError(t, err)

	rec := doRequest(newGuardedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	token, err := jwtutil.GenerateToken(testSecret, time.Minute, 1, "admin@x.com", "Admin", "admin")
	assert.NoError(t, err)

	rec := doRequest(newGuardedRouter("admin"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidsPatient(t *testing.T) {
	token, err := jwtutil.GenerateToken(testSecret, time.Minute, 1, "a@x.com", "A", "patient")
	assert.NoError(t, err)

	rec := doRequest(newGuardedRouter("admin"), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
