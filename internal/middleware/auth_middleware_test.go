package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/uniportal/internal/pkg/auth"
)

func newTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	protected := router.Group("", m.JWTAuth())
	protected.GET("/me", func(c *gin.Context) {
		studentID, _ := StudentIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"studentId":         studentID,
			"email":             c.GetString(ContextEmail),
			"isProfileComplete": c.GetBool(ContextIsProfileComplete),
		})
	})
	protected.GET("/complete-only", m.ProfileCompleteRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func testService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "uniportal.test",
	})
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router := newTestRouter(testService())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	router := newTestRouter(testService())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret",
		TokenExp:  -time.Minute,
	})
	token, _, err := expired.GenerateToken(5, "s@example.com", "sub", false)
	require.NoError(t, err)

	router := newTestRouter(testService())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "AUTH_005")
}

func TestJWTAuth_ValidTokenSetsContext(t *testing.T) {
	svc := testService()
	token, _, err := svc.GenerateToken(5, "s@example.com", "sub", true)
	require.NoError(t, err)

	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"studentId":5,"email":"s@example.com","isProfileComplete":true}`, recorder.Body.String())
}

func TestProfileCompleteRequired(t *testing.T) {
	svc := testService()
	router := newTestRouter(svc)

	incomplete, _, err := svc.GenerateToken(5, "s@example.com", "sub", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/complete-only", nil)
	req.Header.Set("Authorization", "Bearer "+incomplete)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	complete, _, err := svc.GenerateToken(5, "s@example.com", "sub", true)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/complete-only", nil)
	req.Header.Set("Authorization", "Bearer "+complete)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
