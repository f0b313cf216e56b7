package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task-tracker/internal/config"
	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/whoami", middleware.RequireAuth(tokens), func(c *gin.Context) {
		ownerID, ok := middleware.OwnerID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing owner"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"owner_id": ownerID.String()})
	})
	return r
}

func newTokenService(ttl time.Duration) *services.TokenService {
	return services.NewTokenService(config.AuthConfig{
		JWTSecret: "middleware-test-secret",
		TokenTTL:  ttl,
		Issuer:    "test",
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := newTokenService(time.Minute)
	router := setupRouter(tokens)

	userID := uuid.Must(uuid.NewV4())
	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuth_UniformRejection(t *testing.T) {
	tokens := newTokenService(time.Minute)
	router := setupRouter(tokens)

	expired := newTokenService(-time.Minute)
	expiredToken, err := expired.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	otherSecret := services.NewTokenService(config.AuthConfig{
		JWTSecret: "some-other-secret", TokenTTL: time.Minute, Issuer: "test",
	})
	foreignToken, err := otherSecret.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Basic abc123",
		"empty bearer":    "Bearer ",
		"garbage token":   "Bearer not-a-jwt",
		"expired token":   "Bearer " + expiredToken,
		"wrong signature": "Bearer " + foreignToken,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthenticated"}`, w.Body.String(),
				"every failure mode must produce the identical response")
		})
	}
}

func TestOwnerID_AbsentWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := middleware.OwnerID(c)
	assert.False(t, ok)
}
