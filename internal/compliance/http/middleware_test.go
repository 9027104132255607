package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healplus/compliance/internal/httputil"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// createTestLogger creates a test logger that discards output.
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestActorMiddleware_Success(t *testing.T) {
	logger := createTestLogger()

	router := gin.New()
	router.Use(ActorMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		require.True(t, ok, "actor should be in context")
		assert.Equal(t, "dr-123", actor.ID)
		assert.Equal(t, RoleClinician, actor.Role)

		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(ActorIDHeader, "dr-123")
	req.Header.Set(ActorRoleHeader, RoleClinician)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActorMiddleware_Error_MissingHeaders(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
	}{
		{"no_headers", map[string]string{}},
		{"missing_role", map[string]string{ActorIDHeader: "dr-123"}},
		{"missing_id", map[string]string{ActorRoleHeader: RoleClinician}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := createTestLogger()

			router := gin.New()
			router.Use(ActorMiddleware(logger))
			router.GET("/test", func(c *gin.Context) {
				t.Fatal("handler should not be called without actor headers")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for name, value := range tc.headers {
				req.Header.Set(name, value)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var response httputil.ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)
			assert.Equal(t, "unauthorized", response.Error)
		})
	}
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	logger := createTestLogger()

	router := gin.New()
	router.Use(ActorMiddleware(logger))
	router.POST("/admin", RequireRole(logger, RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(ActorIDHeader, "admin-1")
	req.Header.Set(ActorRoleHeader, RoleAdmin)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Error_RoleNotAllowed(t *testing.T) {
	logger := createTestLogger()

	router := gin.New()
	router.Use(ActorMiddleware(logger))
	router.POST("/admin", RequireRole(logger, RoleAdmin), func(c *gin.Context) {
		t.Fatal("handler should not be called for a forbidden role")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(ActorIDHeader, "dr-123")
	req.Header.Set(ActorRoleHeader, RoleClinician)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response httputil.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "forbidden", response.Error)
}

func TestRequireRole_Error_NoActorInContext(t *testing.T) {
	logger := createTestLogger()

	// RequireRole without ActorMiddleware upstream rejects the request.
	router := gin.New()
	router.POST("/admin", RequireRole(logger, RoleAdmin), func(c *gin.Context) {
		t.Fatal("handler should not be called without an actor")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetActor_NotPresent(t *testing.T) {
	c, _ := createTestContext(http.MethodGet, "/test", nil)

	actor, ok := GetActor(c.Request.Context())
	assert.False(t, ok)
	assert.Nil(t, actor)
}
