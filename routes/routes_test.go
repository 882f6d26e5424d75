package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"climate-hub/controllers"
	middlewares "climate-hub/middleware"
	"climate-hub/services"
	"climate-hub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reports, err := services.NewLocalReportStore("")
	require.NoError(t, err)
	faqs, err := services.NewLocalFaqStore("")
	require.NoError(t, err)
	orders, err := services.NewLocalOrderStore("")
	require.NoError(t, err)
	controllers.InitStores(reports, faqs, orders)
	middlewares.InitAuth("s3cret")

	r := gin.New()
	SetupRoutes(r, Options{CORSOrigins: []string{"http://localhost:5173"}})
	return r
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/reports", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestModerationRequiresAdmin(t *testing.T) {
	r := newTestRouter(t)
	path := "/api/reports/000000000000000000000000"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateJWT([]byte("s3cret"), "admin", utils.RoleAdmin)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path+"/status", strings.NewReader(`{"status":"resolved"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicListing(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/api/reports", "/api/faqs", "/api/map/locations", "/api/products"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
