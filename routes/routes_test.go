package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"AVRentals/controllers"
	"AVRentals/models"
	"AVRentals/services"
)

type routeStubCache struct{}

func (routeStubCache) Preload(targetLang string, limit int) ([]models.Translation, error) {
	return nil, nil
}

func (routeStubCache) Stats() (services.TranslationStats, error) {
	return services.TranslationStats{}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	controllers.SetCacheService(routeStubCache{})
	r := gin.New()
	RegisterRoutes(r)
	return r
}

func TestPreloadRegisteredForGet(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/translate/preload?targetLang=pt&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// Admin routes sit behind the auth middleware, so a tokenless request
// proves registration: a registered path rejects with 401 where an
// unregistered one would 404.
func TestAdminRoutesRegistered(t *testing.T) {
	r := testRouter()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/admin/translations/bulk"},
		{http.MethodPost, "/admin/translations/bulk"},
		{http.MethodGet, "/admin/translations/export"},
		{http.MethodGet, "/admin/translation-coverage"},
		{http.MethodPost, "/admin/translation-coverage"},
		{http.MethodGet, "/admin/translation-rules"},
		{http.MethodPut, "/admin/translation-rules"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
