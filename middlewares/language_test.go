package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func languageRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", LanguageMiddleware(), func(c *gin.Context) {
		*capture = c.GetString("lang")
		c.Status(http.StatusOK)
	})
	return r
}

func TestLanguageFromAcceptHeader(t *testing.T) {
	var lang string
	r := languageRouter(&lang)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "pt-PT,pt;q=0.9,en;q=0.8")
	r.ServeHTTP(w, req)

	assert.Equal(t, "pt", lang)
	// The choice is pinned in a cookie for subsequent visits.
	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "app-language", cookies[0].Name)
	assert.Equal(t, "pt", cookies[0].Value)
	assert.Equal(t, int(365*24*time.Hour/time.Second), cookies[0].MaxAge)
}

func TestLanguageCookieWins(t *testing.T) {
	var lang string
	r := languageRouter(&lang)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "pt")
	req.AddCookie(&http.Cookie{Name: "app-language", Value: "en"})
	r.ServeHTTP(w, req)

	assert.Equal(t, "en", lang)
	// No new cookie issued when a valid one is present.
	assert.Empty(t, w.Result().Cookies())
}

func TestLanguageDefaultsToEnglish(t *testing.T) {
	var lang string
	r := languageRouter(&lang)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,fr;q=0.8")
	r.ServeHTTP(w, req)

	assert.Equal(t, "en", lang)
}

func TestLanguageInvalidCookieReplaced(t *testing.T) {
	var lang string
	r := languageRouter(&lang)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "app-language", Value: "xx"})
	req.Header.Set("Accept-Language", "pt")
	r.ServeHTTP(w, req)

	assert.Equal(t, "pt", lang)
}
