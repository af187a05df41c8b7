package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"AVRentals/models"
)

const (
	languageCookie = "app-language"
	cookieMaxAge   = 365 * 24 * 60 * 60
)

// LanguageMiddleware resolves the visitor's display language and pins it
// in a cookie for a year. An existing valid cookie always wins; first
// visits fall back to the Accept-Language header, then to English.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, err := c.Cookie(languageCookie)
		if err != nil || !models.IsSupportedLang(lang) {
			lang = detectLanguage(c.GetHeader("Accept-Language"))
			c.SetCookie(languageCookie, lang, cookieMaxAge, "/", "", false, false)
		}
		c.Set("lang", strings.ToLower(lang))
		c.Next()
	}
}

// detectLanguage picks the first supported language from an
// Accept-Language header.
func detectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if models.IsSupportedLang(primary) {
			return primary
		}
	}
	return models.LangEnglish
}
