package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"AVRentals/models"
)

const maxRequestTexts = 500

var translatorService TranslatorServiceInterface
var cacheService CacheServiceInterface

func SetTranslatorService(service TranslatorServiceInterface) {
	translatorService = service
}

func SetCacheService(service CacheServiceInterface) {
	cacheService = service
}

// Translate serves both single-text and batch translation. The caller
// always gets a usable string back for every input; translation failures
// degrade to the source text instead of an error response.
func Translate(c *gin.Context) {
	var input struct {
		Text        string   `json:"text"`
		Texts       []string `json:"texts"`
		TargetLang  string   `json:"target_lang"`
		Progressive bool     `json:"progressive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lang, ok := resolveLang(c, input.TargetLang)
	if !ok {
		return
	}

	if len(input.Texts) > 0 {
		if len(input.Texts) > maxRequestTexts {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many texts in one request"})
			return
		}
		var translations []string
		if input.Progressive {
			translations = translatorService.TranslateManyProgressive(input.Texts, lang)
		} else {
			translations = translatorService.TranslateMany(c.Request.Context(), input.Texts, lang)
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "success",
			"target_lang":  lang,
			"translations": translations,
		})
		return
	}

	translated := translatorService.TranslateOne(c.Request.Context(), input.Text, lang)
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"target_lang": lang,
		"translated":  translated,
	})
}

// PreloadTranslations dumps the most recently used cached entries so a
// client can seed its local mirror in one round trip. Accepts targetLang
// and limit as query parameters, or the same fields in a JSON body.
func PreloadTranslations(c *gin.Context) {
	var input struct {
		TargetLang string `json:"target_lang"`
		Limit      int    `json:"limit"`
	}
	// Body is optional; defaults apply when absent.
	_ = c.ShouldBindJSON(&input)

	if lang := c.Query("targetLang"); lang != "" {
		input.TargetLang = lang
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			input.Limit = limit
		}
	}

	lang, ok := resolveLang(c, input.TargetLang)
	if !ok {
		return
	}

	entries, err := cacheService.Preload(lang, input.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load translations"})
		return
	}

	translations := make(map[string]string, len(entries))
	for _, entry := range entries {
		translations[entry.SourceText] = entry.TranslatedText
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"target_lang":  lang,
		"count":        len(translations),
		"translations": translations,
	})
}

// TranslationStats exposes cache aggregates.
func TranslationStats(c *gin.Context) {
	stats, err := cacheService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stats": stats})
}

// resolveLang picks the request language: explicit body value first, then
// the cookie-derived value set by the language middleware.
func resolveLang(c *gin.Context, explicit string) (string, bool) {
	lang := strings.ToLower(strings.TrimSpace(explicit))
	if lang == "" {
		lang = c.GetString("lang")
	}
	if lang == "" {
		lang = models.LangEnglish
	}
	if !models.IsSupportedLang(lang) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported target language"})
		return "", false
	}
	return lang, true
}
