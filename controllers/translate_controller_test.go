package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"AVRentals/models"
	"AVRentals/services"
)

type stubTranslator struct {
	lastTexts []string
	lastLang  string
}

func (s *stubTranslator) TranslateOne(ctx context.Context, text, targetLang string) string {
	s.lastTexts = []string{text}
	s.lastLang = targetLang
	return "Carrinho"
}

func (s *stubTranslator) TranslateMany(ctx context.Context, texts []string, targetLang string) []string {
	s.lastTexts = texts
	s.lastLang = targetLang
	out := make([]string, len(texts))
	for i := range texts {
		out[i] = "pt:" + texts[i]
	}
	return out
}

func (s *stubTranslator) TranslateManyProgressive(texts []string, targetLang string) []string {
	s.lastTexts = texts
	s.lastLang = targetLang
	return texts
}

type stubCache struct {
	entries   []models.Translation
	stats     services.TranslationStats
	err       error
	lastLang  string
	lastLimit int
}

func (s *stubCache) Preload(targetLang string, limit int) ([]models.Translation, error) {
	s.lastLang = targetLang
	s.lastLimit = limit
	return s.entries, s.err
}

func (s *stubCache) Stats() (services.TranslationStats, error) {
	return s.stats, s.err
}

func performJSON(handler gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.Handle(method, path, handler)

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTranslateSingleText(t *testing.T) {
	stub := &stubTranslator{}
	SetTranslatorService(stub)

	w := performJSON(Translate, http.MethodPost, "/translate", gin.H{
		"text": "Cart", "target_lang": "pt",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Translated string `json:"translated"`
		TargetLang string `json:"target_lang"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Carrinho", resp.Translated)
	assert.Equal(t, "pt", resp.TargetLang)
}

func TestTranslateBatch(t *testing.T) {
	stub := &stubTranslator{}
	SetTranslatorService(stub)

	w := performJSON(Translate, http.MethodPost, "/translate", gin.H{
		"texts": []string{"Cart", "Checkout"}, "target_lang": "pt",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Translations []string `json:"translations"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"pt:Cart", "pt:Checkout"}, resp.Translations)
}

func TestTranslateProgressiveFlag(t *testing.T) {
	stub := &stubTranslator{}
	SetTranslatorService(stub)

	w := performJSON(Translate, http.MethodPost, "/translate", gin.H{
		"texts": []string{"Cart"}, "target_lang": "pt", "progressive": true,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Translations []string `json:"translations"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Progressive returns source text for misses immediately.
	assert.Equal(t, []string{"Cart"}, resp.Translations)
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	SetTranslatorService(&stubTranslator{})

	w := performJSON(Translate, http.MethodPost, "/translate", gin.H{
		"text": "Cart", "target_lang": "fr",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranslateTooManyTexts(t *testing.T) {
	SetTranslatorService(&stubTranslator{})

	texts := make([]string, maxRequestTexts+1)
	for i := range texts {
		texts[i] = "x"
	}
	w := performJSON(Translate, http.MethodPost, "/translate", gin.H{
		"texts": texts, "target_lang": "pt",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranslateLangFromMiddlewareContext(t *testing.T) {
	stub := &stubTranslator{}
	SetTranslatorService(stub)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/translate", func(c *gin.Context) {
		c.Set("lang", "pt")
		Translate(c)
	})

	body, _ := json.Marshal(gin.H{"text": "Cart"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pt", stub.lastLang)
}

func TestPreloadTranslations(t *testing.T) {
	SetCacheService(&stubCache{entries: []models.Translation{
		{SourceText: "Cart", TargetLang: "pt", TranslatedText: "Carrinho"},
		{SourceText: "Quote", TargetLang: "pt", TranslatedText: "Orçamento"},
	}})

	w := performJSON(PreloadTranslations, http.MethodPost, "/translate/preload", gin.H{
		"target_lang": "pt",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count        int               `json:"count"`
		Translations map[string]string `json:"translations"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Carrinho", resp.Translations["Cart"])
}

func TestPreloadTranslationsGetQueryParams(t *testing.T) {
	stub := &stubCache{entries: []models.Translation{
		{SourceText: "Cart", TargetLang: "pt", TranslatedText: "Carrinho"},
	}}
	SetCacheService(stub)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/translate/preload", PreloadTranslations)
	req := httptest.NewRequest(http.MethodGet, "/translate/preload?targetLang=pt&limit=25", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pt", stub.lastLang)
	assert.Equal(t, 25, stub.lastLimit)

	var resp struct {
		TargetLang   string            `json:"target_lang"`
		Translations map[string]string `json:"translations"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pt", resp.TargetLang)
	assert.Equal(t, "Carrinho", resp.Translations["Cart"])
}

func TestTranslationStatsEndpoint(t *testing.T) {
	SetCacheService(&stubCache{stats: services.TranslationStats{
		Total:      42,
		ByLanguage: map[string]int64{"pt": 40, "en": 2},
	}})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	r := gin.New()
	r.GET("/translate/stats", TranslationStats)
	req := httptest.NewRequest(http.MethodGet, "/translate/stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Stats services.TranslationStats `json:"stats"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.Stats.Total)
}
