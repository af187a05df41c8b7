package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"AVRentals/repositories"
	"AVRentals/services"
)

var reviewService ReviewServiceInterface
var rulesService RulesServiceInterface
var authService AuthServiceInterface
var coverageService CoverageServiceInterface

func SetReviewService(service ReviewServiceInterface) {
	reviewService = service
}

func SetCoverageService(service CoverageServiceInterface) {
	coverageService = service
}

func SetRulesService(service RulesServiceInterface) {
	rulesService = service
}

func SetAuthService(service AuthServiceInterface) {
	authService = service
}

// AdminLogin exchanges the operator credentials for a bearer token.
func AdminLogin(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := authService.Login(input.Username, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token})
}

// ListTranslations returns a filtered page for the review table.
func ListTranslations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	translations, total, err := reviewService.List(repositories.ListParams{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		TargetLang: c.Query("lang"),
		Status:     c.Query("status"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list translations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"total":        total,
		"page":         page,
		"translations": translations,
	})
}

// CreateTranslation inserts a manual entry.
func CreateTranslation(c *gin.Context) {
	var input struct {
		SourceText     string `json:"source_text" binding:"required"`
		TranslatedText string `json:"translated_text" binding:"required"`
		TargetLang     string `json:"target_lang" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translation, err := reviewService.Create(input.SourceText, input.TranslatedText, strings.ToLower(input.TargetLang), c.GetString("username"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "translation": translation})
}

// UpdateTranslation replaces the translated text of one entry.
func UpdateTranslation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var input struct {
		TranslatedText string `json:"translated_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translation, err := reviewService.UpdateText(uint(id), input.TranslatedText, c.GetString("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "translation": translation})
}

// BulkTranslationAction applies approve, reject or review to a set of
// ids.
func BulkTranslationAction(c *gin.Context) {
	var input struct {
		IDs    []uint `json:"ids" binding:"required"`
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := reviewService.BulkTransition(input.IDs, input.Action, c.GetString("username"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "affected": affected})
}

// BulkDeleteTranslations removes entries and their history.
func BulkDeleteTranslations(c *gin.Context) {
	var input struct {
		IDs []uint `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := reviewService.BulkDelete(input.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete translations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "affected": affected})
}

// GetTranslationHistory lists the change records of one entry.
func GetTranslationHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	history, err := reviewService.History(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "history": history})
}

const exportFormatLabel = "AV-RENTALS Translation Export v1.0"

// ExportTranslations dumps a language's translations as JSON, CSV or a
// plain key-value map, filtered by status.
func ExportTranslations(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	targetLang := c.DefaultQuery("targetLang", "pt")
	status := c.Query("status")

	translations, err := reviewService.Export(targetLang, status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().Format("2006-01-02")
	switch format {
	case "json":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "translations_"+targetLang+"_"+date+".json"))
		c.JSON(http.StatusOK, gin.H{
			"metadata": gin.H{
				"exported_at":        time.Now(),
				"total_translations": len(translations),
				"target_language":    targetLang,
				"format":             exportFormatLabel,
			},
			"translations": translations,
		})
	case "csv":
		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		writer.Write([]string{"source_text", "translated_text", "target_lang", "status", "model"})
		for _, t := range translations {
			writer.Write([]string{t.SourceText, t.TranslatedText, t.TargetLang, t.Status, t.Model})
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode csv"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "translations_"+targetLang+"_"+date+".csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		// Bare dictionary, the shape clients preload from.
		dictionary := make(map[string]string, len(translations))
		for _, t := range translations {
			dictionary[t.SourceText] = t.TranslatedText
		}
		c.JSON(http.StatusOK, dictionary)
	}
}

// GetTranslationCoverage pages through the missing-translations report.
func GetTranslationCoverage(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	report, err := coverageService.Report(services.CoverageParams{
		Page:         page,
		Limit:        limit,
		Group:        c.Query("group"),
		Search:       c.Query("search"),
		OnlyCritical: c.Query("onlyCritical") == "true",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load coverage report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "coverage": report})
}

// RefreshTranslationCoverage rebuilds the missing-translations report
// from the extracted UI texts and the durable store.
func RefreshTranslationCoverage(c *gin.Context) {
	summary, err := coverageService.Refresh()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "summary": summary})
}

// GetRules returns the current override document.
func GetRules(c *gin.Context) {
	document, err := rulesService.Document()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize rules"})
		return
	}
	c.Data(http.StatusOK, "application/json", document)
}

// UpdateRules validates and installs a new override document. A rejected
// document leaves the active table untouched.
func UpdateRules(c *gin.Context) {
	document, err := c.GetRawData()
	if err != nil || len(document) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty rules document"})
		return
	}

	if err := rulesService.Reload(document); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
