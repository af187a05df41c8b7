package routes

import (
	"time"

	"AVRentals/controllers"
	"AVRentals/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Public translation routes
	translate := r.Group("/translate")
	translate.Use(middlewares.LanguageMiddleware(), middlewares.RateLimitMiddleware(60, time.Minute))
	{
		translate.POST("", controllers.Translate)
		translate.PUT("", controllers.Translate)
		translate.GET("/preload", controllers.PreloadTranslations)
		translate.POST("/preload", controllers.PreloadTranslations)
		translate.GET("/stats", controllers.TranslationStats)
	}

	// Progressive delivery over websocket
	r.GET("/translate/stream", middlewares.LanguageMiddleware(), controllers.TranslateStream)

	// Admin review surface
	r.POST("/admin/login", controllers.AdminLogin)

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/translations", controllers.ListTranslations)
		admin.POST("/translations", controllers.CreateTranslation)
		admin.PUT("/translations/:id", controllers.UpdateTranslation)
		admin.GET("/translations/:id/history", controllers.GetTranslationHistory)
		admin.PATCH("/translations/bulk", controllers.BulkTranslationAction)
		admin.POST("/translations/bulk", controllers.BulkTranslationAction)
		admin.DELETE("/translations/bulk", controllers.BulkDeleteTranslations)
		admin.GET("/translations/export", controllers.ExportTranslations)
		admin.GET("/translation-coverage", controllers.GetTranslationCoverage)
		admin.POST("/translation-coverage", controllers.RefreshTranslationCoverage)
		admin.GET("/translation-rules", controllers.GetRules)
		admin.PUT("/translation-rules", controllers.UpdateRules)
		admin.GET("/rules", controllers.GetRules)
		admin.PUT("/rules", controllers.UpdateRules)
	}
}
