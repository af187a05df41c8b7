package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"AVRentals/config"
	"AVRentals/controllers"
	"AVRentals/models"
	"AVRentals/repositories/impl"
	"AVRentals/routes"
	"AVRentals/services"
	"AVRentals/websocket"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Initialize database
	config.InitDatabase()
	cfg := config.LoadTranslationConfig()

	// Initialize repositories
	translationRepo := impl.NewTranslationRepository(config.DB)

	// Initialize services
	cacheService := services.NewCacheService(translationRepo, cfg.PreloadLimit)
	rulesService := services.NewRulesService(cfg.RulesPath, cacheService)
	keyPool := services.NewKeyPool(cfg.APIKeys, cfg.RequestsPerMinute, cfg.DailyLimitPerKey)
	geminiClient := services.NewGeminiClient(cfg.ModelName)
	translatorService := services.NewTranslatorService(
		cacheService, rulesService, keyPool, geminiClient,
		cfg.ModelName, cfg.BatchSize, cfg.BatchDelay,
	)
	reviewService := services.NewReviewService(translationRepo, cacheService)
	coverageService := services.NewCoverageService(translationRepo, cfg.ReportsDir)
	authService := services.NewAuthService()

	if err := rulesService.Load(); err != nil {
		log.Printf("Failed to load translation rules: %v", err)
	}
	if len(cfg.APIKeys) == 0 {
		log.Println("WARNING: no GEMINI_API_KEYS configured, translations will degrade to source text")
	}

	// Warm the mirror in the background so first requests hit memory
	go func() {
		if err := cacheService.Warm(models.LangPortuguese); err != nil {
			log.Printf("Initial cache warm failed: %v", err)
		}
	}()

	// Websocket hub for progressive translation delivery
	hub := websocket.NewHub(translatorService)
	go hub.Run()

	// Set services in controllers
	controllers.SetTranslatorService(translatorService)
	controllers.SetCacheService(cacheService)
	controllers.SetRulesService(rulesService)
	controllers.SetReviewService(reviewService)
	controllers.SetCoverageService(coverageService)
	controllers.SetAuthService(authService)
	controllers.SetStreamHub(hub)

	// Initialize Gin router
	r := gin.Default()

	// Register routes
	routes.RegisterRoutes(r)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	r.Run(":" + port)
}
