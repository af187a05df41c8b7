package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"AVRentals/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDatabase() {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	log.Printf("Connecting to database: host=%s user=%s dbname=%s port=%s sslmode=%s",
		host, user, dbname, port, sslmode)

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Europe/Lisbon",
		host, user, password, dbname, port, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Successfully connected to database!")

	DB.AutoMigrate(&models.Translation{}, &models.TranslationHistory{})
}

// TranslationConfig gathers the knobs of the translation engine. Defaults
// match the free-tier limits of the generative language API.
type TranslationConfig struct {
	APIKeys           []string
	ModelName         string
	RequestsPerMinute int
	DailyLimitPerKey  int
	BatchSize         int
	BatchDelay        time.Duration
	PreloadLimit      int
	RulesPath         string
	ReportsDir        string
}

func LoadTranslationConfig() TranslationConfig {
	cfg := TranslationConfig{
		ModelName:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		RequestsPerMinute: getEnvInt("TRANSLATE_REQUESTS_PER_MINUTE", 2),
		DailyLimitPerKey:  getEnvInt("TRANSLATE_DAILY_LIMIT_PER_KEY", 250),
		BatchSize:         getEnvInt("TRANSLATE_BATCH_SIZE", 10),
		BatchDelay:        time.Duration(getEnvInt("TRANSLATE_BATCH_DELAY_MS", 1000)) * time.Millisecond,
		PreloadLimit:      getEnvInt("TRANSLATE_PRELOAD_LIMIT", 1000),
		RulesPath:         getEnv("TRANSLATION_RULES_PATH", "translation-rules.json"),
		ReportsDir:        getEnv("TRANSLATION_REPORTS_DIR", "reports"),
	}

	for _, key := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			cfg.APIKeys = append(cfg.APIKeys, key)
		}
	}
	if len(cfg.APIKeys) == 0 {
		log.Println("GEMINI_API_KEYS is empty, translation degrades to rules + cache only")
	}

	return cfg
}

// JWTSecret returns the signing key for admin tokens.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-in-production"
	}
	return []byte(secret)
}

func getEnv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", name, value, fallback)
		return fallback
	}
	return parsed
}
