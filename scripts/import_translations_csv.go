// scripts/import_translations_csv.go
//
// One-off importer for seeding the translation cache from a CSV dump.
// Expected columns: source_text,target_lang,translated_text
// Usage: go run scripts/import_translations_csv.go [path/to/translations.csv]
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"AVRentals/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file, using environment variables")
	}

	csvPath := "translations.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if !filepath.IsAbs(csvPath) {
		dir, _ := os.Getwd()
		csvPath = filepath.Join(dir, csvPath)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		fmt.Println("Failed to open CSV file:", err)
		os.Exit(1)
	}
	defer file.Close()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "avrentals"),
		envOr("DB_PORT", "5432"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Translation{}); err != nil {
		fmt.Println("Failed to migrate translations table:", err)
		os.Exit(1)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		fmt.Println("Failed to read CSV header:", err)
		os.Exit(1)
	}

	imported := 0
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println("Skipping malformed row:", err)
			skipped++
			continue
		}
		if len(record) < 3 {
			skipped++
			continue
		}

		sourceText := strings.TrimSpace(record[0])
		targetLang := strings.ToLower(strings.TrimSpace(record[1]))
		translatedText := strings.TrimSpace(record[2])
		if sourceText == "" || translatedText == "" || !models.IsSupportedLang(targetLang) {
			skipped++
			continue
		}

		translation := models.Translation{
			SourceText:     sourceText,
			TargetLang:     targetLang,
			TranslatedText: translatedText,
			Model:          models.ModelHumanEdit,
			Status:         models.StatusApproved,
			LastUsedAt:     time.Now(),
		}

		var existing models.Translation
		result := db.Where("source_text = ? AND target_lang = ?", sourceText, targetLang).First(&existing)
		if result.Error != nil {
			if err := db.Create(&translation).Error; err != nil {
				fmt.Printf("Failed to create entry %q: %v\n", sourceText, err)
				skipped++
				continue
			}
		} else {
			existing.TranslatedText = translatedText
			existing.Model = models.ModelHumanEdit
			existing.Status = models.StatusApproved
			existing.NeedsReview = false
			if err := db.Save(&existing).Error; err != nil {
				fmt.Printf("Failed to update entry %q: %v\n", sourceText, err)
				skipped++
				continue
			}
		}
		imported++
	}

	fmt.Printf("Import finished: %d imported, %d skipped\n", imported, skipped)
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
