package controllers

import (
	"context"

	"AVRentals/models"
	"AVRentals/repositories"
	"AVRentals/services"
)

// TranslatorServiceInterface is the translation surface used by the
// public endpoints.
type TranslatorServiceInterface interface {
	TranslateOne(ctx context.Context, text, targetLang string) string
	TranslateMany(ctx context.Context, texts []string, targetLang string) []string
	TranslateManyProgressive(texts []string, targetLang string) []string
}

type CacheServiceInterface interface {
	Preload(targetLang string, limit int) ([]models.Translation, error)
	Stats() (services.TranslationStats, error)
}

type RulesServiceInterface interface {
	Document() ([]byte, error)
	Reload(document []byte) error
}

type ReviewServiceInterface interface {
	List(params repositories.ListParams) ([]models.Translation, int64, error)
	Create(sourceText, translatedText, targetLang, actor string) (models.Translation, error)
	UpdateText(id uint, translatedText, actor string) (models.Translation, error)
	BulkTransition(ids []uint, action, actor string) (int64, error)
	BulkDelete(ids []uint) (int64, error)
	Export(targetLang, status string) ([]models.Translation, error)
	History(id uint) ([]models.TranslationHistory, error)
}

type CoverageServiceInterface interface {
	Refresh() (services.CoverageSummary, error)
	Report(params services.CoverageParams) (services.CoverageReport, error)
}

type AuthServiceInterface interface {
	Login(username, password string) (string, error)
}
