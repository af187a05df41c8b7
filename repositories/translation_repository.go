package repositories

import (
	"time"

	"AVRentals/models"
)

// ListParams filters the administrative translation listing.
type ListParams struct {
	Page       int
	Limit      int
	Search     string
	TargetLang string
	Status     string
}

type TranslationRepository interface {
	FindBySourceAndLang(sourceText, targetLang string) (models.Translation, error)
	FindBySourcesAndLang(sourceTexts []string, targetLang string) ([]models.Translation, error)
	FindByID(id uint) (models.Translation, error)
	FindByIDs(ids []uint) ([]models.Translation, error)
	List(params ListParams) ([]models.Translation, int64, error)
	Create(translation models.Translation) (models.Translation, error)
	Upsert(translation models.Translation) (models.Translation, error)
	Save(translation models.Translation) error
	Touch(sourceText, targetLang string, usedAt time.Time) error
	RecentlyUsed(targetLang string, limit int) ([]models.Translation, error)
	Recent(limit int) ([]models.Translation, error)
	SourceTexts(targetLang string) ([]string, error)
	ExportByLang(targetLang, status string) ([]models.Translation, error)
	CountByLang() (map[string]int64, error)
	UpdateStatus(ids []uint, status string, needsReview bool) (int64, error)
	DeleteByIDs(ids []uint) (int64, error)
	AddHistory(record models.TranslationHistory) error
	HistoryByTranslationID(translationID uint, limit int) ([]models.TranslationHistory, error)
}
