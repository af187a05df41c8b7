package impl

import (
	"errors"
	"fmt"
	"time"

	"AVRentals/models"
	"AVRentals/repositories"

	"gorm.io/gorm"
)

type TranslationRepositoryImpl struct {
	DB *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) repositories.TranslationRepository {
	return &TranslationRepositoryImpl{DB: db}
}

func (r *TranslationRepositoryImpl) FindBySourceAndLang(sourceText, targetLang string) (models.Translation, error) {
	var translation models.Translation
	if err := r.DB.Where("source_text = ? AND target_lang = ?", sourceText, targetLang).First(&translation).Error; err != nil {
		return models.Translation{}, err
	}
	return translation, nil
}

func (r *TranslationRepositoryImpl) FindBySourcesAndLang(sourceTexts []string, targetLang string) ([]models.Translation, error) {
	var translations []models.Translation
	if len(sourceTexts) == 0 {
		return translations, nil
	}
	if err := r.DB.Where("source_text IN ? AND target_lang = ?", sourceTexts, targetLang).Find(&translations).Error; err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) FindByID(id uint) (models.Translation, error) {
	var translation models.Translation
	if err := r.DB.First(&translation, id).Error; err != nil {
		return models.Translation{}, err
	}
	return translation, nil
}

func (r *TranslationRepositoryImpl) FindByIDs(ids []uint) ([]models.Translation, error) {
	var translations []models.Translation
	if len(ids) == 0 {
		return translations, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&translations).Error; err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) List(params repositories.ListParams) ([]models.Translation, int64, error) {
	query := r.DB.Model(&models.Translation{})

	if params.TargetLang != "" {
		query = query.Where("target_lang = ?", params.TargetLang)
	}
	if params.Status != "" && params.Status != "all" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("source_text ILIKE ? OR translated_text ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 50
	}

	var translations []models.Translation
	err := query.Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&translations).Error
	if err != nil {
		return nil, 0, err
	}
	return translations, total, nil
}

func (r *TranslationRepositoryImpl) Create(translation models.Translation) (models.Translation, error) {
	if err := r.DB.Create(&translation).Error; err != nil {
		return models.Translation{}, err
	}
	return translation, nil
}

// Upsert writes the entry keyed by (source_text, target_lang). Concurrent
// writers may race on the unique index; last writer wins, so a duplicate-key
// failure falls back to an update of the existing row.
func (r *TranslationRepositoryImpl) Upsert(translation models.Translation) (models.Translation, error) {
	var existing models.Translation
	err := r.DB.Where("source_text = ? AND target_lang = ?", translation.SourceText, translation.TargetLang).First(&existing).Error
	if err == nil {
		existing.TranslatedText = translation.TranslatedText
		existing.Model = translation.Model
		existing.Status = translation.Status
		existing.NeedsReview = translation.NeedsReview
		existing.LastUsedAt = translation.LastUsedAt
		if err := r.DB.Save(&existing).Error; err != nil {
			return models.Translation{}, err
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Translation{}, err
	}

	if err := r.DB.Create(&translation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.Upsert(translation)
		}
		return models.Translation{}, err
	}
	return translation, nil
}

func (r *TranslationRepositoryImpl) Save(translation models.Translation) error {
	return r.DB.Save(&translation).Error
}

func (r *TranslationRepositoryImpl) Touch(sourceText, targetLang string, usedAt time.Time) error {
	return r.DB.Model(&models.Translation{}).
		Where("source_text = ? AND target_lang = ?", sourceText, targetLang).
		UpdateColumn("last_used_at", usedAt).Error
}

func (r *TranslationRepositoryImpl) RecentlyUsed(targetLang string, limit int) ([]models.Translation, error) {
	query := r.DB.Model(&models.Translation{})
	if targetLang != "" {
		query = query.Where("target_lang = ?", targetLang)
	}
	var translations []models.Translation
	err := query.Order("last_used_at DESC").Order("updated_at DESC").
		Limit(limit).
		Find(&translations).Error
	if err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) Recent(limit int) ([]models.Translation, error) {
	var translations []models.Translation
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&translations).Error
	if err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) SourceTexts(targetLang string) ([]string, error) {
	var texts []string
	err := r.DB.Model(&models.Translation{}).
		Where("target_lang = ?", targetLang).
		Pluck("source_text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// ExportByLang returns every translation of a language for dump-style
// exports, ordered by source text so diffs between exports stay stable.
func (r *TranslationRepositoryImpl) ExportByLang(targetLang, status string) ([]models.Translation, error) {
	query := r.DB.Where("target_lang = ?", targetLang)
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	var translations []models.Translation
	if err := query.Order("source_text ASC").Find(&translations).Error; err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) CountByLang() (map[string]int64, error) {
	type langCount struct {
		TargetLang string
		Count      int64
	}
	var rows []langCount
	err := r.DB.Model(&models.Translation{}).
		Select("target_lang, COUNT(*) AS count").
		Group("target_lang").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TargetLang] = row.Count
	}
	return counts, nil
}

func (r *TranslationRepositoryImpl) UpdateStatus(ids []uint, status string, needsReview bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.DB.Model(&models.Translation{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":       status,
			"needs_review": needsReview,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByIDs removes translations and their history records in one
// transaction. The history delete runs first so the operation works even
// on databases migrated without the FK cascade.
func (r *TranslationRepositoryImpl) DeleteByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("translation_id IN ?", ids).Delete(&models.TranslationHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history records: %w", err)
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Translation{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *TranslationRepositoryImpl) AddHistory(record models.TranslationHistory) error {
	return r.DB.Create(&record).Error
}

func (r *TranslationRepositoryImpl) HistoryByTranslationID(translationID uint, limit int) ([]models.TranslationHistory, error) {
	var records []models.TranslationHistory
	err := r.DB.Where("translation_id = ?", translationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
