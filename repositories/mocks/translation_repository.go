package mocks

import (
	"time"

	"AVRentals/models"
	"AVRentals/repositories"

	"github.com/stretchr/testify/mock"
)

// TranslationRepository is a testify mock of repositories.TranslationRepository.
type TranslationRepository struct {
	mock.Mock
}

func (m *TranslationRepository) FindBySourceAndLang(sourceText, targetLang string) (models.Translation, error) {
	args := m.Called(sourceText, targetLang)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *TranslationRepository) FindBySourcesAndLang(sourceTexts []string, targetLang string) ([]models.Translation, error) {
	args := m.Called(sourceTexts, targetLang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) FindByID(id uint) (models.Translation, error) {
	args := m.Called(id)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *TranslationRepository) FindByIDs(ids []uint) ([]models.Translation, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) List(params repositories.ListParams) ([]models.Translation, int64, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Translation), args.Get(1).(int64), args.Error(2)
}

func (m *TranslationRepository) Create(translation models.Translation) (models.Translation, error) {
	args := m.Called(translation)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *TranslationRepository) Upsert(translation models.Translation) (models.Translation, error) {
	args := m.Called(translation)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *TranslationRepository) Save(translation models.Translation) error {
	args := m.Called(translation)
	return args.Error(0)
}

func (m *TranslationRepository) Touch(sourceText, targetLang string, usedAt time.Time) error {
	args := m.Called(sourceText, targetLang, usedAt)
	return args.Error(0)
}

func (m *TranslationRepository) RecentlyUsed(targetLang string, limit int) ([]models.Translation, error) {
	args := m.Called(targetLang, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) Recent(limit int) ([]models.Translation, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) SourceTexts(targetLang string) ([]string, error) {
	args := m.Called(targetLang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *TranslationRepository) ExportByLang(targetLang, status string) ([]models.Translation, error) {
	args := m.Called(targetLang, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) CountByLang() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *TranslationRepository) UpdateStatus(ids []uint, status string, needsReview bool) (int64, error) {
	args := m.Called(ids, status, needsReview)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TranslationRepository) DeleteByIDs(ids []uint) (int64, error) {
	args := m.Called(ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TranslationRepository) AddHistory(record models.TranslationHistory) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *TranslationRepository) HistoryByTranslationID(translationID uint, limit int) ([]models.TranslationHistory, error) {
	args := m.Called(translationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TranslationHistory), args.Error(1)
}
