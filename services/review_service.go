package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"AVRentals/models"
	"AVRentals/repositories"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionReview  = "review"

	historyLimit = 100
)

var ErrUnknownAction = errors.New("unknown review action")

// ReviewService backs the admin review workflow: listing, manual edits,
// bulk status transitions and bulk deletion, each leaving a history
// record behind.
type ReviewService struct {
	Repo  repositories.TranslationRepository
	Cache *CacheService
}

func NewReviewService(repo repositories.TranslationRepository, cache *CacheService) *ReviewService {
	return &ReviewService{Repo: repo, Cache: cache}
}

// List returns a page of translations plus the total count for the
// filter.
func (s *ReviewService) List(params repositories.ListParams) ([]models.Translation, int64, error) {
	return s.Repo.List(params)
}

// Create inserts (or overwrites) a translation entered by hand. Manual
// entries are trusted: approved immediately, attributed to a human.
func (s *ReviewService) Create(sourceText, translatedText, targetLang, actor string) (models.Translation, error) {
	if !models.IsSupportedLang(targetLang) {
		return models.Translation{}, fmt.Errorf("unsupported target language %q", targetLang)
	}

	previous := ""
	if existing, err := s.Repo.FindBySourceAndLang(sourceText, targetLang); err == nil {
		previous = existing.TranslatedText
	}

	translation, err := s.Repo.Upsert(models.Translation{
		SourceText:     sourceText,
		TargetLang:     targetLang,
		TranslatedText: translatedText,
		Model:          models.ModelHumanEdit,
		Status:         models.StatusApproved,
		NeedsReview:    false,
		LastUsedAt:     time.Now(),
	})
	if err != nil {
		return models.Translation{}, err
	}

	s.recordHistory(translation.ID, previous, translatedText, actor, "manual entry")
	if s.Cache != nil {
		s.Cache.Set(sourceText, targetLang, translatedText)
	}
	return translation, nil
}

// UpdateText replaces the translated text of an entry. The edit counts as
// a human approval.
func (s *ReviewService) UpdateText(id uint, translatedText, actor string) (models.Translation, error) {
	translation, err := s.Repo.FindByID(id)
	if err != nil {
		return models.Translation{}, err
	}

	previous := translation.TranslatedText
	translation.TranslatedText = translatedText
	translation.Model = models.ModelHumanEdit
	translation.Status = models.StatusApproved
	translation.NeedsReview = false
	if err := s.Repo.Save(translation); err != nil {
		return models.Translation{}, err
	}

	s.recordHistory(translation.ID, previous, translatedText, actor, "manual edit")
	if s.Cache != nil {
		s.Cache.Set(translation.SourceText, translation.TargetLang, translatedText)
	}
	return translation, nil
}

// BulkTransition applies one review action to a set of translations and
// returns how many rows changed. Unknown ids are skipped silently, the
// way bulk admin actions are expected to behave.
func (s *ReviewService) BulkTransition(ids []uint, action, actor string) (int64, error) {
	var (
		status      string
		needsReview bool
	)
	switch action {
	case ActionApprove:
		status = models.StatusApproved
	case ActionReject:
		status = models.StatusRejected
	case ActionReview:
		status = models.StatusPendingReview
		needsReview = true
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	translations, err := s.Repo.FindByIDs(ids)
	if err != nil {
		return 0, err
	}

	affected, err := s.Repo.UpdateStatus(ids, status, needsReview)
	if err != nil {
		return 0, err
	}

	for _, t := range translations {
		s.recordHistory(t.ID, t.Status, status, actor, "bulk "+action)
		if action == ActionReject && s.Cache != nil {
			s.Cache.Forget(t.SourceText, t.TargetLang)
		}
	}
	return affected, nil
}

// BulkDelete removes translations and their history records, and evicts
// them from the mirror so they are regenerated on the next miss.
func (s *ReviewService) BulkDelete(ids []uint) (int64, error) {
	translations, err := s.Repo.FindByIDs(ids)
	if err != nil {
		return 0, err
	}

	affected, err := s.Repo.DeleteByIDs(ids)
	if err != nil {
		return 0, err
	}

	if s.Cache != nil {
		for _, t := range translations {
			s.Cache.Forget(t.SourceText, t.TargetLang)
		}
	}
	return affected, nil
}

// Export returns every translation of a language for dump-style exports,
// optionally narrowed to one status. Formatting is the controller's job.
func (s *ReviewService) Export(targetLang, status string) ([]models.Translation, error) {
	targetLang = strings.ToLower(targetLang)
	if !models.IsSupportedLang(targetLang) {
		return nil, fmt.Errorf("unsupported target language %q", targetLang)
	}
	return s.Repo.ExportByLang(targetLang, status)
}

// History returns the most recent change records for one translation.
func (s *ReviewService) History(id uint) ([]models.TranslationHistory, error) {
	if _, err := s.Repo.FindByID(id); err != nil {
		return nil, err
	}
	return s.Repo.HistoryByTranslationID(id, historyLimit)
}

func (s *ReviewService) recordHistory(translationID uint, previous, current, actor, reason string) {
	if actor == "" {
		actor = "system"
	}
	record := models.TranslationHistory{
		TranslationID: translationID,
		PreviousValue: previous,
		NewValue:      current,
		Actor:         actor,
		Reason:        reason,
	}
	if err := s.Repo.AddHistory(record); err != nil {
		// History is an audit trail, not a transactional dependency.
		log.Printf("Failed to record translation history for %d: %v", translationID, err)
	}
}
