package services

import (
	"log"
	"sync"
	"time"

	"AVRentals/models"
	"AVRentals/repositories"
)

// CacheService is the cache store: the database is the only durable
// truth, the in-memory mirror is a best-effort accelerator shared by all
// callers. Writes always hit the database first, then the mirror.
type CacheService struct {
	Repo         repositories.TranslationRepository
	PreloadLimit int

	mu      sync.RWMutex
	mirror  map[string]map[string]string // targetLang -> sourceText -> translatedText
	warmed  map[string]bool
	warming map[string]chan struct{}
	touched map[cacheKey]time.Time
}

type cacheKey struct {
	sourceText string
	targetLang string
}

// TranslationStats aggregates counts for the public stats endpoint.
type TranslationStats struct {
	Total      int64                `json:"total_translations"`
	ByLanguage map[string]int64     `json:"by_language"`
	Recent     []models.Translation `json:"recent_translations"`
}

func NewCacheService(repo repositories.TranslationRepository, preloadLimit int) *CacheService {
	return &CacheService{
		Repo:         repo,
		PreloadLimit: preloadLimit,
		mirror:       make(map[string]map[string]string),
		warmed:       make(map[string]bool),
		warming:      make(map[string]chan struct{}),
		touched:      make(map[cacheKey]time.Time),
	}
}

// Warm bulk-loads the most recently used entries for a language into the
// mirror. Concurrent callers share a single in-flight pass; later calls
// are no-ops until Clear.
func (s *CacheService) Warm(targetLang string) error {
	s.mu.Lock()
	if s.warmed[targetLang] {
		s.mu.Unlock()
		return nil
	}
	if inflight, ok := s.warming[targetLang]; ok {
		s.mu.Unlock()
		<-inflight
		return nil
	}
	done := make(chan struct{})
	s.warming[targetLang] = done
	s.mu.Unlock()

	translations, err := s.Repo.RecentlyUsed(targetLang, s.PreloadLimit)

	s.mu.Lock()
	delete(s.warming, targetLang)
	if err == nil {
		for _, t := range translations {
			s.setLocked(t.SourceText, t.TargetLang, t.TranslatedText)
		}
		s.warmed[targetLang] = true
	}
	s.mu.Unlock()
	close(done)

	if err != nil {
		return err
	}
	log.Printf("Warmed translation cache for %q with %d entries", targetLang, len(translations))
	return nil
}

// Lookup consults only the in-memory mirror. A hit refreshes the entry's
// last-used time lazily (flushed in batches, see FlushTouches).
func (s *CacheService) Lookup(sourceText, targetLang string) (string, bool) {
	s.mu.RLock()
	translated, ok := s.mirror[targetLang][sourceText]
	s.mu.RUnlock()
	if ok {
		s.markUsed(sourceText, targetLang)
	}
	return translated, ok
}

// FetchMany resolves texts against the durable store in one query and
// folds the hits into the mirror.
func (s *CacheService) FetchMany(sourceTexts []string, targetLang string) map[string]string {
	results := make(map[string]string)
	if len(sourceTexts) == 0 {
		return results
	}

	translations, err := s.Repo.FindBySourcesAndLang(sourceTexts, targetLang)
	if err != nil {
		log.Printf("Cache batch fetch error: %v", err)
		return results
	}

	s.mu.Lock()
	for _, t := range translations {
		results[t.SourceText] = t.TranslatedText
		s.setLocked(t.SourceText, t.TargetLang, t.TranslatedText)
	}
	s.mu.Unlock()

	for _, t := range translations {
		s.markUsed(t.SourceText, t.TargetLang)
	}
	return results
}

// Put upserts a translation: durable store first, then the mirror.
func (s *CacheService) Put(sourceText, targetLang, translatedText, model, status string, needsReview bool) error {
	_, err := s.Repo.Upsert(models.Translation{
		SourceText:     sourceText,
		TargetLang:     targetLang,
		TranslatedText: translatedText,
		Model:          model,
		Status:         status,
		NeedsReview:    needsReview,
		LastUsedAt:     time.Now(),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.setLocked(sourceText, targetLang, translatedText)
	s.mu.Unlock()
	return nil
}

// Set updates only the mirror. Used after durable writes that went
// through the repository directly, such as review edits.
func (s *CacheService) Set(sourceText, targetLang, translatedText string) {
	s.mu.Lock()
	s.setLocked(sourceText, targetLang, translatedText)
	s.mu.Unlock()
}

// Forget drops a single entry from the mirror, after a durable delete or
// a rejection.
func (s *CacheService) Forget(sourceText, targetLang string) {
	s.mu.Lock()
	delete(s.mirror[targetLang], sourceText)
	delete(s.touched, cacheKey{sourceText, targetLang})
	s.mu.Unlock()
}

// Clear drops the in-memory mirror only. Durable entries survive; the
// next Warm rebuilds the mirror.
func (s *CacheService) Clear() {
	s.mu.Lock()
	s.mirror = make(map[string]map[string]string)
	s.warmed = make(map[string]bool)
	s.mu.Unlock()
	log.Println("In-memory translation mirror cleared")
}

// Preload returns the most recently used durable entries for bulk dumps
// to client-side mirrors.
func (s *CacheService) Preload(targetLang string, limit int) ([]models.Translation, error) {
	if limit <= 0 || limit > s.PreloadLimit {
		limit = s.PreloadLimit
	}
	return s.Repo.RecentlyUsed(targetLang, limit)
}

// Stats aggregates per-language counts plus a short recent list.
func (s *CacheService) Stats() (TranslationStats, error) {
	byLanguage, err := s.Repo.CountByLang()
	if err != nil {
		return TranslationStats{}, err
	}
	var total int64
	for _, count := range byLanguage {
		total += count
	}
	recent, err := s.Repo.Recent(10)
	if err != nil {
		return TranslationStats{}, err
	}
	return TranslationStats{Total: total, ByLanguage: byLanguage, Recent: recent}, nil
}

// FlushTouches writes buffered last-used refreshes to the durable store.
// Called off the request path so steady-state lookups stay memory-only.
func (s *CacheService) FlushTouches() {
	s.mu.Lock()
	pending := s.touched
	s.touched = make(map[cacheKey]time.Time)
	s.mu.Unlock()

	for key, usedAt := range pending {
		if err := s.Repo.Touch(key.sourceText, key.targetLang, usedAt); err != nil {
			log.Printf("Failed to refresh last_used_at for %q/%s: %v", key.sourceText, key.targetLang, err)
		}
	}
}

func (s *CacheService) markUsed(sourceText, targetLang string) {
	s.mu.Lock()
	s.touched[cacheKey{sourceText, targetLang}] = time.Now()
	s.mu.Unlock()
}

// setLocked requires s.mu to be held.
func (s *CacheService) setLocked(sourceText, targetLang, translatedText string) {
	byLang, ok := s.mirror[targetLang]
	if !ok {
		byLang = make(map[string]string)
		s.mirror[targetLang] = byLang
	}
	byLang[sourceText] = translatedText
}
