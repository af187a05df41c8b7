package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"AVRentals/models"
)

// RulesService holds the operator-curated override table. Rules take
// precedence over cached and freshly generated translations. The table is
// replaced atomically on reload; a malformed document leaves the previous
// table intact.
type RulesService struct {
	Path  string
	Cache *CacheService

	mu    sync.RWMutex
	rules map[string]map[string]string // targetLang -> sourceText -> translatedText
}

func NewRulesService(path string, cache *CacheService) *RulesService {
	return &RulesService{
		Path:  path,
		Cache: cache,
		rules: make(map[string]map[string]string),
	}
}

// Load reads the rules document at startup. A missing file is not an
// error: the service starts with an empty table.
func (s *RulesService) Load() error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No translation rules file at %s, starting with empty table", s.Path)
			return nil
		}
		return fmt.Errorf("failed to read rules file: %w", err)
	}

	parsed, err := parseRules(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rules = parsed
	s.mu.Unlock()
	log.Printf("Loaded translation rules from %s", s.Path)
	return nil
}

// Reload validates the new document, persists it, swaps the table and
// invalidates the in-memory translation mirror. Previously cached durable
// entries are kept; the rules simply win on lookup from now on.
func (s *RulesService) Reload(document []byte) error {
	parsed, err := parseRules(document)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.Path, document, 0644); err != nil {
		return fmt.Errorf("failed to persist rules file: %w", err)
	}

	s.mu.Lock()
	s.rules = parsed
	s.mu.Unlock()

	if s.Cache != nil {
		s.Cache.Clear()
	}
	return nil
}

// Resolve returns the override for a source text, if one exists.
func (s *RulesService) Resolve(sourceText, targetLang string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	translated, ok := s.rules[targetLang][sourceText]
	return translated, ok
}

// Document returns the current rules serialized for the admin surface.
func (s *RulesService) Document() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.rules, "", "  ")
}

func parseRules(document []byte) (map[string]map[string]string, error) {
	var parsed map[string]map[string]string
	if err := json.Unmarshal(document, &parsed); err != nil {
		return nil, fmt.Errorf("invalid rules document: %w", err)
	}
	for lang := range parsed {
		if !models.IsSupportedLang(lang) {
			return nil, fmt.Errorf("invalid rules document: unsupported language %q", lang)
		}
	}
	if parsed == nil {
		parsed = make(map[string]map[string]string)
	}
	return parsed, nil
}
