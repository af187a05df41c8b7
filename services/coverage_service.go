package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"AVRentals/models"
	"AVRentals/repositories"
)

const (
	extractedReportFile = "extracted-ui-texts.json"
	missingReportFile   = "missing-translations.json"

	coverageMaxTextLen  = 100
	coverageTopCritical = 50
)

// CoverageService reports how much of the extracted UI vocabulary has a
// cached translation. The site build drops an extracted-texts report
// into the reports directory; Refresh diffs it against the durable store
// and persists a missing-translations report that Report pages through.
type CoverageService struct {
	Repo       repositories.TranslationRepository
	ReportsDir string
}

func NewCoverageService(repo repositories.TranslationRepository, reportsDir string) *CoverageService {
	return &CoverageService{Repo: repo, ReportsDir: reportsDir}
}

type extractedReport struct {
	ExtractedAt time.Time `json:"extracted_at"`
	TotalTexts  int       `json:"total_texts"`
	Texts       []string  `json:"texts"`
}

type missingReport struct {
	GeneratedAt   time.Time `json:"generated_at"`
	Extracted     int       `json:"extracted"`
	TotalMissing  int       `json:"total_missing"`
	CriticalCount int       `json:"critical_count"`
	MissingTexts  []string  `json:"missing_texts"`
	CriticalTexts []string  `json:"critical_texts"`
}

// CoverageSummary is what a refresh pass reports back.
type CoverageSummary struct {
	Extracted int `json:"extracted"`
	Missing   int `json:"missing"`
	Critical  int `json:"critical"`
}

// CoverageParams filters and pages the missing-texts listing.
type CoverageParams struct {
	Page         int
	Limit        int
	Group        string
	Search       string
	OnlyCritical bool
}

// CoverageReport is one page of the missing-texts listing plus the group
// breakdown.
type CoverageReport struct {
	MissingCount   int            `json:"missing_count"`
	ExtractedCount int            `json:"extracted_count"`
	Total          int            `json:"total"`
	Page           int            `json:"page"`
	Pages          int            `json:"pages"`
	Items          []string       `json:"items"`
	Groups         map[string]int `json:"groups"`
	CriticalCount  int            `json:"critical_count"`
	TopCritical    []string       `json:"top_critical"`
}

// Refresh recomputes the missing-translations report from the extracted
// texts and the durable store, and persists it for Report.
func (s *CoverageService) Refresh() (CoverageSummary, error) {
	extracted, err := s.readExtracted()
	if err != nil {
		return CoverageSummary{}, err
	}

	existing, err := s.Repo.SourceTexts(models.LangPortuguese)
	if err != nil {
		return CoverageSummary{}, err
	}
	known := make(map[string]bool, len(existing))
	for _, text := range existing {
		known[text] = true
	}

	var missing []string
	for _, text := range extracted {
		if !known[text] && len(text) <= coverageMaxTextLen {
			missing = append(missing, text)
		}
	}
	sort.Strings(missing)

	var critical []string
	for _, text := range missing {
		if isCriticalText(text) {
			critical = append(critical, text)
		}
	}

	report := missingReport{
		GeneratedAt:   time.Now(),
		Extracted:     len(extracted),
		TotalMissing:  len(missing),
		CriticalCount: len(critical),
		MissingTexts:  missing,
		CriticalTexts: critical,
	}
	if err := s.writeMissing(report); err != nil {
		return CoverageSummary{}, err
	}

	log.Printf("Coverage refreshed: %d extracted, %d missing, %d critical",
		len(extracted), len(missing), len(critical))
	return CoverageSummary{
		Extracted: len(extracted),
		Missing:   len(missing),
		Critical:  len(critical),
	}, nil
}

// Report pages through the persisted missing-translations report. A
// missing report file yields an empty report, not an error: coverage has
// simply never been refreshed.
func (s *CoverageService) Report(params CoverageParams) (CoverageReport, error) {
	report, err := s.readMissing()
	if err != nil {
		return CoverageReport{}, err
	}

	pool := report.MissingTexts
	if params.OnlyCritical {
		pool = report.CriticalTexts
	}

	if search := strings.ToLower(strings.TrimSpace(params.Search)); search != "" {
		var filtered []string
		for _, text := range pool {
			if strings.Contains(strings.ToLower(text), search) {
				filtered = append(filtered, text)
			}
		}
		pool = filtered
	}

	groups := make(map[string]int)
	for _, text := range pool {
		groups[classifyFeature(text)]++
	}
	if group := strings.ToLower(params.Group); group != "" && group != "all" {
		var filtered []string
		for _, text := range pool {
			if classifyFeature(text) == group {
				filtered = append(filtered, text)
			}
		}
		pool = filtered
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 10 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	total := len(pool)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	topCritical := report.CriticalTexts
	if len(topCritical) > coverageTopCritical {
		topCritical = topCritical[:coverageTopCritical]
	}

	return CoverageReport{
		MissingCount:   len(report.MissingTexts),
		ExtractedCount: report.Extracted,
		Total:          total,
		Page:           page,
		Pages:          pages,
		Items:          pool[start:end],
		Groups:         groups,
		CriticalCount:  len(report.CriticalTexts),
		TopCritical:    topCritical,
	}, nil
}

func (s *CoverageService) readExtracted() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.ReportsDir, extractedReportFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted texts report: %w", err)
	}

	var report extractedReport
	if err := json.Unmarshal(data, &report); err == nil && len(report.Texts) > 0 {
		return report.Texts, nil
	}

	// Plain array form is also accepted.
	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("invalid extracted texts report: %w", err)
	}
	return texts, nil
}

func (s *CoverageService) readMissing() (missingReport, error) {
	data, err := os.ReadFile(filepath.Join(s.ReportsDir, missingReportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return missingReport{}, nil
		}
		return missingReport{}, fmt.Errorf("failed to read missing translations report: %w", err)
	}

	var report missingReport
	if err := json.Unmarshal(data, &report); err != nil {
		return missingReport{}, fmt.Errorf("invalid missing translations report: %w", err)
	}
	return report, nil
}

func (s *CoverageService) writeMissing(report missingReport) error {
	if err := os.MkdirAll(s.ReportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.ReportsDir, missingReportFile), data, 0644)
}

// criticalWords marks texts likely to be user-facing chrome that must
// not ship untranslated.
var criticalWords = []string{
	"button", "form", "field", "label", "title", "message", "error",
	"success", "warning", "info",
	"create", "update", "delete", "save", "cancel", "confirm", "submit",
	"reset", "close", "open",
	"name", "email", "phone", "address", "date", "time", "price",
	"quantity", "total", "status",
}

func isCriticalText(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range criticalWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// classifyFeature buckets a UI text into the product area it most likely
// belongs to, for the coverage group breakdown.
func classifyFeature(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "client", "contact"):
		return "clients"
	case containsAny(t, "event", "calendar", "venue", "location"):
		return "events"
	case containsAny(t, "quote", "orçamento", "pdf"):
		return "quotes"
	case containsAny(t, "rental", "prep", "check-in", "check-out"):
		return "rentals"
	case containsAny(t, "inventory", "equipment", "item", "stock", "label"):
		return "inventory"
	case containsAny(t, "maintenance", "repair", "log"):
		return "maintenance"
	case containsAny(t, "user", "profile", "password", "role", "login", "sign in", "sign up"):
		return "users"
	case containsAny(t, "categor", "subcategor"):
		return "categories"
	case containsAny(t, "admin", "settings", "system", "translation", "branding", "logo", "favicon"):
		return "admin"
	}
	return "general"
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
