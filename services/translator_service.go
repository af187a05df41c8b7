package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"AVRentals/models"
)

const (
	maxOverloadRetries    = 3
	progressiveJobTimeout = 10 * time.Minute
)

// TranslatorService is the orchestration core. Requests flow rule table →
// in-memory mirror → durable store → generative API, with cache misses
// grouped into small numbered batches. Batches are dispatched
// sequentially: the upstream per-minute ceiling is the dominant
// constraint and parallel dispatch would violate it.
type TranslatorService struct {
	Cache  *CacheService
	Rules  *RulesService
	Pool   *KeyPool
	Client GenerativeClient

	ModelName  string
	BatchSize  int
	BatchDelay time.Duration
}

func NewTranslatorService(cache *CacheService, rules *RulesService, pool *KeyPool, client GenerativeClient, modelName string, batchSize int, batchDelay time.Duration) *TranslatorService {
	if batchSize < 1 {
		batchSize = 10
	}
	return &TranslatorService{
		Cache:      cache,
		Rules:      rules,
		Pool:       pool,
		Client:     client,
		ModelName:  modelName,
		BatchSize:  batchSize,
		BatchDelay: batchDelay,
	}
}

// TranslateOne translates a single text. It never fails from the caller's
// point of view: the worst case is the source text coming back unchanged.
func (s *TranslatorService) TranslateOne(ctx context.Context, text, targetLang string) string {
	return s.TranslateMany(ctx, []string{text}, targetLang)[0]
}

// TranslateMany translates texts, returning one result per input in the
// same positional order. Each position carries the rule override, the
// cached or freshly generated translation, or the source text when
// everything else failed.
func (s *TranslatorService) TranslateMany(ctx context.Context, texts []string, targetLang string) []string {
	return s.translateAll(ctx, texts, targetLang, nil)
}

// TranslateManyStream behaves like TranslateMany but emits partial
// results as each stage or batch resolves. emit receives a map of input
// positions to resolved values and must not block for long.
func (s *TranslatorService) TranslateManyStream(ctx context.Context, texts []string, targetLang string, emit func(map[int]string)) []string {
	return s.translateAll(ctx, texts, targetLang, emit)
}

// TranslateManyProgressive resolves rules and mirror hits synchronously
// and returns immediately, with misses carrying the source text. The
// misses are translated in a detached background job so a later call
// finds them cached.
func (s *TranslatorService) TranslateManyProgressive(texts []string, targetLang string) []string {
	if targetLang == models.LangEnglish || len(texts) == 0 {
		return append([]string(nil), texts...)
	}
	if err := s.Cache.Warm(targetLang); err != nil {
		log.Printf("Cache warm failed for %q: %v", targetLang, err)
	}

	r := newResolution(texts, nil)
	s.resolveLocal(r, targetLang)

	if misses := r.pendingTexts(); len(misses) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), progressiveJobTimeout)
			defer cancel()
			s.TranslateMany(ctx, misses, targetLang)
		}()
	}
	return r.results
}

func (s *TranslatorService) translateAll(ctx context.Context, texts []string, targetLang string, emit func(map[int]string)) []string {
	results := append([]string(nil), texts...)
	if targetLang == models.LangEnglish || len(texts) == 0 {
		return results
	}

	if err := s.Cache.Warm(targetLang); err != nil {
		log.Printf("Cache warm failed for %q: %v", targetLang, err)
	}

	r := newResolution(texts, emit)
	s.resolveLocal(r, targetLang)

	// Durable store, one query for all remaining misses.
	for text, translated := range s.Cache.FetchMany(r.pendingTexts(), targetLang) {
		r.resolve(text, translated)
	}
	r.flush()

	s.translateMisses(ctx, r, targetLang)

	r.finish()
	go s.Cache.FlushTouches()
	return r.results
}

// resolveLocal applies the rule table and the in-memory mirror. Anything
// resolved here is final and never touches the network.
func (s *TranslatorService) resolveLocal(r *resolution, targetLang string) {
	for _, text := range r.pendingTexts() {
		if translated, ok := s.Rules.Resolve(text, targetLang); ok {
			r.resolve(text, translated)
		}
	}
	for _, text := range r.pendingTexts() {
		if translated, ok := s.Cache.Lookup(text, targetLang); ok {
			r.resolve(text, translated)
		}
	}
	r.flush()
}

func (s *TranslatorService) translateMisses(ctx context.Context, r *resolution, targetLang string) {
	misses := r.pendingTexts()
	if len(misses) == 0 {
		return
	}

	batches := chunkTexts(misses, s.BatchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := waitFor(ctx, s.BatchDelay); err != nil {
				log.Printf("Translation cancelled, %d texts left as source", len(r.pendingTexts()))
				return
			}
		}

		translations, err := s.translateBatch(ctx, batch, targetLang)
		if err == nil {
			for j, text := range batch {
				s.persist(text, targetLang, translations[j])
				r.resolve(text, translations[j])
			}
			r.flush()
			continue
		}

		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			log.Printf("Batch response unparseable (%v), retrying texts individually", parseErr)
			s.retryIndividually(ctx, batch, targetLang, r)
			r.flush()
			continue
		}

		if errors.Is(err, ErrNoCredentials) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Remaining texts keep their source fallback and stay
			// uncached so a later call retries them.
			log.Printf("Translation degraded for %d remaining texts: %v", len(r.pendingTexts()), err)
			return
		}

		// Unknown upstream failure: serve source for this batch without
		// caching, keep going with the rest.
		log.Printf("Batch translation failed: %v", err)
		for _, text := range batch {
			r.resolve(text, text)
		}
		r.flush()
	}
}

// translateBatch sends one batch through the key pool, rotating
// credentials on quota errors and backing off on overload.
func (s *TranslatorService) translateBatch(ctx context.Context, batch []string, targetLang string) ([]string, error) {
	if s.Client == nil {
		return nil, ErrNoCredentials
	}

	overloadRetries := 0
	for {
		key, err := s.Pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := s.Client.GenerateContent(ctx, key, buildPrompt(batch, targetLang))
		if err != nil {
			switch classified := classifyAPIError(err); {
			case errors.Is(classified, ErrQuotaExceeded):
				s.Pool.MarkExhausted(key)
				continue
			case errors.Is(classified, ErrServiceOverloaded):
				s.Pool.MarkOverloaded()
				overloadRetries++
				if overloadRetries > maxOverloadRetries {
					return nil, ErrServiceOverloaded
				}
				continue
			default:
				return nil, err
			}
		}

		s.Pool.MarkSuccess(key)
		return parseNumberedList(raw, len(batch))
	}
}

// retryIndividually re-runs every text of a failed batch at batch size
// one. Texts that still fail are served as source and left uncached.
func (s *TranslatorService) retryIndividually(ctx context.Context, batch []string, targetLang string, r *resolution) {
	for _, text := range batch {
		out, err := s.translateBatch(ctx, []string{text}, targetLang)
		if err != nil {
			if errors.Is(err, ErrNoCredentials) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			r.resolve(text, text)
			continue
		}
		s.persist(text, targetLang, out[0])
		r.resolve(text, out[0])
	}
}

// persist writes a parsed model result to the cache store. A result that
// came back identical to its source is still persisted, flagged for
// review: it marks the text as attempted so it is not retranslated on
// every miss, unlike failed texts which stay uncached.
func (s *TranslatorService) persist(sourceText, targetLang, translated string) {
	needsReview := translated == sourceText
	if err := s.Cache.Put(sourceText, targetLang, translated, s.ModelName, models.StatusPending, needsReview); err != nil {
		log.Printf("Failed to persist translation for %q: %v", sourceText, err)
	}
}

func buildPrompt(texts []string, targetLang string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Translate the following numbered list of texts to %s.\n", languageName(targetLang))
	sb.WriteString("Keep any technical terms, brand names, and formatting intact.\n")
	sb.WriteString("Return ONLY the translations in the same numbered format, one per line.\n")
	sb.WriteString("Do not include any explanations or additional text.\n")
	sb.WriteString("\nTexts to translate:\n")
	for i, text := range texts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, text)
	}
	return sb.String()
}

func languageName(lang string) string {
	switch lang {
	case models.LangPortuguese:
		return "Portuguese (European Portugal variant, not Brazilian)"
	case models.LangEnglish:
		return "English"
	}
	return lang
}

func chunkTexts(texts []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[start:end])
	}
	return chunks
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// resolution tracks positional reassembly for one request: input texts
// are deduplicated (case-sensitive, exact match) and every resolved
// unique text fans out to all of its original positions.
type resolution struct {
	results    []string
	positions  map[string][]int
	order      []string
	unresolved map[string]bool
	stage      map[int]string
	emit       func(map[int]string)
}

func newResolution(texts []string, emit func(map[int]string)) *resolution {
	r := &resolution{
		results:    append([]string(nil), texts...),
		positions:  make(map[string][]int),
		unresolved: make(map[string]bool),
		stage:      make(map[int]string),
		emit:       emit,
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue // blank input is served back verbatim
		}
		if _, seen := r.positions[text]; !seen {
			r.order = append(r.order, text)
			r.unresolved[text] = true
		}
		r.positions[text] = append(r.positions[text], i)
	}
	return r
}

// pendingTexts returns the unresolved unique texts in first-seen order.
func (r *resolution) pendingTexts() []string {
	var pending []string
	for _, text := range r.order {
		if r.unresolved[text] {
			pending = append(pending, text)
		}
	}
	return pending
}

func (r *resolution) resolve(text, value string) {
	if !r.unresolved[text] {
		return
	}
	delete(r.unresolved, text)
	for _, idx := range r.positions[text] {
		r.results[idx] = value
		r.stage[idx] = value
	}
}

// flush pushes the staged partial results to the emit callback.
func (r *resolution) flush() {
	if r.emit != nil && len(r.stage) > 0 {
		r.emit(r.stage)
	}
	r.stage = make(map[int]string)
}

// finish emits the source-text fallbacks for anything still unresolved so
// stream consumers always see every position exactly once.
func (r *resolution) finish() {
	for _, text := range r.pendingTexts() {
		r.resolve(text, text)
	}
	r.flush()
}
