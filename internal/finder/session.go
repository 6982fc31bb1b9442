// Package finder holds the per-visitor recipe finder state: the ingredient
// list, the accumulated recipe pages and the pagination cursor.
package finder

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recetas/backend/internal/metrics"
	"github.com/pageza/recetas/backend/internal/model"
	"github.com/pageza/recetas/backend/internal/service"
)

// State describes how the last fetch of the current ingredient set settled
type State string

const (
	StateIdle      State = "IDLE"
	StateLoading   State = "LOADING"
	StateAppended  State = "APPENDED"
	StateExhausted State = "EXHAUSTED"
	StateEmpty     State = "EMPTY"
	StateError     State = "ERROR"
)

// Options configures a Session
type Options struct {
	SourceLang       string
	TargetLang       string
	PageSize         int
	TitleConcurrency int
}

// DefaultOptions searches Spanish input against an English provider
func DefaultOptions() Options {
	return Options{
		SourceLang:       "es",
		TargetLang:       "en",
		PageSize:         10,
		TitleConcurrency: 4,
	}
}

// Session is one visitor's finder. All fields below mu are guarded by it;
// provider calls are made with the lock released.
//
// Every change to the ingredient set starts a new generation. A page
// fetched for an older generation is dropped when it settles, and the
// generation's context is cancelled so the request stops early.
type Session struct {
	ID uuid.UUID

	translator service.Translator
	searcher   service.RecipeSearcher
	opts       Options

	mu          sync.Mutex
	ingredients []model.Ingredient
	recipes     []model.RecipeResult
	cursor      model.Cursor
	loading     bool
	noResults   bool
	state       State
	generation  uint64
	genCtx      context.Context
	cancelGen   context.CancelFunc
	updatedAt   time.Time

	// set when the first page of the current generation was abandoned
	firstPagePending bool
}

// NewSession creates an empty session
func NewSession(id uuid.UUID, translator service.Translator, searcher service.RecipeSearcher, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.TitleConcurrency <= 0 {
		opts.TitleConcurrency = 1
	}
	s := &Session{
		ID:         id,
		translator: translator,
		searcher:   searcher,
		opts:       opts,
	}
	s.resetLocked()
	return s
}

// AddIngredient trims text and adds it to the list. It returns false when
// text is empty or already present. On success the results are reset and the
// first page is fetched before returning.
func (s *Session) AddIngredient(ctx context.Context, text string) bool {
	gen, ok := s.add(ctx, text)
	if ok {
		s.fetch(ctx, gen, 0)
	}
	return ok
}

// AddIngredients adds every text like AddIngredient but fetches the first
// page once, after the last addition. It returns how many were added.
func (s *Session) AddIngredients(ctx context.Context, texts ...string) int {
	var (
		gen   uint64
		added int
	)
	for _, text := range texts {
		if g, ok := s.add(ctx, text); ok {
			gen = g
			added++
		}
	}
	if added > 0 {
		s.fetch(ctx, gen, 0)
	}
	return added
}

// add commits one ingredient and resets the session without fetching
func (s *Session) add(ctx context.Context, text string) (uint64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	s.mu.Lock()
	exists := s.indexOf(text) >= 0
	s.mu.Unlock()
	if exists {
		return 0, false
	}

	translated := strings.ToLower(s.translator.Translate(ctx, text, s.opts.SourceLang, s.opts.TargetLang))

	s.mu.Lock()
	// another add of the same text may have won while we were translating
	if s.indexOf(text) >= 0 {
		s.mu.Unlock()
		return 0, false
	}
	s.ingredients = append(s.ingredients, model.Ingredient{Original: text, Translated: translated})
	gen := s.resetLocked()
	s.mu.Unlock()

	log.Printf("[Finder] session %s: added %q as %q", s.ID, text, translated)
	return gen, true
}

// RemoveIngredient removes the ingredient whose original text is exactly
// original. It returns false when there is no such ingredient.
func (s *Session) RemoveIngredient(ctx context.Context, original string) bool {
	s.mu.Lock()
	idx := s.indexOf(original)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.ingredients = slices.Delete(s.ingredients, idx, idx+1)
	gen := s.resetLocked()
	remaining := len(s.ingredients)
	s.mu.Unlock()

	if remaining > 0 {
		s.fetch(ctx, gen, 0)
	}
	return true
}

// ClearAll empties the ingredient list and the results
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ingredients = nil
	s.resetLocked()
}

// FetchPage fetches page for the current ingredient set and appends the
// recipes that use every ingredient.
func (s *Session) FetchPage(ctx context.Context, page int) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	s.fetch(ctx, gen, page)
}

// NearBottom is the scroll signal. When no fetch is running, more pages are
// expected and there are ingredients, it claims the next page and fetches it.
// If the first page was never delivered it is fetched again instead.
// Otherwise it returns false and changes nothing.
func (s *Session) NearBottom(ctx context.Context) bool {
	s.mu.Lock()
	if s.loading || !s.cursor.HasMore || len(s.ingredients) == 0 {
		s.mu.Unlock()
		return false
	}
	if s.firstPagePending {
		s.firstPagePending = false
	} else {
		s.cursor.Page++
	}
	page := s.cursor.Page
	gen := s.generation
	s.loading = true
	s.state = StateLoading
	s.mu.Unlock()

	s.fetch(ctx, gen, page)
	return true
}

// Close cancels any fetch in flight. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelGen()
}

func (s *Session) fetch(ctx context.Context, gen uint64, page int) {
	s.mu.Lock()
	if gen != s.generation || len(s.ingredients) == 0 {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.state = StateLoading
	query := make([]string, len(s.ingredients))
	for i, ing := range s.ingredients {
		query[i] = ing.Translated
	}
	genCtx := s.genCtx
	s.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(genCtx, cancel)
	defer stop()

	start := time.Now()
	found, err := s.searcher.FindByIngredients(fetchCtx, query, page*s.opts.PageSize, s.opts.PageSize)

	var kept []model.RecipeResult
	if err == nil {
		kept = service.KeepAllMatching(found, query)
		metrics.RecordFilter(len(kept), len(found)-len(kept))
		s.translateTitles(fetchCtx, kept)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		metrics.RecordFetch("stale", time.Since(start).Seconds())
		return
	}
	if fetchCtx.Err() != nil {
		// caller went away; give the page back so the next scroll retries it
		s.loading = false
		switch {
		case page == 0:
			s.firstPagePending = len(s.recipes) == 0
		case s.cursor.Page == page:
			s.cursor.Page--
		}
		s.state = s.settledState()
		metrics.RecordFetch("cancelled", time.Since(start).Seconds())
		return
	}

	s.loading = false
	s.updatedAt = time.Now()
	if page == 0 {
		s.firstPagePending = false
	}

	if err != nil {
		var apiErr *service.APIError
		switch {
		case errors.As(err, &apiErr):
			log.Printf("[Finder] session %s: provider rejected page %d: %v", s.ID, page, err)
		default:
			log.Printf("[Finder] session %s: failed to fetch page %d: %v", s.ID, page, err)
		}
		s.noResults = true
		s.cursor.HasMore = false
		s.state = StateError
		metrics.RecordFetch(string(s.state), time.Since(start).Seconds())
		return
	}

	if len(kept) == 0 {
		s.cursor.HasMore = false
	}
	s.recipes = append(s.recipes, kept...)
	s.noResults = page == 0 && len(kept) == 0

	switch {
	case s.noResults:
		s.state = StateEmpty
	case len(kept) == 0:
		s.state = StateExhausted
	default:
		s.state = StateAppended
	}
	metrics.RecordFetch(string(s.state), time.Since(start).Seconds())
}

// translateTitles fills TranslatedTitle back into the source language
func (s *Session) translateTitles(ctx context.Context, recipes []model.RecipeResult) {
	var g errgroup.Group
	g.SetLimit(s.opts.TitleConcurrency)
	for i := range recipes {
		g.Go(func() error {
			recipes[i].TranslatedTitle = s.translator.Translate(ctx, recipes[i].Title, s.opts.TargetLang, s.opts.SourceLang)
			return nil
		})
	}
	_ = g.Wait()
}

// resetLocked starts a new generation and returns its number
func (s *Session) resetLocked() uint64 {
	if s.cancelGen != nil {
		s.cancelGen()
	}
	s.generation++
	s.genCtx, s.cancelGen = context.WithCancel(context.Background())
	s.recipes = nil
	s.cursor = model.InitialCursor()
	s.loading = false
	s.noResults = false
	s.firstPagePending = false
	s.state = StateIdle
	s.updatedAt = time.Now()
	return s.generation
}

func (s *Session) settledState() State {
	switch {
	case len(s.recipes) == 0:
		return StateIdle
	case !s.cursor.HasMore:
		return StateExhausted
	default:
		return StateAppended
	}
}

func (s *Session) indexOf(original string) int {
	return slices.IndexFunc(s.ingredients, func(ing model.Ingredient) bool {
		return ing.Original == original
	})
}
