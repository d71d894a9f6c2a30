package feed

import (
	"context"
	"errors"
	"fmt"

	"swipeNews/business/bandit"
	"swipeNews/domain"
)

var (
	ErrNoEvents    = errors.New("events array required")
	ErrInvalidMode = errors.New("invalid feed mode")
)

// Diagnostics reports how a pool was assembled. Nothing in here is an error.
type Diagnostics struct {
	Mode               domain.FeedMode   `json:"mode"`
	Diversified        bool              `json:"diversified"`
	ForcedDiversify    bool              `json:"forcedDiversify"`
	Categories         []domain.Category `json:"categories"`
	PossibleCategories []domain.Category `json:"possibleCategories"`
	PagesFetched       int               `json:"pagesFetched"`
	UpstreamErrors     int               `json:"upstreamErrors"`
	FallbackUsed       bool              `json:"fallbackUsed"`
	// Exhausted is set when nothing unseen could be found anywhere.
	Exhausted bool `json:"exhausted"`
}

type PullResult struct {
	Articles    []domain.Article
	Diagnostics Diagnostics
}

type FeedbackResult struct {
	NextCategory  domain.Category
	Articles      []domain.Article
	AppliedEvents int
	Swipes        []domain.Swipe
	Stats         map[domain.Category]domain.CategoryBelief
	Diagnostics   Diagnostics
}

// Engine is the per-user decision core. It mutates the UserState it is given
// and performs no persistence; callers must serialize calls per user.
type Engine struct {
	selector  *bandit.Selector
	assembler *Assembler
	cfg       Config
}

func NewEngine(selector *bandit.Selector, assembler *Assembler, cfg Config) *Engine {
	return &Engine{
		selector:  selector,
		assembler: assembler,
		cfg:       cfg.withDefaults(),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// ensureState fills the maps a partially built state may lack.
func ensureState(st *domain.UserState) {
	if st.Stats == nil {
		st.Stats = domain.Beliefs{}
	}
	if st.PageByCategory == nil {
		st.PageByCategory = make(map[domain.Category]int)
	}
}

func (e *Engine) country(c string) string {
	if c == "" {
		return e.cfg.DefaultCountry
	}
	return c
}

// SelectAndPull assembles a feed for st in the requested mode. A focused
// request from a user with no feedback at all is served diversified.
func (e *Engine) SelectAndPull(
	ctx context.Context,
	st *domain.UserState,
	mode domain.FeedMode,
	target int,
	country string,
) (PullResult, error) {
	if mode != domain.ModeFocused && mode != domain.ModeDiversified {
		return PullResult{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	ensureState(st)
	country = e.country(country)

	diag := Diagnostics{PossibleCategories: st.EligibleCategories()}
	if mode == domain.ModeFocused && st.Stats.TotalFeedback() == 0 {
		mode = domain.ModeDiversified
		diag.ForcedDiversify = true
		ForcedDiversifyTotal.Inc()
	}
	diag.Mode = mode
	diag.Diversified = mode == domain.ModeDiversified

	var (
		articles []domain.Article
		stats    PullStats
	)
	switch mode {
	case domain.ModeDiversified:
		if target <= 0 {
			target = e.cfg.DiversifyLimit
		}
		articles, diag.Categories, stats = e.assembler.Diversified(ctx, st, target, country)
	case domain.ModeFocused:
		if target <= 0 {
			target = e.cfg.FocusedTarget
		}
		cat := e.selector.Choose(diag.PossibleCategories, st.Stats)
		diag.Categories = []domain.Category{cat}
		articles, stats = e.assembler.PullFresh(ctx, st, cat, target, country)
	}

	articles, stats = e.withFallback(ctx, articles, stats, target, country, &diag)
	fresh := e.commit(st, articles, stats, &diag)

	FeedPullsTotal.WithLabelValues(string(mode)).Inc()
	return PullResult{Articles: fresh, Diagnostics: diag}, nil
}

// PullCategory serves up to pageSize unseen articles from one category.
func (e *Engine) PullCategory(
	ctx context.Context,
	st *domain.UserState,
	category domain.Category,
	pageSize int,
	country string,
) (PullResult, error) {
	if !category.Valid() {
		return PullResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	if pageSize <= 0 {
		pageSize = e.cfg.FocusedTarget
	}
	ensureState(st)
	country = e.country(country)

	diag := Diagnostics{
		Mode:               domain.ModeFocused,
		Categories:         []domain.Category{category},
		PossibleCategories: st.EligibleCategories(),
	}
	articles, stats := e.assembler.PullFresh(ctx, st, category, pageSize, country)
	articles, stats = e.withFallback(ctx, articles, stats, pageSize, country, &diag)
	fresh := e.commit(st, articles, stats, &diag)

	FeedPullsTotal.WithLabelValues("category").Inc()
	return PullResult{Articles: fresh, Diagnostics: diag}, nil
}

// ValidateSwipes checks every event before anything is mutated.
func ValidateSwipes(events []domain.SwipeInput) ([]domain.Swipe, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	out := make([]domain.Swipe, 0, len(events))
	for i, ev := range events {
		cat, err := domain.ParseCategory(ev.Category)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		reaction, err := domain.ParseReaction(ev.Reaction)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, domain.Swipe{Category: cat, ArticleURL: ev.ArticleURL, Reaction: reaction})
	}
	return out, nil
}

type tally struct {
	category domain.Category
	likes    int
	dislikes int
}

// RecordFeedback applies a batch of swipes in order, then serves the next few
// articles. The next category is the one with the largest positive
// like-dislike margin in this batch, or a Thompson draw when none is positive.
func (e *Engine) RecordFeedback(
	ctx context.Context,
	st *domain.UserState,
	events []domain.SwipeInput,
	country string,
) (FeedbackResult, error) {
	swipes, err := ValidateSwipes(events)
	if err != nil {
		return FeedbackResult{}, err
	}
	ensureState(st)
	country = e.country(country)

	seen := NewSeenSet(st.Seen)

	var tallies []*tally
	byCat := make(map[domain.Category]*tally)
	for _, sw := range swipes {
		bandit.ApplyReaction(st.Stats, sw.Category, sw.Reaction)

		t, ok := byCat[sw.Category]
		if !ok {
			t = &tally{category: sw.Category}
			byCat[sw.Category] = t
			tallies = append(tallies, t)
		}
		if sw.Reaction == domain.ReactionLike {
			t.likes++
		} else {
			t.dislikes++
		}

		if sw.ArticleURL != "" {
			MarkSeen(seen, sw.ArticleURL, e.cfg.SeenCap)
		}
	}
	st.Seen = seen.IDs()

	var next domain.Category
	bestMargin := 0
	for _, t := range tallies {
		if margin := t.likes - t.dislikes; margin > bestMargin {
			next, bestMargin = t.category, margin
		}
	}

	diag := Diagnostics{
		Mode:               domain.ModeFocused,
		PossibleCategories: st.EligibleCategories(),
	}
	if next == "" {
		next = e.selector.Choose(diag.PossibleCategories, st.Stats)
	}
	diag.Categories = []domain.Category{next}

	articles, stats := e.assembler.PullFresh(ctx, st, next, e.cfg.SwipeTarget, country)
	articles, stats = e.withFallback(ctx, articles, stats, e.cfg.SwipeTarget, country, &diag)
	fresh := e.commit(st, articles, stats, &diag)

	return FeedbackResult{
		NextCategory:  next,
		Articles:      fresh,
		AppliedEvents: len(swipes),
		Swipes:        swipes,
		Stats:         st.Stats.Snapshot(),
		Diagnostics:   diag,
	}, nil
}

// withFallback replaces an empty pull with the broad mixed fetch over all categories.
func (e *Engine) withFallback(
	ctx context.Context,
	articles []domain.Article,
	stats PullStats,
	limit int,
	country string,
	diag *Diagnostics,
) ([]domain.Article, PullStats) {
	if len(articles) > 0 {
		return articles, stats
	}
	diag.FallbackUsed = true
	FeedFallbacksTotal.WithLabelValues(string(diag.Mode)).Inc()

	mixed, mstats := e.assembler.Mixed(ctx, domain.AllCategories(), e.cfg.FallbackPerCategory, country)
	stats.add(mstats)
	if len(mixed) > limit {
		mixed = mixed[:limit]
	}
	return mixed, stats
}

// commit records the served articles in the user's seen set.
func (e *Engine) commit(st *domain.UserState, articles []domain.Article, stats PullStats, diag *Diagnostics) []domain.Article {
	seen := NewSeenSet(st.Seen)
	fresh := FilterFresh(seen, articles, e.cfg.SeenCap)
	st.Seen = seen.IDs()

	diag.PagesFetched = stats.PagesFetched
	diag.UpstreamErrors = stats.UpstreamErrors
	diag.Exhausted = len(fresh) == 0
	return fresh
}
