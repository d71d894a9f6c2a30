package feed

import (
	"context"
	"fmt"
	"time"

	"swipeNews/business/bandit"
	"swipeNews/domain"
	"swipeNews/pkg/logger"
)

// ---- Repository interfaces ----

type UserRepository interface {
	// FindByID returns (nil, nil) when the user does not exist.
	FindByID(ctx context.Context, id string) (*domain.UserFeed, error)
	Save(ctx context.Context, user *domain.UserFeed) error
}

type EventRepository interface {
	SaveEvents(ctx context.Context, events []domain.SwipeEvent) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// ---- Requests / responses ----

type InitRequest struct {
	UserID    string
	Filters   []string
	Diversify bool
	Country   string
}

type InitResponse struct {
	UserID      string
	Articles    []domain.Article
	Diagnostics Diagnostics
}

type SwipeRequest struct {
	UserID  string
	Events  []domain.SwipeInput
	Country string
}

type SwipeResponse struct {
	UserID        string
	NextCategory  domain.Category
	Articles      []domain.Article
	AppliedEvents int
	Stats         map[domain.Category]domain.CategoryBelief
	Diagnostics   Diagnostics
}

type CategoryFeedResponse struct {
	UserID      string
	Category    domain.Category
	Articles    []domain.Article
	Diagnostics Diagnostics
}

type Preferences struct {
	UserID    string
	Filters   []domain.Category
	Stats     map[domain.Category]domain.CategoryBelief
	SeenCount int
	// SwipeCount is the number of logged swipes, -1 when the log is unavailable.
	SwipeCount int64
}

// ---- Service ----

// writeTimeout bounds persistence after a pull. It is detached from the
// request deadline so a slow upstream cannot discard the assembled state.
const writeTimeout = 5 * time.Second

func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
}

// Service embeds the Engine: it loads and saves user records, serializes
// mutations per user and keeps the swipe event log.
type Service struct {
	users  UserRepository
	events EventRepository
	locker UserLocker
	engine *Engine
}

func NewService(users UserRepository, events EventRepository, locker UserLocker, engine *Engine) *Service {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &Service{
		users:  users,
		events: events,
		locker: locker,
		engine: engine,
	}
}

func (s *Service) Categories() []domain.Category {
	return domain.AllCategories()
}

// withUser runs fn on the user's state under the per-user lock and saves the
// record afterwards. When create is false a missing user is ErrUserNotFound.
func (s *Service) withUser(
	ctx context.Context,
	userID string,
	create func() *domain.UserState,
	fn func(st *domain.UserState) error,
) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user %s: %w", userID, err)
	}
	defer unlock()

	rec, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	var st *domain.UserState
	switch {
	case rec != nil:
		st = rec.State()
	case create != nil:
		st = create()
	default:
		return domain.ErrUserNotFound
	}

	if err := fn(st); err != nil {
		return err
	}

	out := st.ToRecord()
	if rec != nil {
		out.CreatedAt = rec.CreatedAt
	}
	wctx, cancel := detached(ctx)
	defer cancel()
	if err := s.users.Save(wctx, &out); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// InitFeed creates the user on first sight, replaces filters when valid ones
// are supplied, and serves the opening pool.
func (s *Service) InitFeed(ctx context.Context, req InitRequest) (InitResponse, error) {
	filters := domain.ValidCategories(req.Filters)
	mode := domain.ModeFocused
	if req.Diversify {
		mode = domain.ModeDiversified
	}

	var res PullResult
	err := s.withUser(ctx, req.UserID,
		func() *domain.UserState { return domain.NewUserState(req.UserID, filters) },
		func(st *domain.UserState) error {
			if len(filters) > 0 {
				st.Filters = filters
			}
			var err error
			res, err = s.engine.SelectAndPull(ctx, st, mode, 0, req.Country)
			return err
		},
	)
	if err != nil {
		return InitResponse{}, err
	}

	logger.Debug("feed_init",
		"trace_id", bandit.TraceIDFromContext(ctx),
		"user_id", req.UserID,
		"mode", res.Diagnostics.Mode,
		"forced_diversify", res.Diagnostics.ForcedDiversify,
		"categories", res.Diagnostics.Categories,
		"articles", len(res.Articles),
		"fallback", res.Diagnostics.FallbackUsed,
		"upstream_errors", res.Diagnostics.UpstreamErrors,
	)
	if res.Diagnostics.Exhausted {
		logger.Warn("feed_exhausted", "user_id", req.UserID, "mode", res.Diagnostics.Mode)
	}

	return InitResponse{
		UserID:      req.UserID,
		Articles:    res.Articles,
		Diagnostics: res.Diagnostics,
	}, nil
}

// Swipe applies a batch of reactions and serves the next articles.
func (s *Service) Swipe(ctx context.Context, req SwipeRequest) (SwipeResponse, error) {
	if req.UserID == "" {
		return SwipeResponse{}, domain.ErrUserIDRequired
	}
	if _, err := ValidateSwipes(req.Events); err != nil {
		return SwipeResponse{}, err
	}

	var res FeedbackResult
	err := s.withUser(ctx, req.UserID, nil, func(st *domain.UserState) error {
		var err error
		res, err = s.engine.RecordFeedback(ctx, st, req.Events, req.Country)
		return err
	})
	if err != nil {
		return SwipeResponse{}, err
	}

	s.logEvents(ctx, req.UserID, res.Swipes)

	logger.Debug("feed_swipe",
		"trace_id", bandit.TraceIDFromContext(ctx),
		"user_id", req.UserID,
		"applied", res.AppliedEvents,
		"next_category", res.NextCategory,
		"articles", len(res.Articles),
		"fallback", res.Diagnostics.FallbackUsed,
	)

	return SwipeResponse{
		UserID:        req.UserID,
		NextCategory:  res.NextCategory,
		Articles:      res.Articles,
		AppliedEvents: res.AppliedEvents,
		Stats:         res.Stats,
		Diagnostics:   res.Diagnostics,
	}, nil
}

// logEvents appends swipes to the event log. The user state is already saved,
// so a failure here is logged and not returned.
func (s *Service) logEvents(ctx context.Context, userID string, swipes []domain.Swipe) {
	if s.events == nil || len(swipes) == 0 {
		return
	}
	now := time.Now()
	rows := make([]domain.SwipeEvent, 0, len(swipes))
	for _, sw := range swipes {
		rows = append(rows, domain.SwipeEvent{
			UserID:     userID,
			Category:   sw.Category,
			ArticleURL: sw.ArticleURL,
			Reaction:   sw.Reaction,
			CreatedAt:  now,
		})
	}
	wctx, cancel := detached(ctx)
	defer cancel()
	if err := s.events.SaveEvents(wctx, rows); err != nil {
		logger.Error("failed to save swipe events",
			"trace_id", bandit.TraceIDFromContext(ctx),
			"user_id", userID,
			"count", len(rows),
			"error", err,
		)
	}
}

// CategoryFeed serves unseen articles from one explicitly requested category.
func (s *Service) CategoryFeed(
	ctx context.Context,
	userID string,
	category string,
	pageSize int,
	country string,
) (CategoryFeedResponse, error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return CategoryFeedResponse{}, err
	}

	var res PullResult
	err = s.withUser(ctx, userID, nil, func(st *domain.UserState) error {
		var err error
		res, err = s.engine.PullCategory(ctx, st, cat, pageSize, country)
		return err
	})
	if err != nil {
		return CategoryFeedResponse{}, err
	}

	return CategoryFeedResponse{
		UserID:      userID,
		Category:    cat,
		Articles:    res.Articles,
		Diagnostics: res.Diagnostics,
	}, nil
}

func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	if userID == "" {
		return Preferences{}, domain.ErrUserIDRequired
	}
	rec, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Preferences{}, fmt.Errorf("load user: %w", err)
	}
	if rec == nil {
		return Preferences{}, domain.ErrUserNotFound
	}

	st := rec.State()
	filters := st.Filters
	if filters == nil {
		filters = []domain.Category{}
	}
	swipes := int64(-1)
	if s.events != nil {
		n, err := s.events.CountByUser(ctx, userID)
		if err != nil {
			logger.Warn("failed to count swipe events", "user_id", userID, "error", err)
		} else {
			swipes = n
		}
	}

	return Preferences{
		UserID:     st.ID,
		Filters:    filters,
		Stats:      st.Stats.Snapshot(),
		SeenCount:  len(st.Seen),
		SwipeCount: swipes,
	}, nil
}

// UpdateFilters replaces the user's filters with the known categories among
// names, creating the user if needed.
func (s *Service) UpdateFilters(ctx context.Context, userID string, names []string) ([]domain.Category, error) {
	filters := domain.ValidCategories(names)
	err := s.withUser(ctx, userID,
		func() *domain.UserState { return domain.NewUserState(userID, nil) },
		func(st *domain.UserState) error {
			st.Filters = filters
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return filters, nil
}
