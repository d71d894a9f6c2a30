package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"swipeNews/business/feed"
	"swipeNews/domain"
	"swipeNews/internal/middleware"
	"swipeNews/pkg/logger"
)

type FeedService interface {
	InitFeed(ctx context.Context, req feed.InitRequest) (feed.InitResponse, error)
	Swipe(ctx context.Context, req feed.SwipeRequest) (feed.SwipeResponse, error)
	CategoryFeed(ctx context.Context, userID, category string, pageSize int, country string) (feed.CategoryFeedResponse, error)
	Categories() []domain.Category
	Preferences(ctx context.Context, userID string) (feed.Preferences, error)
	UpdateFilters(ctx context.Context, userID string, names []string) ([]domain.Category, error)
}

type FeedHandler struct {
	feedService FeedService
	validator   *validator.Validate
	timeout     time.Duration
}

const defaultHandlerTimeout = 30 * time.Second

// NewFeedHandler bounds each request by timeout; zero means 30s.
func NewFeedHandler(feedService FeedService, timeout time.Duration) *FeedHandler {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &FeedHandler{
		feedService: feedService,
		validator:   validator.New(),
		timeout:     timeout,
	}
}

// StringList accepts either a JSON string or a list of strings. Anything
// else decodes to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		*l = nil
		return nil
	}
	*l = many
	return nil
}

type InitRequestBody struct {
	UserID    string     `json:"userId" validate:"required"`
	Filters   StringList `json:"filters"`
	Diversify *bool      `json:"diversify"`
	Country   string     `json:"country" validate:"omitempty,alpha,len=2"`
}

type SwipeRequestBody struct {
	UserID  string              `json:"userId" validate:"required"`
	Events  []domain.SwipeInput `json:"events"`
	Country string              `json:"country" validate:"omitempty,alpha,len=2"`

	// single inline event, used when events is absent
	Category   string `json:"category"`
	ArticleURL string `json:"articleUrl"`
	Reaction   string `json:"reaction"`
}

type FeedQuery struct {
	UserID   string `query:"userId" validate:"required"`
	Category string `query:"category" validate:"required"`
	PageSize int    `query:"pageSize" validate:"omitempty,min=1,max=100"`
	Country  string `query:"country" validate:"omitempty,alpha,len=2"`
}

type InitResponseBody struct {
	UserID   string           `json:"userId"`
	Articles []domain.Article `json:"articles"`
	Meta     feed.Diagnostics `json:"meta"`
}

type SwipeResponseBody struct {
	UserID        string                                    `json:"userId"`
	NextCategory  domain.Category                           `json:"nextCategory"`
	Articles      []domain.Article                          `json:"articles"`
	AppliedEvents int                                       `json:"appliedEvents"`
	Stats         map[domain.Category]domain.CategoryBelief `json:"stats"`
	Meta          feed.Diagnostics                          `json:"meta"`
}

type CategoryFeedResponseBody struct {
	UserID   string           `json:"userId"`
	Category domain.Category  `json:"category"`
	Articles []domain.Article `json:"articles"`
	Meta     feed.Diagnostics `json:"meta"`
}

var errForeignUser = errors.New("you can only access your own feed")

// ownsUser reports whether the authenticated caller, if any, is userID.
// Without auth middleware on the route every caller passes.
func ownsUser(c echo.Context, userID string) bool {
	authed, ok := c.Get("user_id").(string)
	return !ok || authed == userID
}

// POST /api/init
func (h *FeedHandler) Init(c echo.Context) error {
	var req InitRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrUserIDRequired.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if !ownsUser(c, req.UserID) {
		return c.JSON(http.StatusForbidden, ResponseError{Message: errForeignUser.Error()})
	}

	diversify := true
	if req.Diversify != nil {
		diversify = *req.Diversify
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.feedService.InitFeed(ctx, feed.InitRequest{
		UserID:    req.UserID,
		Filters:   req.Filters,
		Diversify: diversify,
		Country:   req.Country,
	})
	if err != nil {
		return writeError(c, "init failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(InitResponseBody{
		UserID:   res.UserID,
		Articles: res.Articles,
		Meta:     res.Diagnostics,
	}))
}

// POST /api/swipe
func (h *FeedHandler) Swipe(c echo.Context) error {
	var req SwipeRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrUserIDRequired.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if !ownsUser(c, req.UserID) {
		return c.JSON(http.StatusForbidden, ResponseError{Message: errForeignUser.Error()})
	}

	events := req.Events
	if events == nil {
		events = []domain.SwipeInput{{
			Category:   req.Category,
			ArticleURL: req.ArticleURL,
			Reaction:   req.Reaction,
		}}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.feedService.Swipe(ctx, feed.SwipeRequest{
		UserID:  req.UserID,
		Events:  events,
		Country: req.Country,
	})
	if err != nil {
		return writeError(c, "swipe failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(SwipeResponseBody{
		UserID:        res.UserID,
		NextCategory:  res.NextCategory,
		Articles:      res.Articles,
		AppliedEvents: res.AppliedEvents,
		Stats:         res.Stats,
		Meta:          res.Diagnostics,
	}))
}

// GET /api/feed?userId=&category=&pageSize=&country=
func (h *FeedHandler) CategoryFeed(c echo.Context) error {
	var q FeedQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if _, err := domain.ParseCategory(q.Category); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "valid category is required"})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if !ownsUser(c, q.UserID) {
		return c.JSON(http.StatusForbidden, ResponseError{Message: errForeignUser.Error()})
	}
	if q.PageSize == 0 {
		q.PageSize = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.feedService.CategoryFeed(ctx, q.UserID, q.Category, q.PageSize, q.Country)
	if err != nil {
		return writeError(c, "feed failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(CategoryFeedResponseBody{
		UserID:   res.UserID,
		Category: res.Category,
		Articles: res.Articles,
		Meta:     res.Diagnostics,
	}))
}

// GET /api/categories
func (h *FeedHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"categories": h.feedService.Categories(),
	}))
}

// GET /api/health
func (h *FeedHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps service errors to a status code. Internal failures are
// logged and answered with the generic message.
func writeError(c echo.Context, generic string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidReaction),
		errors.Is(err, domain.ErrUserIDRequired),
		errors.Is(err, feed.ErrNoEvents),
		errors.Is(err, feed.ErrInvalidMode):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn(generic, "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: generic})
	default:
		logger.Error(generic, "trace_id", middleware.TraceID(c), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: generic})
	}
}
