package newsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"swipeNews/business/feed"
	"swipeNews/domain"
	"swipeNews/pkg/logger"
	"swipeNews/pkg/metrics"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"

	defaultTimeout         = 10 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
	breakerName            = "newsapi"
)

// ErrUpstream is returned for non-2xx responses and "status":"error" payloads.
var ErrUpstream = errors.New("news upstream error")

type NewsAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RatePerSecond <= 0 disables client-side limiting.
	RatePerSecond float64
	Burst         int

	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// NewsAPIRepository reads GET {base}/top-headlines. It implements feed.ContentSource.
type NewsAPIRepository struct {
	cfg     NewsAPIConfig
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]domain.Article]
}

var _ feed.ContentSource = (*NewsAPIRepository)(nil)

func NewNewsAPIRepository(cfg NewsAPIConfig) *NewsAPIRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaultBreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaultBreakerTimeout
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := max(cfg.Burst, 1)

	cb := gobreaker.NewCircuitBreaker[[]domain.Article](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.NewsBreakerState.Set(float64(to))
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &NewsAPIRepository{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		cb:      cb,
	}
}

type sourceDTO struct {
	Name string `json:"name"`
}

type articleDTO struct {
	Source      *sourceDTO `json:"source"`
	Author      *string    `json:"author"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	URLToImage  *string    `json:"urlToImage"`
	PublishedAt *string    `json:"publishedAt"`
	Content     *string    `json:"content"`
}

type headlinesResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []*articleDTO `json:"articles"`
}

// FetchPage returns one page of top headlines for req.Category.
func (r *NewsAPIRepository) FetchPage(ctx context.Context, req feed.PageRequest) ([]domain.Article, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("news rate limit: %w", err)
	}
	start := time.Now()
	list, err := r.cb.Execute(func() ([]domain.Article, error) {
		return r.fetch(ctx, req)
	})

	outcome := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	}
	metrics.NewsFetchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return list, err
}

func (r *NewsAPIRepository) fetch(ctx context.Context, req feed.PageRequest) ([]domain.Article, error) {
	q := url.Values{}
	q.Set("category", string(req.Category))
	q.Set("apiKey", r.cfg.APIKey)
	q.Set("pageSize", strconv.Itoa(req.PageSize))
	q.Set("country", req.Country)
	q.Set("page", strconv.Itoa(req.Page))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	res, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	defer res.Body.Close()

	var body headlinesResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 8<<20)).Decode(&body); err != nil && res.StatusCode < 300 {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 || body.Status == "error" {
		logger.Warn("news upstream returned error",
			"category", req.Category,
			"page", req.Page,
			"status_code", res.StatusCode,
			"code", body.Code,
			"message", body.Message,
		)
		return nil, fmt.Errorf("%w: status %d %s", ErrUpstream, res.StatusCode, body.Code)
	}

	out := make([]domain.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a == nil {
			continue
		}
		out = append(out, sanitize(a))
	}
	return out, nil
}

// sanitize flattens the source object and turns empty optional fields into nil.
func sanitize(a *articleDTO) domain.Article {
	art := domain.Article{
		Author:      nonEmpty(a.Author),
		Title:       deref(a.Title),
		Description: deref(a.Description),
		URL:         deref(a.URL),
		URLToImage:  nonEmpty(a.URLToImage),
		PublishedAt: deref(a.PublishedAt),
		Content:     nonEmpty(a.Content),
	}
	if a.Source != nil {
		art.Source = a.Source.Name
	}
	return art
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
