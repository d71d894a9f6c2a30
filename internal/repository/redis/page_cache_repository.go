package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"swipeNews/business/feed"
	"swipeNews/domain"
	"swipeNews/pkg/logger"
)

// PageCacheRepository caches successful non-empty upstream pages. Redis
// failures fall through to the wrapped source.
type PageCacheRepository struct {
	client *redis.Client
	source feed.ContentSource
	ttl    time.Duration
}

var _ feed.ContentSource = (*PageCacheRepository)(nil)

func NewPageCacheRepository(client *redis.Client, source feed.ContentSource, ttl time.Duration) *PageCacheRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PageCacheRepository{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

func pageKey(req feed.PageRequest) string {
	// key format: "feed:page:{country}:{category}:{page_size}:{page}"
	return fmt.Sprintf("feed:page:%s:%s:%d:%d", req.Country, req.Category, req.PageSize, req.Page)
}

func (r *PageCacheRepository) FetchPage(ctx context.Context, req feed.PageRequest) ([]domain.Article, error) {
	key := pageKey(req)

	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var list []domain.Article
		if err := json.Unmarshal(val, &list); err == nil {
			return list, nil
		}
		logger.Warn("dropping corrupt cached page", "key", key)
	case !errors.Is(err, redis.Nil):
		logger.Warn("page cache read failed", "key", key, "error", err)
	}

	list, err := r.source.FetchPage(ctx, req)
	if err != nil || len(list) == 0 {
		return list, err
	}

	data, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.Warn("page cache write failed", "key", key, "error", err)
	}
	return list, nil
}
