package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swipeNews/business/feed"
	"swipeNews/domain"
)

// testClient connects to REDIS_ADDR (default localhost:6379) and skips when
// Redis is not available.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skip("Skipping Redis integration test: redis not available")
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})
	return client
}

func TestUserLockRepository_Integration(t *testing.T) {
	client := testClient(t)
	locks := NewUserLockRepository(client, 5*time.Second, 2*time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locks.Lock(ctx, "lock-user")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	n, err := client.Exists(ctx, lockKey("lock-user")).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserLockRepository_TimesOut(t *testing.T) {
	client := testClient(t)
	locks := NewUserLockRepository(client, 5*time.Second, 100*time.Millisecond)
	ctx := context.Background()

	unlock, err := locks.Lock(ctx, "busy")
	require.NoError(t, err)
	defer unlock()

	_, err = locks.Lock(ctx, "busy")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

type countingSource struct {
	calls int
	list  []domain.Article
}

func (c *countingSource) FetchPage(_ context.Context, _ feed.PageRequest) ([]domain.Article, error) {
	c.calls++
	return c.list, nil
}

func TestPageCacheRepository_Integration(t *testing.T) {
	client := testClient(t)
	src := &countingSource{list: []domain.Article{{Title: "a", URL: "https://a"}}}
	cache := NewPageCacheRepository(client, src, time.Minute)
	req := feed.PageRequest{Category: domain.CategoryScience, PageSize: 10, Country: "us", Page: 2}

	first, err := cache.FetchPage(context.Background(), req)
	require.NoError(t, err)
	second, err := cache.FetchPage(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)
}

func TestPageCacheRepository_EmptyPagesAreNotCached(t *testing.T) {
	client := testClient(t)
	src := &countingSource{}
	cache := NewPageCacheRepository(client, src, time.Minute)
	req := feed.PageRequest{Category: domain.CategorySports, PageSize: 10, Country: "us", Page: 9}

	_, _ = cache.FetchPage(context.Background(), req)
	_, _ = cache.FetchPage(context.Background(), req)

	assert.Equal(t, 2, src.calls)
}

func TestPageKey(t *testing.T) {
	req := feed.PageRequest{Category: domain.CategoryHealth, PageSize: 4, Country: "de", Page: 1}
	assert.Equal(t, "feed:page:de:health:4:1", pageKey(req))
	assert.Equal(t, "feed:lock:u1", lockKey("u1"))
}
