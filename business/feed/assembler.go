package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"swipeNews/business/bandit"
	"swipeNews/domain"
)

// PullStats counts upstream work done by one assembly.
type PullStats struct {
	PagesFetched   int `json:"pagesFetched"`
	UpstreamErrors int `json:"upstreamErrors"`
}

func (s *PullStats) add(o PullStats) {
	s.PagesFetched += o.PagesFetched
	s.UpstreamErrors += o.UpstreamErrors
}

// Assembler turns the paginated ContentSource into per-category streams of
// unseen articles. It reads the user's seen set but never commits to it;
// the caller decides what is kept.
type Assembler struct {
	source    ContentSource
	paginator Paginator
	cfg       Config
	shuffle   bandit.Source
}

// NewAssembler builds an assembler. shuffle drives the diversified category
// subsample and is independent from the Beta sampling source.
func NewAssembler(source ContentSource, cfg Config, shuffle bandit.Source) *Assembler {
	cfg = cfg.withDefaults()
	return &Assembler{
		source:    source,
		paginator: NewPaginator(cfg.PageCeiling),
		cfg:       cfg,
		shuffle:   shuffle,
	}
}

type categoryPull struct {
	items    []domain.Article
	nextPage int
	stats    PullStats
}

// pull walks pages of one category starting at page until target unseen
// articles are found or MaxPages fetches were made. seen is only read.
func (a *Assembler) pull(
	ctx context.Context,
	seen *SeenSet,
	category domain.Category,
	page int,
	target int,
	country string,
) categoryPull {
	pageSize := max(target, a.cfg.PageSizeFloor)
	local := seen.Clone()
	fresh := make([]domain.Article, 0, target)

	var stats PullStats
	for i := 0; i < a.cfg.MaxPages && len(fresh) < target; i++ {
		if ctx.Err() != nil {
			break
		}
		list, err := a.fetch(ctx, PageRequest{
			Category: category,
			PageSize: pageSize,
			Country:  country,
			Page:     page,
		})
		stats.PagesFetched++
		if err != nil {
			stats.UpstreamErrors++
		}

		for _, art := range list {
			if art.URL == "" || !local.Add(art.URL) {
				continue
			}
			fresh = append(fresh, art)
			if len(fresh) >= target {
				break
			}
		}
		page++
	}

	if len(fresh) > target {
		fresh = fresh[:target]
	}
	return categoryPull{items: fresh, nextPage: page, stats: stats}
}

func (a *Assembler) fetch(ctx context.Context, req PageRequest) ([]domain.Article, error) {
	fctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	list, err := a.source.FetchPage(fctx, req)
	if err != nil {
		UpstreamErrorsTotal.WithLabelValues(string(req.Category)).Inc()
		return nil, err
	}
	return list, nil
}

// PullFresh collects up to target unseen articles from category and stores
// the advanced cursor on st.
func (a *Assembler) PullFresh(
	ctx context.Context,
	st *domain.UserState,
	category domain.Category,
	target int,
	country string,
) ([]domain.Article, PullStats) {
	if target <= 0 {
		return []domain.Article{}, PullStats{}
	}
	start := a.paginator.Page(st.PageByCategory, category)
	res := a.pull(ctx, NewSeenSet(st.Seen), category, start, target, country)
	a.paginator.Advance(st.PageByCategory, category, res.nextPage)
	return res.items, res.stats
}

// Diversified pulls a few articles from up to DiversifyCategories randomly
// chosen eligible categories. Categories are fetched in parallel; results and
// cursors are merged in category order and deduplicated by URL.
func (a *Assembler) Diversified(
	ctx context.Context,
	st *domain.UserState,
	limit int,
	country string,
) ([]domain.Article, []domain.Category, PullStats) {
	if limit <= 0 {
		limit = a.cfg.DiversifyLimit
	}
	mix := a.sampleCategories(st.EligibleCategories(), a.cfg.DiversifyCategories)

	starts := make([]int, len(mix))
	for i, c := range mix {
		starts[i] = a.paginator.Page(st.PageByCategory, c)
	}

	snapshot := NewSeenSet(st.Seen)
	results := make([]categoryPull, len(mix))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range mix {
		g.Go(func() error {
			results[i] = a.pull(gctx, snapshot, c, starts[i], a.cfg.DiversifyPerCategory, country)
			return nil
		})
	}
	_ = g.Wait()

	var stats PullStats
	taken := snapshot.Clone()
	out := make([]domain.Article, 0, limit)
	for i, c := range mix {
		res := results[i]
		stats.add(res.stats)

		added := 0
		for _, art := range res.items {
			if taken.Add(art.URL) {
				out = append(out, art)
				added++
			}
		}

		// Headlines shared with an earlier category ate part of this one's
		// quota. Walk the same pages again with the merged set.
		next := res.nextPage
		if short := a.cfg.DiversifyPerCategory - added; short > 0 && len(res.items) == a.cfg.DiversifyPerCategory {
			top := a.pull(ctx, taken, c, starts[i], short, country)
			stats.add(top.stats)
			for _, art := range top.items {
				if taken.Add(art.URL) {
					out = append(out, art)
				}
			}
			next = max(next, top.nextPage)
		}
		a.paginator.Advance(st.PageByCategory, c, next)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, mix, stats
}

// Mixed is the broad fallback: page 1 of every category, perCategory items
// each, interleaved round-robin in category order and deduplicated by URL.
func (a *Assembler) Mixed(
	ctx context.Context,
	categories []domain.Category,
	perCategory int,
	country string,
) ([]domain.Article, PullStats) {
	if perCategory <= 0 {
		perCategory = a.cfg.FallbackPerCategory
	}

	chunks := make([][]domain.Article, len(categories))
	errs := make([]bool, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			list, err := a.fetch(gctx, PageRequest{
				Category: c,
				PageSize: perCategory,
				Country:  country,
				Page:     1,
			})
			chunks[i] = list
			errs[i] = err != nil
			return nil
		})
	}
	_ = g.Wait()

	stats := PullStats{PagesFetched: len(categories)}
	longest := 0
	for i := range chunks {
		if errs[i] {
			stats.UpstreamErrors++
		}
		longest = max(longest, len(chunks[i]))
	}

	seen := make(map[string]struct{})
	merged := make([]domain.Article, 0, longest*len(chunks))
	for idx := 0; idx < longest; idx++ {
		for _, chunk := range chunks {
			if idx >= len(chunk) {
				continue
			}
			art := chunk[idx]
			if art.URL == "" {
				continue
			}
			if _, dup := seen[art.URL]; dup {
				continue
			}
			seen[art.URL] = struct{}{}
			merged = append(merged, art)
		}
	}
	return merged, stats
}

// sampleCategories returns all of eligible when it has at most n entries,
// otherwise a uniformly random subset of size n (partial Fisher-Yates).
func (a *Assembler) sampleCategories(eligible []domain.Category, n int) []domain.Category {
	if len(eligible) <= n {
		return eligible
	}
	pool := make([]domain.Category, len(eligible))
	copy(pool, eligible)
	for i := 0; i < n; i++ {
		j := i + int(a.shuffle.Float64()*float64(len(pool)-i))
		if j >= len(pool) {
			j = len(pool) - 1
		}
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
