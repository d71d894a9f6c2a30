package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"swipeNews/business/bandit"
	"swipeNews/domain"
)

var errUpstream = errors.New("upstream unavailable")

// fakeSource serves fixed pages per category and records every request.
type fakeSource struct {
	mu    sync.Mutex
	pages map[domain.Category]map[int][]domain.Article
	fail  map[domain.Category]bool
	calls []PageRequest
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: map[domain.Category]map[int][]domain.Article{},
		fail:  map[domain.Category]bool{},
	}
}

func (f *fakeSource) setPage(c domain.Category, page int, list []domain.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pages[c] == nil {
		f.pages[c] = map[int][]domain.Article{}
	}
	f.pages[c][page] = list
}

func (f *fakeSource) FetchPage(_ context.Context, req PageRequest) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.fail[req.Category] {
		return nil, errUpstream
	}
	list := f.pages[req.Category][req.Page]
	if len(list) > req.PageSize {
		list = list[:req.PageSize]
	}
	out := make([]domain.Article, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeSource) callsFor(c domain.Category) []PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PageRequest
	for _, r := range f.calls {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

func articles(prefix string, n int) []domain.Article {
	out := make([]domain.Article, n)
	for i := range out {
		out[i] = domain.Article{
			Title: fmt.Sprintf("%s %d", prefix, i),
			URL:   fmt.Sprintf("https://news.example/%s/%d", prefix, i),
		}
	}
	return out
}

func urls(list []domain.Article) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.URL
	}
	return out
}

// fillAll gives every category one page of n articles on page 1.
func fillAll(src *fakeSource, n int) {
	for _, c := range domain.AllCategories() {
		src.setPage(c, 1, articles(string(c), n))
	}
}

func newTestEngine(src ContentSource, seed int64) *Engine {
	cfg := DefaultConfig()
	sampler := bandit.NewSampler(bandit.NewSource(seed))
	asm := NewAssembler(src, cfg, bandit.NewSource(seed+1))
	return NewEngine(bandit.NewSelector(sampler), asm, cfg)
}
