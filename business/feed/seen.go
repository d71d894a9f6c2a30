package feed

import "swipeNews/domain"

// SeenSet is an insertion-ordered set of item identifiers. Re-adding an
// existing id does not move it.
type SeenSet struct {
	ids   []string
	index map[string]struct{}
}

func NewSeenSet(ids []string) *SeenSet {
	s := &SeenSet{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *SeenSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts id and reports whether it was new.
func (s *SeenSet) Add(id string) bool {
	if id == "" || s.Contains(id) {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Trim evicts the oldest ids until at most limit remain.
func (s *SeenSet) Trim(limit int) {
	if limit < 0 {
		limit = 0
	}
	if len(s.ids) <= limit {
		return
	}
	drop := len(s.ids) - limit
	for _, id := range s.ids[:drop] {
		delete(s.index, id)
	}
	kept := make([]string, limit)
	copy(kept, s.ids[drop:])
	s.ids = kept
}

func (s *SeenSet) Len() int {
	return len(s.ids)
}

// IDs returns the ids oldest first.
func (s *SeenSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *SeenSet) Clone() *SeenSet {
	return NewSeenSet(s.ids)
}

// FilterFresh returns the candidates whose URL is not in seen, in their original
// order, and records them in seen. Items without a URL are dropped. seen is
// trimmed to the last limit ids afterwards.
func FilterFresh(seen *SeenSet, candidates []domain.Article, limit int) []domain.Article {
	fresh := make([]domain.Article, 0, len(candidates))
	for _, a := range candidates {
		if a.URL == "" {
			continue
		}
		if seen.Add(a.URL) {
			fresh = append(fresh, a)
		}
	}
	seen.Trim(limit)
	return fresh
}

// MarkSeen records an explicitly consumed item id.
func MarkSeen(seen *SeenSet, id string, limit int) {
	seen.Add(id)
	seen.Trim(limit)
}
