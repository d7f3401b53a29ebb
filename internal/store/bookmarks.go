package store

import (
	"pathportal/internal/domain"
	"pathportal/internal/persist"
)

// BookmarkSet is a set of topic ids stored as an insertion-ordered list.
type BookmarkSet struct {
	*container[[]domain.TopicID]
}

func NewBookmarkSet(adapter *persist.Adapter) *BookmarkSet {
	return &BookmarkSet{newContainer(
		domain.StoreBookmarks,
		domain.KeyBookmarks,
		adapter,
		func() []domain.TopicID { return []domain.TopicID{} },
		dedupe,
	)}
}

// dedupe keeps the first occurrence of each id so a hand-edited or
// legacy document cannot break set semantics.
func dedupe(ids []domain.TopicID) []domain.TopicID {
	out := make([]domain.TopicID, 0, len(ids))
	seen := make(map[domain.TopicID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (b *BookmarkSet) IsBookmarked(id domain.TopicID) bool {
	var ok bool
	b.read(func(ids []domain.TopicID, _ uint64) { ok = indexOf(ids, id) >= 0 })
	return ok
}

// Toggle removes id when present and appends it otherwise. Callers that need
// "ensure bookmarked" must check IsBookmarked first.
func (b *BookmarkSet) Toggle(id domain.TopicID) {
	b.mutate(id, func(ids []domain.TopicID) []domain.TopicID {
		if i := indexOf(ids, id); i >= 0 {
			next := make([]domain.TopicID, 0, len(ids)-1)
			next = append(next, ids[:i]...)
			return append(next, ids[i+1:]...)
		}
		return append(ids, id)
	})
}

func (b *BookmarkSet) Snapshot() []domain.TopicID {
	var out []domain.TopicID
	b.read(func(ids []domain.TopicID, _ uint64) {
		out = append(make([]domain.TopicID, 0, len(ids)), ids...)
	})
	return out
}

func indexOf(ids []domain.TopicID, id domain.TopicID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
