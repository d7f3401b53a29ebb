// Package query derives read-only views from the catalog and snapshots of
// the learner stores. Every function is pure and iterates the catalog, so
// store entries for ids the catalog does not know are never returned.
package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"pathportal/internal/domain"
)

// DefaultContinueWatchingLimit is the number of unfinished topics shown on
// the home view.
const DefaultContinueWatchingLimit = 4

// DefaultRelatedLimit bounds Related.
const DefaultRelatedLimit = 3

// InProgress reports 0 < p < 100.
func InProgress(p float64) bool {
	return p > 0 && p < 100
}

// ContinueWatching returns topics whose progress is strictly between 0 and
// 100, in catalog order. A limit <= 0 disables truncation.
func ContinueWatching(topics []domain.Topic, progress domain.ProgressMap, limit int) []domain.Topic {
	out := make([]domain.Topic, 0)
	for _, t := range topics {
		if limit > 0 && len(out) == limit {
			break
		}
		if InProgress(progress[t.ID]) {
			out = append(out, t)
		}
	}
	return out
}

// Search applies filter with AND semantics. The query is matched as a
// case-folded substring of title, description or category; category and
// difficulty must match exactly when set.
func Search(topics []domain.Topic, filter domain.TopicFilter) []domain.Topic {
	f := filter.Normalize()
	m := newMatcher(f.Query)

	out := make([]domain.Topic, 0, len(topics))
	for _, t := range topics {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Difficulty != "" && t.Difficulty != f.Difficulty {
			continue
		}
		if !m.match(t.Title, t.Description, t.Category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type matcher struct {
	caser  cases.Caser
	needle string
}

func newMatcher(query string) *matcher {
	if query == "" {
		return nil
	}
	m := &matcher{caser: cases.Fold()}
	m.needle = m.fold(query)
	return m
}

func (m *matcher) fold(s string) string {
	return m.caser.String(norm.NFC.String(s))
}

func (m *matcher) match(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.fold(f), m.needle) {
			return true
		}
	}
	return false
}

// Bookmarked returns the catalog topics present in bookmarks.
func Bookmarked(topics []domain.Topic, bookmarks []domain.TopicID) []domain.Topic {
	set := make(map[domain.TopicID]struct{}, len(bookmarks))
	for _, id := range bookmarks {
		set[id] = struct{}{}
	}
	out := make([]domain.Topic, 0, len(set))
	for _, t := range topics {
		if _, ok := set[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// WithNotes returns the catalog topics that have a non-blank note.
func WithNotes(topics []domain.Topic, notes domain.NoteMap) []domain.Topic {
	out := make([]domain.Topic, 0)
	for _, t := range topics {
		if domain.HasNote(notes[t.ID]) {
			out = append(out, t)
		}
	}
	return out
}

func Featured(topics []domain.Topic) []domain.Topic {
	out := make([]domain.Topic, 0)
	for _, t := range topics {
		if t.Featured {
			out = append(out, t)
		}
	}
	return out
}

// Related returns other topics of the same category, in catalog order.
func Related(topics []domain.Topic, topic domain.Topic, limit int) []domain.Topic {
	out := make([]domain.Topic, 0)
	for _, t := range topics {
		if limit > 0 && len(out) == limit {
			break
		}
		if t.ID != topic.ID && t.Category == topic.Category {
			out = append(out, t)
		}
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func Categories(topics []domain.Topic) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range topics {
		if _, ok := seen[t.Category]; ok || t.Category == "" {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

// SearchTitles matches query as a case-folded substring of the title only,
// over the whole catalog. An empty query returns every topic.
func SearchTitles(topics []domain.Topic, query string) []domain.Topic {
	m := newMatcher(strings.TrimSpace(query))
	out := make([]domain.Topic, 0, len(topics))
	for _, t := range topics {
		if m.match(t.Title) {
			out = append(out, t)
		}
	}
	return out
}
