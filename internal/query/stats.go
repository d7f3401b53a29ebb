package query

import (
	"pathportal/internal/domain"
)

// ComputeStats aggregates counts over the catalog. Store entries are only
// counted when their id is in the catalog.
func ComputeStats(topics []domain.Topic, snap domain.Snapshot) domain.Stats {
	totals := SumTotals(topics)
	st := domain.Stats{
		TotalTopics:          len(topics),
		TotalVideos:          totals.Videos,
		TotalDurationMinutes: totals.DurationMinutes,
		TotalDuration:        totals.Duration,
		Bookmarked:           len(Bookmarked(topics, snap.Bookmarks)),
		NoteWords:            NoteWords(topics, snap.Notes),
	}
	st.WithNotes = len(WithNotes(topics, snap.Notes))

	for _, t := range topics {
		p, ok := snap.Progress[t.ID]
		if !ok {
			continue
		}
		st.WithProgress++
		switch {
		case p >= 100:
			st.Completed++
		case InProgress(p):
			st.InProgress++
		}
	}
	return st
}
