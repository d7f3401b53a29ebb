package ports

import "pathportal/internal/domain"

type ProgressStore interface {
	Get(id domain.TopicID) float64
	Update(id domain.TopicID, percent float64)
}

type BookmarkStore interface {
	IsBookmarked(id domain.TopicID) bool
	Toggle(id domain.TopicID)
}

type NoteStore interface {
	Get(id domain.TopicID) string
	Update(id domain.TopicID, text string)
}

// SnapshotSource supplies read-only copies of all learner state.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}
