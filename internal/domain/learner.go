package domain

import "strings"

// StoreName identifies one of the three learner stores.
type StoreName string

const (
	StoreProgress  StoreName = "progress"
	StoreBookmarks StoreName = "bookmarks"
	StoreNotes     StoreName = "notes"
)

// Persisted document keys. They are stable: renaming one orphans saved state.
const (
	KeyProgress  = "videoProgress"
	KeyBookmarks = "bookmarks"
	KeyNotes     = "notes"
)

type ProgressMap map[TopicID]float64

type NoteMap map[TopicID]string

// HasNote is the display predicate for notes: whitespace-only text counts
// as no note.
func HasNote(text string) bool {
	return strings.TrimSpace(text) != ""
}

// ChangeEvent describes a single applied store mutation.
type ChangeEvent struct {
	Store   StoreName `json:"store"`
	TopicID TopicID   `json:"topicId"`
	Version uint64    `json:"version"`
}

// Snapshot is a read-only copy of all learner state.
type Snapshot struct {
	Progress         ProgressMap `json:"progress"`
	Bookmarks        []TopicID   `json:"bookmarks"`
	Notes            NoteMap     `json:"notes"`
	ProgressVersion  uint64      `json:"progressVersion"`
	BookmarksVersion uint64      `json:"bookmarksVersion"`
	NotesVersion     uint64      `json:"notesVersion"`
}

// IsBookmarked reports membership in the snapshot's bookmark list.
func (s Snapshot) IsBookmarked(id TopicID) bool {
	for _, b := range s.Bookmarks {
		if b == id {
			return true
		}
	}
	return false
}

// Stats aggregates derived counts over the catalog.
type Stats struct {
	TotalTopics          int    `json:"totalTopics"`
	TotalVideos          int    `json:"totalVideos"`
	TotalDurationMinutes int    `json:"totalDurationMinutes"`
	TotalDuration        string `json:"totalDuration"`
	Bookmarked           int    `json:"bookmarked"`
	WithNotes            int    `json:"withNotes"`
	NoteWords            int    `json:"noteWords"`
	WithProgress         int    `json:"withProgress"`
	InProgress           int    `json:"inProgress"`
	Completed            int    `json:"completed"`
}
