package store

import (
	"pathportal/internal/domain"
	"pathportal/internal/persist"
)

// State groups the three learner stores that the process shares.
type State struct {
	Progress  *ProgressTracker
	Bookmarks *BookmarkSet
	Notes     *NoteStore
}

func NewState(adapter *persist.Adapter) *State {
	return &State{
		Progress:  NewProgressTracker(adapter),
		Bookmarks: NewBookmarkSet(adapter),
		Notes:     NewNoteStore(adapter),
	}
}

// Snapshot copies each store. Copies are consistent per store; there is no
// cross-store atomicity.
func (s *State) Snapshot() domain.Snapshot {
	var snap domain.Snapshot
	s.Progress.read(func(m domain.ProgressMap, v uint64) {
		snap.Progress = cloneProgress(m)
		snap.ProgressVersion = v
	})
	s.Bookmarks.read(func(ids []domain.TopicID, v uint64) {
		snap.Bookmarks = append(make([]domain.TopicID, 0, len(ids)), ids...)
		snap.BookmarksVersion = v
	})
	s.Notes.read(func(m domain.NoteMap, v uint64) {
		snap.Notes = make(domain.NoteMap, len(m))
		for k, text := range m {
			snap.Notes[k] = text
		}
		snap.NotesVersion = v
	})
	return snap
}

// Subscribe registers fn on all three stores. The returned func removes it
// from each.
func (s *State) Subscribe(fn Observer) func() {
	cancels := []func(){
		s.Progress.Subscribe(fn),
		s.Bookmarks.Subscribe(fn),
		s.Notes.Subscribe(fn),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Observers returns the number of observers registered on each store.
func (s *State) Observers() map[domain.StoreName]int {
	return map[domain.StoreName]int{
		domain.StoreProgress:  s.Progress.obs.count(),
		domain.StoreBookmarks: s.Bookmarks.obs.count(),
		domain.StoreNotes:     s.Notes.obs.count(),
	}
}
