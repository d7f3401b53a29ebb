package store

import (
	"pathportal/internal/domain"
	"pathportal/internal/persist"
)

// NoteStore maps topic ids to free-text notes. An empty string is a deleted
// note; its key stays in the document.
type NoteStore struct {
	*container[domain.NoteMap]
}

func NewNoteStore(adapter *persist.Adapter) *NoteStore {
	return &NoteStore{newContainer(
		domain.StoreNotes,
		domain.KeyNotes,
		adapter,
		func() domain.NoteMap { return domain.NoteMap{} },
		func(m domain.NoteMap) domain.NoteMap {
			if m == nil {
				return domain.NoteMap{}
			}
			return m
		},
	)}
}

func (n *NoteStore) Get(id domain.TopicID) string {
	var out string
	n.read(func(m domain.NoteMap, _ uint64) { out = m[id] })
	return out
}

// Update stores text verbatim. Passing "" deletes the note.
func (n *NoteStore) Update(id domain.TopicID, text string) {
	n.mutate(id, func(m domain.NoteMap) domain.NoteMap {
		m[id] = text
		return m
	})
}

func (n *NoteStore) Snapshot() domain.NoteMap {
	var out domain.NoteMap
	n.read(func(m domain.NoteMap, _ uint64) {
		out = make(domain.NoteMap, len(m))
		for k, v := range m {
			out[k] = v
		}
	})
	return out
}
