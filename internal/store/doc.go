// Package store holds the learner's progress, bookmarks and notes.
//
// Each store is a single shared container for the whole process. It is loaded
// from the persistence adapter on first access and written back on every
// mutation. Mutations to one store are serialized; after a mutation has been
// applied and persisted, every registered Observer of that store is called on
// the mutating goroutine before the mutation returns. Observers must not
// mutate the store that notified them.
//
// The three stores persist under independent keys and share no locks, so a
// corrupt document or a slow write in one never affects the others.
package store
