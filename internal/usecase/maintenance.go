package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
	"pathportal/internal/persist"
	"pathportal/internal/store"
)

// ExportFormatVersion is written into every export document.
const ExportFormatVersion = 1

// ExportDocument bundles the three persisted documents under their storage
// keys.
type ExportDocument struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Progress   domain.ProgressMap `json:"videoProgress"`
	Bookmarks  []domain.TopicID   `json:"bookmarks"`
	Notes      domain.NoteMap     `json:"notes"`
}

// ExportState reads the persisted documents directly from the backend.
// Unlike the runtime stores it reports corrupt documents instead of
// replacing them with empty values.
type ExportState struct {
	Backend ports.KeyValueStore
	Now     func() time.Time
}

func (uc ExportState) Execute(ctx context.Context) (ExportDocument, error) {
	if uc.Backend == nil {
		return ExportDocument{}, errors.New("backend not configured")
	}
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}

	st, err := readStored(ctx, uc.Backend)
	if err != nil {
		return ExportDocument{}, err
	}
	return ExportDocument{
		Version:    ExportFormatVersion,
		ExportedAt: now().UTC(),
		Progress:   st.progress,
		Bookmarks:  st.bookmarks,
		Notes:      st.notes,
	}, nil
}

// storedState is the strictly decoded content of the three documents.
type storedState struct {
	progress  domain.ProgressMap
	bookmarks []domain.TopicID
	notes     domain.NoteMap
}

// readStored reads all three documents. A missing key yields an empty value;
// a document that does not decode fails with ErrCorruptStored, so callers
// never write back over bytes they could not read.
func readStored(ctx context.Context, backend ports.KeyValueStore) (storedState, error) {
	st := storedState{
		progress:  domain.ProgressMap{},
		bookmarks: []domain.TopicID{},
		notes:     domain.NoteMap{},
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readDocument(gctx, backend, domain.KeyProgress, &st.progress) })
	g.Go(func() error { return readDocument(gctx, backend, domain.KeyBookmarks, &st.bookmarks) })
	g.Go(func() error { return readDocument(gctx, backend, domain.KeyNotes, &st.notes) })
	if err := g.Wait(); err != nil {
		return storedState{}, err
	}
	if st.progress == nil {
		st.progress = domain.ProgressMap{}
	}
	if st.bookmarks == nil {
		st.bookmarks = []domain.TopicID{}
	}
	if st.notes == nil {
		st.notes = domain.NoteMap{}
	}
	return st, nil
}

func readDocument(ctx context.Context, backend ports.KeyValueStore, key string, out any) error {
	raw, err := backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return wrapStorage(fmt.Errorf("read %s: %w", key, err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptStored, key, err)
	}
	return nil
}

// DecodeExport parses an export document.
func DecodeExport(r io.Reader) (ExportDocument, error) {
	var doc ExportDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return ExportDocument{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if doc.Version != ExportFormatVersion {
		return ExportDocument{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidExport, doc.Version)
	}
	return doc, nil
}

// ImportReport counts the entries written by ImportState.
type ImportReport struct {
	Progress  int `json:"progress"`
	Bookmarks int `json:"bookmarks"`
	Notes     int `json:"notes"`
}

// ImportState writes an export document back. By default entries are merged
// into what is stored and only documents the import changes are rewritten;
// a stored document that does not decode aborts the merge. Replace discards
// the stored documents and writes all three.
type ImportState struct {
	Adapter *persist.Adapter
	Replace bool
}

func (uc ImportState) Execute(ctx context.Context, doc ExportDocument) (ImportReport, error) {
	if uc.Adapter == nil {
		return ImportReport{}, errors.New("adapter not configured")
	}
	st := storedState{
		progress:  domain.ProgressMap{},
		bookmarks: []domain.TopicID{},
		notes:     domain.NoteMap{},
	}
	changed := dirtyKeys{progress: uc.Replace, bookmarks: uc.Replace, notes: uc.Replace}
	if !uc.Replace {
		var err error
		if st, err = readStored(ctx, uc.Adapter.Backend()); err != nil {
			return ImportReport{}, err
		}
	}

	var report ImportReport
	for id, p := range doc.Progress {
		p = store.Clamp(p)
		if prev, ok := st.progress[id]; !ok || prev != p {
			changed.progress = true
		}
		st.progress[id] = p
		report.Progress++
	}
	present := make(map[domain.TopicID]struct{}, len(st.bookmarks))
	for _, id := range st.bookmarks {
		present[id] = struct{}{}
	}
	for _, id := range doc.Bookmarks {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		st.bookmarks = append(st.bookmarks, id)
		changed.bookmarks = true
		report.Bookmarks++
	}
	for id, text := range doc.Notes {
		if prev, ok := st.notes[id]; !ok || prev != text {
			changed.notes = true
		}
		st.notes[id] = text
		report.Notes++
	}

	if err := saveChanged(uc.Adapter, st, changed); err != nil {
		return ImportReport{}, err
	}
	return report, nil
}

// PruneReport lists the stale entries removed by PruneState.
type PruneReport struct {
	Progress  []domain.TopicID `json:"progress"`
	Bookmarks []domain.TopicID `json:"bookmarks"`
	Notes     []domain.TopicID `json:"notes"`
}

func (r PruneReport) Total() int {
	return len(r.Progress) + len(r.Bookmarks) + len(r.Notes)
}

// PruneState removes entries whose topic id is not in the catalog. The
// running service never does this on its own. Nothing is written when any
// stored document fails to decode, and only documents with stale entries
// are rewritten.
type PruneState struct {
	Adapter *persist.Adapter
	Catalog ports.Catalog
	DryRun  bool
}

func (uc PruneState) Execute(ctx context.Context) (PruneReport, error) {
	if uc.Adapter == nil {
		return PruneReport{}, errors.New("adapter not configured")
	}
	if uc.Catalog == nil {
		return PruneReport{}, errors.New("catalog not configured")
	}
	known := func(id domain.TopicID) bool {
		_, ok := uc.Catalog.Lookup(id)
		return ok
	}

	st, err := readStored(ctx, uc.Adapter.Backend())
	if err != nil {
		return PruneReport{}, err
	}

	report := PruneReport{
		Progress:  []domain.TopicID{},
		Bookmarks: []domain.TopicID{},
		Notes:     []domain.TopicID{},
	}
	for id := range st.progress {
		if !known(id) {
			report.Progress = append(report.Progress, id)
			delete(st.progress, id)
		}
	}
	kept := make([]domain.TopicID, 0, len(st.bookmarks))
	for _, id := range st.bookmarks {
		if known(id) {
			kept = append(kept, id)
			continue
		}
		report.Bookmarks = append(report.Bookmarks, id)
	}
	st.bookmarks = kept
	for id := range st.notes {
		if !known(id) {
			report.Notes = append(report.Notes, id)
			delete(st.notes, id)
		}
	}
	sort.Strings(report.Progress)
	sort.Strings(report.Notes)

	if uc.DryRun || report.Total() == 0 {
		return report, nil
	}
	changed := dirtyKeys{
		progress:  len(report.Progress) > 0,
		bookmarks: len(report.Bookmarks) > 0,
		notes:     len(report.Notes) > 0,
	}
	if err := saveChanged(uc.Adapter, st, changed); err != nil {
		return PruneReport{}, err
	}
	return report, nil
}

type dirtyKeys struct {
	progress, bookmarks, notes bool
}

func saveChanged(a *persist.Adapter, st storedState, changed dirtyKeys) error {
	var failed []string
	if changed.progress && !persist.Save(a, domain.KeyProgress, st.progress) {
		failed = append(failed, domain.KeyProgress)
	}
	if changed.bookmarks && !persist.Save(a, domain.KeyBookmarks, st.bookmarks) {
		failed = append(failed, domain.KeyBookmarks)
	}
	if changed.notes && !persist.Save(a, domain.KeyNotes, st.notes) {
		failed = append(failed, domain.KeyNotes)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrPersist, failed)
	}
	return nil
}
