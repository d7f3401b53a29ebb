package badger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathportal/internal/domain"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, slog.Default())
	require.NoError(t, err)
	return s
}

func TestStoreRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := openTestStore(t, dir)
	require.NoError(t, s.Set(ctx, domain.KeyProgress, []byte(`{"3":45.7}`)))
	require.NoError(t, s.Set(ctx, domain.KeyBookmarks, []byte(`["7"]`)))
	require.NoError(t, s.Close())

	s = openTestStore(t, dir)
	defer s.Close()

	got, err := s.Get(ctx, domain.KeyProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"3":45.7}`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{domain.KeyProgress, domain.KeyBookmarks}, keys)
}

func TestStoreMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, t.TempDir())
	defer s.Close()

	_, err := s.Get(ctx, domain.KeyNotes)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, domain.KeyNotes, []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, domain.KeyNotes))
	_, err = s.Get(ctx, domain.KeyNotes)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ", nil)
	assert.Error(t, err)
}
