package persist

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathportal/internal/domain"
	"pathportal/internal/storage/memory"
)

type failingBackend struct {
	*memory.Provider
	getErr error
	setErr error
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Provider.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Provider.Set(ctx, key, value)
}

func TestLoadMissingReturnsInitial(t *testing.T) {
	a := NewAdapter(memory.NewProvider())
	got := Load(a, domain.KeyProgress, domain.ProgressMap{"seed": 1})
	assert.Equal(t, domain.ProgressMap{"seed": 1}, got)
}

func TestLoadMalformedReturnsInitial(t *testing.T) {
	backend := memory.NewProvider()
	require.NoError(t, backend.Set(context.Background(), domain.KeyBookmarks, []byte(`{not json`)))

	a := NewAdapter(backend)
	got := Load(a, domain.KeyBookmarks, []string{})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoadWrongShapeReturnsInitial(t *testing.T) {
	backend := memory.NewProvider()
	require.NoError(t, backend.Set(context.Background(), domain.KeyNotes, []byte(`["a","b"]`)))

	a := NewAdapter(backend)
	got := Load(a, domain.KeyNotes, domain.NoteMap{})
	assert.Equal(t, domain.NoteMap{}, got)
}

func TestLoadBackendErrorReturnsInitial(t *testing.T) {
	a := NewAdapter(&failingBackend{Provider: memory.NewProvider(), getErr: errors.New("disk on fire")})
	got := Load(a, domain.KeyProgress, domain.ProgressMap{})
	assert.Equal(t, domain.ProgressMap{}, got)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	a := NewAdapter(memory.NewProvider())

	progress := domain.ProgressMap{"1": 0, "3": 45.7, "9": 100, "x": 1.0 / 3.0}
	bookmarks := []string{"7", "2", "11"}
	notes := domain.NoteMap{"5": "  ", "6": "", "8": "multi\nline é"}

	require.True(t, Save(a, domain.KeyProgress, progress))
	require.True(t, Save(a, domain.KeyBookmarks, bookmarks))
	require.True(t, Save(a, domain.KeyNotes, notes))

	gotProgress := Load(a, domain.KeyProgress, domain.ProgressMap{})
	require.Len(t, gotProgress, len(progress))
	for k, v := range progress {
		assert.InDelta(t, v, gotProgress[k], 1e-9, k)
	}
	assert.Equal(t, bookmarks, Load(a, domain.KeyBookmarks, []string{}))
	assert.Equal(t, notes, Load(a, domain.KeyNotes, domain.NoteMap{}))
}

func TestSaveQuotaExceededIsDropped(t *testing.T) {
	backend := memory.NewProvider(memory.WithMaxBytes(8))
	a := NewAdapter(backend)

	ok := Save(a, domain.KeyNotes, domain.NoteMap{"1": "this note is far too long"})
	assert.False(t, ok)

	_, err := backend.Get(context.Background(), domain.KeyNotes)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveEncodeErrorIsDropped(t *testing.T) {
	a := NewAdapter(memory.NewProvider())
	assert.False(t, Save(a, domain.KeyProgress, map[string]float64{"1": math.NaN()}))
}

func TestNilAdapter(t *testing.T) {
	var a *Adapter
	assert.Equal(t, []string{"x"}, Load(a, domain.KeyBookmarks, []string{"x"}))
	assert.False(t, Save(a, domain.KeyBookmarks, []string{"x"}))
}
