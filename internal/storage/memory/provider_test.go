package memory

import (
	"context"
	"errors"
	"testing"

	"pathportal/internal/domain"
)

func TestProviderGetMissing(t *testing.T) {
	p := NewProvider()
	_, err := p.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProviderSetGetCopies(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()
	value := []byte(`{"1":10}`)
	if err := p.Set(ctx, "videoProgress", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[2] = 'X'

	got, err := p.Get(ctx, "videoProgress")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"1":10}` {
		t.Fatalf("stored value aliased caller buffer: %s", got)
	}
}

func TestProviderQuota(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(WithMaxBytes(10))

	if err := p.Set(ctx, "a", []byte("12345")); err != nil {
		t.Fatalf("Set a: %v", err)
	}
	err := p.Set(ctx, "b", []byte("1234567"))
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, err := p.Get(ctx, "b"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rejected write must not be stored, got %v", err)
	}

	// Replacing a value only counts the delta.
	if err := p.Set(ctx, "a", []byte("1234567890")); err != nil {
		t.Fatalf("replace a: %v", err)
	}
	if p.UsedBytes() != 10 {
		t.Fatalf("UsedBytes = %d, want 10", p.UsedBytes())
	}
}

func TestProviderSpillDirSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p := NewProvider(WithSpillDir(dir))
	if err := p.Set(ctx, "notes", []byte(`{"5":"hi"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Set(ctx, "a/b key", []byte(`[]`)); err != nil {
		t.Fatalf("Set escaped key: %v", err)
	}
	if err := p.Delete(ctx, "a/b key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reopened := NewProvider(WithSpillDir(dir))
	got, err := reopened.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"5":"hi"}` {
		t.Fatalf("got %s", got)
	}
	keys, _ := reopened.Keys(ctx)
	if len(keys) != 1 || keys[0] != "notes" {
		t.Fatalf("keys = %v", keys)
	}
}
