package memory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pathportal/internal/domain"
)

// Provider is an in-process key-value store with an optional byte quota.
// With a spill directory every key is mirrored to a file and reloaded on start.
type Provider struct {
	mu    sync.RWMutex
	items map[string]*entry

	maxBytes int64
	curBytes int64
	spillDir string
}

type entry struct {
	data []byte
	mod  time.Time
}

type ProviderOption func(*Provider)

// WithMaxBytes caps the total size of stored values. Zero means unlimited.
func WithMaxBytes(max int64) ProviderOption {
	return func(p *Provider) {
		if max > 0 {
			p.maxBytes = max
		}
	}
}

func WithSpillDir(dir string) ProviderOption {
	return func(p *Provider) {
		trimmed := strings.TrimSpace(dir)
		if trimmed == "" {
			return
		}
		cleaned := filepath.Clean(trimmed)
		if abs, err := filepath.Abs(cleaned); err == nil {
			cleaned = abs
		}
		p.spillDir = cleaned
	}
}

func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		items: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.spillDir != "" {
		_ = os.MkdirAll(p.spillDir, 0o755)
		p.loadSpilledFiles()
	}
	return p
}

// loadSpilledFiles registers values left in the spill directory by a previous run.
func (p *Provider) loadSpilledFiles() {
	entries, err := os.ReadDir(p.spillDir)
	if err != nil {
		return
	}
	for _, de := range entries {
		if de.IsDir() || strings.HasSuffix(de.Name(), ".tmp") {
			continue
		}
		key, err := url.PathUnescape(de.Name())
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.spillDir, de.Name()))
		if err != nil {
			continue
		}
		info, err := de.Info()
		mod := time.Now().UTC()
		if err == nil {
			mod = info.ModTime().UTC()
		}
		p.items[key] = &entry{data: data, mod: mod}
		p.curBytes += int64(len(data))
	}
}

func (p *Provider) MaxBytes() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxBytes
}

func (p *Provider) SetMaxBytes(max int64) {
	if max < 0 {
		max = 0
	}
	p.mu.Lock()
	p.maxBytes = max
	p.mu.Unlock()
}

func (p *Provider) UsedBytes() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.curBytes
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	item, ok := p.items[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	data := make([]byte, len(item.data))
	copy(data, item.data)
	return data, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	copied := make([]byte, len(value))
	copy(copied, value)

	p.mu.Lock()
	defer p.mu.Unlock()

	var prev int64
	if item, ok := p.items[key]; ok {
		prev = int64(len(item.data))
	}
	next := p.curBytes - prev + int64(len(copied))
	if p.maxBytes > 0 && next > p.maxBytes {
		return fmt.Errorf("%w: %d of %d bytes", domain.ErrQuotaExceeded, next, p.maxBytes)
	}
	if p.spillDir != "" {
		if err := p.writeDiskLocked(key, copied); err != nil {
			return err
		}
	}
	p.items[key] = &entry{data: copied, mod: time.Now().UTC()}
	p.curBytes = next
	return nil
}

func (p *Provider) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[key]
	if !ok {
		return nil
	}
	if p.spillDir != "" {
		if err := os.Remove(p.diskPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	p.curBytes -= int64(len(item.data))
	delete(p.items, key)
	return nil
}

func (p *Provider) Keys(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.items))
	for key := range p.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Provider) Close() error {
	return nil
}

func (p *Provider) diskPath(key string) string {
	return filepath.Join(p.spillDir, url.PathEscape(key))
}

// writeDiskLocked replaces the spilled file atomically so a crash mid-write
// leaves the previous value intact.
func (p *Provider) writeDiskLocked(key string, data []byte) error {
	target := p.diskPath(key)
	tmp, err := os.CreateTemp(p.spillDir, url.PathEscape(key)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
