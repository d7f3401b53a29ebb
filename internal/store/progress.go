package store

import (
	"math"

	"pathportal/internal/domain"
	"pathportal/internal/persist"
)

// ProgressTracker maps topic ids to a watch percentage in [0,100].
type ProgressTracker struct {
	*container[domain.ProgressMap]
}

func NewProgressTracker(adapter *persist.Adapter) *ProgressTracker {
	return &ProgressTracker{newContainer(
		domain.StoreProgress,
		domain.KeyProgress,
		adapter,
		func() domain.ProgressMap { return domain.ProgressMap{} },
		normalizeProgress,
	)}
}

// Clamp bounds a percentage to [0,100]. NaN is treated as 0.
func Clamp(percent float64) float64 {
	if math.IsNaN(percent) {
		return 0
	}
	return math.Max(0, math.Min(100, percent))
}

func normalizeProgress(m domain.ProgressMap) domain.ProgressMap {
	if m == nil {
		return domain.ProgressMap{}
	}
	for id, v := range m {
		m[id] = Clamp(v)
	}
	return m
}

// Get returns the stored percentage, or 0 when none is recorded.
func (p *ProgressTracker) Get(id domain.TopicID) float64 {
	var out float64
	p.read(func(m domain.ProgressMap, _ uint64) { out = m[id] })
	return out
}

// Has reports whether any progress, including 0, is recorded for id.
func (p *ProgressTracker) Has(id domain.TopicID) bool {
	var ok bool
	p.read(func(m domain.ProgressMap, _ uint64) { _, ok = m[id] })
	return ok
}

// Update clamps percent to [0,100] and stores it for id.
func (p *ProgressTracker) Update(id domain.TopicID, percent float64) {
	clamped := Clamp(percent)
	p.mutate(id, func(m domain.ProgressMap) domain.ProgressMap {
		m[id] = clamped
		return m
	})
}

// Reset records 0 for id. The entry is kept.
func (p *ProgressTracker) Reset(id domain.TopicID) {
	p.Update(id, 0)
}

func (p *ProgressTracker) Snapshot() domain.ProgressMap {
	var out domain.ProgressMap
	p.read(func(m domain.ProgressMap, _ uint64) { out = cloneProgress(m) })
	return out
}

func cloneProgress(m domain.ProgressMap) domain.ProgressMap {
	out := make(domain.ProgressMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
