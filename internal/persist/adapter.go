// Package persist reads and writes learner documents as JSON through a
// key-value backend. Failures never reach callers: a failed read yields the
// caller's initial value and a failed write is dropped, both with a warning.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
	"pathportal/internal/metrics"
)

const defaultTimeout = 5 * time.Second

var tracer = otel.Tracer("pathportal/persist")

type Adapter struct {
	backend ports.KeyValueStore
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func NewAdapter(backend ports.KeyValueStore, opts ...Option) *Adapter {
	a := &Adapter{
		backend: backend,
		logger:  slog.Default(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(slog.String("component", "persist"))
	return a
}

// Backend exposes the raw store for maintenance tooling.
func (a *Adapter) Backend() ports.KeyValueStore {
	return a.backend
}

// Load decodes the document at key, or returns initial when it is missing,
// unreadable or malformed.
func Load[T any](a *Adapter, key string, initial T) T {
	raw, err := a.read(key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			metrics.StoreLoadFailuresTotal.WithLabelValues(key).Inc()
			a.logger.Warn("error reading stored document", slog.String("key", key), slog.String("error", err.Error()))
		}
		return initial
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.StoreLoadFailuresTotal.WithLabelValues(key).Inc()
		a.logger.Warn("error parsing stored document", slog.String("key", key), slog.String("error", err.Error()))
		return initial
	}
	return out
}

// Save encodes value and writes it under key. A failed write is logged and
// dropped; it reports false so callers can surface degraded persistence.
func Save[T any](a *Adapter, key string, value T) bool {
	if a == nil {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		metrics.StoreSaveFailuresTotal.WithLabelValues(key).Inc()
		a.logger.Warn("error encoding document", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	start := time.Now()
	err = a.write(key, raw)
	metrics.StoreSaveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreSaveFailuresTotal.WithLabelValues(key).Inc()
		a.logger.Warn("error writing stored document",
			slog.String("key", key),
			slog.Int("bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (a *Adapter) read(key string) ([]byte, error) {
	if a == nil || a.backend == nil {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "persist.load")
	defer span.End()
	span.SetAttributes(attribute.String("kv.key", key))

	raw, err := a.backend.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return raw, err
}

func (a *Adapter) write(key string, raw []byte) error {
	if a == nil || a.backend == nil {
		return errors.New("no backend configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "persist.save")
	defer span.End()
	span.SetAttributes(attribute.String("kv.key", key), attribute.Int("kv.bytes", len(raw)))

	if err := a.backend.Set(ctx, key, raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
