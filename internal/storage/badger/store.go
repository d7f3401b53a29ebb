package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"pathportal/internal/domain"
)

const kvRootKey = "/kv/"

// Store keeps learner documents in an embedded badger database.
type Store struct {
	db *badger.DB
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("badger path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := logger.With(slog.String("component", "kv-badger"))

	opts := badger.DefaultOptions(path).
		WithLogger(&slogAdapter{l: l}).
		WithValueLogFileSize(1<<26 - 1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	err = db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		l.Warn("value log gc failed", slog.String("error", err.Error()))
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(kvRootKey + key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(kvRootKey+key), value)
	})
	if err != nil {
		return err
	}
	return s.db.Sync()
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(kvRootKey + key))
	})
	if err != nil {
		return err
	}
	return s.db.Sync()
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	tx := s.db.NewTransaction(false)
	defer tx.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := tx.NewIterator(opts)
	defer it.Close()

	prefix := []byte(kvRootKey)
	var out []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		out = append(out, strings.TrimPrefix(string(it.Item().Key()), kvRootKey))
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
