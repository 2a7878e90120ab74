// Package reportstore archives dream validation reports in Badger, keyed by
// dream ID.
package reportstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

const reportPrefix = "report:"

// Store wraps a Badger database holding validation reports.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the report archive at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions(path), logger)
}

// OpenInMemory opens an archive that lives only in memory.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	opts.Logger = nil
	opts.SyncWrites = !opts.InMemory
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("report archive opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the archive.
func (s *Store) Close() error {
	return s.db.Close()
}

func reportKey(dreamID string) []byte {
	return []byte(reportPrefix + dreamID)
}

// Save stores r, replacing any earlier report for the same dream.
func (s *Store) Save(_ context.Context, r *domain.ValidationReport) error {
	if r.DreamID == "" {
		return store.ErrInvalidInput.WithMessage("report has no dream id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(r.DreamID), data)
	})
}

// Get returns the report for a dream.
// Returns store.ErrNotFound if none is archived.
func (s *Store) Get(_ context.Context, dreamID string) (*domain.ValidationReport, error) {
	var r domain.ValidationReport
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reportKey(dreamID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound.WithMessage("report not found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a dream's report. Deleting a missing report is a no-op.
func (s *Store) Delete(_ context.Context, dreamID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(reportKey(dreamID))
	})
}

// List returns up to limit reports ordered by dream ID, starting after the
// given dream ID. A non-positive limit returns every report.
func (s *Store) List(ctx context.Context, afterDreamID string, limit int) ([]*domain.ValidationReport, error) {
	reports := []*domain.ValidationReport{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		start := opts.Prefix
		if afterDreamID != "" {
			start = reportKey(afterDreamID)
		}
		for it.Seek(start); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if afterDreamID != "" && string(item.Key()) == string(start) {
				continue
			}
			var r domain.ValidationReport
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			reports = append(reports, &r)
			if limit > 0 && len(reports) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}
