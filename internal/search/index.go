package search

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/dreamnft/dreamnft-server/internal/domain"
)

// mappingVersion changes whenever buildIndexMapping does. An index written
// under another version is discarded and recreated on open.
const mappingVersion = "dreams-1"

const batchSize = 500

// SearchIndex wraps a Bleve index of dream documents.
// All methods are safe for concurrent use; Rebuild excludes everything else.
type SearchIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	logger *slog.Logger
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage; empty means in-memory
	Logger   *slog.Logger // Discarded if nil
}

// NewSearchIndex opens the index under opts.DataPath, creating it when it is
// missing, unreadable, or built with an older mapping.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &SearchIndex{index: index, logger: logger}, nil
	}

	s := &SearchIndex{
		path:   filepath.Join(opts.DataPath, "dreams.bleve"),
		logger: logger,
	}
	versionPath := filepath.Join(opts.DataPath, "dreams.version")

	if index, err := s.openExisting(versionPath); err == nil {
		s.index = index
		logger.Info("opened search index", "path", s.path)
		return s, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("discarding search index", "path", s.path, "reason", err)
	}

	if err := s.create(); err != nil {
		return nil, err
	}
	if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
		logger.Warn("failed to write search version file", "error", err)
	}
	logger.Info("created search index", "path", s.path, "mapping_version", mappingVersion)
	return s, nil
}

func (s *SearchIndex) openExisting(versionPath string) (bleve.Index, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}
	version, err := os.ReadFile(versionPath)
	if err != nil {
		return nil, fmt.Errorf("read mapping version: %w", err)
	}
	if string(version) != mappingVersion {
		return nil, fmt.Errorf("mapping version %q, want %q", version, mappingVersion)
	}
	return bleve.Open(s.path)
}

func (s *SearchIndex) create() error {
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove old index: %w", err)
	}
	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index
	return nil
}

// Close closes the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDream indexes or replaces a dream.
func (s *SearchIndex) IndexDream(d *domain.Dream) error {
	return s.IndexDocument(NewDreamDocument(d))
}

// IndexDocument indexes a single document.
func (s *SearchIndex) IndexDocument(doc *DreamDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexDocuments indexes documents in batches of batchSize.
func (s *SearchIndex) IndexDocuments(docs []*DreamDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		batch := s.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// DeleteDream removes a dream from the index. Unknown IDs are ignored.
func (s *SearchIndex) DeleteDream(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed dreams.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index with one holding exactly docs.
func (s *SearchIndex) Rebuild(docs []*DreamDocument) error {
	s.mu.Lock()
	if err := s.index.Close(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("close index: %w", err)
	}
	var err error
	if s.path == "" {
		s.index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		err = s.create()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("rebuilding search index", "documents", len(docs))
	return s.IndexDocuments(docs)
}
