package service

import (
	"context"

	"github.com/dreamnft/dreamnft-server/internal/search"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

// Search queries the dream index.
func (s *DreamService) Search(ctx context.Context, req SearchRequest) (*search.SearchResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.index.Search(ctx, req.params())
}

// Reindex rebuilds the search index from the store.
func (s *DreamService) Reindex(ctx context.Context) (int, error) {
	var docs []*search.DreamDocument

	params := store.ListDreamsParams{PaginationParams: store.PaginationParams{Limit: store.MaxPageSize}}
	for {
		page, err := s.store.ListDreams(ctx, params)
		if err != nil {
			return 0, mapStoreError(err)
		}
		for _, d := range page.Items {
			docs = append(docs, search.NewDreamDocument(d))
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	if err := s.index.Rebuild(docs); err != nil {
		return 0, err
	}
	s.logger.Info("search index rebuilt", "dreams", len(docs))
	return len(docs), nil
}

// SyncIndex rebuilds the search index when its document count disagrees with
// the store, as after a fresh index or an interrupted write.
func (s *DreamService) SyncIndex(ctx context.Context) error {
	indexed, err := s.index.DocumentCount()
	if err != nil {
		return err
	}
	stored, err := s.store.CountDreams(ctx)
	if err != nil {
		return err
	}
	if indexed == uint64(stored) {
		return nil
	}
	s.logger.Info("search index out of sync", "indexed", indexed, "stored", stored)
	_, err = s.Reindex(ctx)
	return err
}
