package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/dreamnft/dreamnft-server/internal/config"
	"github.com/dreamnft/dreamnft-server/internal/logger"
	"github.com/dreamnft/dreamnft-server/internal/search"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.SearchPath(),
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// SyncSearchIndex rebuilds the search index in the background when it has
// drifted from the dream store. Call it after all services are wired.
func SyncSearchIndex(i do.Injector) {
	dreams := do.MustInvoke[*service.DreamService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		if err := dreams.SyncIndex(context.Background()); err != nil {
			log.WithError(err).Error("Search index sync failed")
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Search index in sync", "documents", count)
	}()
}
