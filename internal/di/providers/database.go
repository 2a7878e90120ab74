package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/dreamnft/dreamnft-server/internal/config"
	"github.com/dreamnft/dreamnft-server/internal/logger"
	"github.com/dreamnft/dreamnft-server/internal/reportstore"
	"github.com/dreamnft/dreamnft-server/internal/store/sqlite"
)

// StoreHandle wraps the dream store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite dream store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ReportStoreHandle wraps the validation report archive with shutdown capability.
type ReportStoreHandle struct {
	*reportstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *ReportStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideReportStore provides the Badger validation report archive.
func ProvideReportStore(i do.Injector) (*ReportStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	reports, err := reportstore.Open(cfg.Data.ReportsPath(), log.Component("reports"))
	if err != nil {
		return nil, err
	}

	return &ReportStoreHandle{Store: reports}, nil
}
