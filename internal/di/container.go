// Package di provides dependency injection configuration for the dream scoring server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/dreamnft/dreamnft-server/internal/config"
	"github.com/dreamnft/dreamnft-server/internal/di/providers"
	"github.com/dreamnft/dreamnft-server/internal/logger"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/service"
	"github.com/dreamnft/dreamnft-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line flags passed to config loading.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(args))
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideReportStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Scoring
	do.Provide(injector, providers.ProvideEngine)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideDreamService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order. The first failing
// provider aborts startup.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.ReportStoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*scoring.Engine](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.DreamService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RateLimiterHandle](injector); err != nil {
		return err
	}

	// Bring the index in line with the store before serving.
	providers.SyncSearchIndex(injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
