package providers

import (
	"github.com/samber/do/v2"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
	"github.com/dreamnft/dreamnft-server/internal/config"
	"github.com/dreamnft/dreamnft-server/internal/logger"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/service"
	"github.com/dreamnft/dreamnft-server/internal/validation"
)

// ProvideEngine provides the scoring engine configured from the scoring section.
func ProvideEngine(i do.Injector) (*scoring.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := scoring.DefaultOptions()
	opts.MaxTagCount = cfg.Scoring.MaxTagCount
	opts.MinTextLengthForValidation = cfg.Scoring.MinTextLength
	opts.MaxTextLength = cfg.Scoring.MaxTextLength
	opts.Parallel = cfg.Scoring.Parallel
	if cfg.Scoring.NoiseSeed != 0 {
		opts.Noise = authenticity.NewSeededNoise(cfg.Scoring.NoiseSeed)
	}

	engine := scoring.New(pattern.NewDefault(), opts)

	log.Info("Scoring engine ready",
		"pattern_version", engine.PatternVersion(),
		"noise", cfg.Scoring.NoiseSeed != 0,
		"parallel", opts.Parallel,
	)

	return engine, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideDreamService provides the dream service.
func ProvideDreamService(i do.Injector) (*service.DreamService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	reportHandle := do.MustInvoke[*ReportStoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	engine := do.MustInvoke[*scoring.Engine](i)
	validator := do.MustInvoke[*validation.Validator](i)

	return service.NewDreamService(
		storeHandle.Store,
		reportHandle.Store,
		indexHandle.SearchIndex,
		engine,
		validator,
		cfg.Scoring.UserTagCap,
		log.Component("dreams"),
	), nil
}
