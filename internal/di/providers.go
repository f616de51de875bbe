package di

import (
	"StratPulse/internal/app"
	domrepo "StratPulse/internal/domain/repository"
	internalrepo "StratPulse/internal/repository"
	"StratPulse/internal/services/drift"
	"StratPulse/internal/services/forest"
	"StratPulse/internal/services/labeling"
	"StratPulse/internal/services/portfolio"
	"StratPulse/internal/usecase"
	"StratPulse/pkg/config"
	"StratPulse/pkg/logger"
	"StratPulse/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideReferenceStore creates the JSON drift-reference store.
func ProvideReferenceStore(cfg *config.Config, log *logger.Logger) domrepo.ReferenceStore {
	return internalrepo.NewFileReferenceStore(cfg.Drift.ReferencePath, log)
}

// ProvidePortfolioStore creates the JSON portfolio store.
func ProvidePortfolioStore(cfg *config.Config, log *logger.Logger) domrepo.PortfolioStore {
	return internalrepo.NewFilePortfolioStore(cfg.Portfolio.Path, log)
}

// ProvideDriftDetector creates the drift detector over the persisted
// reference.
func ProvideDriftDetector(cfg *config.Config, store domrepo.ReferenceStore, log *logger.Logger, m domrepo.Metrics) *drift.Detector {
	return drift.NewDetector(drift.Config{
		MaxReference:        cfg.Drift.MaxReference,
		MinReference:        cfg.Drift.MinReference,
		MinCurrent:          cfg.Drift.MinCurrent,
		PValueThreshold:     cfg.Drift.PValueThreshold,
		ProportionThreshold: cfg.Drift.ProportionThreshold,
	}, store, log, m)
}

// ProvideClassifier creates an unfitted strategy classifier.
func ProvideClassifier(cfg *config.Config, log *logger.Logger) *forest.Classifier {
	return forest.New(forest.Config{
		NumTrees:        cfg.Model.Trees,
		MaxDepth:        cfg.Model.MaxDepth,
		MinSamplesSplit: cfg.Model.MinSamplesSplit,
		Seed:            cfg.Model.Seed,
		TestSize:        cfg.Model.TestSize,
	}, log)
}

// ProvideThresholds maps the labeling rule thresholds from config.
func ProvideThresholds(cfg *config.Config) labeling.Thresholds {
	return labeling.Thresholds{
		RSIOversold:   cfg.Labeling.RSIOversold,
		RSIOverbought: cfg.Labeling.RSIOverbought,
	}
}

// ProvideStrategyUsecase wires the strategy orchestration.
func ProvideStrategyUsecase(
	classifier *forest.Classifier,
	detector *drift.Detector,
	m domrepo.Metrics,
	log *logger.Logger,
	thresholds labeling.Thresholds,
) *usecase.StrategyUsecase {
	return usecase.NewStrategyUsecase(classifier, detector, m, log, thresholds)
}

// ProvidePortfolioManager wires the portfolio ledger.
func ProvidePortfolioManager(store domrepo.PortfolioStore, log *logger.Logger) *portfolio.Manager {
	return portfolio.NewManager(store, log)
}

// ProvideApp assembles the application facade.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	strategy *usecase.StrategyUsecase,
	detector *drift.Detector,
	pm *portfolio.Manager,
	classifier *forest.Classifier,
) *app.App {
	return app.New(cfg, log, strategy, detector, pm, classifier)
}
