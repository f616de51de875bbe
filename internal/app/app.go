// Package app bundles the assembled application: configuration, logging
// and the strategy, drift and portfolio services the CLI drives.
package app

import (
	"StratPulse/internal/services/drift"
	"StratPulse/internal/services/forest"
	"StratPulse/internal/services/indicators"
	"StratPulse/internal/services/portfolio"
	"StratPulse/internal/usecase"
	"StratPulse/pkg/config"
	"StratPulse/pkg/logger"
)

type App struct {
	Cfg        *config.Config
	Log        *logger.Logger
	Strategy   *usecase.StrategyUsecase
	Drift      *drift.Detector
	Portfolio  *portfolio.Manager
	Classifier *forest.Classifier
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *logger.Logger,
	strategy *usecase.StrategyUsecase,
	detector *drift.Detector,
	pm *portfolio.Manager,
	classifier *forest.Classifier,
) *App {
	return &App{
		Cfg:        cfg,
		Log:        log,
		Strategy:   strategy,
		Drift:      detector,
		Portfolio:  pm,
		Classifier: classifier,
	}
}

// IndicatorOptions maps the configured windows into enrichment options.
func (a *App) IndicatorOptions() indicators.Options {
	return indicators.Options{
		RSIPeriod:   a.Cfg.Indicators.RSIPeriod,
		SMAShort:    a.Cfg.Indicators.SMAShort,
		SMALong:     a.Cfg.Indicators.SMALong,
		VolWindow:   a.Cfg.Indicators.VolatilityWindow,
		RangeWindow: a.Cfg.Indicators.RangeWindow,
	}
}
