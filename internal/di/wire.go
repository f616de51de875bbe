//go:build wireinject
// +build wireinject

package di

import (
	"StratPulse/internal/app"
	"StratPulse/pkg/config"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Stores
		ProvideReferenceStore,
		ProvidePortfolioStore,

		// Services
		ProvideDriftDetector,
		ProvideClassifier,
		ProvideThresholds,
		ProvidePortfolioManager,

		// Use cases
		ProvideStrategyUsecase,

		// Application facade
		ProvideApp,
	)
	return &app.App{}, nil
}
