package usecase

import (
	"fmt"

	"StratPulse/internal/domain/models"
	domrepo "StratPulse/internal/domain/repository"
	"StratPulse/internal/services/drift"
	"StratPulse/internal/services/forest"
	"StratPulse/internal/services/labeling"
	"StratPulse/pkg/logger"
)

// StrategyUsecase ties the labeling policy, the classifier and the drift
// monitor into the two operations the agent orchestrator consumes.
type StrategyUsecase struct {
	classifier *forest.Classifier
	detector   *drift.Detector
	metrics    domrepo.Metrics
	log        *logger.Logger
	thresholds labeling.Thresholds
}

func NewStrategyUsecase(
	classifier *forest.Classifier,
	detector *drift.Detector,
	metrics domrepo.Metrics,
	log *logger.Logger,
	thresholds labeling.Thresholds,
) *StrategyUsecase {
	return &StrategyUsecase{
		classifier: classifier,
		detector:   detector,
		metrics:    metrics,
		log:        log,
		thresholds: thresholds,
	}
}

// TrainParams bundles a training request.
type TrainParams struct {
	Rows     []models.IndicatorRow
	TestSize float64
	// ModelPath, when set, persists the fitted model after training.
	ModelPath string
}

// Train labels the enriched rows, filters ambiguous ones through the
// explicit validity mask, fits the forest and optionally saves the
// artifact. Zero valid samples surfaces forest.ErrInsufficientData.
func (u *StrategyUsecase) Train(p TrainParams) (models.TrainReport, error) {
	if len(p.Rows) == 0 {
		return models.TrainReport{}, fmt.Errorf("no indicator rows to train on")
	}

	labels := labeling.Apply(p.Rows, u.thresholds)
	mask := labeling.ValidMask(p.Rows, u.thresholds)
	samples := make([]forest.Sample, 0, len(p.Rows))
	for i := range p.Rows {
		if !mask[i] {
			continue
		}
		samples = append(samples, forest.Sample{
			Features: forest.FeaturesFromRow(p.Rows[i]),
			Label:    labels[i],
		})
	}
	if u.log != nil {
		u.log.Info("training set assembled",
			logger.Int("rows", len(p.Rows)),
			logger.Int("valid_samples", len(samples)))
	}

	report, err := u.classifier.Train(samples, p.TestSize)
	if err != nil {
		if u.metrics != nil {
			u.metrics.RecordError("train")
		}
		return models.TrainReport{}, err
	}

	if p.ModelPath != "" {
		if err := u.classifier.Save(p.ModelPath); err != nil {
			return models.TrainReport{}, fmt.Errorf("persist model: %w", err)
		}
	}
	return report, nil
}

// Predict classifies the most recent indicator row, returning the strategy
// label, the confidence and the full probability vector. The prediction is
// recorded into the drift reference so the monitors see the live stream.
func (u *StrategyUsecase) Predict(rows []models.IndicatorRow) (models.StrategyPrediction, error) {
	if len(rows) == 0 {
		return models.StrategyPrediction{}, fmt.Errorf("no indicator rows to predict from")
	}

	pred, err := u.classifier.PredictRow(rows[len(rows)-1])
	if err != nil {
		if u.metrics != nil {
			u.metrics.RecordError("predict")
		}
		return models.StrategyPrediction{}, err
	}

	if u.metrics != nil {
		u.metrics.RecordPrediction(pred.Strategy, pred.Confidence)
	}
	u.detector.UpdateReference(pred.Confidence, pred.Strategy)

	if u.log != nil {
		u.log.Info("strategy predicted",
			logger.String("strategy", pred.Strategy),
			logger.Any("confidence", pred.Confidence))
	}
	return pred, nil
}
