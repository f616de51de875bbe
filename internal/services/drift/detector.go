// Package drift monitors the distribution of classifier outputs. Two
// independent monitors run over a shared rolling reference: a two-sample
// Kolmogorov-Smirnov test on prediction confidences and a proportion
// comparison on categorical agent actions.
package drift

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"StratPulse/internal/domain/models"
	"StratPulse/internal/domain/repository"
	"StratPulse/pkg/logger"
)

// Monitor names used for metrics labels.
const (
	monitorPredictions = "predictions"
	monitorActions     = "actions"
)

// Config holds the detection gates and thresholds.
type Config struct {
	MaxReference        int
	MinReference        int
	MinCurrent          int
	PValueThreshold     float64
	ProportionThreshold float64
}

// DefaultConfig returns the standard gates: reference capped at 1000,
// checks require 50 reference and 10 current samples, p < 0.05 and
// proportion difference > 0.2 flag drift.
func DefaultConfig() Config {
	return Config{
		MaxReference:        1000,
		MinReference:        50,
		MinCurrent:          10,
		PValueThreshold:     0.05,
		ProportionThreshold: 0.2,
	}
}

// Detector accumulates a reference distribution and runs drift checks
// against it. Reference updates are serialized; checks are read-only with
// respect to reference state.
type Detector struct {
	cfg     Config
	store   repository.ReferenceStore
	log     *logger.Logger
	metrics repository.Metrics

	mu  sync.Mutex
	ref models.DriftReference
}

// NewDetector loads the persisted reference through the store. The store
// degrades corrupt state to an empty reference, so construction never fails.
func NewDetector(cfg Config, store repository.ReferenceStore, log *logger.Logger, metrics repository.Metrics) *Detector {
	return &Detector{cfg: cfg, store: store, log: log, metrics: metrics, ref: store.Load()}
}

// ReferenceSize returns the current number of reference pairs.
func (d *Detector) ReferenceSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ref.Len()
}

// UpdateReference appends a (prediction confidence, action) pair, evicting
// the oldest entries beyond the cap, and persists the buffer. Persistence
// is best-effort: a storage failure is logged and monitoring continues.
func (d *Detector) UpdateReference(prediction float64, action string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ref.Predictions = append(d.ref.Predictions, prediction)
	d.ref.Actions = append(d.ref.Actions, action)
	if excess := len(d.ref.Predictions) - d.cfg.MaxReference; excess > 0 {
		d.ref.Predictions = append(d.ref.Predictions[:0:0], d.ref.Predictions[excess:]...)
		d.ref.Actions = append(d.ref.Actions[:0:0], d.ref.Actions[excess:]...)
	}

	if err := d.store.Save(d.ref); err != nil {
		if d.log != nil {
			d.log.Warn("drift reference persist failed", logger.Error(err))
		}
		if d.metrics != nil {
			d.metrics.RecordError("drift_reference_persist")
		}
	}
	if d.metrics != nil {
		d.metrics.RecordReferenceSize(d.ref.Len())
	}
}

// CheckPredictionDrift compares current prediction confidences against the
// reference using the two-sample KS test. Below the sample gates it reports
// an insufficient-data result rather than an error.
func (d *Detector) CheckPredictionDrift(current []float64) models.DriftReport {
	reference := d.snapshotPredictions()
	if len(reference) < d.cfg.MinReference || len(current) < d.cfg.MinCurrent {
		return models.DriftReport{DriftDetected: false, Reason: models.ReasonInsufficientData}
	}

	ref := sortedCopy(reference)
	cur := sortedCopy(current)
	statistic := stat.KolmogorovSmirnov(ref, nil, cur, nil)
	pValue := ksPValue(statistic, len(ref), len(cur))

	report := models.DriftReport{
		DriftDetected: pValue < d.cfg.PValueThreshold,
		Method:        models.DriftMethodKS,
		Statistic:     statistic,
		PValue:        pValue,
	}
	d.record(monitorPredictions, report)
	return report
}

// CheckActionDrift compares normalized action frequencies over the union
// of observed categories; drift is the max absolute proportion difference
// exceeding the threshold.
func (d *Detector) CheckActionDrift(current []string) models.DriftReport {
	reference := d.snapshotActions()
	if len(reference) < d.cfg.MinReference || len(current) < d.cfg.MinCurrent {
		return models.DriftReport{DriftDetected: false, Reason: models.ReasonInsufficientData}
	}

	refFreq := proportions(reference)
	curFreq := proportions(current)
	maxDiff := 0.0
	for action := range union(refFreq, curFreq) {
		diff := math.Abs(refFreq[action] - curFreq[action])
		if diff > maxDiff {
			maxDiff = diff
		}
	}

	report := models.DriftReport{
		DriftDetected: maxDiff > d.cfg.ProportionThreshold,
		Method:        models.DriftMethodProportion,
		MaxDifference: maxDiff,
	}
	d.record(monitorActions, report)
	return report
}

func (d *Detector) record(monitor string, report models.DriftReport) {
	if d.metrics != nil {
		d.metrics.RecordDriftCheck(monitor, report.DriftDetected)
	}
	if d.log != nil && report.DriftDetected {
		d.log.Warn("drift detected",
			logger.String("monitor", monitor),
			logger.String("method", report.Method))
	}
}

func (d *Detector) snapshotPredictions() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]float64(nil), d.ref.Predictions...)
}

func (d *Detector) snapshotActions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ref.Actions...)
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

func proportions(actions []string) map[string]float64 {
	freq := make(map[string]float64, 4)
	for _, a := range actions {
		freq[a]++
	}
	n := float64(len(actions))
	for a := range freq {
		freq[a] /= n
	}
	return freq
}

func union(a, b map[string]float64) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// ksPValue approximates the two-sided p-value of the two-sample KS
// statistic via the asymptotic Q_KS series with the Stephens small-sample
// correction. Adequate above the minimum-sample gates enforced by the
// checks.
func ksPValue(d float64, n1, n2 int) float64 {
	if d <= 0 {
		return 1
	}
	ne := float64(n1) * float64(n2) / float64(n1+n2)
	lambda := (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne)) * d

	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * 2 * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
		sign = -sign
	}
	switch {
	case sum < 0:
		return 0
	case sum > 1:
		return 1
	}
	return sum
}
