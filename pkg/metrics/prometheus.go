package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions   *prometheus.CounterVec
	confidence    prometheus.Histogram
	driftChecks   *prometheus.CounterVec
	driftDetected *prometheus.CounterVec
	referenceSize prometheus.Gauge
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratpulse_predictions_total",
				Help: "Total number of strategy predictions by label",
			},
			[]string{"strategy"},
		),
		confidence: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stratpulse_prediction_confidence",
				Help:    "Distribution of prediction confidences",
				Buckets: prometheus.LinearBuckets(0.5, 0.05, 10),
			},
		),
		driftChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratpulse_drift_checks_total",
				Help: "Total number of drift checks by monitor",
			},
			[]string{"monitor"},
		),
		driftDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratpulse_drift_detected_total",
				Help: "Total number of checks that flagged drift",
			},
			[]string{"monitor"},
		),
		referenceSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stratpulse_drift_reference_size",
				Help: "Current number of entries in the drift reference buffer",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordPrediction records a strategy prediction and its confidence.
func (r *Recorder) RecordPrediction(strategy string, confidence float64) {
	r.predictions.WithLabelValues(strategy).Inc()
	r.confidence.Observe(confidence)
}

// RecordDriftCheck records a drift check outcome for a monitor.
func (r *Recorder) RecordDriftCheck(monitor string, detected bool) {
	r.driftChecks.WithLabelValues(monitor).Inc()
	if detected {
		r.driftDetected.WithLabelValues(monitor).Inc()
	}
}

// RecordReferenceSize records the drift reference buffer size.
func (r *Recorder) RecordReferenceSize(n int) {
	r.referenceSize.Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
