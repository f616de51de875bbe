package models

// Drift detection method identifiers, reported verbatim in DriftReport.
const (
	DriftMethodKS         = "ks_test"
	DriftMethodProportion = "proportion_difference"
)

// ReasonInsufficientData marks a drift check skipped for lack of samples.
// This is a normal early-lifecycle state, not an error.
const ReasonInsufficientData = "insufficient data"

// DriftReference is the persisted baseline the detector compares against:
// parallel slices of prediction confidences and categorical actions.
type DriftReference struct {
	Predictions []float64 `json:"predictions"`
	Actions     []string  `json:"actions"`
}

// Len returns the number of reference pairs.
func (r DriftReference) Len() int { return len(r.Predictions) }

// DriftReport is the outcome of a single drift check.
type DriftReport struct {
	DriftDetected bool    `json:"drift_detected"`
	Method        string  `json:"method,omitempty"`
	Statistic     float64 `json:"statistic,omitempty"`
	PValue        float64 `json:"p_value,omitempty"`
	MaxDifference float64 `json:"max_difference,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}
