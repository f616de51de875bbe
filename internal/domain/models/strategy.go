package models

// Strategy labels produced by the classifier. The numeric values double as
// class indices inside the forest, so their order is load-bearing.
const (
	StrategyBottom = "BOTTOM"
	StrategyTop    = "TOP"
)

// Label is the binary training target: Bottom=0, Top=1.
type Label int

const (
	LabelBottom Label = 0
	LabelTop    Label = 1
)

// Strategy returns the string form of a label.
func (l Label) Strategy() string {
	if l == LabelTop {
		return StrategyTop
	}
	return StrategyBottom
}

// StrategyPrediction is the contract returned to the agent orchestrator.
type StrategyPrediction struct {
	Strategy      string             `json:"strategy"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// ClassMetrics holds per-class evaluation figures from a held-out test split.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Accuracy     float64                 `json:"accuracy"`
	Classes      map[string]ClassMetrics `json:"classes"`
	TrainSamples int                     `json:"train_samples"`
	TestSamples  int                     `json:"test_samples"`
}
