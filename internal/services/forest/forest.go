// Package forest implements the TOP/BOTTOM strategy classifier: a bagged
// ensemble of CART decision trees over the fixed indicator feature set,
// deterministic for a fixed seed and input order.
package forest

import (
	"math"
	"math/rand"
	"sort"

	"StratPulse/internal/domain/models"
	"StratPulse/pkg/logger"
)

// FeatureColumns is the ordered feature set the model is fit on. The order
// is part of the persisted artifact and must not change between training
// and inference.
var FeatureColumns = []string{
	"rsi",
	"sma_short",
	"sma_long",
	"volatility",
	"price_position",
	"returns",
}

const numClasses = 2

// Config holds the ensemble hyperparameters.
type Config struct {
	NumTrees        int     `json:"num_trees"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	Seed            int64   `json:"seed"`
	TestSize        float64 `json:"test_size"`
}

// DefaultConfig returns the standard hyperparameters: 100 trees, depth 10,
// min split 5, seed 42 for reproducibility.
func DefaultConfig() Config {
	return Config{
		NumTrees:        100,
		MaxDepth:        10,
		MinSamplesSplit: 5,
		Seed:            42,
		TestSize:        0.2,
	}
}

// Sample is one labeled training observation. Features follow FeatureColumns.
type Sample struct {
	Features []float64
	Label    models.Label
}

// Classifier is the decision-forest strategy model. It is mutated only by
// Train and Load; prediction calls are read-only.
type Classifier struct {
	cfg      Config
	log      *logger.Logger
	features []string
	trees    []*node
}

// New creates an unfitted classifier. A nil logger disables warnings.
func New(cfg Config, log *logger.Logger) *Classifier {
	return &Classifier{cfg: cfg, log: log, features: FeatureColumns}
}

// Fitted reports whether the classifier holds a trained model.
func (c *Classifier) Fitted() bool { return len(c.trees) > 0 }

// Features returns the ordered feature columns the model was fit on.
func (c *Classifier) Features() []string { return c.features }

// FeaturesFromRow builds the feature vector of an indicator row, mapping
// undefined (NaN) values to 0 the same way training does.
func FeaturesFromRow(r models.IndicatorRow) []float64 {
	vals := []float64{r.RSI, r.SMAShort, r.SMALong, r.Volatility, r.PricePosition, r.Returns}
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = 0
		}
	}
	return vals
}

// Train fits the forest on the given samples using a stratified train/test
// split and returns the held-out evaluation. testSize <= 0 falls back to
// the configured default. Zero samples is ErrInsufficientData.
func (c *Classifier) Train(samples []Sample, testSize float64) (models.TrainReport, error) {
	if len(samples) == 0 {
		return models.TrainReport{}, ErrInsufficientData
	}
	if testSize <= 0 || testSize >= 1 {
		testSize = c.cfg.TestSize
	}

	rng := rand.New(rand.NewSource(c.cfg.Seed))
	trainSet, testSet := stratifiedSplit(samples, testSize, rng)

	c.trees = make([]*node, c.cfg.NumTrees)
	for t := 0; t < c.cfg.NumTrees; t++ {
		boot := make([]Sample, len(trainSet))
		for i := range boot {
			boot[i] = trainSet[rng.Intn(len(trainSet))]
		}
		c.trees[t] = c.buildTree(boot, 0, rng)
	}

	evalSet := testSet
	if len(evalSet) == 0 {
		// Too few samples to hold anything out; report training fit.
		evalSet = trainSet
	}
	report := c.evaluate(evalSet)
	report.TrainSamples = len(trainSet)
	report.TestSamples = len(testSet)
	if c.log != nil {
		c.log.Info("model trained",
			logger.Int("train_samples", len(trainSet)),
			logger.Int("test_samples", len(testSet)),
			logger.Any("accuracy", report.Accuracy))
	}
	return report, nil
}

// PredictProba returns the class probability vector [P(BOTTOM), P(TOP)] for
// a feature map. Missing feature columns are substituted with 0 and warned
// about; they never fail the call.
func (c *Classifier) PredictProba(features map[string]float64) ([]float64, error) {
	if !c.Fitted() {
		return nil, ErrModelNotTrained
	}
	vec := make([]float64, len(c.features))
	for i, name := range c.features {
		v, ok := features[name]
		if !ok {
			if c.log != nil {
				c.log.Warn("missing feature, substituting zero", logger.String("feature", name))
			}
			v = 0
		}
		if math.IsNaN(v) {
			v = 0
		}
		vec[i] = v
	}
	return c.proba(vec), nil
}

// Predict returns the strategy label, the confidence (max class
// probability) and the full probability vector for a feature map.
func (c *Classifier) Predict(features map[string]float64) (models.StrategyPrediction, error) {
	probs, err := c.PredictProba(features)
	if err != nil {
		return models.StrategyPrediction{}, err
	}
	label := argmax(probs)
	return models.StrategyPrediction{
		Strategy:   models.Label(label).Strategy(),
		Confidence: probs[label],
		Probabilities: map[string]float64{
			models.StrategyBottom: probs[models.LabelBottom],
			models.StrategyTop:    probs[models.LabelTop],
		},
	}, nil
}

// PredictRow predicts from an indicator row directly.
func (c *Classifier) PredictRow(r models.IndicatorRow) (models.StrategyPrediction, error) {
	if !c.Fitted() {
		return models.StrategyPrediction{}, ErrModelNotTrained
	}
	probs := c.proba(FeaturesFromRow(r))
	label := argmax(probs)
	return models.StrategyPrediction{
		Strategy:   models.Label(label).Strategy(),
		Confidence: probs[label],
		Probabilities: map[string]float64{
			models.StrategyBottom: probs[models.LabelBottom],
			models.StrategyTop:    probs[models.LabelTop],
		},
	}, nil
}

// proba averages the leaf class distributions across all trees.
func (c *Classifier) proba(vec []float64) []float64 {
	probs := make([]float64, numClasses)
	for _, t := range c.trees {
		leaf := t.descend(vec)
		for k := 0; k < numClasses; k++ {
			probs[k] += leaf.Probs[k]
		}
	}
	for k := range probs {
		probs[k] /= float64(len(c.trees))
	}
	return probs
}

// argmax scans class 0 first, so an exact probability tie resolves to
// BOTTOM deterministically.
func argmax(probs []float64) int {
	best := 0
	for k := 1; k < len(probs); k++ {
		if probs[k] > probs[best] {
			best = k
		}
	}
	return best
}

// node is one decision-tree node. Exported fields keep it JSON-serializable
// for the persisted artifact.
type node struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *node     `json:"left,omitempty"`
	Right     *node     `json:"right,omitempty"`
	Probs     []float64 `json:"probs,omitempty"`
}

func (n *node) descend(vec []float64) *node {
	cur := n
	for !cur.Leaf {
		if vec[cur.Feature] <= cur.Threshold {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	return cur
}

func (c *Classifier) buildTree(samples []Sample, depth int, rng *rand.Rand) *node {
	counts := classCounts(samples)
	if depth >= c.cfg.MaxDepth || len(samples) < c.cfg.MinSamplesSplit || isPure(counts) {
		return leaf(counts, len(samples))
	}

	// Random sqrt(f) feature subset per split, bagging style.
	mtry := int(math.Sqrt(float64(len(c.features))))
	if mtry < 1 {
		mtry = 1
	}
	candidates := rng.Perm(len(c.features))[:mtry]
	sort.Ints(candidates)

	parentGini := gini(counts, len(samples))
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	for _, f := range candidates {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.Features[f]
		}
		sort.Float64s(values)
		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			thr := (values[i] + values[i-1]) / 2
			gain := parentGini - c.splitImpurity(samples, f, thr)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = thr
			}
		}
	}
	if bestFeature < 0 || bestGain <= 1e-12 {
		return leaf(counts, len(samples))
	}

	var left, right []Sample
	for _, s := range samples {
		if s.Features[bestFeature] <= bestThreshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return &node{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      c.buildTree(left, depth+1, rng),
		Right:     c.buildTree(right, depth+1, rng),
	}
}

func (c *Classifier) splitImpurity(samples []Sample, feature int, thr float64) float64 {
	var leftCounts, rightCounts [numClasses]int
	nLeft, nRight := 0, 0
	for _, s := range samples {
		if s.Features[feature] <= thr {
			leftCounts[s.Label]++
			nLeft++
		} else {
			rightCounts[s.Label]++
			nRight++
		}
	}
	n := float64(nLeft + nRight)
	return float64(nLeft)/n*gini(leftCounts, nLeft) + float64(nRight)/n*gini(rightCounts, nRight)
}

func classCounts(samples []Sample) [numClasses]int {
	var counts [numClasses]int
	for _, s := range samples {
		counts[s.Label]++
	}
	return counts
}

func isPure(counts [numClasses]int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func gini(counts [numClasses]int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func leaf(counts [numClasses]int, n int) *node {
	probs := make([]float64, numClasses)
	if n > 0 {
		for k := 0; k < numClasses; k++ {
			probs[k] = float64(counts[k]) / float64(n)
		}
	}
	return &node{Leaf: true, Probs: probs}
}

// stratifiedSplit shuffles each class independently and holds out
// round(testSize * classCount) samples per class, never the whole class.
func stratifiedSplit(samples []Sample, testSize float64, rng *rand.Rand) (train, test []Sample) {
	byClass := make([][]int, numClasses)
	for i, s := range samples {
		byClass[s.Label] = append(byClass[s.Label], i)
	}
	for _, idx := range byClass {
		if len(idx) == 0 {
			continue
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Round(testSize * float64(len(idx))))
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		for k, i := range idx {
			if k < nTest {
				test = append(test, samples[i])
			} else {
				train = append(train, samples[i])
			}
		}
	}
	return train, test
}

// evaluate computes accuracy and per-class precision/recall/F1 on a
// labeled set.
func (c *Classifier) evaluate(set []Sample) models.TrainReport {
	var tp, fp, fn [numClasses]int
	correct := 0
	for _, s := range set {
		pred := models.Label(argmax(c.proba(s.Features)))
		if pred == s.Label {
			correct++
			tp[pred]++
		} else {
			fp[pred]++
			fn[s.Label]++
		}
	}

	classes := make(map[string]models.ClassMetrics, numClasses)
	for k := 0; k < numClasses; k++ {
		precision := ratio(tp[k], tp[k]+fp[k])
		recall := ratio(tp[k], tp[k]+fn[k])
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		classes[models.Label(k).Strategy()] = models.ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   tp[k] + fn[k],
		}
	}

	accuracy := 0.0
	if len(set) > 0 {
		accuracy = float64(correct) / float64(len(set))
	}
	return models.TrainReport{Accuracy: accuracy, Classes: classes}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
