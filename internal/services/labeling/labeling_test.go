package labeling

import (
	"math"
	"testing"

	"StratPulse/internal/domain/models"
)

// fixtureRows builds four rows around sma_long=100: a clear TOP setup, a
// clear BOTTOM setup, an ambiguous mid-RSI row and a low-volatility row.
// Volatilities {1, 2, 3, 4} give median 2.5.
func fixtureRows() []models.IndicatorRow {
	return []models.IndicatorRow{
		{RSI: 30, Price: 90, SMALong: 100, Volatility: 4},  // TOP rules
		{RSI: 70, Price: 110, SMALong: 100, Volatility: 3}, // BOTTOM rules
		{RSI: 50, Price: 100, SMALong: 100, Volatility: 2}, // neither rule
		{RSI: 30, Price: 90, SMALong: 100, Volatility: 1},  // below median vol
	}
}

func TestApplyThresholdRules(t *testing.T) {
	labels := Apply(fixtureRows(), DefaultThresholds())
	want := []models.Label{models.LabelTop, models.LabelBottom, models.LabelBottom, models.LabelBottom}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %v, want %v", i, labels[i], want[i])
		}
	}
}

func TestValidMaskIsSeparateFromLabels(t *testing.T) {
	rows := fixtureRows()
	labels := Apply(rows, DefaultThresholds())
	mask := ValidMask(rows, DefaultThresholds())

	// The rsi=50 row carries the default label 0 yet must be excluded.
	if labels[2] != models.LabelBottom {
		t.Errorf("ambiguous row label = %v, want default 0", labels[2])
	}
	if mask[2] {
		t.Errorf("ambiguous row must not pass the validity filter")
	}
	// Matching the rules but with volatility below median is also invalid.
	if mask[3] {
		t.Errorf("below-median volatility row must not pass the validity filter")
	}
	if !mask[0] || !mask[1] {
		t.Errorf("rule-matching rows must pass the filter, mask = %v", mask)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	rows := fixtureRows()
	first := Apply(rows, DefaultThresholds())
	second := Apply(rows, DefaultThresholds())
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("labels[%d] differ between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := fixtureRows()
	before := make([]models.IndicatorRow, len(rows))
	copy(before, rows)
	Apply(rows, DefaultThresholds())
	ValidMask(rows, DefaultThresholds())
	for i := range rows {
		if rows[i] != before[i] {
			t.Errorf("row %d mutated by labeling", i)
		}
	}
}

func TestUndefinedVolatilityIsAmbiguous(t *testing.T) {
	rows := fixtureRows()
	rows[0].Volatility = math.NaN()
	mask := ValidMask(rows, DefaultThresholds())
	if mask[0] {
		t.Errorf("row with undefined volatility must not pass the filter")
	}
}

func TestAllUndefinedVolatility(t *testing.T) {
	rows := fixtureRows()
	for i := range rows {
		rows[i].Volatility = math.NaN()
	}
	mask := ValidMask(rows, DefaultThresholds())
	for i, ok := range mask {
		if ok {
			t.Errorf("mask[%d] = true, want everything ambiguous without volatility", i)
		}
	}
}
