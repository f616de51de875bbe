// Package labeling turns indicator rows into binary TOP/BOTTOM training
// labels using fixed threshold rules, plus an explicit validity filter for
// rows that match neither rule.
package labeling

import (
	"math"
	"sort"

	"StratPulse/internal/domain/models"
)

// Thresholds parameterizes the labeling rules.
type Thresholds struct {
	RSIOversold   float64 // TOP requires rsi below this
	RSIOverbought float64 // BOTTOM requires rsi above this
}

// DefaultThresholds returns the standard rule configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIOversold: 35, RSIOverbought: 65}
}

// Apply computes a label per row:
//
//	TOP    iff rsi < oversold  AND price < sma_long AND volatility > median
//	BOTTOM iff rsi > overbought AND price > sma_long AND volatility > median
//
// Every other row defaults to BOTTOM's numeric value. Training must not use
// those defaulted rows; ValidMask is the separate filter that removes them.
// Folding the filter into the rules here would silently change class
// balance, so the two steps stay distinct. The input is never mutated.
func Apply(rows []models.IndicatorRow, th Thresholds) []models.Label {
	medianVol := medianVolatility(rows)
	labels := make([]models.Label, len(rows))
	for i, r := range rows {
		switch {
		case topRule(r, th, medianVol):
			labels[i] = models.LabelTop
		case bottomRule(r, th, medianVol):
			labels[i] = models.LabelBottom
		default:
			labels[i] = models.LabelBottom
		}
	}
	return labels
}

// ValidMask reports, per row, whether exactly one of the two rule sets
// matched. Rows with false entries received a default label and are
// excluded from training.
func ValidMask(rows []models.IndicatorRow, th Thresholds) []bool {
	medianVol := medianVolatility(rows)
	mask := make([]bool, len(rows))
	for i, r := range rows {
		top := topRule(r, th, medianVol)
		bottom := bottomRule(r, th, medianVol)
		mask[i] = top != bottom
	}
	return mask
}

func topRule(r models.IndicatorRow, th Thresholds, medianVol float64) bool {
	return r.RSI < th.RSIOversold && r.Price < r.SMALong && r.Volatility > medianVol
}

func bottomRule(r models.IndicatorRow, th Thresholds, medianVol float64) bool {
	return r.RSI > th.RSIOverbought && r.Price > r.SMALong && r.Volatility > medianVol
}

// medianVolatility returns the median of the defined volatility values,
// averaging the two middle elements for even counts. NaN when no row has
// defined volatility, which makes both rules unsatisfiable.
func medianVolatility(rows []models.IndicatorRow) float64 {
	vols := make([]float64, 0, len(rows))
	for _, r := range rows {
		if !math.IsNaN(r.Volatility) {
			vols = append(vols, r.Volatility)
		}
	}
	if len(vols) == 0 {
		return math.NaN()
	}
	sort.Float64s(vols)
	mid := len(vols) / 2
	if len(vols)%2 == 1 {
		return vols[mid]
	}
	return (vols[mid-1] + vols[mid]) / 2
}
