package indicators

import (
	"math"
	"testing"
	"time"

	"StratPulse/internal/domain/models"
)

// scenarioPrices repeats the reference pattern 5x for 50 points.
func scenarioPrices() []float64 {
	pattern := []float64{100, 102, 101, 103, 105, 104, 106, 108, 107, 109}
	prices := make([]float64, 0, 50)
	for i := 0; i < 5; i++ {
		prices = append(prices, pattern...)
	}
	return prices
}

func candlesFrom(prices []float64) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(prices))
	for i, p := range prices {
		out[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			High:      math.NaN(),
			Low:       math.NaN(),
			Close:     p,
		}
	}
	return out
}

func TestReturns(t *testing.T) {
	got := Returns([]float64{100, 110, 99})
	if !math.IsNaN(got[0]) {
		t.Fatalf("returns[0] should be undefined, got %v", got[0])
	}
	if math.Abs(got[1]-0.1) > 1e-12 {
		t.Errorf("returns[1] = %v, want 0.1", got[1])
	}
	if math.Abs(got[2]-(-0.1)) > 1e-12 {
		t.Errorf("returns[2] = %v, want -0.1", got[2])
	}
}

func TestSMAFirstDefinedIndex(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("sma[%d] should be undefined, got %v", i, got[i])
		}
	}
	// Index period-1 equals the mean of the first period values.
	if math.Abs(got[2]-2) > 1e-12 {
		t.Errorf("sma[2] = %v, want 2", got[2])
	}
	if math.Abs(got[4]-4) > 1e-12 {
		t.Errorf("sma[4] = %v, want 4", got[4])
	}
}

func TestRSIScenario(t *testing.T) {
	prices := scenarioPrices()
	rsi := RSI(prices, 14)
	if len(rsi) != 50 {
		t.Fatalf("rsi length = %d, want 50", len(rsi))
	}
	for i := 0; i < 13; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("rsi[%d] should be undefined, got %v", i, rsi[i])
		}
	}
	for i := 13; i < 50; i++ {
		if math.IsNaN(rsi[i]) || rsi[i] < 0 || rsi[i] > 100 {
			t.Errorf("rsi[%d] = %v, want defined value in [0,100]", i, rsi[i])
		}
	}
}

func TestRSISaturatesWithoutLosses(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	rsi := RSI(prices, 14)
	for i := 13; i < len(rsi); i++ {
		if rsi[i] != 100 {
			t.Errorf("rsi[%d] = %v, want saturation at 100", i, rsi[i])
		}
	}
}

func TestVolatilityWindow(t *testing.T) {
	returns := []float64{math.NaN(), 0.01, -0.02, 0.03, 0.01}
	vol := Volatility(returns, 3)
	// Windows touching the undefined first return stay undefined.
	for i := 0; i < 3; i++ {
		if !math.IsNaN(vol[i]) {
			t.Errorf("vol[%d] should be undefined, got %v", i, vol[i])
		}
	}
	for i := 3; i < 5; i++ {
		if math.IsNaN(vol[i]) || vol[i] <= 0 {
			t.Errorf("vol[%d] = %v, want positive value", i, vol[i])
		}
	}
	// Annualized sample stddev of {-0.02, 0.03, 0.01}.
	want := 0.025166114784235832 * math.Sqrt(252)
	if math.Abs(vol[3]-want) > 1e-9 {
		t.Errorf("vol[3] = %v, want %v", vol[3], want)
	}
}

func TestPricePositionBounds(t *testing.T) {
	prices := scenarioPrices()
	pos := PricePosition(prices, prices, prices, 30)
	for i := 29; i < len(pos); i++ {
		if math.IsNaN(pos[i]) || pos[i] < 0 || pos[i] > 100 {
			t.Errorf("pos[%d] = %v, want value in [0,100]", i, pos[i])
		}
	}
}

func TestEnrichDropsWarmupRows(t *testing.T) {
	rows, err := Enrich(candlesFrom(scenarioPrices()), DefaultOptions())
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	// SMA long (20) is the widest of the filtering columns.
	if len(rows) != 31 {
		t.Fatalf("retained rows = %d, want 31", len(rows))
	}
	for i, r := range rows {
		if math.IsNaN(r.RSI) || math.IsNaN(r.SMAShort) || math.IsNaN(r.SMALong) {
			t.Errorf("row %d has undefined filtering column: %+v", i, r)
		}
		if r.RSI < 0 || r.RSI > 100 {
			t.Errorf("row %d rsi = %v, want [0,100]", i, r.RSI)
		}
	}
}

func TestEnrichDeterministic(t *testing.T) {
	candles := candlesFrom(scenarioPrices())
	first, err := Enrich(candles, DefaultOptions())
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	second, err := Enrich(candles, DefaultOptions())
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !rowsEqual(first[i], second[i]) {
			t.Errorf("row %d differs between runs", i)
		}
	}
}

// rowsEqual treats NaN as equal to NaN so warm-up columns compare cleanly.
func rowsEqual(a, b models.IndicatorRow) bool {
	eq := func(x, y float64) bool {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	}
	return a.Timestamp.Equal(b.Timestamp) &&
		eq(a.Price, b.Price) && eq(a.Returns, b.Returns) && eq(a.RSI, b.RSI) &&
		eq(a.SMAShort, b.SMAShort) && eq(a.SMALong, b.SMALong) &&
		eq(a.Volatility, b.Volatility) && eq(a.PricePosition, b.PricePosition)
}

func TestEnrichRejectsEmptySeries(t *testing.T) {
	if _, err := Enrich(nil, DefaultOptions()); err == nil {
		t.Fatalf("expected error for empty series")
	}
}

func TestEnrichRejectsUnorderedTimestamps(t *testing.T) {
	candles := candlesFrom(scenarioPrices())
	candles[5].Timestamp = candles[4].Timestamp
	if _, err := Enrich(candles, DefaultOptions()); err == nil {
		t.Fatalf("expected error for duplicate timestamp")
	}
}
