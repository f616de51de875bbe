package indicators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"StratPulse/internal/domain/models"
)

// tradingDaysPerYear is the annualization base for volatility.
const tradingDaysPerYear = 252

// Options controls the rolling windows used by Enrich.
type Options struct {
	RSIPeriod   int
	SMAShort    int
	SMALong     int
	VolWindow   int
	RangeWindow int
}

// DefaultOptions returns the standard window configuration.
func DefaultOptions() Options {
	return Options{
		RSIPeriod:   14,
		SMAShort:    10,
		SMALong:     20,
		VolWindow:   30,
		RangeWindow: 30,
	}
}

func (o Options) validate() error {
	if o.RSIPeriod < 2 || o.SMAShort < 1 || o.SMALong < 1 || o.VolWindow < 2 || o.RangeWindow < 1 {
		return fmt.Errorf("invalid indicator windows: %+v", o)
	}
	return nil
}

// Returns computes simple returns r_t = p_t/p_{t-1} - 1.
// The result has the same length as prices; index 0 is NaN.
func Returns(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(out) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]/prices[i-1] - 1
	}
	return out
}

// RSI computes the Relative Strength Index over a trailing window of price
// deltas. Values are defined for indices >= period-1 and always lie in
// [0, 100]. The first delta only exists at index 1, so the window at index
// period-1 holds period-1 deltas; gains and losses are averaged over the
// actual window count. A zero average loss would make the relative strength
// ratio infinite, so RSI saturates at 100 there.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := period - 1; i < len(prices); i++ {
		start := i - period + 1
		if start < 1 {
			start = 1
		}
		var gain, loss float64
		n := 0
		for j := start; j <= i; j++ {
			delta := prices[j] - prices[j-1]
			if delta > 0 {
				gain += delta
			} else {
				loss -= delta
			}
			n++
		}
		if n == 0 {
			continue
		}
		avgGain := gain / float64(n)
		avgLoss := loss / float64(n)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// SMA computes the trailing arithmetic mean over the given period.
// Indices < period-1 are NaN.
func SMA(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := period - 1; i < len(prices); i++ {
		out[i] = stat.Mean(prices[i-period+1:i+1], nil)
	}
	return out
}

// Volatility computes the annualized trailing sample standard deviation of
// returns. A window containing an undefined return yields NaN, so with the
// default windows volatility starts one observation after the return series
// fills the window.
func Volatility(returns []float64, window int) []float64 {
	factor := math.Sqrt(tradingDaysPerYear)
	out := make([]float64, len(returns))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := window - 1; i < len(returns); i++ {
		w := returns[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		out[i] = stat.StdDev(w, nil) * factor
	}
	return out
}

// PricePosition locates the close inside the trailing high/low range,
// scaled to [0, 100]. When the rolling high equals the rolling low the raw
// IEEE-754 division is kept (NaN or infinity); degenerate series synthesized
// from a bare price column hit this boundary behavior and downstream
// consumers treat such values as undefined.
func PricePosition(high, low, close []float64, window int) []float64 {
	out := make([]float64, len(close))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := window - 1; i < len(close); i++ {
		hi := math.Inf(-1)
		lo := math.Inf(1)
		for j := i - window + 1; j <= i; j++ {
			hi = math.Max(hi, high[j])
			lo = math.Min(lo, low[j])
		}
		out[i] = (close[i] - lo) / (hi - lo) * 100
	}
	return out
}

// Enrich derives the full indicator table from a price series. The input
// must be non-empty with strictly increasing timestamps; violations are
// errors. Candles without high/low data use the close for both, as the
// upstream single-price feeds do. Rows whose RSI or SMA windows have not
// filled yet are dropped, so every returned row has defined RSI, SMAShort
// and SMALong. The computation is deterministic and performs no I/O.
func Enrich(series []models.Candle, opts Options) ([]models.IndicatorRow, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("empty price series")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	for i := 1; i < len(series); i++ {
		if !series[i].Timestamp.After(series[i-1].Timestamp) {
			return nil, fmt.Errorf("price series timestamps not strictly increasing at index %d", i)
		}
	}

	n := len(series)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range series {
		closes[i] = c.Close
		if c.HasRange() {
			highs[i] = c.High
			lows[i] = c.Low
		} else {
			highs[i] = c.Close
			lows[i] = c.Close
		}
	}

	returns := Returns(closes)
	rsi := RSI(closes, opts.RSIPeriod)
	smaShort := SMA(closes, opts.SMAShort)
	smaLong := SMA(closes, opts.SMALong)
	vol := Volatility(returns, opts.VolWindow)
	pos := PricePosition(highs, lows, closes, opts.RangeWindow)

	rows := make([]models.IndicatorRow, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(rsi[i]) || math.IsNaN(smaShort[i]) || math.IsNaN(smaLong[i]) {
			continue
		}
		rows = append(rows, models.IndicatorRow{
			Timestamp:     series[i].Timestamp,
			Price:         closes[i],
			Returns:       returns[i],
			RSI:           rsi[i],
			SMAShort:      smaShort[i],
			SMALong:       smaLong[i],
			Volatility:    vol[i],
			PricePosition: pos[i],
		})
	}
	return rows, nil
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
