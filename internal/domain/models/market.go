package models

import (
	"math"
	"time"
)

// Candle is a single observation of a price series. High and Low are NaN when
// the upstream source only supplies a single price (e.g. crypto spot feeds);
// indicator computation substitutes Close for both in that case.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// HasRange reports whether the candle carries real high/low data.
func (c Candle) HasRange() bool {
	return !math.IsNaN(c.High) && !math.IsNaN(c.Low)
}

// IndicatorRow is one enriched observation. Undefined values (insufficient
// rolling history) are NaN; rows retained by enrichment always have defined
// RSI, SMAShort and SMALong, while Volatility and PricePosition may still be
// warming up when their windows exceed the SMA windows.
type IndicatorRow struct {
	Timestamp     time.Time
	Price         float64
	Returns       float64
	RSI           float64
	SMAShort      float64
	SMALong       float64
	Volatility    float64
	PricePosition float64
}
