package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"StratPulse/internal/domain/models"
	"StratPulse/pkg/util"
)

// ReadCandlesCSV loads a price series from a headered CSV file. The file
// must carry a timestamp column and a close (or price) column; open, high,
// low and volume are optional. Candles without high/low data get NaN there
// so indicator enrichment can substitute the close.
func ReadCandlesCSV(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles csv: %w", err)
	}
	defer f.Close()
	return parseCandlesCSV(f)
}

func parseCandlesCSV(r io.Reader) ([]models.Candle, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	tsCol, ok := cols["timestamp"]
	if !ok {
		return nil, fmt.Errorf("csv missing timestamp column")
	}
	closeCol, ok := cols["close"]
	if !ok {
		if closeCol, ok = cols["price"]; !ok {
			return nil, fmt.Errorf("csv missing close/price column")
		}
	}

	var candles []models.Candle
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		line++

		ts, ok := util.ParseTime(record[tsCol])
		if !ok {
			return nil, fmt.Errorf("line %d: bad timestamp %q", line, record[tsCol])
		}
		closePrice, err := strconv.ParseFloat(record[closeCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad close %q", line, record[closeCol])
		}

		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      optionalField(record, cols, "open"),
			High:      optionalField(record, cols, "high"),
			Low:       optionalField(record, cols, "low"),
			Close:     closePrice,
			Volume:    zeroIfNaN(optionalField(record, cols, "volume")),
		})
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("csv holds no candles")
	}
	return candles, nil
}

func optionalField(record []string, cols map[string]int, name string) float64 {
	i, ok := cols[name]
	if !ok || i >= len(record) || record[i] == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(record[i], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
