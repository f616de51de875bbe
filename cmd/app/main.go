package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"StratPulse/internal/app"
	"StratPulse/internal/di"
	"StratPulse/internal/domain/models"
	"StratPulse/internal/repository"
	"StratPulse/internal/services/indicators"
	"StratPulse/internal/usecase"
	"StratPulse/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "config/config.yaml", "config file path")
	input := fs.String("input", "", "candles CSV path (train, predict)")
	current := fs.String("current", "", "current-window JSON path (drift)")
	action := fs.String("action", "show", "portfolio action: add, remove, show, value")
	symbol := fs.String("symbol", "", "asset symbol (portfolio)")
	quantity := fs.Float64("quantity", 0, "asset quantity (portfolio)")
	price := fs.Float64("price", 0, "asset price (portfolio)")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	a, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	switch cmd {
	case "train":
		err = runTrain(a, *input)
	case "predict":
		err = runPredict(a, *input)
	case "drift":
		err = runDrift(a, *current)
	case "portfolio":
		err = runPortfolio(a, *action, *symbol, *quantity, *price)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: app <train|predict|drift|portfolio> [flags]")
}

// loadConfig falls back to defaults when the default config file is absent,
// so one-shot commands work out of the box.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config/config.yaml" {
		return config.Default()
	}
	return config.LoadWithEnv(path)
}

func enrich(a *app.App, input string) ([]models.IndicatorRow, error) {
	if input == "" {
		return nil, fmt.Errorf("-input is required")
	}
	candles, err := repository.ReadCandlesCSV(input)
	if err != nil {
		return nil, err
	}
	return indicators.Enrich(candles, a.IndicatorOptions())
}

func runTrain(a *app.App, input string) error {
	rows, err := enrich(a, input)
	if err != nil {
		return err
	}
	report, err := a.Strategy.Train(usecase.TrainParams{
		Rows:      rows,
		TestSize:  a.Cfg.Model.TestSize,
		ModelPath: a.Cfg.Model.Path,
	})
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runPredict(a *app.App, input string) error {
	if err := a.Classifier.Load(a.Cfg.Model.Path); err != nil {
		return err
	}
	rows, err := enrich(a, input)
	if err != nil {
		return err
	}
	pred, err := a.Strategy.Predict(rows)
	if err != nil {
		return err
	}
	return printJSON(pred)
}

func runDrift(a *app.App, currentPath string) error {
	if currentPath == "" {
		return fmt.Errorf("-current is required")
	}
	b, err := os.ReadFile(currentPath)
	if err != nil {
		return fmt.Errorf("read current window: %w", err)
	}
	var window models.DriftReference
	if err := json.Unmarshal(b, &window); err != nil {
		return fmt.Errorf("parse current window: %w", err)
	}

	return printJSON(map[string]models.DriftReport{
		"predictions": a.Drift.CheckPredictionDrift(window.Predictions),
		"actions":     a.Drift.CheckActionDrift(window.Actions),
	})
}

func runPortfolio(a *app.App, action, symbol string, quantity, price float64) error {
	switch action {
	case "add":
		p, err := a.Portfolio.AddAsset(symbol, quantity, price)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "remove":
		p, err := a.Portfolio.RemoveAsset(symbol, quantity)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "show":
		return printJSON(a.Portfolio.Summary())
	case "value":
		return printJSON(map[string]float64{"total_value": a.Portfolio.TotalValue(nil)})
	default:
		return fmt.Errorf("unknown portfolio action %q", action)
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
