package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if c.Environment != "development" {
		t.Errorf("environment = %q, want development", c.Environment)
	}
	if c.Indicators.RSIPeriod != 14 || c.Indicators.SMALong != 20 {
		t.Errorf("indicator defaults = %+v", c.Indicators)
	}
	if c.Model.Trees != 100 || c.Model.Seed != 42 {
		t.Errorf("model defaults = %+v", c.Model)
	}
	if c.Drift.MaxReference != 1000 || c.Drift.PValueThreshold != 0.05 {
		t.Errorf("drift defaults = %+v", c.Drift)
	}
}

func TestLoadFillsOmittedFields(t *testing.T) {
	path := writeConfig(t, `
environment: production
model:
  trees: 50
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Environment != "production" {
		t.Errorf("environment = %q, want production", c.Environment)
	}
	if c.Model.Trees != 50 {
		t.Errorf("trees = %d, want file override 50", c.Model.Trees)
	}
	if c.Model.MaxDepth != 10 {
		t.Errorf("max_depth = %d, want default 10", c.Model.MaxDepth)
	}
	if c.Labeling.RSIOversold != 35 || c.Labeling.RSIOverbought != 65 {
		t.Errorf("labeling defaults = %+v", c.Labeling)
	}
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	path := writeConfig(t, "environment: sandbox\n")
	if _, err := Load(path); err == nil {
		t.Fatal("want validation error for unknown environment")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	path := writeConfig(t, `
labeling:
  rsi_oversold: 70
  rsi_overbought: 30
`)
	if _, err := Load(path); err == nil {
		t.Fatal("want validation error when overbought <= oversold")
	}
}

func TestLoadRejectsInvertedSMAWindows(t *testing.T) {
	path := writeConfig(t, `
indicators:
  sma_short: 30
  sma_long: 20
`)
	if _, err := Load(path); err == nil {
		t.Fatal("want validation error when sma_short >= sma_long")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: development\n")
	t.Setenv("MODEL_PATH", "/tmp/custom_model.json")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if c.Model.Path != "/tmp/custom_model.json" {
		t.Errorf("model path = %q, want env override", c.Model.Path)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", c.Logging.Level)
	}
}
