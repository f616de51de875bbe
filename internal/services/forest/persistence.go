package forest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StratPulse/pkg/logger"
)

// artifact is the serialized model state: the fitted trees plus the ordered
// feature list the model was fit on. It round-trips through Save/Load and
// is never mutated after fit except by re-training.
type artifact struct {
	Features []string `json:"features"`
	Config   Config   `json:"config"`
	Trees    []*node  `json:"trees"`
}

// Save writes the fitted model to path, creating parent directories.
func (c *Classifier) Save(path string) error {
	if !c.Fitted() {
		return ErrModelNotTrained
	}
	b, err := json.Marshal(artifact{Features: c.features, Config: c.cfg, Trees: c.trees})
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if c.log != nil {
		c.log.Info("model saved", logger.String("path", path))
	}
	return nil
}

// Load replaces the classifier state with a persisted artifact. A missing
// or corrupt file is ErrModelLoad; partial state is never installed.
func (c *Classifier) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrModelLoad, path, err)
	}
	var a artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrModelLoad, path, err)
	}
	if len(a.Trees) == 0 || len(a.Features) == 0 {
		return fmt.Errorf("%w: artifact %s holds no fitted model", ErrModelLoad, path)
	}
	c.features = a.Features
	c.trees = a.Trees
	if a.Config.NumTrees > 0 {
		c.cfg = a.Config
	}
	if c.log != nil {
		c.log.Info("model loaded", logger.String("path", path), logger.Int("trees", len(a.Trees)))
	}
	return nil
}
