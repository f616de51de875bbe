package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeJSONFile marshals v and writes it at path, creating parent
// directories. Shared by the drift-reference and portfolio stores, which
// both follow the read-or-default, best-effort write pattern.
func writeJSONFile(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
