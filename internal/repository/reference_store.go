package repository

import (
	"encoding/json"
	"os"
	"sync"

	"StratPulse/internal/domain/models"
	domrepo "StratPulse/internal/domain/repository"
	"StratPulse/pkg/logger"
)

// FileReferenceStore persists the drift reference as plain JSON:
// {"predictions": [float], "actions": [string]}. A mutex serializes the
// read-modify-write cycle so concurrent updaters cannot drop entries;
// single-writer discipline per storage path.
type FileReferenceStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewFileReferenceStore(path string, log *logger.Logger) *FileReferenceStore {
	return &FileReferenceStore{path: path, log: log}
}

// Load reads the persisted reference. A missing file is a normal first run;
// unreadable or corrupt data degrades to an empty reference with a warning
// so monitoring self-heals instead of failing.
func (s *FileReferenceStore) Load() models.DriftReference {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := models.DriftReference{Predictions: []float64{}, Actions: []string{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.log != nil {
			s.log.Warn("drift reference unreadable, starting empty", logger.Error(err))
		}
		return empty
	}
	var ref models.DriftReference
	if err := json.Unmarshal(b, &ref); err != nil {
		if s.log != nil {
			s.log.Warn("drift reference corrupt, starting empty",
				logger.String("path", s.path), logger.Error(err))
		}
		return empty
	}
	if ref.Predictions == nil {
		ref.Predictions = []float64{}
	}
	if ref.Actions == nil {
		ref.Actions = []string{}
	}
	return ref
}

// Save writes the reference buffer. Callers treat failures as non-fatal.
func (s *FileReferenceStore) Save(ref models.DriftReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.path, ref)
}

var _ domrepo.ReferenceStore = (*FileReferenceStore)(nil)
