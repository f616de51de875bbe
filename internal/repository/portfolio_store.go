package repository

import (
	"encoding/json"
	"os"
	"sync"

	"StratPulse/internal/domain/models"
	domrepo "StratPulse/internal/domain/repository"
	"StratPulse/pkg/logger"
)

// FilePortfolioStore persists the asset ledger as plain JSON:
// {"assets": [...], "history": [...]}. Same durability pattern as the
// drift reference store.
type FilePortfolioStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewFilePortfolioStore(path string, log *logger.Logger) *FilePortfolioStore {
	return &FilePortfolioStore{path: path, log: log}
}

// Load reads the persisted portfolio, degrading corrupt state to an empty
// ledger with a warning.
func (s *FilePortfolioStore) Load() models.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := models.Portfolio{Assets: []models.Asset{}, History: []models.TradeEvent{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) && s.log != nil {
			s.log.Warn("portfolio unreadable, starting empty", logger.Error(err))
		}
		return empty
	}
	var p models.Portfolio
	if err := json.Unmarshal(b, &p); err != nil {
		if s.log != nil {
			s.log.Warn("portfolio corrupt, starting empty",
				logger.String("path", s.path), logger.Error(err))
		}
		return empty
	}
	if p.Assets == nil {
		p.Assets = []models.Asset{}
	}
	if p.History == nil {
		p.History = []models.TradeEvent{}
	}
	return p
}

// Save writes the ledger. Callers treat failures as non-fatal.
func (s *FilePortfolioStore) Save(p models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.path, p)
}

var _ domrepo.PortfolioStore = (*FilePortfolioStore)(nil)
