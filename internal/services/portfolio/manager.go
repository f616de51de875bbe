// Package portfolio manages the user's asset ledger with simple JSON
// persistence: load-or-default on read, best-effort write.
package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"StratPulse/internal/domain/models"
	"StratPulse/internal/domain/repository"
	"StratPulse/pkg/logger"
)

// ErrAssetNotFound is returned when selling a symbol the portfolio does not
// hold.
var ErrAssetNotFound = errors.New("asset not found in portfolio")

// Manager owns the in-memory portfolio and mirrors every mutation to the
// store. Persistence failures are logged, never surfaced: portfolio
// operations stay available over strict durability.
type Manager struct {
	store repository.PortfolioStore
	log   *logger.Logger

	mu        sync.Mutex
	portfolio models.Portfolio
	now       func() time.Time
}

// NewManager loads the persisted ledger through the store.
func NewManager(store repository.PortfolioStore, log *logger.Logger) *Manager {
	return &Manager{store: store, log: log, portfolio: store.Load(), now: time.Now}
}

// AddAsset records a purchase. Lots for an already-held symbol merge into
// one position with a weighted-average purchase price.
func (m *Manager) AddAsset(symbol string, quantity, purchasePrice float64) (models.Portfolio, error) {
	if quantity <= 0 || purchasePrice <= 0 {
		return models.Portfolio{}, fmt.Errorf("quantity and purchase price must be positive")
	}
	symbol = strings.ToUpper(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing := m.find(symbol); existing != nil {
		totalCost := existing.Quantity*existing.PurchasePrice + quantity*purchasePrice
		existing.Quantity += quantity
		existing.PurchasePrice = totalCost / existing.Quantity
		existing.UpdatedAt = now
	} else {
		m.portfolio.Assets = append(m.portfolio.Assets, models.Asset{
			Symbol:        symbol,
			Quantity:      quantity,
			PurchasePrice: purchasePrice,
			AddedAt:       now,
		})
	}
	m.portfolio.History = append(m.portfolio.History, models.TradeEvent{
		Symbol: symbol, Side: "BUY", Quantity: quantity, Price: purchasePrice, Timestamp: now,
	})

	m.persist()
	if m.log != nil {
		m.log.Info("asset added", logger.String("symbol", symbol), logger.Any("quantity", quantity))
	}
	return m.portfolio, nil
}

// RemoveAsset records a sale, deleting fully-sold positions. Selling an
// unknown symbol or more than is held is an error.
func (m *Manager) RemoveAsset(symbol string, quantity float64) (models.Portfolio, error) {
	if quantity <= 0 {
		return models.Portfolio{}, fmt.Errorf("quantity must be positive")
	}
	symbol = strings.ToUpper(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.find(symbol)
	if existing == nil {
		return models.Portfolio{}, fmt.Errorf("%w: %s", ErrAssetNotFound, symbol)
	}
	if existing.Quantity < quantity {
		return models.Portfolio{}, fmt.Errorf("insufficient quantity of %s: have %v, selling %v",
			symbol, existing.Quantity, quantity)
	}

	price := existing.PurchasePrice
	existing.Quantity -= quantity
	if existing.Quantity <= 0 {
		m.delete(symbol)
	}
	m.portfolio.History = append(m.portfolio.History, models.TradeEvent{
		Symbol: symbol, Side: "SELL", Quantity: quantity, Price: price, Timestamp: m.now(),
	})

	m.persist()
	if m.log != nil {
		m.log.Info("asset removed", logger.String("symbol", symbol), logger.Any("quantity", quantity))
	}
	return m.portfolio, nil
}

// Holdings returns a copy of the current positions.
func (m *Manager) Holdings() []models.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Asset(nil), m.portfolio.Assets...)
}

// Summary returns the full ledger.
func (m *Manager) Summary() models.Portfolio {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.portfolio
	out.Assets = append([]models.Asset(nil), m.portfolio.Assets...)
	out.History = append([]models.TradeEvent(nil), m.portfolio.History...)
	return out
}

// TotalValue prices the portfolio with the given quotes, falling back to
// the purchase price for symbols without a current quote.
func (m *Manager) TotalValue(currentPrices map[string]float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, a := range m.portfolio.Assets {
		price, ok := currentPrices[a.Symbol]
		if !ok {
			price = a.PurchasePrice
		}
		total += a.Quantity * price
	}
	return total
}

func (m *Manager) find(symbol string) *models.Asset {
	for i := range m.portfolio.Assets {
		if m.portfolio.Assets[i].Symbol == symbol {
			return &m.portfolio.Assets[i]
		}
	}
	return nil
}

func (m *Manager) delete(symbol string) {
	assets := m.portfolio.Assets[:0]
	for _, a := range m.portfolio.Assets {
		if a.Symbol != symbol {
			assets = append(assets, a)
		}
	}
	m.portfolio.Assets = assets
}

func (m *Manager) persist() {
	if err := m.store.Save(m.portfolio); err != nil && m.log != nil {
		m.log.Warn("portfolio persist failed", logger.Error(err))
	}
}
