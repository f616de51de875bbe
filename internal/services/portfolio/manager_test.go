package portfolio

import (
	"errors"
	"testing"

	"StratPulse/internal/domain/models"
)

type memStore struct {
	portfolio models.Portfolio
	saves     int
}

func (m *memStore) Load() models.Portfolio { return m.portfolio }

func (m *memStore) Save(p models.Portfolio) error {
	m.portfolio = p
	m.saves++
	return nil
}

func newTestManager() (*Manager, *memStore) {
	store := &memStore{}
	return NewManager(store, nil), store
}

func TestAddAssetMergesLots(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("btc", 1, 100); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	p, err := m.AddAsset("BTC", 1, 200)
	if err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}

	if len(p.Assets) != 1 {
		t.Fatalf("assets = %d, want lots merged into one position", len(p.Assets))
	}
	got := p.Assets[0]
	if got.Symbol != "BTC" {
		t.Errorf("symbol = %q, want upper-cased BTC", got.Symbol)
	}
	if got.Quantity != 2 || got.PurchasePrice != 150 {
		t.Errorf("position = %v @ %v, want 2 @ weighted average 150", got.Quantity, got.PurchasePrice)
	}
	if len(p.History) != 2 {
		t.Errorf("history = %d events, want 2", len(p.History))
	}
}

func TestAddAssetRejectsNonPositive(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("BTC", 0, 100); err == nil {
		t.Error("want error for zero quantity")
	}
	if _, err := m.AddAsset("BTC", 1, -5); err == nil {
		t.Error("want error for negative price")
	}
}

func TestRemoveAssetUnknownSymbol(t *testing.T) {
	m, _ := newTestManager()
	_, err := m.RemoveAsset("ETH", 1)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("err = %v, want ErrAssetNotFound", err)
	}
}

func TestRemoveAssetInsufficientQuantity(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("ETH", 1, 1800); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	if _, err := m.RemoveAsset("ETH", 2); err == nil {
		t.Fatal("want error when selling more than held")
	}
	if got := m.Holdings(); len(got) != 1 || got[0].Quantity != 1 {
		t.Errorf("failed sale must not change the position: %+v", got)
	}
}

func TestRemoveAssetDeletesFullySold(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("ETH", 2, 1800); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	p, err := m.RemoveAsset("eth", 2)
	if err != nil {
		t.Fatalf("RemoveAsset failed: %v", err)
	}
	if len(p.Assets) != 0 {
		t.Errorf("assets = %+v, want fully-sold position removed", p.Assets)
	}
	if len(p.History) != 2 || p.History[1].Side != "SELL" {
		t.Errorf("history = %+v, want BUY then SELL", p.History)
	}
}

func TestTotalValueFallsBackToPurchasePrice(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("BTC", 2, 100); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	if _, err := m.AddAsset("ETH", 1, 50); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}

	// BTC quoted at 120, ETH priced at its purchase price.
	got := m.TotalValue(map[string]float64{"BTC": 120})
	if want := 2*120 + 1*50.0; got != want {
		t.Errorf("total value = %v, want %v", got, want)
	}
}

func TestMutationsPersist(t *testing.T) {
	m, store := newTestManager()
	if _, err := m.AddAsset("BTC", 1, 100); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	if _, err := m.RemoveAsset("BTC", 1); err != nil {
		t.Fatalf("RemoveAsset failed: %v", err)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want one per mutation", store.saves)
	}
	if len(store.portfolio.History) != 2 {
		t.Errorf("persisted history = %d events, want 2", len(store.portfolio.History))
	}
}

func TestSummaryReturnsCopies(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.AddAsset("BTC", 1, 100); err != nil {
		t.Fatalf("AddAsset failed: %v", err)
	}
	s := m.Summary()
	s.Assets[0].Quantity = 999
	if got := m.Holdings()[0].Quantity; got != 1 {
		t.Errorf("mutating the summary leaked into the manager: quantity = %v", got)
	}
}
