package models

import "time"

// Asset is a single aggregated position. Lots for the same symbol are merged
// with a weighted-average purchase price.
type Asset struct {
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	AddedAt       time.Time `json:"added_at"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// TradeEvent records a portfolio mutation in the history log.
type TradeEvent struct {
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"` // "BUY" or "SELL"
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Portfolio is the persisted ledger: {"assets": [...], "history": [...]}.
type Portfolio struct {
	Assets  []Asset      `json:"assets"`
	History []TradeEvent `json:"history"`
}
