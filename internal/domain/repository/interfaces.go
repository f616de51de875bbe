package repository

import (
	"StratPulse/internal/domain/models"
)

// ReferenceStore persists the drift reference buffer. Load never fails:
// a missing or corrupt file yields an empty reference so monitoring can
// self-heal, per the read-or-default durability pattern.
type ReferenceStore interface {
	Load() models.DriftReference
	Save(ref models.DriftReference) error
}

// PortfolioStore persists the asset ledger with the same read-or-default,
// best-effort write semantics.
type PortfolioStore interface {
	Load() models.Portfolio
	Save(p models.Portfolio) error
}

type Metrics interface {
	RecordPrediction(strategy string, confidence float64)
	RecordDriftCheck(monitor string, detected bool)
	RecordReferenceSize(n int)
	RecordError(kind string)
}
