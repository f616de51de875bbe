package forest

import "errors"

// Classifier errors. Both are fatal to the calling operation and surface
// unchanged; drift-style degradation does not apply to model state.
var (
	// ErrInsufficientData is returned by Train when zero valid samples
	// remain after the ambiguous-row filter.
	ErrInsufficientData = errors.New("no valid training samples")

	// ErrModelLoad is returned by Load on a missing or corrupt artifact.
	ErrModelLoad = errors.New("model artifact load failed")

	// ErrModelNotTrained is returned by prediction calls before a model
	// has been trained or loaded.
	ErrModelNotTrained = errors.New("model not trained")
)
