package predict

import "errors"

var (
	// ErrInvalidWeights rejects a customized weight set that does not sum
	// to 1.0. Weights are never silently renormalized.
	ErrInvalidWeights = errors.New("signal weights must sum to 1.0")

	// ErrInvalidConfig rejects malformed cutpoints or thresholds.
	ErrInvalidConfig = errors.New("invalid predictor configuration")

	// ErrInsufficientSignals is returned when all four signals are
	// missing. Partially missing signals are substituted with a neutral
	// default instead; only a fully empty set is unrecoverable.
	ErrInsufficientSignals = errors.New("insufficient signal data: all signals missing")

	// ErrSignalOutOfRange rejects a signal score outside [0,100].
	ErrSignalOutOfRange = errors.New("signal score outside [0,100]")
)
