package strategy

import (
	"errors"

	"strategy-lab/internal/domain"
)

// Configuration errors. All are raised at construction, before any price
// data is processed; a failing candidate is fatal to itself only.
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrWindowOrder         = errors.New("short_window must be less than long_window")
	ErrThresholdOrder      = errors.New("oversold_threshold must be less than overbought_threshold")
	ErrNonPositiveWindow   = errors.New("window and period parameters must be >= 1")
	ErrWindowTooSmall      = errors.New("window must be >= 2")
	ErrNonPositiveStdDev   = errors.New("std_dev must be > 0")
)

// FromParams creates a Strategy of the given type from a parameter set.
// Parameter names follow the grid definitions in DefinitionFor.
// Returns a configuration error for unknown types or invalid parameters.
func FromParams(strategyType string, params domain.ParameterSet) (Strategy, error) {
	switch strategyType {
	case TypeBuyAndHold:
		return NewBuyAndHold(), nil
	case TypeMACrossover:
		return NewMACrossover(params.Int("short_window"), params.Int("long_window"))
	case TypeRSI:
		return NewRSI(params.Int("period"), params["oversold_threshold"], params["overbought_threshold"])
	case TypeBollingerBands:
		return NewBollingerBands(params.Int("window"), params["std_dev"])
	default:
		return nil, ErrUnknownStrategyType
	}
}
