// Package strategy implements the signal generators evaluated by the
// optimizer. Each strategy is a stateless transformation from a price series
// to a signal series; invalid parameters are rejected at construction, never
// during signal generation.
package strategy

import "strategy-lab/internal/domain"

// Strategy type constants
const (
	TypeBuyAndHold     = "BUY_AND_HOLD"
	TypeMACrossover    = "MA_CROSSOVER"
	TypeRSI            = "RSI"
	TypeBollingerBands = "BOLLINGER_BANDS"
)

// Types lists all strategy types in stable order.
var Types = []string{TypeBuyAndHold, TypeMACrossover, TypeRSI, TypeBollingerBands}

// Strategy produces one signal per price observation.
type Strategy interface {
	// Name returns the strategy identifier including its parameters.
	Name() string

	// GenerateSignals transforms a price series into an aligned signal
	// series. The input is shared read-only data and must not be mutated.
	GenerateSignals(prices domain.PriceSeries) domain.SignalSeries
}

// ParamSpec declares one tunable parameter and its default search range.
type ParamSpec struct {
	Name    string
	Default domain.ParameterRange
}

// Definition describes a strategy type to the optimizer: its parameters,
// the default search grid, and the structural validity predicate applied to
// each raw grid combination. Candidates failing Valid are silently excluded
// from the search, they are not errors.
type Definition struct {
	Type   string
	Params []ParamSpec
	Valid  func(domain.ParameterSet) bool
}

// DefaultSpace assembles the default parameter space from the param specs.
func (d Definition) DefaultSpace() domain.ParameterSpace {
	space := make(domain.ParameterSpace, len(d.Params))
	for _, p := range d.Params {
		space[p.Name] = p.Default
	}
	return space
}

// DefinitionFor returns the definition for a strategy type.
// The second return value indicates whether the type is known.
func DefinitionFor(strategyType string) (Definition, bool) {
	switch strategyType {
	case TypeBuyAndHold:
		return Definition{
			Type:  TypeBuyAndHold,
			Valid: func(domain.ParameterSet) bool { return true },
		}, true

	case TypeMACrossover:
		return Definition{
			Type: TypeMACrossover,
			Params: []ParamSpec{
				{Name: "short_window", Default: domain.ParameterRange{Start: 10, End: 100, Step: 10}},
				{Name: "long_window", Default: domain.ParameterRange{Start: 50, End: 300, Step: 25}},
			},
			Valid: func(p domain.ParameterSet) bool {
				return p["short_window"] < p["long_window"]
			},
		}, true

	case TypeRSI:
		return Definition{
			Type: TypeRSI,
			Params: []ParamSpec{
				{Name: "period", Default: domain.ParameterRange{Start: 10, End: 20, Step: 2}},
				{Name: "oversold_threshold", Default: domain.ParameterRange{Start: 20, End: 40, Step: 5}},
				{Name: "overbought_threshold", Default: domain.ParameterRange{Start: 60, End: 80, Step: 5}},
			},
			Valid: func(p domain.ParameterSet) bool {
				return p["oversold_threshold"] < p["overbought_threshold"]
			},
		}, true

	case TypeBollingerBands:
		return Definition{
			Type: TypeBollingerBands,
			Params: []ParamSpec{
				{Name: "window", Default: domain.ParameterRange{Start: 10, End: 50, Step: 5}},
				{Name: "std_dev", Default: domain.ParameterRange{Start: 1.5, End: 3, Step: 0.5}},
			},
			Valid: func(domain.ParameterSet) bool { return true },
		}, true
	}

	return Definition{}, false
}
