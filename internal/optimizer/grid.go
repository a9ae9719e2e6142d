package optimizer

import (
	"sort"

	"strategy-lab/internal/domain"
)

// Enumerate expands a parameter space into the cartesian product of all
// declared ranges. Parameter names are walked in sorted order and the last
// name varies fastest, so the candidate order is deterministic. A space with
// no parameters yields the single empty set, which is how parameterless
// strategies get their one candidate.
func Enumerate(space domain.ParameterSpace) []domain.ParameterSet {
	if len(space) == 0 {
		return []domain.ParameterSet{{}}
	}

	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([][]float64, len(names))
	total := 1
	for i, name := range names {
		values[i] = space[name].Values()
		if len(values[i]) == 0 {
			// A degenerate range empties the whole product.
			return nil
		}
		total *= len(values[i])
	}

	candidates := make([]domain.ParameterSet, 0, total)
	indices := make([]int, len(names))
	for {
		candidate := make(domain.ParameterSet, len(names))
		for i, name := range names {
			candidate[name] = values[i][indices[i]]
		}
		candidates = append(candidates, candidate)

		// Advance the odometer, last position fastest.
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(values[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return candidates
		}
	}
}
