package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ParameterSet maps parameter names to values for one strategy candidate.
// Integer parameters (windows, periods) are carried as whole-valued floats.
type ParameterSet map[string]float64

// Names returns the parameter names in sorted order.
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Int returns the named parameter truncated to int.
func (p ParameterSet) Int(name string) int {
	return int(p[name])
}

// Clone returns an independent copy.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Compare orders two parameter sets lexicographically: first by sorted
// parameter names, then by the values in name order. It is the deterministic
// tie-break for equally ranked optimization results, so the final ranking
// never depends on evaluation or completion order.
func (p ParameterSet) Compare(other ParameterSet) int {
	a, b := p.Names(), other.Names()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return strings.Compare(a[i], b[i])
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for _, name := range a {
		switch {
		case p[name] < other[name]:
			return -1
		case p[name] > other[name]:
			return 1
		}
	}
	return 0
}

// String renders the set in canonical name order, e.g. "long_window=200 short_window=50".
func (p ParameterSet) String() string {
	parts := make([]string, 0, len(p))
	for _, name := range p.Names() {
		parts = append(parts, fmt.Sprintf("%s=%g", name, p[name]))
	}
	return strings.Join(parts, " ")
}

// ParameterRange describes an inclusive [Start, End] range walked by Step.
type ParameterRange struct {
	Start float64
	End   float64
	Step  float64
}

// Values expands the range into its concrete values. Both endpoints are
// inclusive; a small epsilon absorbs float accumulation at the upper bound.
func (r ParameterRange) Values() []float64 {
	if r.Step <= 0 || r.End < r.Start {
		return nil
	}
	const eps = 1e-9
	var values []float64
	for i := 0; ; i++ {
		v := r.Start + float64(i)*r.Step
		if v > r.End+eps {
			break
		}
		values = append(values, v)
	}
	return values
}

// ParameterSpace declares the grid searched by the optimizer: one range per
// parameter name. The candidate set is the cartesian product of all ranges.
type ParameterSpace map[string]ParameterRange
