package domain

import "testing"

func TestParameterRangeValues_Inclusive(t *testing.T) {
	r := ParameterRange{Start: 10, End: 30, Step: 10}
	values := r.Values()
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d: %v", len(values), values)
	}
	if values[0] != 10 || values[1] != 20 || values[2] != 30 {
		t.Errorf("expected [10 20 30], got %v", values)
	}
}

func TestParameterRangeValues_StepOvershoot(t *testing.T) {
	// End is not on the step grid: last value must not exceed End.
	r := ParameterRange{Start: 5, End: 14, Step: 4}
	values := r.Values()
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %v", values)
	}
	if values[2] != 13 {
		t.Errorf("expected last value 13, got %g", values[2])
	}
}

func TestParameterRangeValues_FractionalStep(t *testing.T) {
	r := ParameterRange{Start: 1.0, End: 3.0, Step: 0.5}
	values := r.Values()
	if len(values) != 5 {
		t.Fatalf("expected 5 values, got %v", values)
	}
	// Float accumulation must not drop the inclusive upper bound.
	if values[4] < 2.9999999 {
		t.Errorf("expected final value 3.0, got %g", values[4])
	}
}

func TestParameterRangeValues_Degenerate(t *testing.T) {
	if got := (ParameterRange{Start: 10, End: 5, Step: 1}).Values(); got != nil {
		t.Errorf("inverted range should yield nil, got %v", got)
	}
	if got := (ParameterRange{Start: 1, End: 10, Step: 0}).Values(); got != nil {
		t.Errorf("zero step should yield nil, got %v", got)
	}
	if got := (ParameterRange{Start: 7, End: 7, Step: 1}).Values(); len(got) != 1 || got[0] != 7 {
		t.Errorf("single-point range should yield [7], got %v", got)
	}
}

func TestParameterSetCompare(t *testing.T) {
	a := ParameterSet{"long_window": 100, "short_window": 20}
	b := ParameterSet{"long_window": 100, "short_window": 40}
	c := ParameterSet{"long_window": 100, "short_window": 20}

	if a.Compare(b) >= 0 {
		t.Error("a should sort before b (smaller short_window)")
	}
	if b.Compare(a) <= 0 {
		t.Error("b should sort after a")
	}
	if a.Compare(c) != 0 {
		t.Error("identical sets should compare equal")
	}
}

func TestParameterSetCompare_ValueOrderFollowsNameOrder(t *testing.T) {
	// long_window sorts before short_window, so it is compared first even
	// though short_window differs more.
	a := ParameterSet{"short_window": 90, "long_window": 100}
	b := ParameterSet{"short_window": 10, "long_window": 200}
	if a.Compare(b) >= 0 {
		t.Error("comparison must follow sorted name order, long_window first")
	}
}

func TestParameterSetString_Canonical(t *testing.T) {
	p := ParameterSet{"short_window": 50, "long_window": 200}
	want := "long_window=200 short_window=50"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPriceSeriesValidate(t *testing.T) {
	good := PriceSeries{{TimestampMs: 1, Price: 10}, {TimestampMs: 2, Price: 11}}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	dup := PriceSeries{{TimestampMs: 1, Price: 10}, {TimestampMs: 1, Price: 11}}
	if err := dup.Validate(); err != ErrUnorderedSeries {
		t.Errorf("expected ErrUnorderedSeries for duplicate timestamp, got %v", err)
	}

	neg := PriceSeries{{TimestampMs: 1, Price: -1}}
	if err := neg.Validate(); err != ErrNonPositivePrice {
		t.Errorf("expected ErrNonPositivePrice, got %v", err)
	}
}
