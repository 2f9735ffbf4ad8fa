package gamerules

import "testing"

func TestValidator_Combinators(t *testing.T) {
	even := Validator[int](func(i int) bool { return i%2 == 0 })
	positive := Validator[int](func(i int) bool { return i > 0 })

	inputs := []int{-3, -2, 0, 1, 2, 7, 8}
	for _, x := range inputs {
		if got, want := even.And(positive)(x), even(x) && positive(x); got != want {
			t.Errorf("And(%d) = %v, want %v", x, got, want)
		}
		if got, want := even.Or(positive)(x), even(x) || positive(x); got != want {
			t.Errorf("Or(%d) = %v, want %v", x, got, want)
		}
		if got, want := even.Xor(positive)(x), even(x) != positive(x); got != want {
			t.Errorf("Xor(%d) = %v, want %v", x, got, want)
		}
		if got, want := even.Not()(x), !even(x); got != want {
			t.Errorf("Not(%d) = %v, want %v", x, got, want)
		}
		if got := even.Validate(x); got != even(x) {
			t.Errorf("Validate(%d) = %v, want %v", x, got, even(x))
		}
	}
}

func TestAlwaysTrue(t *testing.T) {
	v := AlwaysTrue[string]()
	for _, s := range []string{"", "x", "anything at all"} {
		if !v(s) {
			t.Errorf("AlwaysTrue rejected %q", s)
		}
	}
}

func TestAdapter_And(t *testing.T) {
	double := Adapter[int](func(i int) (int, bool) { return i * 2, true })
	inc := Adapter[int](func(i int) (int, bool) { return i + 1, true })
	refuseNegative := Adapter[int](func(i int) (int, bool) { return i, i >= 0 })

	tests := []struct {
		name    string
		adapter Adapter[int]
		input   int
		want    int
		wantOK  bool
	}{
		{"double then inc", double.And(inc), 3, 7, true},
		{"inc then double", inc.And(double), 3, 8, true},
		{"first refuses", refuseNegative.And(inc), -1, 0, false},
		{"second refuses", inc.And(refuseNegative), -5, 0, false},
		{"identity is neutral", Identity[int]().And(inc), 1, 2, true},
		{"reject short-circuits", Reject[int]().And(inc), 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.adapter.Adapt(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Adapt(%d) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Adapt(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	va := Combine(
		Validator[int](func(i int) bool { return i < 10 }),
		Adapter[int](func(int) (int, bool) { return 9, true }),
	)
	if !va.Validate(3) || va.Validate(12) {
		t.Error("Combine did not keep the validator")
	}
	if got, ok := va.Adapt(12); !ok || got != 9 {
		t.Errorf("Adapt(12) = %d, %v; want 9, true", got, ok)
	}
}
