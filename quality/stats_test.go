package quality

import (
	"math"
	"testing"
)

func TestStdIsSampleDeviation(t *testing.T) {
	got := std([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.138089935299395
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("std = %v, want %v", got, want)
	}
	if std([]float64{3}) != 0 {
		t.Fatal("std of a single value must be 0")
	}
}

func TestModeTieBreak(t *testing.T) {
	got, ok := mode([]any{"b", "a", "b", "a"})
	if !ok || got != "a" {
		t.Fatalf("mode = (%v, %v), want deterministic smaller value a", got, ok)
	}
}

func TestDtype(t *testing.T) {
	cases := []struct {
		vals []any
		want string
	}{
		{[]any{1, 2, 3}, "int64"},
		{[]any{1.5, 2}, "float64"},
		{[]any{"x", "y"}, "object"},
		{[]any{"x", 1}, "mixed"},
		{nil, "object"},
	}
	for _, tc := range cases {
		if got := dtype(tc.vals); got != tc.want {
			t.Errorf("dtype(%v) = %q, want %q", tc.vals, got, tc.want)
		}
	}
}

func TestColumnValuesSkipsMissingAndNull(t *testing.T) {
	rows := []map[string]any{
		{"a": 1},
		{"a": nil},
		{},
		{"a": 4},
	}
	vals, valIdx, nullIdx := columnValues(rows, "a")
	if len(vals) != 2 || valIdx[0] != 0 || valIdx[1] != 3 {
		t.Fatalf("vals = %v at %v", vals, valIdx)
	}
	if len(nullIdx) != 2 || nullIdx[0] != 1 || nullIdx[1] != 2 {
		t.Fatalf("nullIdx = %v, want missing keys counted as null", nullIdx)
	}
}
