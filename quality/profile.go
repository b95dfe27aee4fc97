package quality

import (
	"context"
	"fmt"
	"math"

	"github.com/flowforge/graphrun/engine"
)

// ProfileData summarizes every dataset column: dtype, null count, distinct
// count, and min/max/mean/std for numeric columns.
func ProfileData(_ context.Context, state *engine.State) (*engine.State, error) {
	profile := make(map[string]engine.ColumnProfile)

	for _, col := range columns(state.Data) {
		vals, _, nullIdx := columnValues(state.Data, col)

		cp := engine.ColumnProfile{
			Dtype:     dtype(vals),
			NullCount: len(nullIdx),
			Unique:    distinct(vals),
		}

		if nums, ok := numericValues(vals); ok && len(nums) > 0 {
			mn, mx := minMax(nums)
			m := mean(nums)
			cp.Min, cp.Max, cp.Mean = &mn, &mx, &m
			if len(nums) >= 2 {
				sd := std(nums)
				cp.Std = &sd
			}
		}

		profile[col] = cp
	}

	state.Profile = profile
	return state, nil
}

// dtype names column types the way a dataframe would: int64 for integral
// numeric columns, float64 for other numeric ones, object otherwise.
func dtype(vals []any) string {
	if len(vals) == 0 {
		return "object"
	}
	if nums, ok := numericValues(vals); ok {
		for _, n := range nums {
			if n != math.Trunc(n) {
				return "float64"
			}
		}
		return "int64"
	}
	allStrings := true
	for _, v := range vals {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		return "object"
	}
	return "mixed"
}

func distinct(vals []any) int {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		// Normalize numerics so 2 and 2.0 collapse.
		if f, ok := asFloat(v); ok {
			seen[fmt.Sprintf("f:%v", f)] = struct{}{}
			continue
		}
		seen[fmt.Sprintf("%T:%v", v, v)] = struct{}{}
	}
	return len(seen)
}
