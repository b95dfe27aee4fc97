package quality

import (
	"context"
	"sort"
	"strings"

	"github.com/flowforge/graphrun/engine"
)

// GenerateRules derives repair rules from the current profile:
// impute_mean/impute_mode for columns with nulls, and clip rules bounding
// numeric columns to their observed range. For columns the metadata
// declares non-negative the clip floor is raised to zero so negative
// values actually get repaired.
func GenerateRules(_ context.Context, state *engine.State) (*engine.State, error) {
	rules := []engine.Rule{}
	nonNegative := map[string]bool{}
	for _, col := range stringList(state.Metadata["non_negative_columns"]) {
		nonNegative[col] = true
	}

	cols := make([]string, 0, len(state.Profile))
	for col := range state.Profile {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		cp := state.Profile[col]

		if cp.NullCount > 0 {
			if isNumericDtype(cp.Dtype) {
				rules = append(rules, engine.Rule{Column: col, RuleType: "impute_mean"})
			} else {
				rules = append(rules, engine.Rule{Column: col, RuleType: "impute_mode"})
			}
		}

		if cp.Std != nil && *cp.Std != 0 && cp.Min != nil && cp.Max != nil {
			lo := *cp.Min
			if nonNegative[col] && lo < 0 {
				lo = 0
			}
			rules = append(rules, engine.Rule{
				Column:   col,
				RuleType: "clip",
				Params:   map[string]any{"min": lo, "max": *cp.Max},
			})
		}
	}

	state.Rules = rules
	return state, nil
}

func isNumericDtype(dtype string) bool {
	return strings.HasPrefix(dtype, "float") || strings.HasPrefix(dtype, "int")
}
