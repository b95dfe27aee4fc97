package quality

import (
	"context"

	"github.com/flowforge/graphrun/engine"
)

// ApplyRules executes the generated rules against the dataset in place
// and appends one applied_actions record per rule.
func ApplyRules(_ context.Context, state *engine.State) (*engine.State, error) {
	for _, rule := range state.Rules {
		switch rule.RuleType {
		case "impute_mean":
			state = imputeMean(state, rule)
		case "impute_mode":
			state = imputeMode(state, rule)
		case "clip":
			state = clip(state, rule)
		}
	}
	return state, nil
}

func imputeMean(state *engine.State, rule engine.Rule) *engine.State {
	vals, _, nullIdx := columnValues(state.Data, rule.Column)
	nums, ok := numericValues(vals)
	if !ok || len(nums) == 0 {
		return state
	}
	fill := mean(nums)
	for _, idx := range nullIdx {
		state.Data[idx][rule.Column] = fill
	}
	state.AppliedActions = append(state.AppliedActions, map[string]any{
		"rule":   ruleRecord(rule),
		"filled": len(nullIdx),
	})
	return state
}

func imputeMode(state *engine.State, rule engine.Rule) *engine.State {
	vals, _, nullIdx := columnValues(state.Data, rule.Column)
	fill, ok := mode(vals)
	if !ok {
		return state
	}
	for _, idx := range nullIdx {
		state.Data[idx][rule.Column] = fill
	}
	state.AppliedActions = append(state.AppliedActions, map[string]any{
		"rule":   ruleRecord(rule),
		"filled": len(nullIdx),
	})
	return state
}

func clip(state *engine.State, rule engine.Rule) *engine.State {
	lo, hasLo := asFloat(rule.Params["min"])
	hi, hasHi := asFloat(rule.Params["max"])

	clipped := 0
	vals, valIdx, _ := columnValues(state.Data, rule.Column)
	for i, v := range vals {
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		switch {
		case hasLo && f < lo:
			state.Data[valIdx[i]][rule.Column] = lo
			clipped++
		case hasHi && f > hi:
			state.Data[valIdx[i]][rule.Column] = hi
			clipped++
		}
	}
	state.AppliedActions = append(state.AppliedActions, map[string]any{
		"rule":    ruleRecord(rule),
		"clipped": clipped,
	})
	return state
}

func ruleRecord(rule engine.Rule) map[string]any {
	rec := map[string]any{
		"column":    rule.Column,
		"rule_type": rule.RuleType,
	}
	if rule.Params != nil {
		rec["params"] = rule.Params
	}
	return rec
}
