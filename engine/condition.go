package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCondition marks a condition-evaluation failure: an operand that
// resolves nowhere, or operands that cannot be compared. It is distinct
// from a step failure.
var ErrCondition = errors.New("engine: condition evaluation failed")

// Check is a single binary comparison over one named state field and a
// literal. LHS is resolved against the state's named fields first, then
// against the metadata bag.
type Check struct {
	LHS string `json:"lhs" yaml:"lhs"`
	Op  string `json:"op" yaml:"op"`
	RHS any    `json:"rhs" yaml:"rhs"`
}

// EvalCheck evaluates a comparison against the state.
//
// An unknown operator evaluates to false rather than failing; the original
// wire format relies on that, so callers get a silent false branch for a
// typo'd operator.
func EvalCheck(check Check, state *State) (bool, error) {
	switch check.Op {
	case ">", "<", ">=", "<=", "==":
	default:
		return false, nil
	}

	lhs, ok := resolveOperand(state, check.LHS)
	if !ok {
		return false, fmt.Errorf("%w: operand %q not found on state or metadata", ErrCondition, check.LHS)
	}

	if lf, lok := toFloat(lhs); lok {
		rf, rok := toFloat(check.RHS)
		if !rok {
			return false, fmt.Errorf("%w: cannot compare %q (%T) with %T", ErrCondition, check.LHS, lhs, check.RHS)
		}
		return compareFloat(lf, check.Op, rf), nil
	}

	if ls, lok := lhs.(string); lok {
		rs, rok := check.RHS.(string)
		if !rok {
			return false, fmt.Errorf("%w: cannot compare %q (string) with %T", ErrCondition, check.LHS, check.RHS)
		}
		return compareString(ls, check.Op, rs), nil
	}

	return false, fmt.Errorf("%w: operand %q has non-comparable type %T", ErrCondition, check.LHS, lhs)
}

// resolveOperand looks up a condition operand: named numeric fields on the
// state first, then the metadata bag.
func resolveOperand(state *State, name string) (any, bool) {
	switch name {
	case "anomaly_count":
		return state.AnomalyCount, true
	case "iteration":
		return state.Iteration, true
	}
	v, ok := state.Metadata[name]
	return v, ok
}

func compareFloat(lhs float64, op string, rhs float64) bool {
	switch op {
	case ">":
		return lhs > rhs
	case "<":
		return lhs < rhs
	case ">=":
		return lhs >= rhs
	case "<=":
		return lhs <= rhs
	case "==":
		return lhs == rhs
	}
	return false
}

func compareString(lhs, op, rhs string) bool {
	switch op {
	case ">":
		return lhs > rhs
	case "<":
		return lhs < rhs
	case ">=":
		return lhs >= rhs
	case "<=":
		return lhs <= rhs
	case "==":
		return lhs == rhs
	}
	return false
}

// toFloat coerces the numeric types JSON and YAML decoding produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
