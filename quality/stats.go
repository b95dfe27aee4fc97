package quality

import (
	"fmt"
	"math"
	"sort"
)

// asFloat coerces the scalar types dataset cells carry after JSON
// decoding or literal construction.
func asFloat(v any) (float64, bool) {
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
	}
	return 0, false
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// std is the sample standard deviation (N-1 denominator).
func std(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func minMax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

// mode returns the most frequent value; ties break on the smaller
// formatted value so repeated runs agree.
func mode(vals []any) (any, bool) {
	if len(vals) == 0 {
		return nil, false
	}
	counts := make(map[string]int, len(vals))
	byKey := make(map[string]any, len(vals))
	for _, v := range vals {
		k := fmt.Sprintf("%v", v)
		counts[k]++
		if _, seen := byKey[k]; !seen {
			byKey[k] = v
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return byKey[best], true
}

// columns returns the union of row keys in sorted order.
func columns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// columnValues splits one column into non-null values (with their row
// indices) and null row indices. A missing key counts as null.
func columnValues(rows []map[string]any, col string) (vals []any, valIdx []int, nullIdx []int) {
	for i, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			nullIdx = append(nullIdx, i)
			continue
		}
		vals = append(vals, v)
		valIdx = append(valIdx, i)
	}
	return vals, valIdx, nullIdx
}

// numericValues filters a column's non-null values down to floats.
// ok is false when any non-null value is not numeric.
func numericValues(vals []any) ([]float64, bool) {
	nums := make([]float64, 0, len(vals))
	for _, v := range vals {
		f, isNum := asFloat(v)
		if !isNum {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, true
}

// stringList reads a metadata value as a list of strings, accepting both
// []string and the []any that JSON decoding produces.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
