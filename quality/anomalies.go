package quality

import (
	"context"
	"math"

	"github.com/flowforge/graphrun/engine"
)

// zThreshold marks numeric outliers: |value - mean| / std above it.
const zThreshold = 3.0

// IdentifyAnomalies scans the dataset for nulls, z-score outliers and
// negative values in columns the metadata declares non-negative. It
// replaces state.Anomalies and refreshes the anomaly counter.
func IdentifyAnomalies(_ context.Context, state *engine.State) (*engine.State, error) {
	anomalies := []engine.Anomaly{}
	nonNegative := map[string]bool{}
	for _, col := range stringList(state.Metadata["non_negative_columns"]) {
		nonNegative[col] = true
	}

	for _, col := range columns(state.Data) {
		vals, valIdx, nullIdx := columnValues(state.Data, col)

		for _, idx := range nullIdx {
			anomalies = append(anomalies, engine.Anomaly{
				RowIndex: idx,
				Column:   col,
				Issue:    "null",
			})
		}

		nums, numeric := numericValues(vals)

		if numeric && len(nums) >= 2 {
			m := mean(nums)
			sd := std(nums)
			if sd > 0 {
				for i, v := range nums {
					if math.Abs(v-m)/sd > zThreshold {
						anomalies = append(anomalies, engine.Anomaly{
							RowIndex: valIdx[i],
							Column:   col,
							Issue:    "z_outlier",
							Value:    vals[i],
						})
					}
				}
			}
		}

		if numeric && nonNegative[col] {
			for i, v := range nums {
				if v < 0 {
					anomalies = append(anomalies, engine.Anomaly{
						RowIndex: valIdx[i],
						Column:   col,
						Issue:    "negative_value",
						Value:    vals[i],
					})
				}
			}
		}
	}

	state.Anomalies = anomalies
	state.AnomalyCount = len(anomalies)
	return state, nil
}
