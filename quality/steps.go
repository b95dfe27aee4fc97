package quality

import (
	"context"

	"github.com/flowforge/graphrun/engine"
)

// Step names the graphs refer to.
const (
	StepProfileData       = "profile_data"
	StepIdentifyAnomalies = "identify_anomalies"
	StepGenerateRules     = "generate_rules"
	StepApplyRules        = "apply_rules"
	StepReEvaluate        = "re_evaluate"
)

// ReEvaluate bumps the iteration counter and re-runs profiling and anomaly
// detection so the graph's loop condition sees fresh numbers.
func ReEvaluate(ctx context.Context, state *engine.State) (*engine.State, error) {
	state.Iteration++
	state, err := ProfileData(ctx, state)
	if err != nil {
		return nil, err
	}
	return IdentifyAnomalies(ctx, state)
}

// RegisterSteps wires every data-quality step into the registry.
func RegisterSteps(reg *engine.Registry) {
	reg.Register(engine.StepFunc(StepProfileData, ProfileData))
	reg.Register(engine.StepFunc(StepIdentifyAnomalies, IdentifyAnomalies))
	reg.Register(engine.StepFunc(StepGenerateRules, GenerateRules))
	reg.Register(engine.StepFunc(StepApplyRules, ApplyRules))
	reg.Register(engine.StepFunc(StepReEvaluate, ReEvaluate))
}

// GraphName is the identifier the built-in workflow is stored under.
const GraphName = "data_quality"

// DefaultGraph returns the canonical data-quality workflow: a linear
// profiling pipeline that loops back to rule generation while anomalies
// remain.
func DefaultGraph() *engine.Graph {
	return &engine.Graph{
		StartNode: StepProfileData,
		Edges: map[string]engine.Edge{
			StepProfileData:       {Next: StepIdentifyAnomalies},
			StepIdentifyAnomalies: {Next: StepGenerateRules},
			StepGenerateRules:     {Next: StepApplyRules},
			StepApplyRules:        {Next: StepReEvaluate},
			StepReEvaluate: {Condition: &engine.Conditional{
				Check: engine.Check{LHS: "anomaly_count", Op: ">", RHS: 0},
				True:  StepGenerateRules,
			}},
		},
	}
}
