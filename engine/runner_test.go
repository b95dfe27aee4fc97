package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/flowforge/graphrun/logger"
)

func testEngine() *Engine {
	return New(logger.New(logger.Config{Level: "error"}, "test"))
}

// incStep returns a step that bumps the iteration counter.
func incStep(name string) Step {
	return StepFunc(name, func(_ context.Context, s *State) (*State, error) {
		s.Iteration++
		return s, nil
	})
}

// identityStep returns its input unchanged.
func identityStep(name string) Step {
	return StepFunc(name, func(_ context.Context, s *State) (*State, error) {
		return s, nil
	})
}

func logNodes(log []LogEntry) []string {
	nodes := make([]string, len(log))
	for i, entry := range log {
		nodes[i] = entry.Node
	}
	return nodes
}

func TestRunExampleScenario(t *testing.T) {
	// A decrements x and advances iteration, B loops back while x > 0:
	// x goes 2 -> 1 -> 0, so the check after the second B sees 0 > 0 and
	// terminates on the false branch, well before the bound.
	g := &Graph{
		StartNode: "A",
		Edges: map[string]Edge{
			"A": {Next: "B"},
			"B": {Condition: &Conditional{
				Check: Check{LHS: "x", Op: ">", RHS: 0},
				True:  "A",
			}},
		},
	}
	reg := NewRegistry()
	reg.Register(StepFunc("A", func(_ context.Context, s *State) (*State, error) {
		s.Metadata["x"] = s.Metadata["x"].(float64) - 1
		s.Iteration++
		return s, nil
	}))
	reg.Register(identityStep("B"))

	state := NewState()
	state.Metadata["x"] = float64(2)

	final, log, err := testEngine().Run(context.Background(), g, reg, state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"A", "B", "A", "B"}
	got := logNodes(log)
	if len(got) != len(want) {
		t.Fatalf("executed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("executed %v, want %v", got, want)
		}
	}
	if x := final.Metadata["x"].(float64); x != 0 {
		t.Errorf("x = %v, want 0", x)
	}
	if final.Iteration != 2 {
		t.Errorf("iteration = %d, want 2", final.Iteration)
	}
}

func TestRunDefaultBound(t *testing.T) {
	// Self-loop with no max_iterations in metadata: the default bound of 5
	// must stop the run in both a fresh and an already-advanced state.
	g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "A"}}}
	reg := NewRegistry()
	reg.Register(incStep("A"))

	final, log, err := testEngine().Run(context.Background(), g, reg, NewState())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(log) != DefaultMaxIterations {
		t.Fatalf("log length = %d, want %d", len(log), DefaultMaxIterations)
	}
	if final.Iteration != DefaultMaxIterations {
		t.Fatalf("iteration = %d, want %d", final.Iteration, DefaultMaxIterations)
	}
}

func TestRunMetadataBound(t *testing.T) {
	g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "A"}}}
	reg := NewRegistry()
	reg.Register(incStep("A"))

	state := NewState()
	state.Metadata["max_iterations"] = 2

	final, log, err := testEngine().Run(context.Background(), g, reg, state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("log length = %d, want 2", len(log))
	}
	if final.Iteration != 2 {
		t.Fatalf("iteration = %d, want 2", final.Iteration)
	}
}

func TestRunBoundWinsOverEdge(t *testing.T) {
	// Starting at or past the bound, the run stops after a single step no
	// matter what the edge resolves to, even for identity steps.
	for _, start := range []int{5, 8} {
		g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "A"}}}
		reg := NewRegistry()
		reg.Register(identityStep("A"))

		state := NewState()
		state.Iteration = start

		_, log, err := testEngine().Run(context.Background(), g, reg, state)
		if err != nil {
			t.Fatalf("start %d: run: %v", start, err)
		}
		if len(log) != 1 {
			t.Fatalf("start %d: log length = %d, want 1", start, len(log))
		}
	}
}

func TestRunMissingStepTruncates(t *testing.T) {
	g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "ghost"}}}
	reg := NewRegistry()
	reg.Register(StepFunc("A", func(_ context.Context, s *State) (*State, error) {
		s.AnomalyCount = 7
		return s, nil
	}))

	final, log, err := testEngine().Run(context.Background(), g, reg, NewState())
	if err != nil {
		t.Fatalf("missing step must not fail batch mode: %v", err)
	}
	if len(log) != 1 || log[0].Node != "A" {
		t.Fatalf("log = %v, want single entry for A", logNodes(log))
	}
	if final.AnomalyCount != 7 {
		t.Fatalf("final state must be the state after the last executed node, got anomaly_count %d", final.AnomalyCount)
	}
	if log[0].AnomalyCount != 7 {
		t.Fatalf("log entry snapshot = %d, want 7", log[0].AnomalyCount)
	}
}

func TestRunStepErrorIsFatal(t *testing.T) {
	g := &Graph{StartNode: "A", Edges: map[string]Edge{}}
	reg := NewRegistry()
	stepErr := errors.New("bad input row")
	reg.Register(StepFunc("A", func(_ context.Context, s *State) (*State, error) {
		return nil, stepErr
	}))

	final, log, err := testEngine().Run(context.Background(), g, reg, NewState())
	if !errors.Is(err, stepErr) {
		t.Fatalf("expected step error, got %v", err)
	}
	if final != nil || log != nil {
		t.Fatal("no partial results on a fatal run")
	}
}

func TestRunConditionErrorIsFatal(t *testing.T) {
	g := &Graph{
		StartNode: "A",
		Edges: map[string]Edge{
			"A": {Condition: &Conditional{
				Check: Check{LHS: "no_such_field", Op: ">", RHS: 0},
				True:  "A",
			}},
		},
	}
	reg := NewRegistry()
	reg.Register(identityStep("A"))

	_, _, err := testEngine().Run(context.Background(), g, reg, NewState())
	if !errors.Is(err, ErrCondition) {
		t.Fatalf("expected ErrCondition, got %v", err)
	}
}

func TestRunEmptyStartNode(t *testing.T) {
	g := &Graph{Edges: map[string]Edge{}}
	final, log, err := testEngine().Run(context.Background(), g, NewRegistry(), NewState())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final == nil || len(log) != 0 {
		t.Fatalf("expected untouched state and empty log, got log %v", logNodes(log))
	}
}

func TestRunCancelledContext(t *testing.T) {
	g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "A"}}}
	reg := NewRegistry()
	reg.Register(identityStep("A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testEngine().Run(ctx, g, reg, NewState())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunsAreIndependent(t *testing.T) {
	// Distinct runs over distinct states share nothing; run a few
	// concurrently against the same engine and registry.
	g := &Graph{StartNode: "A", Edges: map[string]Edge{"A": {Next: "A"}}}
	reg := NewRegistry()
	reg.Register(incStep("A"))
	eng := testEngine()

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			final, _, err := eng.Run(context.Background(), g, reg, NewState())
			if err == nil && final.Iteration != DefaultMaxIterations {
				err = fmt.Errorf("iteration = %d, want %d", final.Iteration, DefaultMaxIterations)
			}
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
