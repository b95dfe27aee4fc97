package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/flowforge/graphrun/logger"
)

// DefaultMaxIterations bounds a run when the metadata bag carries no
// "max_iterations" entry.
const DefaultMaxIterations = 5

// Engine is the graph interpreter. It holds no per-run state; distinct
// runs may execute concurrently.
type Engine struct {
	log *logger.Logger
}

// New creates an Engine.
func New(log *logger.Logger) *Engine {
	return &Engine{log: log.WithComponent("engine")}
}

// LogEntry records one executed step: node name, wall-clock bounds and a
// snapshot of the progress counter at that point. The batch log is
// append-only and ordered by execution.
type LogEntry struct {
	Node         string    `json:"node"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	AnomalyCount int       `json:"anomaly_count"`
}

// Run executes the graph in batch mode and returns the final state plus
// the ordered execution log.
//
// A step error or a condition-evaluation failure is fatal: the error is
// returned and no partial results are salvaged. A node missing from the
// registry is not an error: the run truncates and the partial log plus
// the last-known state are returned.
func (e *Engine) Run(ctx context.Context, g *Graph, reg *Registry, state *State) (*State, []LogEntry, error) {
	current := g.StartNode
	maxIters := maxIterations(state)
	var log []LogEntry

	for current != "" {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		step, ok := reg.Get(current)
		if !ok {
			e.log.Warn("step not registered, truncating run", map[string]interface{}{
				"node": current,
			})
			break
		}

		start := time.Now()
		next, err := step.Run(ctx, state)
		if err != nil {
			return nil, nil, fmt.Errorf("engine: step %q: %w", current, err)
		}
		state = next
		log = append(log, LogEntry{
			Node:         current,
			Start:        start,
			End:          time.Now(),
			AnomalyCount: state.AnomalyCount,
		})

		successor, err := e.next(g, current, state)
		if err != nil {
			return nil, nil, err
		}

		// Bound check wins over edge resolution.
		if state.Iteration >= maxIters {
			break
		}
		current = successor
	}

	return state, log, nil
}

// next resolves the outgoing edge of a node against the current state.
func (e *Engine) next(g *Graph, node string, state *State) (string, error) {
	edge, ok := g.Edge(node)
	if !ok {
		return "", nil
	}
	if edge.Condition == nil {
		return edge.Next, nil
	}
	matched, err := EvalCheck(edge.Condition.Check, state)
	if err != nil {
		return "", fmt.Errorf("engine: edge for %q: %w", node, err)
	}
	if matched {
		return edge.Condition.True, nil
	}
	return edge.Condition.False, nil
}
