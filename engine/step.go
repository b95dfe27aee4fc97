package engine

import "context"

// Step is a unit of work that consumes the shared state and produces an
// updated state. A step may block; streaming mode dispatches it off the
// producer goroutine so a slow step never wedges the event sequence.
type Step interface {
	Name() string
	Run(ctx context.Context, state *State) (*State, error)
}

// StepFunc adapts a plain state-to-state function into a Step.
func StepFunc(name string, fn func(ctx context.Context, state *State) (*State, error)) Step {
	return &funcStep{name: name, fn: fn}
}

type funcStep struct {
	name string
	fn   func(ctx context.Context, state *State) (*State, error)
}

func (s *funcStep) Name() string { return s.name }

func (s *funcStep) Run(ctx context.Context, state *State) (*State, error) {
	return s.fn(ctx, state)
}
