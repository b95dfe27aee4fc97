package engine

import (
	"context"
	"fmt"
	"time"
)

// Stream executes the graph in streaming mode. It returns a channel of
// execution events produced strictly in execution order, one in flight at
// a time; the channel is closed after exactly one terminal event.
//
// Every failure becomes a terminal error event instead of a returned
// error: a missing step, a step error or panic, and a condition-evaluation
// failure all end the sequence without crashing the host.
//
// Cancelling ctx stops production promptly. An in-flight step is
// abandoned, not interrupted; its goroutine finishes into a buffered
// channel and is collected.
func (e *Engine) Stream(ctx context.Context, g *Graph, reg *Registry, state *State) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		current := g.StartNode
		maxIters := maxIterations(state)

		if !emit(Event{Type: EventStart, Node: current, State: state.Clone()}) {
			return
		}

		for current != "" {
			step, ok := reg.Get(current)
			if !ok {
				emit(Event{
					Type:    EventError,
					Node:    current,
					Message: fmt.Sprintf("step %q not registered", current),
				})
				return
			}

			start := time.Now()
			next, err := dispatch(ctx, step, state)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				emit(Event{Type: EventError, Node: current, Message: err.Error()})
				return
			}
			state = next

			count := state.AnomalyCount
			ok = emit(Event{
				Type:         EventStep,
				Node:         current,
				DurationMS:   float64(time.Since(start)) / float64(time.Millisecond),
				AnomalyCount: &count,
				State:        state.Clone(),
			})
			if !ok {
				return
			}

			successor, err := e.next(g, current, state)
			if err != nil {
				emit(Event{Type: EventError, Node: current, Message: err.Error()})
				return
			}

			if state.Iteration >= maxIters {
				iter := state.Iteration
				emit(Event{
					Type:      EventInfo,
					Message:   fmt.Sprintf("max iterations reached (%d)", maxIters),
					Iteration: &iter,
				})
				return
			}
			current = successor
		}

		emit(Event{Type: EventComplete, State: state.Clone()})
	}()

	return events
}

// dispatch runs a step on its own goroutine and waits for either the
// result or consumer cancellation. The result channel is buffered so an
// abandoned step can still finish and exit.
func dispatch(ctx context.Context, step Step, state *State) (*State, error) {
	type outcome struct {
		state *State
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("step panicked: %v", r)}
			}
		}()
		st, err := step.Run(ctx, state)
		done <- outcome{state: st, err: err}
	}()

	select {
	case out := <-done:
		return out.state, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
