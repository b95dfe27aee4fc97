// Package engine executes a directed graph of named processing steps over
// a single shared mutable state, advancing along static or conditional
// edges until a terminal node or the iteration bound is reached.
//
// Two execution modes share the same graph and the same semantics:
//   - Run: batch: returns the final state plus an ordered execution log,
//     failing fast on step or condition errors
//   - Stream: produces a lazy, ordered sequence of execution events and
//     converts every failure into a terminal error event (fail-soft)
//
// Steps are looked up by name from a Registry supplied per run; the engine
// never mutates the graph or the registry.
package engine
