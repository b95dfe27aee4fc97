// Package quality implements the data-quality workflow steps: dataset
// profiling, anomaly detection, repair-rule generation and application.
//
// Each step satisfies engine.Step: it receives the shared state, mutates
// it and returns it. RegisterSteps wires all steps into a registry under
// the node names graphs refer to, and DefaultGraph returns the canonical
// profile → identify → generate → apply → re-evaluate loop.
package quality
