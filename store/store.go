// Package store holds the in-memory graph and run stores. They replace
// ambient process-global maps with injected dependencies: uuid key space,
// created on write, read-only lookups, no cross-restart persistence.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/flowforge/graphrun/engine"
)

// Graphs stores immutable graph definitions by id.
type Graphs struct {
	mu     sync.RWMutex
	graphs map[string]*engine.Graph
}

// NewGraphs creates an empty graph store.
func NewGraphs() *Graphs {
	return &Graphs{graphs: make(map[string]*engine.Graph)}
}

// Create stores a definition under a fresh uuid and returns the id.
func (s *Graphs) Create(g *engine.Graph) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.graphs[id] = g
	s.mu.Unlock()
	return id
}

// Put stores a definition under a caller-chosen id (used for preloaded,
// named workflows).
func (s *Graphs) Put(id string, g *engine.Graph) {
	s.mu.Lock()
	s.graphs[id] = g
	s.mu.Unlock()
}

// Get retrieves a definition by id.
func (s *Graphs) Get(id string) (*engine.Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	return g, ok
}

// RunStatus is the lifecycle state of one run record.
type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
	RunFailed   RunStatus = "failed"
)

// Run is the stored outcome of one graph execution.
type Run struct {
	ID     string            `json:"run_id"`
	Status RunStatus         `json:"status"`
	State  *engine.State     `json:"state"`
	Log    []engine.LogEntry `json:"log"`
	Error  string            `json:"error,omitempty"`
}

// Runs stores run records by id.
type Runs struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewRuns creates an empty run store.
func NewRuns() *Runs {
	return &Runs{runs: make(map[string]Run)}
}

// Create registers a new running record and returns its id.
func (s *Runs) Create(initial *engine.State) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.runs[id] = Run{ID: id, Status: RunRunning, State: initial}
	s.mu.Unlock()
	return id
}

// Finish replaces a record with its terminal result.
func (s *Runs) Finish(id string, state *engine.State, log []engine.LogEntry) {
	s.mu.Lock()
	s.runs[id] = Run{ID: id, Status: RunFinished, State: state, Log: log}
	s.mu.Unlock()
}

// Fail marks a record failed, keeping whatever state was stored last.
func (s *Runs) Fail(id string, err error) {
	s.mu.Lock()
	r := s.runs[id]
	r.ID = id
	r.Status = RunFailed
	r.Error = err.Error()
	s.runs[id] = r
	s.mu.Unlock()
}

// Get retrieves a run record by id.
func (s *Runs) Get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok
}
