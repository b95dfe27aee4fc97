package engine

// Anomaly marks a single problematic cell in the dataset.
type Anomaly struct {
	RowIndex int    `json:"row_index"`
	Column   string `json:"column"`
	Issue    string `json:"issue"`
	Value    any    `json:"value,omitempty"`
}

// Rule describes a repair action for one column, e.g. "impute_mean",
// "impute_mode" or "clip".
type Rule struct {
	Column   string         `json:"column"`
	RuleType string         `json:"rule_type"`
	Params   map[string]any `json:"params,omitempty"`
}

// ColumnProfile summarizes one dataset column. The numeric fields are nil
// for non-numeric or empty columns.
type ColumnProfile struct {
	Dtype     string   `json:"dtype"`
	NullCount int      `json:"null_count"`
	Unique    int      `json:"unique"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
	Std       *float64 `json:"std,omitempty"`
}

// State is the shared mutable state threaded through a run. It is owned
// exclusively by the engine for the run's duration: each step receives it,
// mutates or replaces it, and returns it.
//
// The engine itself reads only Iteration, Metadata and AnomalyCount; all
// other fields belong to the steps.
type State struct {
	Data           []map[string]any         `json:"data"`
	Profile        map[string]ColumnProfile `json:"profile,omitempty"`
	Anomalies      []Anomaly                `json:"anomalies"`
	Rules          []Rule                   `json:"rules"`
	AppliedActions []map[string]any         `json:"applied_actions"`
	AnomalyCount   int                      `json:"anomaly_count"`
	Metadata       map[string]any           `json:"metadata"`
	Iteration      int                      `json:"iteration"`
}

// NewState creates an empty state with initialized containers.
func NewState() *State {
	return &State{
		Data:           []map[string]any{},
		Anomalies:      []Anomaly{},
		Rules:          []Rule{},
		AppliedActions: []map[string]any{},
		Metadata:       map[string]any{},
	}
}

// Clone returns a deep copy of the state. Streaming mode snapshots the
// state into events with Clone so a later step cannot mutate an event the
// consumer has not serialized yet.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := &State{
		AnomalyCount: s.AnomalyCount,
		Iteration:    s.Iteration,
	}
	if s.Data != nil {
		c.Data = make([]map[string]any, len(s.Data))
		for i, row := range s.Data {
			nr := make(map[string]any, len(row))
			for k, v := range row {
				nr[k] = v
			}
			c.Data[i] = nr
		}
	}
	if s.Profile != nil {
		c.Profile = make(map[string]ColumnProfile, len(s.Profile))
		for k, v := range s.Profile {
			c.Profile[k] = v
		}
	}
	if s.Anomalies != nil {
		c.Anomalies = append([]Anomaly(nil), s.Anomalies...)
	}
	if s.Rules != nil {
		c.Rules = make([]Rule, len(s.Rules))
		for i, r := range s.Rules {
			nr := r
			if r.Params != nil {
				nr.Params = make(map[string]any, len(r.Params))
				for k, v := range r.Params {
					nr.Params[k] = v
				}
			}
			c.Rules[i] = nr
		}
	}
	if s.AppliedActions != nil {
		c.AppliedActions = make([]map[string]any, len(s.AppliedActions))
		for i, a := range s.AppliedActions {
			na := make(map[string]any, len(a))
			for k, v := range a {
				na[k] = v
			}
			c.AppliedActions[i] = na
		}
	}
	if s.Metadata != nil {
		c.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// maxIterations reads the iteration bound from the metadata bag,
// defaulting when absent or malformed.
func maxIterations(s *State) int {
	if v, ok := s.Metadata["max_iterations"]; ok {
		if f, ok := toFloat(v); ok {
			return int(f)
		}
	}
	return DefaultMaxIterations
}
