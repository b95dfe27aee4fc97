package engine

// EventType identifies one kind of streaming execution event.
type EventType string

const (
	EventStart    EventType = "start"
	EventStep     EventType = "step"
	EventError    EventType = "error"
	EventInfo     EventType = "info"
	EventComplete EventType = "complete"
)

// Event is one unit of the streaming mode's output: a tagged variant over
// {start, step, error, info, complete}. Exactly one terminal event
// (error, info or complete) ends every run and nothing follows it.
//
// Pointer fields distinguish "absent" from a meaningful zero (a step may
// legitimately report anomaly_count 0).
type Event struct {
	Type         EventType `json:"type"`
	Node         string    `json:"node,omitempty"`
	Message      string    `json:"message,omitempty"`
	DurationMS   float64   `json:"duration_ms,omitempty"`
	Iteration    *int      `json:"iteration,omitempty"`
	AnomalyCount *int      `json:"anomaly_count,omitempty"`
	State        *State    `json:"state,omitempty"`
}

// Terminal reports whether the event ends its run.
func (ev Event) Terminal() bool {
	switch ev.Type {
	case EventError, EventInfo, EventComplete:
		return true
	}
	return false
}
