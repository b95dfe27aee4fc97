package engine

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Graph is an immutable description of a workflow: a start node and an
// edge map. It carries no behavior beyond lookup; node names referencing
// unregistered steps are discovered at execution time.
type Graph struct {
	StartNode string          `json:"start_node" yaml:"start_node"`
	Edges     map[string]Edge `json:"edges" yaml:"edges"`
}

// Edge selects the successor of a node: either an unconditional Next, or
// a Condition whose outcome picks the branch. An empty successor means
// the run terminates after the node.
type Edge struct {
	Next      string
	Condition *Conditional
}

// Conditional gates the successor on a single comparison. Either branch
// may be empty, terminating the run on that outcome.
type Conditional struct {
	Check Check  `json:"check" yaml:"check"`
	True  string `json:"true" yaml:"true"`
	False string `json:"false" yaml:"false"`
}

// Edge returns the outgoing edge for a node. A missing entry is a
// terminal edge.
func (g *Graph) Edge(node string) (Edge, bool) {
	e, ok := g.Edges[node]
	return e, ok
}

// edgeObject is the wire form of a conditional edge.
type edgeObject struct {
	Condition *Conditional `json:"condition" yaml:"condition"`
}

// UnmarshalJSON accepts both wire forms of an edge: a bare successor
// string, or {"condition": {"check": ..., "true": ..., "false": ...}}.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var next string
	if err := json.Unmarshal(data, &next); err == nil {
		*e = Edge{Next: next}
		return nil
	}
	var obj edgeObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("engine: invalid edge: %w", err)
	}
	*e = Edge{Condition: obj.Condition}
	return nil
}

// MarshalJSON writes the same wire forms UnmarshalJSON accepts.
func (e Edge) MarshalJSON() ([]byte, error) {
	if e.Condition != nil {
		return json.Marshal(edgeObject{Condition: e.Condition})
	}
	return json.Marshal(e.Next)
}

// UnmarshalYAML mirrors the JSON edge forms for YAML-defined graphs.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var next string
		if err := value.Decode(&next); err != nil {
			return fmt.Errorf("engine: invalid edge: %w", err)
		}
		*e = Edge{Next: next}
		return nil
	}
	var obj edgeObject
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("engine: invalid edge: %w", err)
	}
	*e = Edge{Condition: obj.Condition}
	return nil
}

// ParseGraph decodes a JSON graph definition.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("engine: parsing graph: %w", err)
	}
	return &g, nil
}
