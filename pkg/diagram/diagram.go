package diagram

import (
	"fmt"

	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// Config controls grid spacing in diagram units.
type Config struct {
	NodeSpacing float64 `json:"node_spacing" toml:"node_spacing"` // horizontal distance between states
	LevelHeight float64 `json:"level_height" toml:"level_height"` // vertical distance between levels
	TopPadding  float64 `json:"top_padding" toml:"top_padding"`   // y of level 0
}

// DefaultConfig returns the spacing used by the web editor.
func DefaultConfig() Config {
	return Config{
		NodeSpacing: 400,
		LevelHeight: 350,
		TopPadding:  100,
	}
}

// withDefaults returns DefaultConfig for the zero Config and otherwise fills
// non-positive spacing fields from it.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c == (Config{}) {
		return d
	}
	if c.NodeSpacing <= 0 {
		c.NodeSpacing = d.NodeSpacing
	}
	if c.LevelHeight <= 0 {
		c.LevelHeight = d.LevelHeight
	}
	if c.TopPadding < 0 {
		c.TopPadding = d.TopPadding
	}
	return c
}

// EdgeKind classifies a transition for styling.
type EdgeKind string

const (
	EdgePlain       EdgeKind = "plain"
	EdgeConditional EdgeKind = "conditional"
	EdgeBackward    EdgeKind = "backward"
)

// Color returns the stroke color for the edge kind.
func (k EdgeKind) Color() string {
	switch k {
	case EdgeConditional:
		return "#8b5cf6"
	case EdgeBackward:
		return "#f59e0b"
	default:
		return "#3b82f6"
	}
}

// Node is a positioned state.
type Node struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Roles       []string        `json:"roles,omitempty"`
	Tools       []scenario.Tool `json:"tools,omitempty"`
	Inputs      []string        `json:"inputs,omitempty"`
	Outputs     []string        `json:"outputs,omitempty"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Level       int             `json:"level"`
	Position    int             `json:"position"`
	StepNumber  int             `json:"step_number"`
	IsStart     bool            `json:"is_start,omitempty"`
	IsEnd       bool            `json:"is_end,omitempty"`
}

// Edge is a drawable transition between two nodes.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  string   `json:"label,omitempty"`
	Kind   EdgeKind `json:"kind"`
	Color  string   `json:"color"`
}

// Diagram is the positioned form of one scenario.
type Diagram struct {
	Name   string      `json:"name"`
	Mode   layout.Mode `json:"mode"`
	Levels int         `json:"levels"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Nodes  []Node      `json:"nodes"`
	Edges  []Edge      `json:"edges"`
}

// Node returns the node with the given id.
func (d *Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// nodeID is the stable identifier of the state at input index i.
func nodeID(i int) string { return fmt.Sprintf("state-%d", i) }

// Build positions every state of s according to r.
//
// Nodes are emitted level by level in the order r lists them. Node ids are
// derived from the state's input index so they stay stable while the
// document is edited. Transitions with an unknown endpoint produce no edge.
func Build(s *scenario.Scenario, r *layout.Result, cfg Config) *Diagram {
	cfg = cfg.withDefaults()
	index := s.StateIndex()
	outgoing := make(map[string]bool, len(s.States))
	for _, t := range s.Transitions {
		if _, ok := index[t.To]; ok {
			outgoing[t.From] = true
		}
	}

	d := &Diagram{
		Name:   s.Name,
		Mode:   r.Mode,
		Levels: r.Depth(),
		Nodes:  make([]Node, 0, len(s.States)),
		Edges:  make([]Edge, 0, len(s.Transitions)),
	}

	for level, names := range r.Levels {
		width := float64(max(len(names)-1, 0)) * cfg.NodeSpacing
		startX := -width / 2
		y := cfg.TopPadding + float64(level)*cfg.LevelHeight
		d.Width = max(d.Width, width)
		d.Height = max(d.Height, y)

		for pos, name := range names {
			i, ok := index[name]
			if !ok {
				continue
			}
			st := s.States[i]
			d.Nodes = append(d.Nodes, Node{
				ID:          nodeID(i),
				Name:        st.Name,
				Description: st.Description,
				Roles:       st.Roles,
				Tools:       st.Tools,
				Inputs:      st.Inputs,
				Outputs:     st.Outputs,
				X:           startX + float64(pos)*cfg.NodeSpacing,
				Y:           y,
				Level:       level,
				Position:    pos,
				StepNumber:  i + 1,
				IsStart:     level == 0 && pos == 0,
				IsEnd:       !outgoing[st.Name],
			})
		}
	}

	for i, t := range s.Transitions {
		from, okFrom := index[t.From]
		to, okTo := index[t.To]
		if !okFrom || !okTo {
			continue
		}
		kind := classify(t, from, to)
		d.Edges = append(d.Edges, Edge{
			ID:     fmt.Sprintf("edge-%d", i),
			Source: nodeID(from),
			Target: nodeID(to),
			Label:  t.Condition,
			Kind:   kind,
			Color:  kind.Color(),
		})
	}

	return d
}

// classify marks conditional transitions, and among those the ones pointing
// back to an earlier-declared state.
func classify(t scenario.Transition, from, to int) EdgeKind {
	if !t.HasCondition() {
		return EdgePlain
	}
	if to < from {
		return EdgeBackward
	}
	return EdgeConditional
}
