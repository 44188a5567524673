package scenario

import "time"

// Scenario is a workflow document owned by a user and addressed by filename.
type Scenario struct {
	ID          string       `json:"id,omitempty" yaml:"-" bson:"_id,omitempty"`
	Name        string       `json:"name" yaml:"name" bson:"name"`
	Description string       `json:"description" yaml:"description" bson:"description"`
	Roles       []Role       `json:"roles" yaml:"roles" bson:"roles"`
	States      []State      `json:"states" yaml:"states" bson:"states"`
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty" bson:"transitions,omitempty"`

	// Storage fields, never part of the YAML body.
	Filename  string    `json:"filename,omitempty" yaml:"-" bson:"filename"`
	UserID    string    `json:"user_id,omitempty" yaml:"-" bson:"userId"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"-" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-" bson:"updatedAt,omitempty"`
}

// Role is a participant in the workflow.
type Role struct {
	Name        string `json:"name" yaml:"name" bson:"name"`
	Description string `json:"description" yaml:"description" bson:"description"`
}

// Tool is an external system used in a state, with the APIs it exposes.
type Tool struct {
	Name string   `json:"name" yaml:"name" bson:"name"`
	APIs []string `json:"apis,omitempty" yaml:"apis,omitempty" bson:"apis,omitempty"`
}

// State is a named node of the workflow graph.
// Only Name matters for layout; everything else is descriptive.
type State struct {
	Name        string   `json:"name" yaml:"name" bson:"name"`
	Roles       []string `json:"roles" yaml:"roles" bson:"roles"`
	Description string   `json:"description" yaml:"description" bson:"description"`
	Tools       []Tool   `json:"tools,omitempty" yaml:"tools,omitempty" bson:"tools,omitempty"`
	Inputs      []string `json:"inputs,omitempty" yaml:"inputs,omitempty" bson:"inputs,omitempty"`
	Outputs     []string `json:"outputs,omitempty" yaml:"outputs,omitempty" bson:"outputs,omitempty"`
	Schemas     []string `json:"schemas,omitempty" yaml:"schemas,omitempty" bson:"schemas,omitempty"`
}

// Transition is a directed edge between two state names.
type Transition struct {
	From      string `json:"from" yaml:"from" bson:"from"`
	To        string `json:"to" yaml:"to" bson:"to"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" bson:"condition,omitempty"`
}

// HasCondition reports whether the transition carries a condition label.
func (t Transition) HasCondition() bool { return t.Condition != "" }

// Summary is the listing view of a stored scenario.
type Summary struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Filename    string    `json:"filename" bson:"filename"`
	StateCount  int       `json:"state_count" bson:"-"`
	UpdatedAt   time.Time `json:"updated_at,omitzero" bson:"updatedAt,omitempty"`
}

// Summarize returns the listing view of s.
func (s *Scenario) Summarize() Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Filename:    s.Filename,
		StateCount:  len(s.States),
		UpdatedAt:   s.UpdatedAt,
	}
}

// StateIndex maps each state name to its position in States.
// When names repeat, the first occurrence wins.
func (s *Scenario) StateIndex() map[string]int {
	idx := make(map[string]int, len(s.States))
	for i, st := range s.States {
		if _, ok := idx[st.Name]; !ok {
			idx[st.Name] = i
		}
	}
	return idx
}

// StateNames returns the state names in input order.
func (s *Scenario) StateNames() []string {
	names := make([]string, len(s.States))
	for i, st := range s.States {
		names[i] = st.Name
	}
	return names
}

// DanglingTransitions returns the transitions whose endpoints do not both
// name a known state, in declaration order.
func (s *Scenario) DanglingTransitions() []Transition {
	idx := s.StateIndex()
	var out []Transition
	for _, t := range s.Transitions {
		_, okFrom := idx[t.From]
		_, okTo := idx[t.To]
		if !okFrom || !okTo {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = append([]Role(nil), s.Roles...)
	c.Transitions = append([]Transition(nil), s.Transitions...)
	if s.States == nil {
		return &c
	}
	c.States = make([]State, len(s.States))
	for i, st := range s.States {
		st.Roles = append([]string(nil), st.Roles...)
		st.Inputs = append([]string(nil), st.Inputs...)
		st.Outputs = append([]string(nil), st.Outputs...)
		st.Schemas = append([]string(nil), st.Schemas...)
		if st.Tools != nil {
			tools := make([]Tool, len(st.Tools))
			for j, tool := range st.Tools {
				tool.APIs = append([]string(nil), tool.APIs...)
				tools[j] = tool
			}
			st.Tools = tools
		}
		c.States[i] = st
	}
	return &c
}
