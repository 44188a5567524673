package layout

import "github.com/matzehuels/scenarioflow/pkg/scenario"

// graph is the per-call view of a scenario used for level assignment.
type graph struct {
	order    []string            // state names in input order
	children map[string][]string // successors in declaration order
	incoming map[string]int      // count of valid incoming transitions
	edges    int                 // transitions with two known endpoints
}

// buildGraph indexes states and keeps only transitions between known states.
func buildGraph(states []scenario.State, transitions []scenario.Transition) *graph {
	g := &graph{
		order:    make([]string, 0, len(states)),
		children: make(map[string][]string, len(states)),
		incoming: make(map[string]int, len(states)),
	}

	for _, s := range states {
		if _, ok := g.incoming[s.Name]; ok {
			continue
		}
		g.order = append(g.order, s.Name)
		g.children[s.Name] = nil
		g.incoming[s.Name] = 0
	}

	for _, t := range transitions {
		if !g.has(t.From) || !g.has(t.To) {
			continue
		}
		g.children[t.From] = append(g.children[t.From], t.To)
		g.incoming[t.To]++
		g.edges++
	}

	return g
}

func (g *graph) has(name string) bool {
	_, ok := g.incoming[name]
	return ok
}

// roots returns states with no incoming transitions, in input order.
func (g *graph) roots() []string {
	var out []string
	for _, name := range g.order {
		if g.incoming[name] == 0 {
			out = append(out, name)
		}
	}
	return out
}
