package layout

import "github.com/matzehuels/scenarioflow/pkg/scenario"

// NodesPerLevel is the width of each level in the sequential fallback.
const NodesPerLevel = 3

// Compute assigns every state to a level.
//
// See the package documentation for the algorithm. The inputs are not
// modified. Repeated state names are treated as one node; validated
// scenarios never contain them.
func Compute(states []scenario.State, transitions []scenario.Transition) *Result {
	g := buildGraph(states, transitions)
	roots := g.roots()
	if len(roots) == 0 || g.edges == 0 {
		return Sequential(states)
	}

	r := newResult(ModeHierarchical, len(g.order))
	for _, root := range roots {
		r.walk(g, root, 0)
	}

	for _, name := range g.order {
		if _, seen := r.NodeLevel[name]; !seen {
			r.walk(g, name, len(r.Levels))
		}
	}

	return r
}

// Sequential lays states out in input order, NodesPerLevel per level,
// ignoring transitions.
func Sequential(states []scenario.State) *Result {
	r := newResult(ModeSequential, len(states))
	for _, s := range states {
		if _, seen := r.NodeLevel[s.Name]; seen {
			continue
		}
		level := len(r.Levels) - 1
		if level < 0 || len(r.Levels[level]) == NodesPerLevel {
			level++
		}
		r.assign(s.Name, level)
	}
	return r
}

// frame is a pending visit on the walk stack.
type frame struct {
	name  string
	level int
}

// walk assigns levels depth-first from start. Children are pushed in reverse
// so they pop in declaration order, matching a recursive preorder walk.
// Already-leveled states are skipped when popped.
func (r *Result) walk(g *graph, start string, level int) {
	stack := []frame{{name: start, level: level}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := r.NodeLevel[f.name]; seen {
			continue
		}
		r.assign(f.name, f.level)

		children := g.children[f.name]
		for i := len(children) - 1; i >= 0; i-- {
			if _, seen := r.NodeLevel[children[i]]; !seen {
				stack = append(stack, frame{name: children[i], level: f.level + 1})
			}
		}
	}
}
