package layout

import (
	"fmt"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// Mode records which layout strategy produced a Result.
type Mode string

const (
	// ModeHierarchical is the root-driven depth-first layering.
	ModeHierarchical Mode = "hierarchical"
	// ModeSequential is the fixed-width grid used when no root exists.
	ModeSequential Mode = "sequential"
)

// Result is a level assignment for one scenario.
type Result struct {
	// Levels holds state names per level, in discovery order.
	Levels [][]string `json:"levels"`
	// NodeLevel maps each state name to its level index.
	NodeLevel map[string]int `json:"node_level"`
	// Mode is the strategy that produced the assignment.
	Mode Mode `json:"mode"`
}

func newResult(mode Mode, size int) *Result {
	return &Result{
		Levels:    [][]string{},
		NodeLevel: make(map[string]int, size),
		Mode:      mode,
	}
}

func (r *Result) assign(name string, level int) {
	for len(r.Levels) <= level {
		r.Levels = append(r.Levels, nil)
	}
	r.Levels[level] = append(r.Levels[level], name)
	r.NodeLevel[name] = level
}

// Depth returns the number of levels.
func (r *Result) Depth() int { return len(r.Levels) }

// Len returns the number of placed states.
func (r *Result) Len() int { return len(r.NodeLevel) }

// Level returns the level of name and whether it was placed.
func (r *Result) Level(name string) (int, bool) {
	l, ok := r.NodeLevel[name]
	return l, ok
}

// Position returns the level of name and its index within that level.
func (r *Result) Position(name string) (level, index int, ok bool) {
	level, ok = r.NodeLevel[name]
	if !ok {
		return 0, 0, false
	}
	for i, n := range r.Levels[level] {
		if n == name {
			return level, i, true
		}
	}
	return 0, 0, false
}

// IsFallback reports whether the sequential layout was used.
func (r *Result) IsFallback() bool { return r.Mode == ModeSequential }

// Validate checks that r covers every distinct state name exactly once and
// that levels are contiguous, non-empty and consistent with NodeLevel.
func (r *Result) Validate(states []scenario.State) error {
	want := make(map[string]struct{}, len(states))
	for _, s := range states {
		want[s.Name] = struct{}{}
	}
	if len(r.NodeLevel) != len(want) {
		return fmt.Errorf("placed %d states, want %d", len(r.NodeLevel), len(want))
	}

	seen := make(map[string]struct{}, len(want))
	for level, names := range r.Levels {
		if len(names) == 0 {
			return fmt.Errorf("level %d is empty", level)
		}
		for _, name := range names {
			if _, ok := want[name]; !ok {
				return fmt.Errorf("unknown state %q at level %d", name, level)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("state %q placed twice", name)
			}
			seen[name] = struct{}{}
			if got := r.NodeLevel[name]; got != level {
				return fmt.Errorf("state %q indexed at level %d, listed at %d", name, got, level)
			}
		}
	}
	if len(seen) != len(want) {
		return fmt.Errorf("levels list %d states, want %d", len(seen), len(want))
	}
	return nil
}
