package layout

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

func states(names ...string) []scenario.State {
	out := make([]scenario.State, len(names))
	for i, n := range names {
		out[i] = scenario.State{Name: n}
	}
	return out
}

// edges parses "A>B" pairs; a "?cond" suffix becomes the condition label.
func edges(specs ...string) []scenario.Transition {
	out := make([]scenario.Transition, len(specs))
	for i, s := range specs {
		s, cond, _ := strings.Cut(s, "?")
		from, to, _ := strings.Cut(s, ">")
		out[i] = scenario.Transition{From: from, To: to, Condition: cond}
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		states      []scenario.State
		transitions []scenario.Transition
		wantLevels  [][]string
		wantMode    Mode
	}{
		{
			name:        "Chain",
			states:      states("A", "B", "C", "D"),
			transitions: edges("A>B", "B>C", "C>D"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}, {"D"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "ChainDeclaredOutOfOrder",
			states:      states("D", "C", "B", "A"),
			transitions: edges("C>D", "A>B", "B>C"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}, {"D"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:       "NoTransitions",
			states:     states("A", "B", "C", "D", "E"),
			wantLevels: [][]string{{"A", "B", "C"}, {"D", "E"}},
			wantMode:   ModeSequential,
		},
		{
			name:        "OnlyDanglingTransitions",
			states:      states("A", "B", "C", "D"),
			transitions: edges("A>X", "Y>B"),
			wantLevels:  [][]string{{"A", "B", "C"}, {"D"}},
			wantMode:    ModeSequential,
		},
		{
			name:        "DanglingIgnored",
			states:      states("A", "B"),
			transitions: edges("A>Ghost", "A>B", "Phantom>B", "Phantom>A"),
			wantLevels:  [][]string{{"A"}, {"B"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "FullCycleFallsBack",
			states:      states("A", "B", "C", "D", "E"),
			transitions: edges("A>B", "B>C", "C>D", "D>E", "E>A"),
			wantLevels:  [][]string{{"A", "B", "C"}, {"D", "E"}},
			wantMode:    ModeSequential,
		},
		{
			name:        "SelfLoopHasNoRoot",
			states:      states("A", "B"),
			transitions: edges("A>A", "A>B"),
			wantLevels:  [][]string{{"A", "B"}},
			wantMode:    ModeSequential,
		},
		{
			name:        "UnreachedCycleSwept",
			states:      states("A", "B", "C"),
			transitions: edges("B>C", "C>B"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "SweepStartsBelowDeepestLevel",
			states:      states("A", "B", "C", "D", "E"),
			transitions: edges("A>B", "B>C", "D>E", "E>D"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}, {"D"}, {"E"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "CycleReachableFromRoot",
			states:      states("A", "B", "C"),
			transitions: edges("A>B", "B>C", "C>B"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "Diamond",
			states:      states("A", "B", "C", "D"),
			transitions: edges("A>B", "A>C", "B>D", "C>D"),
			wantLevels:  [][]string{{"A"}, {"B", "C"}, {"D"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "FirstAssignmentWins",
			states:      states("A", "B", "C"),
			transitions: edges("A>B", "B>C", "A>C"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "DepthFirstDiscoveryOrder",
			states:      states("A", "B", "C", "D", "E"),
			transitions: edges("A>B", "A>C", "B>D", "C>E"),
			wantLevels:  [][]string{{"A"}, {"B", "C"}, {"D", "E"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "SiblingReachedDeeperFirst",
			states:      states("A", "B", "C"),
			transitions: edges("A>B", "A>C", "B>C"),
			wantLevels:  [][]string{{"A"}, {"B"}, {"C"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "MultipleRoots",
			states:      states("X", "R1", "Y", "R2"),
			transitions: edges("R1>X", "R2>X", "R2>Y"),
			wantLevels:  [][]string{{"R1", "R2"}, {"X", "Y"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "IsolatedStateIsRoot",
			states:      states("A", "B", "C"),
			transitions: edges("A>B"),
			wantLevels:  [][]string{{"A", "C"}, {"B"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:        "ConditionsIgnored",
			states:      states("Triage", "Mitigate", "Escalate"),
			transitions: edges("Triage>Escalate?severity >= 2", "Triage>Mitigate", "Escalate>Mitigate"),
			wantLevels:  [][]string{{"Triage"}, {"Escalate"}, {"Mitigate"}},
			wantMode:    ModeHierarchical,
		},
		{
			name:       "SingleState",
			states:     states("Only"),
			wantLevels: [][]string{{"Only"}},
			wantMode:   ModeSequential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.states, tt.transitions)

			if !reflect.DeepEqual(r.Levels, tt.wantLevels) {
				t.Errorf("levels = %v, want %v", r.Levels, tt.wantLevels)
			}
			if r.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", r.Mode, tt.wantMode)
			}
			if err := r.Validate(tt.states); err != nil {
				t.Errorf("Validate: %v", err)
			}
			for level, names := range tt.wantLevels {
				for _, n := range names {
					if got, ok := r.Level(n); !ok || got != level {
						t.Errorf("Level(%s) = %d, %v; want %d", n, got, ok, level)
					}
				}
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, tr := range [][]scenario.Transition{nil, edges("A>B")} {
		r := Compute(nil, tr)
		if r.Depth() != 0 || r.Len() != 0 {
			t.Errorf("Compute(nil, %v) = %v, want empty", tr, r)
		}
		if r.Levels == nil || r.NodeLevel == nil {
			t.Error("empty result should carry non-nil containers")
		}
	}
}

func TestSequential(t *testing.T) {
	tests := []struct {
		n         int
		wantSizes []int
	}{
		{0, nil},
		{1, []int{1}},
		{3, []int{3}},
		{4, []int{3, 1}},
		{7, []int{3, 3, 1}},
		{9, []int{3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.n), func(t *testing.T) {
			names := make([]string, tt.n)
			for i := range names {
				names[i] = fmt.Sprintf("S%d", i)
			}
			r := Sequential(states(names...))

			var sizes []int
			for _, l := range r.Levels {
				sizes = append(sizes, len(l))
			}
			if !reflect.DeepEqual(sizes, tt.wantSizes) {
				t.Errorf("sizes = %v, want %v", sizes, tt.wantSizes)
			}
			for i, n := range names {
				if got := r.NodeLevel[n]; got != i/NodesPerLevel {
					t.Errorf("NodeLevel[%s] = %d, want %d", n, got, i/NodesPerLevel)
				}
			}
			if !r.IsFallback() {
				t.Error("Sequential should report fallback mode")
			}
		})
	}
}

func TestComputeDeepChain(t *testing.T) {
	const n = 200_000
	names := make([]string, n)
	trans := make([]scenario.Transition, n-1)
	for i := range names {
		names[i] = fmt.Sprintf("s%d", i)
		if i > 0 {
			trans[i-1] = scenario.Transition{From: names[i-1], To: names[i]}
		}
	}

	r := Compute(states(names...), trans)
	if r.Depth() != n {
		t.Fatalf("depth = %d, want %d", r.Depth(), n)
	}
	if got := r.NodeLevel[names[n-1]]; got != n-1 {
		t.Errorf("last level = %d, want %d", got, n-1)
	}
}

func TestComputeDeterministic(t *testing.T) {
	st := states("A", "B", "C", "D", "E", "F")
	tr := edges("A>B", "A>C", "C>D", "D>B", "E>F", "F>E", "B>Nowhere")

	first := Compute(st, tr)
	for i := 0; i < 20; i++ {
		if again := Compute(st, tr); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	st := states("C", "A", "B")
	tr := edges("A>B", "B>C", "C>Ghost")
	stCopy := append([]scenario.State(nil), st...)
	trCopy := append([]scenario.Transition(nil), tr...)

	Compute(st, tr)

	if !reflect.DeepEqual(st, stCopy) || !reflect.DeepEqual(tr, trCopy) {
		t.Error("Compute mutated its inputs")
	}
}

func TestComputeRandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(25)
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("n%d", i)
		}
		m := rng.Intn(3 * n)
		tr := make([]scenario.Transition, m)
		for i := range tr {
			from := fmt.Sprintf("n%d", rng.Intn(n+2)) // n, n+1 dangle
			to := fmt.Sprintf("n%d", rng.Intn(n+2))
			tr[i] = scenario.Transition{From: from, To: to}
		}

		st := states(names...)
		r := Compute(st, tr)
		if err := r.Validate(st); err != nil {
			t.Fatalf("iteration %d: %v\nstates=%v\ntransitions=%v", iter, err, names, tr)
		}
		if !reflect.DeepEqual(r, Compute(st, tr)) {
			t.Fatalf("iteration %d: non-deterministic result", iter)
		}
	}
}

func TestPosition(t *testing.T) {
	r := Compute(states("A", "B", "C", "D"), edges("A>B", "A>C", "A>D"))

	level, idx, ok := r.Position("C")
	if !ok || level != 1 || idx != 1 {
		t.Errorf("Position(C) = %d, %d, %v; want 1, 1, true", level, idx, ok)
	}
	if _, _, ok := r.Position("Z"); ok {
		t.Error("Position(Z) should report missing")
	}
	if _, ok := r.Level("Z"); ok {
		t.Error("Level(Z) should report missing")
	}
}

func TestResultValidate(t *testing.T) {
	st := states("A", "B")
	tests := []struct {
		name string
		r    *Result
	}{
		{"Missing", &Result{Levels: [][]string{{"A"}}, NodeLevel: map[string]int{"A": 0}}},
		{"Gap", &Result{Levels: [][]string{{"A"}, {}, {"B"}}, NodeLevel: map[string]int{"A": 0, "B": 2}}},
		{"Mismatch", &Result{Levels: [][]string{{"A", "B"}}, NodeLevel: map[string]int{"A": 0, "B": 1}}},
		{"Duplicate", &Result{Levels: [][]string{{"A", "A"}}, NodeLevel: map[string]int{"A": 0, "B": 0}}},
		{"Unknown", &Result{Levels: [][]string{{"A", "Z"}}, NodeLevel: map[string]int{"A": 0, "Z": 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(st); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
