package layout_test

import (
	"fmt"

	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

func ExampleCompute() {
	states := []scenario.State{{Name: "Intake"}, {Name: "Review"}, {Name: "Approve"}, {Name: "Reject"}}
	transitions := []scenario.Transition{
		{From: "Intake", To: "Review"},
		{From: "Review", To: "Approve", Condition: "ok"},
		{From: "Review", To: "Reject", Condition: "not ok"},
	}

	r := layout.Compute(states, transitions)
	for i, level := range r.Levels {
		fmt.Println(i, level)
	}
	// Output:
	// 0 [Intake]
	// 1 [Review]
	// 2 [Approve Reject]
}

func ExampleCompute_cycle() {
	// Every state has an incoming transition, so no root exists and the
	// sequential grid is used.
	states := []scenario.State{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}}
	transitions := []scenario.Transition{
		{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "C", To: "D"},
		{From: "D", To: "E"}, {From: "E", To: "A"},
	}

	r := layout.Compute(states, transitions)
	fmt.Println(r.Mode, r.Levels)
	// Output:
	// sequential [[A B C] [D E]]
}
