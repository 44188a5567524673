package diagram

import (
	"strings"
	"testing"
)

func TestToMermaid(t *testing.T) {
	out := ToMermaid(buildReview(t))

	wants := []string{
		"flowchart TD\n",
		`    state_0["Draft"]`,
		"    state_0 --> state_1\n",
		`    state_2 -- "approved" --> state_3`,
		`    state_2 -. "changes requested" .-> state_1`,
		"    class state_0 start\n",
		"    class state_3,state_4 finish\n",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("mermaid missing %q\n%s", w, out)
		}
	}
}

func TestMermaidText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`say "hi"`, "say #quot;hi#quot;"},
		{"Review\nLegal", "Review<br/>Legal"},
		{"a\r\nb", "a<br/>b"},
	}
	for _, tt := range tests {
		if got := mermaidText(tt.in); got != tt.want {
			t.Errorf("mermaidText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
