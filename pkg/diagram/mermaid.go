package diagram

import (
	"fmt"
	"strings"
)

// ToMermaid renders the diagram as a Mermaid flowchart.
//
// Start and end states get their own classes; conditional edges carry their
// condition as a label and backward edges use a dotted arrow.
func ToMermaid(d *Diagram) string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	var starts, ends []string
	for _, n := range d.Nodes {
		id := mermaidID(n.ID)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, mermaidText(n.Name))
		if n.IsStart {
			starts = append(starts, id)
		} else if n.IsEnd {
			ends = append(ends, id)
		}
	}

	for _, e := range d.Edges {
		from, to := mermaidID(e.Source), mermaidID(e.Target)
		switch {
		case e.Kind == EdgeBackward:
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", from, mermaidText(e.Label), to)
		case e.Label != "":
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, mermaidText(e.Label), to)
		default:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
		}
	}

	if len(starts) > 0 {
		sb.WriteString("    classDef start fill:#dcfce7,stroke:#16a34a\n")
		fmt.Fprintf(&sb, "    class %s start\n", strings.Join(starts, ","))
	}
	if len(ends) > 0 {
		sb.WriteString("    classDef finish fill:#fee2e2,stroke:#dc2626\n")
		fmt.Fprintf(&sb, "    class %s finish\n", strings.Join(ends, ","))
	}
	return sb.String()
}

func mermaidID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}

// mermaidText escapes double quotes, which would end a Mermaid label, and
// turns line breaks into <br/>.
func mermaidText(s string) string {
	return mermaidEscaper.Replace(s)
}

var mermaidEscaper = strings.NewReplacer("\"", "#quot;", "\r\n", "<br/>", "\n", "<br/>")
