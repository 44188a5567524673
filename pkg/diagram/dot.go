package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a diagram to Graphviz DOT source.
//
// Each level becomes a rank=same group so Graphviz keeps the computed
// layering; node order inside a level follows the diagram. Conditional and
// backward edges are dashed and labeled with their condition.
func ToDOT(d *Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11, arrowsize=0.8];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	if d.Name != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n", dotQuote(d.Name))
	}
	buf.WriteString("\n")

	byLevel := make([][]string, d.Levels)
	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(nodeAttrs(n), ", "))
		if n.Level < len(byLevel) {
			byLevel[n.Level] = append(byLevel[n.Level], dotQuote(n.ID))
		}
	}

	buf.WriteString("\n")
	for _, ids := range byLevel {
		if len(ids) > 0 {
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(e.Source), dotQuote(e.Target), strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n Node) []string {
	label := fmt.Sprintf("%d. %s", n.StepNumber, n.Name)
	if len(n.Roles) > 0 {
		label += "\n" + strings.Join(n.Roles, ", ")
	}
	attrs := []string{"label=" + dotQuote(label)}
	switch {
	case n.IsStart:
		attrs = append(attrs, "fillcolor=\"#dcfce7\"", "penwidth=2")
	case n.IsEnd:
		attrs = append(attrs, "fillcolor=\"#fee2e2\"", "penwidth=2")
	}
	return attrs
}

func edgeAttrs(e Edge) []string {
	attrs := []string{"color=" + dotQuote(e.Color)}
	if e.Kind != EdgePlain {
		attrs = append(attrs, "style=dashed", "fontcolor="+dotQuote(e.Color))
	}
	if e.Label != "" {
		attrs = append(attrs, "label="+dotQuote(e.Label))
	}
	if e.Kind == EdgeBackward {
		attrs = append(attrs, "constraint=false")
	}
	return attrs
}

// dotQuote returns s as a DOT double-quoted string. Only backslash, quote
// and line breaks are escaped; other text, UTF-8 included, passes through.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// RenderSVG renders DOT source to SVG using Graphviz compiled to WebAssembly.
// The returned SVG carries a normalized viewBox so it scales in a browser.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
