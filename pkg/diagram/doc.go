// Package diagram turns a level assignment into a positioned flow diagram.
//
// # Overview
//
// [Build] combines a scenario with its [layout.Result] and places every state
// on a grid: levels stack top to bottom, and the states of a level are
// centered horizontally around x = 0. Transitions become edges classified as
// plain, conditional or backward (a conditional edge that points at a state
// declared earlier, typically a retry loop).
//
// # Output Formats
//
//   - JSON: [Diagram] marshals directly for browser renderers
//   - DOT: [ToDOT] pins each level with rank=same so Graphviz honors the
//     computed layering
//   - SVG: [RenderSVG] runs Graphviz in-process via go-graphviz
//   - Mermaid: [ToMermaid] emits a flowchart for Markdown embedding
//
// # Usage
//
//	res := layout.Compute(s.States, s.Transitions)
//	d := diagram.Build(s, res, diagram.DefaultConfig())
//	svg, err := diagram.RenderSVG(ctx, diagram.ToDOT(d))
package diagram
