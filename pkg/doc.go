// Package pkg provides the core libraries for scenarioflow.
//
// # Overview
//
// Scenarioflow takes workflow scenarios (states, the roles that work in them
// and the transitions between them) and arranges the states into
// hierarchical levels for diagramming. The typical data flow:
//
//	scenario.yaml
//	     ↓
//	[scenario] package (parse + validate)
//	     ↓
//	[layout] package (assign states to levels)
//	     ↓
//	[diagram] package (place nodes, classify edges)
//	     ↓
//	SVG/DOT/Mermaid/JSON output
//
// # Quick Start
//
//	s, _ := scenario.ReadFile("review.yaml")
//	r := layout.Compute(s.States, s.Transitions)
//	d := diagram.Build(s, r, diagram.DefaultConfig())
//	fmt.Println(diagram.ToMermaid(d))
//
// # Main Packages
//
// [layout] - The level assignment. Root states (no incoming transitions)
// start at level 0; a depth-first walk places each newly reached state one
// level below its parent. Scenarios without a root fall back to a grid of
// three states per level.
//
// [scenario] - Document model, YAML codec and required-field validation.
//
// [diagram] - Pixel placement of levels plus DOT, SVG and Mermaid exports.
//
// [pipeline] - Layout → diagram → render with caching, shared by the CLI
// and the HTTP API.
//
// [cache] - Null, file and Redis caches behind one interface.
//
// [store] - Per-user scenario persistence: memory, YAML files or MongoDB.
//
// [api] - HTTP API for stored and ad-hoc scenarios.
//
// [config], [errors], [observability], [buildinfo] - Settings, coded
// errors, metrics hooks and version information.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/layout
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/layout
// [scenario]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/scenario
// [diagram]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/diagram
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/scenarioflow/pkg/buildinfo
package pkg
