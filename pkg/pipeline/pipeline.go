// Package pipeline provides the layout → diagram → render pipeline for scenarios.
//
// The CLI and the HTTP API both go through a [Runner], so caching, logging
// and hook emission behave the same at every entry point.
//
// # Stages
//
//  1. Layout: assign every state a level (cached by a hash of state names
//     and transitions, the only inputs the layout reads)
//  2. Diagram: place nodes in pixel space and classify edges
//  3. Render: produce artifacts (JSON, DOT, SVG, Mermaid), cached by a hash
//     of the whole scenario body and the diagram options
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, scenario, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenarioflow/pkg/cache"
	"github.com/matzehuels/scenarioflow/pkg/diagram"
	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatMermaid = "mermaid"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:    true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatMermaid: true,
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatMermaid {
		return "mmd"
	}
	return format
}

// ContentType returns the HTTP content type for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			names = append(names, f)
		}
		sort.Strings(names)
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Formats to render. Defaults to DefaultFormat.
	Formats []string `json:"formats,omitempty"`

	// Diagram controls node placement. The zero value means diagram.DefaultConfig.
	Diagram diagram.Config `json:"diagram,omitzero"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks formats and fills defaults.
// Calling it more than once is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Diagram == (diagram.Config{}) {
		o.Diagram = diagram.DefaultConfig()
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		NodeSpacing: o.Diagram.NodeSpacing,
		LevelHeight: o.Diagram.LevelHeight,
		TopPadding:  o.Diagram.TopPadding,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// ScenarioHash is the content hash of the scenario body.
	ScenarioHash string

	// Layout is the level assignment.
	Layout *layout.Result

	// Diagram is the positioned node/edge model.
	Diagram *diagram.Diagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StateCount      int
	TransitionCount int
	DanglingCount   int
	Depth           int
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the level assignment came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Hashing
// =============================================================================

// layoutInput is the part of a scenario the layout engine reads.
type layoutInput struct {
	States      []string              `json:"states"`
	Transitions []scenario.Transition `json:"transitions"`
}

// LayoutHash hashes the state names and transitions of s.
// Descriptive edits leave it unchanged, so they reuse cached layouts.
func LayoutHash(s *scenario.Scenario) string {
	h, err := cache.HashJSON(layoutInput{States: s.StateNames(), Transitions: s.Transitions})
	if err != nil {
		// Strings and string structs always encode.
		panic(fmt.Sprintf("pipeline: hash layout input: %v", err))
	}
	return h
}

// ContentHash hashes the full YAML body of s, excluding storage fields.
func ContentHash(s *scenario.Scenario) (string, error) {
	data, err := scenario.Marshal(s)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
