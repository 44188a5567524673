package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/pipeline"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path (multiple)
	formats string // comma-separated formats
	noCache bool
	refresh bool // recompute even when cached
	pipeline.Options
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scenario.yaml]",
		Short: "Render a scenario to SVG, DOT, Mermaid or JSON",
		Long: `Render a scenario as a level diagram.

States are placed on their levels and centered horizontally. Conditional
transitions are drawn in violet and transitions that flow back to an
earlier state in amber.

With a single format, -o names the output file. With several formats, -o is
a base path and each output gets its format's extension.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("node-spacing") {
				opts.Diagram.NodeSpacing = c.Config.Diagram.NodeSpacing
			}
			if !cmd.Flags().Changed("level-height") {
				opts.Diagram.LevelHeight = c.Config.Diagram.LevelHeight
			}
			if !cmd.Flags().Changed("top-padding") {
				opts.Diagram.TopPadding = c.Config.Diagram.TopPadding
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(opts.formats)
			opts.Refresh = opts.refresh
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, mermaid, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Diagram.NodeSpacing, "node-spacing", 0, "horizontal distance between states")
	cmd.Flags().Float64Var(&opts.Diagram.LevelHeight, "level-height", 0, "vertical distance between levels")
	cmd.Flags().Float64Var(&opts.Diagram.TopPadding, "top-padding", 0, "offset of the first level")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	s, err := scenario.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, "Rendering "+s.Name+"...")
	spin.Start()

	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, s, opts.Options)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	if result.Layout.IsFallback() && result.Layout.Len() > 0 {
		printWarning("No clear root state; states were laid out sequentially")
	}

	single := len(opts.Formats) == 1
	var paths []string
	for _, format := range opts.Formats {
		path := outputPath(input, opts.output, format, single)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", s.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.StateCount, result.Stats.TransitionCount, result.Stats.Depth,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if n := result.Stats.DanglingCount; n > 0 {
		printWarning("%s skipped (unknown state)", plural(n, "transition"))
	}
	return nil
}
