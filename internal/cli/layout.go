package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/pipeline"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output  string // write the level assignment as JSON to this file
	json    bool   // print JSON to stdout instead of a table
	noCache bool
}

// layoutCommand creates the layout command for computing level assignments.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [scenario.yaml]",
		Short: "Assign the states of a scenario to levels",
		Long: `Assign the states of a scenario to hierarchical levels.

States without incoming transitions start at level 0 and each transition
moves its target one level deeper. Scenarios without a clear root state are
laid out sequentially, three states per level.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the layout as JSON to a file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the scenario, computes its levels, and prints or writes them.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	s, err := scenario.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, cached, err := runner.LayoutWithCacheInfo(ctx, s, pipeline.Options{Logger: c.Logger})
	if err != nil {
		return err
	}

	switch {
	case opts.output != "":
		if err := writeLayoutJSON(opts.output, res); err != nil {
			return err
		}
		printSuccess("Layout computed")
		printFile(opts.output)
	case opts.json:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	default:
		printInfo("%s", StyleTitle.Render(s.Name))
		printLevels(res)
	}

	printStats(len(s.States), len(s.Transitions), res.Depth(), cached)
	for _, t := range s.DanglingTransitions() {
		printWarning("Transition %s %s %s references an unknown state", t.From, iconArrow, t.To)
	}
	return nil
}

func writeLayoutJSON(path string, res *layout.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
