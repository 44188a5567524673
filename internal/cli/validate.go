package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// errValidation is returned when at least one document failed validation.
// The per-file problems have already been printed.
var errValidation = errors.New("validation failed")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [scenario.yaml...]",
		Short: "Check scenario documents for missing fields",
		Long: `Check scenario documents for missing required fields and duplicate
state names. Transitions that reference unknown states are reported as
warnings because layout ignores them; use --strict to treat them as errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat dangling transitions as errors")

	return cmd
}

func (c *CLI) runValidate(paths []string, strict bool) error {
	failed := 0
	for _, path := range paths {
		if !c.validateFile(path, strict) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errValidation, failed, len(paths))
	}
	return nil
}

// validateFile prints the outcome for one document and reports whether it passed.
func (c *CLI) validateFile(path string, strict bool) bool {
	s, err := scenario.ReadFile(path)
	if err != nil {
		printError("%s", err)
		return false
	}
	if err := scenario.Validate(s); err != nil {
		printError("%s: %s", path, err)
		return false
	}

	dangling := s.DanglingTransitions()
	for _, t := range dangling {
		printWarning("%s: transition %s %s %s references an unknown state", path, t.From, iconArrow, t.To)
	}
	if strict && len(dangling) > 0 {
		printError("%s: %s", path, plural(len(dangling), "dangling transition"))
		return false
	}

	c.Logger.Debug("validated", "file", path, "states", len(s.States), "transitions", len(s.Transitions))
	printSuccess("%s", path)
	return true
}
