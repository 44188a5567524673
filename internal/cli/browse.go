package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "browse [scenario.yaml]",
		Short: "Step through the levels of a scenario interactively",
		Long: `Step through the levels of a scenario in the terminal.

With a file argument that document is opened directly. Without one, the
scenarios stored for --user are listed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = c.Config.Server.DefaultUser
			}
			var s *scenario.Scenario
			var err error
			if len(args) == 1 {
				s, err = scenario.ReadFile(args[0])
			} else {
				s, err = c.pickScenario(cmd.Context(), user)
			}
			if err != nil || s == nil {
				return err
			}
			return c.browseLevels(cmd.Context(), s)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owner of stored scenarios (default from config)")

	return cmd
}

// pickScenario lists stored scenarios and returns the chosen one, or nil
// when the user quits without choosing.
func (c *CLI) pickScenario(ctx context.Context, user string) (*scenario.Scenario, error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	items, err := st.List(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		printInfo("No scenarios stored for %s", StyleHighlight.Render(user))
		printNextStep("Store one with", "curl -X POST --data-binary @scenario.yaml -H 'Content-Type: application/yaml' localhost:8080/api/scenarios?filename=scenario.yaml")
		return nil, nil
	}

	final, err := tea.NewProgram(NewScenarioListModel(items), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("scenario list: %w", err)
	}
	sel := final.(ScenarioListModel).Selected
	if sel == nil {
		return nil, nil
	}
	return st.Get(ctx, user, sel.Filename)
}

func (c *CLI) browseLevels(ctx context.Context, s *scenario.Scenario) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Layout(ctx, s)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(NewLevelBrowserModel(s, res), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("level browser: %w", err)
	}
	return nil
}
