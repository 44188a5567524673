package scenario

import (
	"strings"

	"github.com/matzehuels/scenarioflow/pkg/errors"
)

// Validate checks the required fields of a scenario document.
//
// The rules mirror the persisted schema: scenario name and description are
// required, every role needs a name and description, every state needs a
// valid unique name, a description and at least one role, tools need a name,
// and transitions need both endpoints. It returns the first violation found.
func Validate(s *Scenario) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario is nil")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario name is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return errors.New(errors.ErrCodeInvalidScenario, "scenario description is required")
	}

	for i, r := range s.Roles {
		if r.Name == "" {
			return errors.New(errors.ErrCodeInvalidScenario, "roles[%d]: name is required", i)
		}
		if r.Description == "" {
			return errors.New(errors.ErrCodeInvalidScenario, "role %q: description is required", r.Name)
		}
	}

	seen := make(map[string]struct{}, len(s.States))
	for i, st := range s.States {
		if err := errors.ValidateStateName(st.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "states[%d]", i)
		}
		if _, dup := seen[st.Name]; dup {
			return errors.New(errors.ErrCodeInvalidScenario, "duplicate state name %q", st.Name)
		}
		seen[st.Name] = struct{}{}

		if st.Description == "" {
			return errors.New(errors.ErrCodeInvalidScenario, "state %q: description is required", st.Name)
		}
		if len(st.Roles) == 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "state %q: at least one role is required", st.Name)
		}
		for j, tool := range st.Tools {
			if tool.Name == "" {
				return errors.New(errors.ErrCodeInvalidScenario, "state %q: tools[%d]: name is required", st.Name, j)
			}
		}
	}

	for i, t := range s.Transitions {
		if t.From == "" || t.To == "" {
			return errors.New(errors.ErrCodeInvalidScenario, "transitions[%d]: from and to are required", i)
		}
	}

	return nil
}
