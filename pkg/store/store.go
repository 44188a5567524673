// Package store persists scenarios.
//
// Scenarios are owned by a user and addressed by filename; the pair is
// unique. Three backends implement [Store]:
//
//   - [Memory]: process-local, for tests and ad-hoc servers
//   - [File]: one YAML document per scenario under a directory tree
//   - [Mongo]: the shared MongoDB collection used in deployment
//
// Missing documents are reported with errors.ErrCodeScenarioNotFound and
// duplicate user/filename pairs with errors.ErrCodeConflict, so callers can
// map both straight to HTTP statuses.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// Store is the scenario persistence interface.
type Store interface {
	// List returns summaries of the user's scenarios, most recently
	// updated first.
	List(ctx context.Context, userID string) ([]scenario.Summary, error)

	// Get returns the scenario stored under userID and filename.
	Get(ctx context.Context, userID, filename string) (*scenario.Scenario, error)

	// Create stores a new scenario. s.UserID and s.Filename identify it;
	// ID and timestamps are assigned by the store and written back to s.
	Create(ctx context.Context, s *scenario.Scenario) error

	// Update replaces the body of an existing scenario, keeping its ID and
	// creation time. The stored result is written back to s.
	Update(ctx context.Context, s *scenario.Scenario) error

	// Delete removes a scenario.
	Delete(ctx context.Context, userID, filename string) error

	// Close releases backend resources.
	Close() error
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func checkKey(userID, filename string) error {
	if userID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "user id is required")
	}
	return errors.ValidateFilename(filename)
}

func notFound(filename string) error {
	return errors.New(errors.ErrCodeScenarioNotFound, "scenario %q not found", filename)
}

func conflict(filename string) error {
	return errors.New(errors.ErrCodeConflict, "scenario %q already exists", filename)
}
