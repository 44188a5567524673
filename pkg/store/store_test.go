package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

func sample(user, filename string) *scenario.Scenario {
	return &scenario.Scenario{
		Name:        "Onboarding",
		Description: "New hire onboarding",
		Roles:       []scenario.Role{{Name: "HR", Description: "People team"}},
		States: []scenario.State{
			{Name: "Offer", Roles: []string{"HR"}, Description: "Send offer"},
			{Name: "Start", Roles: []string{"HR"}, Description: "First day"},
		},
		Transitions: []scenario.Transition{{From: "Offer", To: "Start", Condition: "accepted"}},
		UserID:      user,
		Filename:    filename,
	}
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		s := newStore(t)
		doc := sample("alice", "onboarding.yaml")
		require.NoError(t, s.Create(ctx, doc))
		assert.NotEmpty(t, doc.ID)
		assert.False(t, doc.CreatedAt.IsZero())

		got, err := s.Get(ctx, "alice", "onboarding.yaml")
		require.NoError(t, err)
		assert.Equal(t, doc.Name, got.Name)
		assert.Equal(t, doc.States, got.States)
		assert.Equal(t, doc.Transitions, got.Transitions)
		assert.Equal(t, "alice", got.UserID)
		assert.Equal(t, "onboarding.yaml", got.Filename)
	})

	t.Run("duplicate filename conflicts", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sample("alice", "a.yaml")))
		err := s.Create(ctx, sample("alice", "a.yaml"))
		assert.True(t, errors.Is(err, errors.ErrCodeConflict), "got %v", err)

		// Same filename for another user is fine.
		assert.NoError(t, s.Create(ctx, sample("bob", "a.yaml")))
	})

	t.Run("missing scenario", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "alice", "nope.yaml")
		assert.True(t, errors.Is(err, errors.ErrCodeScenarioNotFound), "got %v", err)
		err = s.Update(ctx, sample("alice", "nope.yaml"))
		assert.True(t, errors.Is(err, errors.ErrCodeScenarioNotFound), "got %v", err)
		err = s.Delete(ctx, "alice", "nope.yaml")
		assert.True(t, errors.Is(err, errors.ErrCodeScenarioNotFound), "got %v", err)
	})

	t.Run("update keeps identity", func(t *testing.T) {
		s := newStore(t)
		doc := sample("alice", "a.yaml")
		require.NoError(t, s.Create(ctx, doc))
		id := doc.ID

		edit := sample("alice", "a.yaml")
		edit.Name = "Renamed"
		require.NoError(t, s.Update(ctx, edit))
		assert.Equal(t, id, edit.ID)

		got, err := s.Get(ctx, "alice", "a.yaml")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("list and delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sample("alice", "a.yaml")))
		require.NoError(t, s.Create(ctx, sample("alice", "b.yaml")))
		require.NoError(t, s.Create(ctx, sample("bob", "c.yaml")))

		list, err := s.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, sum := range list {
			assert.Equal(t, 2, sum.StateCount)
		}

		require.NoError(t, s.Delete(ctx, "alice", "a.yaml"))
		list, err = s.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "b.yaml", list[0].Filename)

		empty, err := s.List(ctx, "carol")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("rejects bad keys", func(t *testing.T) {
		s := newStore(t)
		err := s.Create(ctx, sample("alice", "../escape"))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidFilename), "got %v", err)
		err = s.Create(ctx, sample("", "a.yaml"))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})
}

func TestMemory(t *testing.T) {
	testStore(t, func(t *testing.T) Store { return NewMemory() })
}

func TestFile(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewFile(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	doc := sample("alice", "a.yaml")
	require.NoError(t, m.Create(ctx, doc))

	doc.States[0].Name = "mutated"
	got, err := m.Get(ctx, "alice", "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Offer", got.States[0].Name)

	got.States[0].Name = "mutated again"
	again, _ := m.Get(ctx, "alice", "a.yaml")
	assert.Equal(t, "Offer", again.States[0].Name)
}

func TestMemory_ListOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }
	t.Cleanup(func() { now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) } })

	m := NewMemory()
	require.NoError(t, m.Create(ctx, sample("u", "old.yaml")))
	require.NoError(t, m.Create(ctx, sample("u", "new.yaml")))
	require.NoError(t, m.Update(ctx, sample("u", "old.yaml")))

	list, err := m.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "old.yaml", list[0].Filename, "most recently updated first")
}

func TestFile_WritesYAML(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, f.Create(ctx, sample("alice", "a.yaml")))

	doc, err := scenario.ReadFile(f.docPath("alice", "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", doc.Name)

	err = f.Create(ctx, sample("../x", "a.yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestFile_ListStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	outside := filepath.Join(root, "secret")
	require.NoError(t, os.MkdirAll(outside, 0o755))
	doc, err := scenario.Marshal(sample("", ""))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(outside, "other.yaml"), doc, 0o644))

	f, err := NewFile(filepath.Join(root, "store"))
	require.NoError(t, err)

	for _, user := range []string{"../secret", "..", "a/b", ""} {
		list, err := f.List(ctx, user)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "user %q: got %v", user, err)
		assert.Empty(t, list, "user %q", user)
	}
}
