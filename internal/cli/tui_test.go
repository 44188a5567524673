package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScenarioListModel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []scenario.Summary{
		{Filename: "review.yaml", Name: "Content Review", StateCount: 5, UpdatedAt: now.Add(-2 * time.Hour)},
		{Filename: "loop.yaml", Name: "Support Loop", StateCount: 4, UpdatedAt: now.Add(-72 * time.Hour)},
	}
	m := NewScenarioListModel(items)
	m.now = func() time.Time { return now }

	view := m.View()
	for _, want := range []string{"review.yaml", "Support Loop", "2h ago", "3d ago", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	next, _ := m.Update(key("down"))
	next, _ = next.Update(key("down"))
	m = next.(ScenarioListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", m.Cursor)
	}

	next, cmd := m.Update(key("enter"))
	m = next.(ScenarioListModel)
	if m.Selected == nil || m.Selected.Filename != "loop.yaml" {
		t.Fatalf("selected = %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestScenarioListModelEmpty(t *testing.T) {
	m := NewScenarioListModel(nil)
	next, _ := m.Update(key("enter"))
	if next.(ScenarioListModel).Selected != nil {
		t.Error("nothing to select in an empty list")
	}
	if !strings.Contains(m.View(), "no scenarios") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func browserFixture() LevelBrowserModel {
	s := &scenario.Scenario{
		Name: "Review",
		States: []scenario.State{
			{Name: "Draft", Roles: []string{"Author"}, Description: "Write it"},
			{Name: "Review", Roles: []string{"Editor"}, Description: "Read it"},
			{Name: "Revise", Roles: []string{"Author"}, Description: "Fix it"},
			{Name: "Publish", Roles: []string{"Editor"}, Description: "Ship it"},
		},
		Transitions: []scenario.Transition{
			{From: "Draft", To: "Review"},
			{From: "Review", To: "Revise", Condition: "changes requested"},
			{From: "Review", To: "Publish", Condition: "approved"},
			{From: "Revise", To: "Review"},
		},
	}
	return NewLevelBrowserModel(s, layout.Compute(s.States, s.Transitions))
}

func TestLevelBrowserNavigation(t *testing.T) {
	m := browserFixture()
	if m.Selected() != "Draft" {
		t.Fatalf("start = %q", m.Selected())
	}

	steps := []struct {
		key  string
		want string
	}{
		{"left", "Draft"},
		{"right", "Review"},
		{"right", "Revise"},
		{"down", "Publish"},
		{"down", "Publish"},
		{"right", "Publish"},
		{"left", "Review"},
	}
	for _, st := range steps {
		next, _ := m.Update(key(st.key))
		m = next.(LevelBrowserModel)
		if got := m.Selected(); got != st.want {
			t.Fatalf("after %s: selected %q, want %q", st.key, got, st.want)
		}
	}
}

func TestLevelBrowserFollow(t *testing.T) {
	m := browserFixture()
	next, _ := m.Update(key("enter"))
	m = next.(LevelBrowserModel)
	if m.Selected() != "Review" || m.Level != 1 {
		t.Errorf("follow from Draft: %q at level %d", m.Selected(), m.Level)
	}

	view := m.View()
	for _, want := range []string{"Level 2/3", "Read it", "roles: Editor", "Revise", "[approved]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLevelBrowserQuit(t *testing.T) {
	_, cmd := browserFixture().Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLevelBrowserEmpty(t *testing.T) {
	s := &scenario.Scenario{Name: "Empty"}
	m := NewLevelBrowserModel(s, layout.Compute(nil, nil))
	if m.Selected() != "" {
		t.Errorf("selected = %q", m.Selected())
	}
	next, _ := m.Update(key("right"))
	if next.(LevelBrowserModel).Level != 0 {
		t.Error("right on an empty layout should stay put")
	}
	if !strings.Contains(m.View(), "no states") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), "Dec 1, 2025"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t, now); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
