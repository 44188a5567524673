package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ScenarioListModel - Interactive scenario selection
// =============================================================================

// ScenarioListModel is the bubbletea model for picking a stored scenario.
type ScenarioListModel struct {
	Items    []scenario.Summary
	Cursor   int
	Offset   int
	Height   int
	Selected *scenario.Summary

	now func() time.Time
}

// NewScenarioListModel creates a list model over items.
func NewScenarioListModel(items []scenario.Summary) ScenarioListModel {
	return ScenarioListModel{Items: items, Height: 15, now: time.Now}
}

func (m ScenarioListModel) Init() tea.Cmd {
	return nil
}

func (m ScenarioListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ScenarioListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Scenario"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Items) == 0 {
		b.WriteString(listDimStyle.Render("  no scenarios stored"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Items))
	now := time.Now()
	if m.now != nil {
		now = m.now()
	}

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			it.Filename,
			it.Name,
			fmt.Sprint(it.StateCount),
			formatRelativeTime(it.UpdatedAt, now),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Name", "States", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			current := m.Offset+row == m.Cursor
			switch {
			case current && col >= 3:
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			case current:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	return b.String()
}

// =============================================================================
// LevelBrowserModel - Step through the levels of one scenario
// =============================================================================

// LevelBrowserModel shows one level at a time with details for the
// highlighted state and its outgoing transitions.
type LevelBrowserModel struct {
	Scenario *scenario.Scenario
	Layout   *layout.Result
	Level    int
	Cursor   int

	states map[string]scenario.State
}

// NewLevelBrowserModel creates a browser positioned on the first level.
func NewLevelBrowserModel(s *scenario.Scenario, r *layout.Result) LevelBrowserModel {
	states := make(map[string]scenario.State, len(s.States))
	for _, st := range s.States {
		if _, ok := states[st.Name]; !ok {
			states[st.Name] = st
		}
	}
	return LevelBrowserModel{Scenario: s, Layout: r, states: states}
}

func (m LevelBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LevelBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "pgup":
		if m.Level > 0 {
			m.Level--
			m.Cursor = 0
		}
	case "right", "l", "pgdown", "tab":
		if m.Level < m.Layout.Depth()-1 {
			m.Level++
			m.Cursor = 0
		}
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.current())-1 {
			m.Cursor++
		}
	case "enter":
		// Follow the first valid transition out of the highlighted state.
		for _, t := range m.outgoing(m.Selected()) {
			if lvl, idx, ok := m.Layout.Position(t.To); ok {
				m.Level, m.Cursor = lvl, idx
				break
			}
		}
	}
	return m, nil
}

// current returns the names on the displayed level.
func (m LevelBrowserModel) current() []string {
	if m.Level < 0 || m.Level >= len(m.Layout.Levels) {
		return nil
	}
	return m.Layout.Levels[m.Level]
}

// Selected returns the highlighted state name, or "" for an empty layout.
func (m LevelBrowserModel) Selected() string {
	names := m.current()
	if m.Cursor < 0 || m.Cursor >= len(names) {
		return ""
	}
	return names[m.Cursor]
}

func (m LevelBrowserModel) outgoing(name string) []scenario.Transition {
	var out []scenario.Transition
	for _, t := range m.Scenario.Transitions {
		if t.From == name {
			out = append(out, t)
		}
	}
	return out
}

func (m LevelBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Scenario.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ level  ↑/↓ state  ⏎ follow  q quit"))
	b.WriteString("\n\n")

	if m.Layout.Depth() == 0 {
		b.WriteString(listDimStyle.Render("  no states"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleHighlight.Render(fmt.Sprintf("Level %d/%d", m.Level+1, m.Layout.Depth())))
	if m.Layout.IsFallback() {
		b.WriteString(" " + StyleWarning.Render("(sequential)"))
	}
	b.WriteString("\n")

	for i, name := range m.current() {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + name))
		} else {
			b.WriteString(listNormalStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}

	name := m.Selected()
	st := m.states[name]
	b.WriteString("\n")
	if st.Description != "" {
		b.WriteString(StyleValue.Render(st.Description))
		b.WriteString("\n")
	}
	if len(st.Roles) > 0 {
		b.WriteString(listDimStyle.Render("roles: " + strings.Join(st.Roles, ", ")))
		b.WriteString("\n")
	}
	if len(st.Tools) > 0 {
		tools := make([]string, len(st.Tools))
		for i, t := range st.Tools {
			tools[i] = t.Name
		}
		b.WriteString(listDimStyle.Render("tools: " + strings.Join(tools, ", ")))
		b.WriteString("\n")
	}

	for _, t := range m.outgoing(name) {
		line := iconArrow + " " + t.To
		style := listNormalStyle
		lvl, ok := m.Layout.Level(t.To)
		switch {
		case !ok:
			line += " (unknown state)"
			style = listDimStyle
		case lvl <= m.Level:
			style = styleBackward
		}
		if t.HasCondition() {
			line += " " + styleConditional.Render("["+t.Condition+"]")
		}
		b.WriteString("  " + style.Render(line) + "\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
