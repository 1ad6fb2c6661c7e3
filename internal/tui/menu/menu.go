// Package menu provides the interactive operator menu as a small
// bubbletea program: a titled list of actions with cursor selection.
package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item is one selectable menu entry.
type Item struct {
	Title string
	Desc  string
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}).
			Bold(true)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})

	helpStyle = descStyle.MarginTop(1)
)

// Model is the bubbletea model for the menu.
type Model struct {
	title  string
	items  []Item
	cursor int
	choice int
}

// New creates a menu model. The choice starts as -1 ("nothing chosen").
func New(title string, items []Item) *Model {
	return &Model{title: title, items: items, choice: -1}
}

// Choice returns the selected item index, or -1 if the menu was
// dismissed without choosing.
func (m *Model) Choice() int { return m.choice }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		m.choice = -1
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = m.cursor
		return m, tea.Quit
	default:
		// Number keys select directly, 1-based like the original menus.
		if n := int(keyMsg.String()[0] - '0'); len(keyMsg.String()) == 1 && n >= 1 && n <= len(m.items) {
			m.choice = n - 1
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	s := titleStyle.Render(m.title) + "\n"
	for i, item := range m.items {
		cursor := "  "
		line := fmt.Sprintf("%d. %s", i+1, item.Title)
		if item.Desc != "" {
			line += "  " + descStyle.Render(item.Desc)
		}
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			line = cursorStyle.Render(fmt.Sprintf("%d. %s", i+1, item.Title))
			if item.Desc != "" {
				line += "  " + descStyle.Render(item.Desc)
			}
		}
		s += cursor + line + "\n"
	}
	s += helpStyle.Render("j/k move · enter select · q quit")
	return s
}

// Run displays the menu and blocks until the operator picks an entry.
// Returns the chosen index, or -1 when dismissed.
func Run(title string, items []Item) (int, error) {
	model := New(title, items)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return -1, fmt.Errorf("running menu: %w", err)
	}
	return model.Choice(), nil
}
