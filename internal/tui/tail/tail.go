// Package tail provides a scrollable, following log viewer as a
// bubbletea program. It polls the file for appended content rather than
// subscribing to filesystem events, matching the supervisor's
// poll-based design.
package tail

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pollEvery is how often the viewer checks the file for new content.
const pollEvery = 500 * time.Millisecond

// maxBuffer caps the in-memory log buffer so long sessions don't grow
// without bound.
const maxBuffer = 512 * 1024

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
)

// KeyMap holds the viewer key bindings.
type KeyMap struct {
	Quit   key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "follow"),
		),
	}
}

type tickMsg time.Time

// Model is the bubbletea model for the log viewer.
type Model struct {
	path     string
	offset   int64
	content  strings.Builder
	viewport viewport.Model
	keys     KeyMap
	follow   bool
	ready    bool
	err      error
}

// NewModel creates a viewer for the log at path.
func NewModel(path string) *Model {
	return &Model{
		path:   path,
		keys:   DefaultKeyMap(),
		follow: true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), tea.SetWindowTitle("feedctl logs"))
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(pollEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Bottom):
			m.follow = true
			m.viewport.GotoBottom()
			return m, nil
		}
		// Manual scrolling pauses following until G/end re-enables it.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		if !m.viewport.AtBottom() {
			m.follow = false
		}
		return m, cmd

	case tea.WindowSizeMsg:
		headerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
			m.viewport.SetContent(m.content.String())
			m.viewport.GotoBottom()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		return m, nil

	case tickMsg:
		if err := m.readNew(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// readNew appends any content written since the last poll.
func (m *Model) readNew() error {
	f, err := os.Open(m.path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < m.offset {
		// Log was truncated or rotated; start over from the top.
		m.offset = 0
		m.content.Reset()
	}
	if info.Size() == m.offset {
		return nil
	}
	if _, err := f.Seek(m.offset, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	m.offset += int64(len(data))
	m.content.Write(data)

	text := m.content.String()
	if len(text) > maxBuffer {
		text = text[len(text)-maxBuffer:]
		m.content.Reset()
		m.content.WriteString(text)
	}
	if m.ready {
		m.viewport.SetContent(text)
		if m.follow {
			m.viewport.GotoBottom()
		}
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	status := "following"
	if !m.follow {
		status = "paused (G to follow)"
	}
	header := headerStyle.Render(m.path) + "  " + statusStyle.Render(status)
	return header + "\n" + m.viewport.View()
}

// Run opens the viewer on the log at path and blocks until quit.
func Run(path string) error {
	model := NewModel(path)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running log viewer: %w", err)
	}
	if model.err != nil {
		return model.err
	}
	return nil
}
