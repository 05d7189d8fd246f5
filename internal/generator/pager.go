package generator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pagerTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	pagerFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// pagerModel shows long text (usually a diff) in a scrollable viewport.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		const chrome = 2 // title and footer lines
		height := max(1, msg.Height-chrome)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	footer := fmt.Sprintf("%3.f%%  [↑/↓ pgup/pgdn] scroll  [q] quit", m.viewport.ScrollPercent()*100)
	return pagerTitleStyle.Render(m.title) + "\n" +
		m.viewport.View() + "\n" +
		pagerFooterStyle.Render(footer)
}

// Page shows content in a full-screen pager until the user quits.
func Page(title, content string) error {
	p := tea.NewProgram(newPagerModel(title, content), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to show pager: %w", err)
	}
	return nil
}

// NeedsPager reports whether content is taller than the given screen height.
func NeedsPager(content string, screenHeight int) bool {
	return strings.Count(content, "\n") > screenHeight-2
}
