package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const leafPanelWidth = 34

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showSearch {
		return m.renderSearchOverlay()
	}
	if m.showNoteInput {
		return m.renderNoteOverlay()
	}

	switch m.state {
	case statePicker:
		return m.pickerView()
	case stateTranscript:
		return m.transcriptView()
	default:
		return m.graphView()
	}
}

func (m *Model) pickerView() string {
	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Tangential · conversation trees"))
	lines = append(lines, "")

	if m.errMsg != "" {
		lines = append(lines, StatusErrorStyle.Render(m.errMsg))
	}
	if len(m.trees) == 0 {
		lines = append(lines, HelpDescStyle.Render("no trees yet (create one with the desktop app)"))
	}

	for i, t := range m.trees {
		label := runewidth.Truncate(t.Name, m.width-8, "…")
		if i == m.pickerCursor {
			lines = append(lines, CursorLineStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.helpLine([][2]string{
		{"↑/↓", "move"}, {"enter", "open"}, {"r", "reload"}, {"q", "quit"},
	}))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) graphView() string {
	header := m.headerLine()

	canvasW := m.width - leafPanelWidth - 2
	if canvasW < 30 {
		canvasW = m.width // narrow terminal: drop the side panel
	}

	lines := m.canvasLines()
	visible := applyScrollWindow(lines, m.canvasScroll, m.canvasHeight())
	canvas := lipgloss.NewStyle().MaxWidth(canvasW).Render(strings.Join(visible, "\n"))

	body := canvas
	if canvasW < m.width {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas,
			lipgloss.NewStyle().Width(leafPanelWidth).Render(m.leafPanel()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine())
}

func (m *Model) headerLine() string {
	name := ""
	if m.tree != nil {
		name = m.tree.Name
	}
	counts := fmt.Sprintf("%d nodes · %d paths", len(m.nodes), len(m.leaves))
	return PanelTitleStyle.Render(name) + "  " + HelpDescStyle.Render(counts)
}

// leafPanel lists the tree's leaves: one line per root-to-leaf path the
// user can highlight.
func (m *Model) leafPanel() string {
	style := PanelStyle
	if m.leafFocus {
		style = PanelFocusedStyle
	}

	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Paths"))
	for i, leaf := range m.leaves {
		label := runewidth.Truncate(leaf.Title(), leafPanelWidth-6, "…")
		switch {
		case m.leafFocus && i == m.leafCursor:
			lines = append(lines, CursorLineStyle.Render("> "+label))
		case m.isOnHighlightedPath(leaf.ID):
			lines = append(lines, PathMarkStyle.Render("* "+label))
		default:
			lines = append(lines, "  "+label)
		}
	}

	maxLines := m.canvasHeight() - 2
	if len(lines) > maxLines && maxLines > 0 {
		lines = lines[:maxLines]
	}
	return style.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func (m *Model) isOnHighlightedPath(id string) bool {
	for _, pid := range m.sel.HighlightedPath() {
		if pid == id {
			return true
		}
	}
	return false
}

func (m *Model) statusLine() string {
	if m.statusMsg != "" {
		return StatusBarStyle.Render(m.statusMsg)
	}
	if m.errMsg != "" {
		return StatusErrorStyle.Render(m.errMsg)
	}
	help := [][2]string{
		{"←↑↓→", "navigate"}, {"enter", "highlight path"}, {"esc", "clear"},
		{"tab", "paths"}, {"t", "transcript"}, {"/", "search"},
		{"n", "summary"}, {"y", "yank"}, {"x", "export"}, {"q", "quit"},
	}
	return m.helpLine(help)
}

func (m *Model) helpLine(entries [][2]string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, HelpKeyStyle.Render(e[0])+" "+HelpDescStyle.Render(e[1]))
	}
	return StatusBarStyle.MaxWidth(m.width).Render(strings.Join(parts, "  "))
}
