package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/search"
)

// handleSearchKey routes keys while the search overlay is open. The
// text input has focus, so arrow keys move through matches and plain
// characters type into the query; none of it reaches tree navigation.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if m.searchCursor < len(m.searchMatches) {
			m.selectNode(m.searchMatches[m.searchCursor].NodeID)
		}
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "up":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down":
		if m.searchCursor < len(m.searchMatches)-1 {
			m.searchCursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchMatches = search.Nodes(m.nodes, m.searchInput.Value(), 8)
	m.searchCursor = 0
	return m, cmd
}

// handleNoteKey routes keys while the summary editor is open.
func (m *Model) handleNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showNoteInput = false
		m.noteInput.Blur()
		return m, nil

	case "ctrl+s", "ctrl+j":
		summary := m.noteInput.Value()
		m.showNoteInput = false
		m.noteInput.Blur()
		id := m.sel.SelectedID()
		if id == "" {
			return m, nil
		}
		return m, m.saveSummaryCmd(id, summary)
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

func (m *Model) saveSummaryCmd(nodeID, summary string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.UpdateNode(context.Background(), nodeID, model.UpdateNode{Summary: &summary})
		if err != nil {
			return treeDataMsg{err: err}
		}
		data, err := m.store.LoadTreeData(context.Background(), m.tree.ID)
		return treeDataMsg{data: data, err: err}
	}
}

func (m *Model) renderSearchOverlay() string {
	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Search"))
	lines = append(lines, m.searchInput.View())
	for i, match := range m.searchMatches {
		label := runewidth.Truncate(match.Label, 40, "…")
		if i == m.searchCursor {
			label = CursorLineStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}
	box := PanelFocusedStyle.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderNoteOverlay() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		PanelTitleStyle.Render("Edit summary"),
		m.noteInput.View(),
		HelpDescStyle.Render("ctrl+s save · esc cancel"),
	)
	box := PanelFocusedStyle.Padding(0, 1).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
