package ui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tangential/tangential/pkg/layout"
)

// Canvas cell geometry. Layout coordinates are continuous; the canvas
// quantizes them back to slot/rank indices and draws one box per node.
const (
	nodeBoxWidth  = 24 // content width inside the border
	nodeBoxHeight = 3  // rendered box height including border
	colStride     = nodeBoxWidth + 4
	connectorRows = 1
)

// canvasLines renders the whole layout as styled terminal lines: one
// band of node boxes per rank with a connector line between bands.
func (m *Model) canvasLines() []string {
	if len(m.layoutRes.Nodes) == 0 {
		return []string{HelpDescStyle.Render("   (empty tree)")}
	}

	slotW := m.cfg.Layout.NodeWidth + m.cfg.Layout.SiblingSpacing
	rankH := m.cfg.Layout.NodeHeight + m.cfg.Layout.RankSpacing

	byRank := make(map[int][]rankCell)
	slotOf := make(map[string]int, len(m.layoutRes.Nodes))
	rankOf := make(map[string]int, len(m.layoutRes.Nodes))
	maxRank := 0

	for _, n := range m.layoutRes.Nodes {
		slot := int(math.Round((n.X - m.cfg.Layout.Margin) / slotW))
		rank := int(math.Round((n.Y - m.cfg.Layout.Margin) / rankH))
		byRank[rank] = append(byRank[rank], rankCell{node: n, slot: slot})
		slotOf[n.ID] = slot
		rankOf[n.ID] = rank
		if rank > maxRank {
			maxRank = rank
		}
	}

	var lines []string
	for rank := 0; rank <= maxRank; rank++ {
		cells := byRank[rank]
		sort.Slice(cells, func(i, j int) bool { return cells[i].slot < cells[j].slot })
		lines = append(lines, m.renderRankBand(cells)...)

		if rank < maxRank {
			lines = append(lines, m.renderConnectorLine(rank, slotOf, rankOf))
		}
	}
	return lines
}

type rankCell struct {
	node layout.Node
	slot int
}

func (m *Model) renderRankBand(cells []rankCell) []string {
	band := make([]string, nodeBoxHeight)
	widths := make([]int, nodeBoxHeight)

	for _, c := range cells {
		startCol := c.slot * colStride
		box := m.renderNodeBox(c.node)
		boxLines := strings.Split(box, "\n")

		for i := 0; i < nodeBoxHeight && i < len(boxLines); i++ {
			if pad := startCol - widths[i]; pad > 0 {
				band[i] += strings.Repeat(" ", pad)
				widths[i] += pad
			}
			band[i] += boxLines[i]
			widths[i] += lipgloss.Width(boxLines[i])
		}
	}
	return band
}

// renderNodeBox draws one node as a bordered one-line box. Selection
// wins over highlighting, failure over both.
func (m *Model) renderNodeBox(n layout.Node) string {
	style := NodeBoxStyle
	switch {
	case n.Selected:
		style = NodeBoxSelected
	case n.Highlighted:
		style = NodeBoxHighlighted
	}

	label := ""
	if node := m.idx.Node(n.ID); node != nil {
		label = node.Title()
		if node.Failed && !n.Selected {
			style = NodeBoxFailed
		}
	}
	label = runewidth.Truncate(label, nodeBoxWidth-2, "…")

	return style.Width(nodeBoxWidth).Render(" " + label)
}

// renderConnectorLine draws the edges leaving the given rank as vertical
// glyphs at each child's column center.
func (m *Model) renderConnectorLine(rank int, slotOf, rankOf map[string]int) string {
	type glyph struct {
		col         int
		highlighted bool
	}
	var glyphs []glyph
	for _, e := range m.layoutRes.Edges {
		if rankOf[e.Source] != rank {
			continue
		}
		col := slotOf[e.Target]*colStride + nodeBoxWidth/2
		glyphs = append(glyphs, glyph{col: col, highlighted: e.Highlighted})
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].col < glyphs[j].col })

	var sb strings.Builder
	col := 0
	for _, g := range glyphs {
		if g.col < col {
			continue
		}
		sb.WriteString(strings.Repeat(" ", g.col-col))
		if g.highlighted {
			sb.WriteString(EdgeHighlighted.Render("┃"))
		} else {
			sb.WriteString(EdgeStyle.Render("│"))
		}
		col = g.col + 1
	}
	return sb.String()
}

// scrollToSelected keeps the selected node's band inside the canvas
// viewport, with a small scrolloff like the list views use.
func (m *Model) scrollToSelected() {
	id := m.sel.SelectedID()
	if id == "" {
		return
	}
	n := m.layoutRes.NodeByID(id)
	if n == nil {
		return
	}

	rankH := m.cfg.Layout.NodeHeight + m.cfg.Layout.RankSpacing
	rank := int(math.Round((n.Y - m.cfg.Layout.Margin) / rankH))
	line := rank * (nodeBoxHeight + connectorRows)

	visible := m.canvasHeight()
	scrolloff := visible / 4
	target := line - scrolloff
	if target < 0 {
		target = 0
	}
	m.canvasScroll = target
}

func (m *Model) canvasHeight() int {
	h := m.height - 4 // header + status bar + borders
	if h < 5 {
		h = 5
	}
	return h
}

// applyScrollWindow slices content lines by scroll offset and height.
func applyScrollWindow(lines []string, scroll, visible int) []string {
	if len(lines) == 0 {
		return nil
	}
	start := scroll
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		start = len(lines) - 1
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
