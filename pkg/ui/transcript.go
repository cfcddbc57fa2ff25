package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// transcriptView shows the highlighted path as a linear chat.
func (m *Model) transcriptView() string {
	header := PanelTitleStyle.Render("Transcript") + "  " +
		HelpDescStyle.Render("esc back · ↑/↓ scroll")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.transcript.View())
}

// renderTranscript turns the highlighted path's nodes into chat text.
// Assistant turns go through the markdown renderer; user turns stay
// plain. Stale IDs were already dropped by HighlightedPathNodes.
func (m *Model) renderTranscript() string {
	nodes := m.sel.HighlightedPathNodes(m.idx)
	if len(nodes) == 0 {
		return HelpDescStyle.Render("no path highlighted")
	}

	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(UserTurnStyle.Render("You"))
		sb.WriteString("\n")
		sb.WriteString(n.UserContent)
		sb.WriteString("\n\n")

		who := "Assistant"
		if n.Model != nil && *n.Model != "" {
			who = *n.Model
		}
		sb.WriteString(AssistantTurnStyle.Render(who))
		sb.WriteString("\n")
		switch {
		case n.Failed:
			sb.WriteString(StatusErrorStyle.Render("(generation failed)"))
			sb.WriteString("\n")
		case n.AssistantContent != nil:
			sb.WriteString(m.renderMarkdown(*n.AssistantContent))
		default:
			sb.WriteString(HelpDescStyle.Render("(no response)"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderMarkdown renders assistant markdown at the current width,
// falling back to the raw text when the renderer is unavailable.
func (m *Model) renderMarkdown(md string) string {
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.cfg.GlamourStyle),
			glamour.WithWordWrap(m.transcript.Width),
		)
		if err != nil {
			return md + "\n"
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}
