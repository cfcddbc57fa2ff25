package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Colors and shared styles
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	// Accent colors
	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// ══════════════════════════════════════════════════════════════════════════════
// NODE BOX STYLES - Graph canvas
// ══════════════════════════════════════════════════════════════════════════════

var (
	// NodeBoxStyle is the default style for an unselected node box.
	NodeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Foreground(ColorText)

	// NodeBoxHighlighted marks nodes on the highlighted path.
	NodeBoxHighlighted = NodeBoxStyle.
				BorderForeground(ColorPrimary).
				Foreground(ColorPrimary)

	// NodeBoxSelected marks the selected node; selection wins over
	// path highlighting when both apply.
	NodeBoxSelected = NodeBoxStyle.
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorWarning).
			Foreground(ColorText)

	// NodeBoxFailed marks turns whose generation failed.
	NodeBoxFailed = NodeBoxStyle.
			BorderForeground(ColorDanger).
			Foreground(ColorDanger)

	// EdgeStyle and EdgeHighlighted style the connector glyphs between
	// ranks.
	EdgeStyle       = lipgloss.NewStyle().Foreground(ColorBgHighlight)
	EdgeHighlighted = lipgloss.NewStyle().Foreground(ColorPrimary)
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	PanelFocusedStyle = PanelStyle.
				BorderForeground(ColorPrimary)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Background(ColorBg)

	StatusErrorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorDanger)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorInfo)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	PathMarkStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	CursorLineStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgHighlight)

	UserTurnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	AssistantTurnStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInfo)
)
