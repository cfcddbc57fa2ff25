// Package export renders layout snapshots to SVG and PNG files, used by
// the -export flags to capture a tree without entering the TUI.
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/tangential/tangential/pkg/layout"
)

// Snapshot is one renderable layout plus per-node labels.
type Snapshot struct {
	Result layout.Result
	Labels map[string]string
}

// Color scheme shared by the SVG and PNG renderers.
const (
	colorCanvas        = "#1e1f29"
	colorNodeFill      = "#282a36"
	colorNodeStroke    = "#6272a4"
	colorSelected      = "#ffb86c"
	colorHighlighted   = "#bd93f9"
	colorEdge          = "#44475a"
	colorEdgeHighlight = "#bd93f9"
	colorLabel         = "#f8f8f2"
)

const labelMaxRunes = 28

// WriteSVG renders the snapshot as a standalone SVG document.
func WriteSVG(w io.Writer, snap Snapshot) error {
	width, height := canvasSize(snap.Result)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+colorCanvas)

	// Edges first so nodes draw over them.
	for _, e := range snap.Result.Edges {
		src := snap.Result.NodeByID(e.Source)
		dst := snap.Result.NodeByID(e.Target)
		if src == nil || dst == nil {
			continue
		}
		stroke := colorEdge
		strokeWidth := 2
		if e.Highlighted {
			stroke = colorEdgeHighlight
			strokeWidth = 4
		}
		canvas.Line(
			int(src.X+src.Width/2), int(src.Y+src.Height),
			int(dst.X+dst.Width/2), int(dst.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%d", stroke, strokeWidth))
	}

	for _, n := range snap.Result.Nodes {
		stroke := colorNodeStroke
		strokeWidth := 1
		if n.Highlighted {
			stroke = colorHighlighted
			strokeWidth = 2
		}
		if n.Selected {
			stroke = colorSelected
			strokeWidth = 3
		}
		canvas.Roundrect(int(n.X), int(n.Y), int(n.Width), int(n.Height), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", colorNodeFill, stroke, strokeWidth))

		if label := truncateLabel(snap.Labels[n.ID]); label != "" {
			canvas.Text(int(n.X+12), int(n.Y+n.Height/2+5), label,
				"fill:"+colorLabel+";font-family:monospace;font-size:13px")
		}
	}

	canvas.End()
	return nil
}

// SaveSVG writes the snapshot to a file.
func SaveSVG(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg file: %w", err)
	}
	defer f.Close()

	if err := WriteSVG(f, snap); err != nil {
		return err
	}
	return f.Close()
}

// canvasSize computes the bounding box of all nodes plus a margin.
func canvasSize(res layout.Result) (int, int) {
	var maxX, maxY float64
	for _, n := range res.Nodes {
		if x := n.X + n.Width; x > maxX {
			maxX = x
		}
		if y := n.Y + n.Height; y > maxY {
			maxY = y
		}
	}
	const pad = 50
	return int(maxX) + pad, int(maxY) + pad
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= labelMaxRunes {
		return label
	}
	return string(runes[:labelMaxRunes-1]) + "…"
}
