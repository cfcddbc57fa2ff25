package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/tangential/tangential/pkg/layout"
)

// SavePNG renders the snapshot to a PNG file using the same color
// scheme as the SVG renderer.
func SavePNG(path string, snap Snapshot) error {
	width, height := canvasSize(snap.Result)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("nothing to render")
	}

	dc := gg.NewContext(width, height)

	dc.SetHexColor(colorCanvas)
	dc.Clear()

	for _, e := range snap.Result.Edges {
		src := snap.Result.NodeByID(e.Source)
		dst := snap.Result.NodeByID(e.Target)
		if src == nil || dst == nil {
			continue
		}
		if e.Highlighted {
			dc.SetHexColor(colorEdgeHighlight)
			dc.SetLineWidth(4)
		} else {
			dc.SetHexColor(colorEdge)
			dc.SetLineWidth(2)
		}
		dc.DrawLine(src.X+src.Width/2, src.Y+src.Height, dst.X+dst.Width/2, dst.Y)
		dc.Stroke()
	}

	for _, n := range snap.Result.Nodes {
		dc.SetHexColor(colorNodeFill)
		dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, 8)
		dc.Fill()

		stroke, strokeWidth := nodeStroke(n)
		dc.SetHexColor(stroke)
		dc.SetLineWidth(strokeWidth)
		dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, 8)
		dc.Stroke()

		if label := truncateLabel(snap.Labels[n.ID]); label != "" {
			dc.SetHexColor(colorLabel)
			dc.DrawStringAnchored(label, n.X+12, n.Y+n.Height/2, 0, 0.35)
		}
	}

	return dc.SavePNG(path)
}

func nodeStroke(n layout.Node) (string, float64) {
	switch {
	case n.Selected:
		return colorSelected, 3
	case n.Highlighted:
		return colorHighlighted, 2
	default:
		return colorNodeStroke, 1
	}
}
