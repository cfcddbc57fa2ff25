// Package layout assigns deterministic 2-D positions to conversation
// nodes and synthesizes the edge list. The whole output is regenerated
// from scratch on every call: nodes and edges are plain values with
// their selection/highlight flags baked in, so a renderer never has to
// notice a nested field change. Same input always yields the same output.
package layout

import (
	"github.com/tangential/tangential/pkg/treeindex"
)

// Spacing defaults (in pixels / canvas units).
const (
	// DefaultNodeWidth and DefaultNodeHeight are the fixed node box
	// dimensions used for collision-free packing.
	DefaultNodeWidth  = 220.0
	DefaultNodeHeight = 80.0

	// DefaultRankSpacing is the vertical gap between consecutive ranks.
	DefaultRankSpacing = 60.0

	// DefaultSiblingSpacing is the minimum horizontal gap between nodes
	// sharing a rank.
	DefaultSiblingSpacing = 40.0

	// DefaultMargin is the canvas margin around the whole layout.
	DefaultMargin = 50.0
)

// Config holds the spacing constants for one layout run.
type Config struct {
	NodeWidth      float64 `yaml:"node_width"`
	NodeHeight     float64 `yaml:"node_height"`
	RankSpacing    float64 `yaml:"rank_spacing"`
	SiblingSpacing float64 `yaml:"sibling_spacing"`
	Margin         float64 `yaml:"margin"`
}

// DefaultConfig returns the default spacing constants.
func DefaultConfig() Config {
	return Config{
		NodeWidth:      DefaultNodeWidth,
		NodeHeight:     DefaultNodeHeight,
		RankSpacing:    DefaultRankSpacing,
		SiblingSpacing: DefaultSiblingSpacing,
		Margin:         DefaultMargin,
	}
}

// Node is one positioned conversation node. X and Y are the top-left
// corner of the node box.
type Node struct {
	ID          string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Selected    bool
	Highlighted bool
}

// Edge connects a parent node to one of its children. ID is
// "<parent>-<child>". Highlighted is true only when parent and child are
// adjacent entries of the highlighted path, so highlighting lights up
// edges on the path, not edges merely touching it.
type Edge struct {
	ID          string
	Source      string
	Target      string
	Highlighted bool
}

// Result is the full derived output for one node collection.
type Result struct {
	Nodes []Node
	Edges []Edge
}

// NodeByID returns the positioned node with the given ID, or nil.
func (r *Result) NodeByID(id string) *Node {
	for i := range r.Nodes {
		if r.Nodes[i].ID == id {
			return &r.Nodes[i]
		}
	}
	return nil
}

// Compute lays out the indexed nodes top-to-bottom by rank. Rank is the
// node's depth from its layout root; within a rank, nodes follow DFS
// pre-order over the forest, which keeps each subtree horizontally
// contiguous and edge crossings at zero. Parents are centered over the
// span of their children, then nudged right if that would violate the
// minimum same-rank separation.
//
// A node whose parent is missing from the collection is laid out as a
// root with no inbound edge. Empty input produces an empty result.
func Compute(idx *treeindex.Index, cfg Config, selectedID string, highlightedPath []string) Result {
	var res Result
	if idx == nil || idx.Len() == 0 {
		return res
	}

	// Position of each ID inside the highlighted path, for adjacency checks.
	pathPos := make(map[string]int, len(highlightedPath))
	for i, id := range highlightedPath {
		pathPos[id] = i
	}

	slotWidth := cfg.NodeWidth + cfg.SiblingSpacing
	xByID := make(map[string]float64, idx.Len())
	rankByID := make(map[string]int, idx.Len())
	lastXByRank := make(map[int]float64)

	nextSlot := 0.0

	// Post-order x assignment: leaves take consecutive slots, parents
	// center over their children. lastXByRank enforces the minimum
	// separation when a centered parent would crowd its left neighbor.
	var place func(id string, rank int)
	place = func(id string, rank int) {
		rankByID[id] = rank

		children := idx.Children(id)
		var x float64
		if len(children) == 0 {
			x = nextSlot * slotWidth
			nextSlot++
		} else {
			for _, c := range children {
				place(c.ID, rank+1)
			}
			first := xByID[children[0].ID]
			last := xByID[children[len(children)-1].ID]
			x = (first + last) / 2
		}

		if prev, ok := lastXByRank[rank]; ok && x < prev+slotWidth {
			x = prev + slotWidth
		}
		lastXByRank[rank] = x
		xByID[id] = x
	}

	for _, root := range idx.Roots() {
		place(root.ID, 0)
	}

	// Emit nodes in DFS pre-order so output order is deterministic too.
	var emit func(id string)
	emit = func(id string) {
		_, onPath := pathPos[id]
		res.Nodes = append(res.Nodes, Node{
			ID:          id,
			X:           cfg.Margin + xByID[id],
			Y:           cfg.Margin + float64(rankByID[id])*(cfg.NodeHeight+cfg.RankSpacing),
			Width:       cfg.NodeWidth,
			Height:      cfg.NodeHeight,
			Selected:    id == selectedID,
			Highlighted: onPath,
		})
		for _, c := range idx.Children(id) {
			srcPos, srcOn := pathPos[id]
			dstPos, dstOn := pathPos[c.ID]
			res.Edges = append(res.Edges, Edge{
				ID:          id + "-" + c.ID,
				Source:      id,
				Target:      c.ID,
				Highlighted: srcOn && dstOn && dstPos == srcPos+1,
			})
			emit(c.ID)
		}
	}

	for _, root := range idx.Roots() {
		emit(root.ID)
	}

	return res
}
