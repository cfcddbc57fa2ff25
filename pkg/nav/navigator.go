// Package nav translates directional input into selection moves over the
// computed layout. Up follows the parent link, Down descends into the
// last-visited child (falling back to the leftmost), and Left/Right step
// between nodes sharing a visual rank. All moves require a current
// selection; without one every direction is a no-op.
package nav

import (
	"sort"

	"github.com/tangential/tangential/pkg/layout"
	"github.com/tangential/tangential/pkg/model"
	"github.com/tangential/tangential/pkg/treeindex"
)

// DefaultRankTolerance is the vertical distance (in layout units) within
// which two nodes count as the same visual rank. It absorbs floating
// point jitter in computed Y coordinates; for trees with very uneven
// subtree depths it is an approximation, which is why it is configurable
// rather than hard-coded.
const DefaultRankTolerance = 1.0

// Direction is one of the four directional inputs.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Navigator holds per-session branch memory: for every parent visited,
// which child was last entered under it. Entries are overwritten on new
// visits and never pruned.
type Navigator struct {
	tolerance   float64
	lastVisited map[string]string
}

// New creates a Navigator with the given same-rank tolerance. A zero or
// negative tolerance falls back to DefaultRankTolerance.
func New(tolerance float64) *Navigator {
	if tolerance <= 0 {
		tolerance = DefaultRankTolerance
	}
	return &Navigator{
		tolerance:   tolerance,
		lastVisited: make(map[string]string),
	}
}

// Record remembers that the node with the given ID was entered under
// parentID. Call this on EVERY selection change, whatever caused it, so
// that a later Up-then-Down sequence returns to the same child. A nil
// parent is ignored.
func (nv *Navigator) Record(id string, parentID *string) {
	if parentID == nil {
		return
	}
	nv.lastVisited[*parentID] = id
}

// LastVisited returns the remembered child for parentID, or "".
func (nv *Navigator) LastVisited(parentID string) string {
	return nv.lastVisited[parentID]
}

// Move computes the new selection for a directional input against the
// current tree index and layout. It returns the target node ID and true
// on a successful move, or "" and false for a no-op (no selection, no
// candidate in that direction, or a rank boundary). Move does not record
// the visit; the caller does that once the selection actually changes.
func (nv *Navigator) Move(dir Direction, currentID string, idx *treeindex.Index, res *layout.Result) (string, bool) {
	if currentID == "" || idx == nil || res == nil {
		return "", false
	}
	cur := idx.Node(currentID)
	if cur == nil {
		return "", false
	}

	switch dir {
	case Up:
		if cur.ParentID == nil {
			return "", false
		}
		if idx.Node(*cur.ParentID) == nil {
			// Dangling parent: the node is a layout root.
			return "", false
		}
		return *cur.ParentID, true

	case Down:
		children := idx.Children(currentID)
		if len(children) == 0 {
			return "", false
		}
		if last := nv.lastVisited[currentID]; last != "" {
			for _, c := range children {
				if c.ID == last {
					return last, true
				}
			}
		}
		return leftmostChild(children, res), true

	case Left, Right:
		return nv.moveLateral(dir, currentID, res)
	}

	return "", false
}

// moveLateral steps between nodes whose Y coordinate is within the
// tolerance of the current node's, ordered by ascending X. No wraparound
// at either boundary.
func (nv *Navigator) moveLateral(dir Direction, currentID string, res *layout.Result) (string, bool) {
	cur := res.NodeByID(currentID)
	if cur == nil {
		return "", false
	}

	var rank []layout.Node
	for _, n := range res.Nodes {
		if abs(n.Y-cur.Y) <= nv.tolerance {
			rank = append(rank, n)
		}
	}
	sort.Slice(rank, func(i, j int) bool { return rank[i].X < rank[j].X })

	pos := -1
	for i := range rank {
		if rank[i].ID == currentID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return "", false
	}

	if dir == Left {
		if pos == 0 {
			return "", false
		}
		return rank[pos-1].ID, true
	}
	if pos == len(rank)-1 {
		return "", false
	}
	return rank[pos+1].ID, true
}

// leftmostChild picks the child with the smallest layout X. Children
// missing from the layout (should not happen for a consistent index and
// result) fall back to input order.
func leftmostChild(children []*model.Node, res *layout.Result) string {
	best := children[0].ID
	bestX := xOf(res, best)
	for _, c := range children[1:] {
		if x := xOf(res, c.ID); x < bestX {
			best = c.ID
			bestX = x
		}
	}
	return best
}

func xOf(res *layout.Result, id string) float64 {
	if n := res.NodeByID(id); n != nil {
		return n.X
	}
	return 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
