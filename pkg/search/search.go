// Package search provides fuzzy matching over conversation nodes for
// the jump-to-node overlay.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/tangential/tangential/pkg/model"
)

// DefaultLimit is the default max number of results.
const DefaultLimit = 20

// Match is a single search hit.
type Match struct {
	NodeID string
	Label  string
	Score  int
}

// nodeSource adapts a node slice to fuzzy.Source, matching against the
// node's title (summary or user content).
type nodeSource []model.Node

func (s nodeSource) String(i int) string { return s[i].Title() }
func (s nodeSource) Len() int            { return len(s) }

// Nodes runs a fuzzy query over the collection and returns up to limit
// matches, best first. An empty query returns nil.
func Nodes(nodes []model.Node, query string, limit int) []Match {
	if query == "" || len(nodes) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := fuzzy.FindFrom(query, nodeSource(nodes))
	if len(results) > limit {
		results = results[:limit]
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			NodeID: nodes[r.Index].ID,
			Label:  nodes[r.Index].Title(),
			Score:  r.Score,
		})
	}
	return matches
}
