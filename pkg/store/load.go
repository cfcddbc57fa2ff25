package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tangential/tangential/pkg/model"
)

// TreeData is everything the viewer needs for one tree: the full node
// collection plus the leaf set that backs the path-selection panel.
type TreeData struct {
	Nodes  []model.Node
	Leaves []model.Node
}

// LoadTreeData fetches a tree's nodes and leaves in one go. The two
// queries run on the shared connection pool; either failure aborts both.
func (s *Store) LoadTreeData(ctx context.Context, treeID string) (*TreeData, error) {
	var data TreeData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nodes, err := s.ListNodes(ctx, treeID)
		if err != nil {
			return err
		}
		data.Nodes = nodes
		return nil
	})
	g.Go(func() error {
		leaves, err := s.LeafNodes(ctx, treeID)
		if err != nil {
			return err
		}
		data.Leaves = leaves
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
