// Package pathres resolves root-to-node chains against a backing source,
// with a generation counter that lets overlapping resolutions settle in
// issuance order. A slow older request can never clobber a faster newer
// one: whoever was issued last wins, regardless of arrival order.
package pathres

import (
	"context"
	"sync"

	"github.com/tangential/tangential/pkg/model"
)

// Source is the persistence collaborator that can produce the ordered
// root-to-node chain for a node ID.
type Source interface {
	NodePath(ctx context.Context, nodeID string) ([]model.Node, error)
}

// Resolver tags every resolution with a monotonically increasing
// sequence number captured at call time. A result is applied only while
// its sequence is still the latest; Invalidate bumps the counter so any
// in-flight resolution goes stale.
type Resolver struct {
	mu     sync.Mutex
	seq    uint64
	source Source
}

// New creates a Resolver over the given source.
func New(source Source) *Resolver {
	return &Resolver{source: source}
}

// Begin issues a new sequence number, invalidating all earlier ones.
func (r *Resolver) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// Current reports whether seq is still the most recently issued number.
func (r *Resolver) Current(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.seq
}

// Invalidate bumps the sequence counter without issuing a resolution.
// Used when the highlighted path is cleared so that a resolution still
// in flight cannot apply after the clear.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
}

// Resolve fetches the root-to-node chain for nodeID and returns the ID
// sequence together with the request's sequence number. On failure no
// state is touched anywhere; the error is simply returned. The caller
// must check Current(seq) (or use a helper that does) before applying
// the result.
func (r *Resolver) Resolve(ctx context.Context, nodeID string) ([]string, uint64, error) {
	seq := r.Begin()

	nodes, err := r.source.NodePath(ctx, nodeID)
	if err != nil {
		return nil, seq, err
	}

	ids := make([]string, len(nodes))
	for i := range nodes {
		ids[i] = nodes[i].ID
	}
	return ids, seq, nil
}
