package plugin

import (
	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
)

// UnionFind is the fallback plugin that always guarantees progress: if
// a cluster's tight-edge system is unsatisfiable, it emits a single
// relaxer creating one new dual node over the whole cluster with
// Δy = +1, exactly reproducing the hypergraph union-find decoder (spec
// §4.5 "Union-Find Plugin").
type UnionFind struct{}

var _ Plugin = UnionFind{}

// FindRelaxers returns nil when cs is already satisfiable.
func (UnionFind) FindRelaxers(cs ClusterState) ([]*Relaxer, error) {
	if cs.Echelon.Info().Satisfiable {
		return nil, nil
	}
	s, err := dualmodule.NewInvalidSubgraph(cs.Graph, cs.Vertices, cs.TightEdges)
	if err != nil {
		return nil, err
	}
	r, err := NewRelaxer([]Direction{{Subgraph: s, DeltaY: core.RatOne()}})
	if err != nil {
		return nil, err
	}
	return []*Relaxer{r}, nil
}
