package plugin

import (
	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/matrix"
)

// ClusterState is everything a plugin needs to examine one touched
// cluster (spec §4.5 "a pure function (decoding_graph,
// cluster_matrix_in_echelon_form, positive_dual_nodes) → list of
// Relaxers"). Tail is exposed alongside Echelon so the single-hair
// plugin can retarget the tail region to one node's hairs at a time.
type ClusterState struct {
	Graph         *core.Graph
	Vertices      []int
	TightEdges    []int
	Echelon       *matrix.Echelon
	Tail          *matrix.Tail
	PositiveNodes []*dualmodule.DualNode
}

// Plugin is a pure function over a cluster's current state that
// proposes relaxers. A plugin must leave cs.Tail's tail set exactly as
// it found it before returning (spec §9 "pure modulo matrix
// scratch-space which must be restored before return").
type Plugin interface {
	FindRelaxers(cs ClusterState) ([]*Relaxer, error)
}
