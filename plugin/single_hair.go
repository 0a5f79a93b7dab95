package plugin

import (
	"sort"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/matrix"
)

// RepeatStrategy controls how many rounds SingleHair runs per resolve
// step (spec §4.5 "RepeatStrategy::Once emits at most one round;
// Multiple{max} iterates until no new relaxer is produced or max
// reached").
type RepeatStrategy struct {
	Multiple bool
	Max      int // only meaningful when Multiple is true
}

// RepeatOnce runs a single round.
func RepeatOnce() RepeatStrategy { return RepeatStrategy{} }

// RepeatMultiple runs until a round produces nothing new or max rounds
// have run.
func RepeatMultiple(max int) RepeatStrategy { return RepeatStrategy{Multiple: true, Max: max} }

// SingleHair refines a cluster's tight structure without changing its
// total dual growth: for each currently positive dual node S, it builds
// a hair view restricted to hairs(S) and, if more than one hair edge is
// necessary to satisfy the remaining parity, relocates that necessity
// onto a fresh node (spec §4.5 "Single-Hair Plugin").
type SingleHair struct {
	Repeat RepeatStrategy
}

var _ Plugin = SingleHair{}

// FindRelaxers implements Plugin.
func (p SingleHair) FindRelaxers(cs ClusterState) ([]*Relaxer, error) {
	var relaxers []*Relaxer
	rounds := 0
	for {
		produced := false
		for _, node := range cs.PositiveNodes {
			r, err := p.tryNode(cs, node)
			if err != nil {
				return relaxers, err
			}
			if r != nil {
				relaxers = append(relaxers, r)
				produced = true
			}
		}
		rounds++
		if !produced {
			break
		}
		if !p.Repeat.Multiple || rounds >= p.Repeat.Max {
			break
		}
	}
	return relaxers, nil
}

// tryNode restricts cs.Tail to node's hairs just long enough to read
// the hair view, then restores the prior tail set regardless of
// outcome (spec §9 "pure modulo matrix scratch-space").
func (p SingleHair) tryNode(cs ClusterState, node *dualmodule.DualNode) (*Relaxer, error) {
	saved := cs.Tail.TailEdgeSet()
	cs.Tail.ResetTailSet(edgeSet(node.Subgraph.Hairs))
	defer cs.Tail.ResetTailSet(saved)

	hair := matrix.NewHair(cs.Echelon, cs.Tail)
	if !hair.Satisfiable() {
		// An unsatisfiable hair system for this node means the cluster
		// as a whole is unsatisfiable; the union-find plugin handles
		// driving progress in that case.
		return nil, nil
	}

	necessary := hair.NecessaryHairEdges()
	if len(necessary) <= 1 {
		// Case A: zero or one hair edge suffices; nothing to relocate.
		return nil, nil
	}

	// Case B: relocate the necessity of `necessary` onto a fresh node.
	vertices := verticesOf(cs.Graph, necessary)
	sub, err := dualmodule.NewInvalidSubgraph(cs.Graph, vertices, necessary)
	if err != nil {
		return nil, err
	}
	return NewRelaxer([]Direction{
		{Subgraph: sub, DeltaY: core.RatOne()},
		{Subgraph: node.Subgraph, DeltaY: core.RatNeg(core.RatOne())},
	})
}

func edgeSet(edges []int) map[int]bool {
	out := make(map[int]bool, len(edges))
	for _, e := range edges {
		out[e] = true
	}
	return out
}

func verticesOf(g *core.Graph, edges []int) []int {
	seen := make(map[int]bool)
	var vs []int
	for _, e := range edges {
		for _, v := range g.Edges[e].Vertices {
			if !seen[v] {
				seen[v] = true
				vs = append(vs, v)
			}
		}
	}
	sort.Ints(vs)
	return vs
}
