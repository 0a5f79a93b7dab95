package core

import (
	"fmt"
	"sort"
)

// Graph is the immutable decoding hypergraph built once at solver
// construction and reused across decodes (spec §3 "Lifecycle"). All
// fields other than Vertices[i].IsDefect are read-only after NewGraph
// returns; IsDefect is reset per-decode by ResetDefects.
type Graph struct {
	Vertices []*Vertex
	Edges    []*Edge

	// FlipVertices is the XOR-merged set of endpoints of every edge whose
	// input weight was negative (spec §4.1). A decode's syndrome must be
	// XORed against this set before defects are loaded.
	FlipVertices map[int]bool

	// NegativeWeightSum is the sum of the absolute value of every negative
	// input weight, preserved so the reported lower bound stays valid
	// after weights are flipped to |weight|.
	NegativeWeightSum *Rational
}

// NewGraph builds the immutable vertex/edge adjacency tables from init.
// Vertex and edge indices are dense from 0. Edges with a negative weight
// are replaced by |weight|, their endpoint set is XORed into
// Graph.FlipVertices, and the absolute value is accumulated into
// Graph.NegativeWeightSum (spec §4.1).
//
// Returns ErrNilInitializer, ErrNoVertices, ErrEmptyEdge, or
// ErrVertexOutOfRange on malformed input.
func NewGraph(init *Initializer) (*Graph, error) {
	if init == nil {
		return nil, ErrNilInitializer
	}
	if init.VertexNum <= 0 {
		return nil, ErrNoVertices
	}

	g := &Graph{
		Vertices:          make([]*Vertex, init.VertexNum),
		Edges:             make([]*Edge, 0, len(init.WeightedEdges)),
		FlipVertices:      make(map[int]bool),
		NegativeWeightSum: RatZero(),
	}
	for i := range g.Vertices {
		g.Vertices[i] = &Vertex{Index: i}
	}

	for edgeIndex, we := range init.WeightedEdges {
		if len(we.Vertices) == 0 {
			return nil, fmt.Errorf("%w: edge %d", ErrEmptyEdge, edgeIndex)
		}
		// Deduplicate and sort endpoints so Vertices is canonical.
		seen := make(map[int]bool, len(we.Vertices))
		verts := make([]int, 0, len(we.Vertices))
		for _, v := range we.Vertices {
			if v < 0 || v >= init.VertexNum {
				return nil, fmt.Errorf("%w: edge %d references vertex %d", ErrVertexOutOfRange, edgeIndex, v)
			}
			if !seen[v] {
				seen[v] = true
				verts = append(verts, v)
			}
		}
		sort.Ints(verts)

		weight := new(Rational).Set(we.Weight)
		if RatIsNeg(weight) {
			abs := RatNeg(weight)
			g.NegativeWeightSum = RatAdd(g.NegativeWeightSum, abs)
			weight = abs
			for _, v := range verts {
				g.FlipVertices[v] = !g.FlipVertices[v]
			}
		}

		e := &Edge{Index: edgeIndex, Vertices: verts, Weight: weight}
		g.Edges = append(g.Edges, e)
		for _, v := range verts {
			g.Vertices[v].IncidentEdges = append(g.Vertices[v].IncidentEdges, edgeIndex)
		}
	}

	return g, nil
}

// ResetDefects clears IsDefect on every vertex, restoring the graph to
// its post-construction state ahead of a fresh decode (spec §3 "clear()
// resets all mutable state").
func (g *Graph) ResetDefects() {
	for _, v := range g.Vertices {
		v.IsDefect = false
	}
}

// LoadSyndrome marks each defect vertex, after XORing the requested
// defect set against Graph.FlipVertices (spec §4.1: "the syndrome is
// XORed with that flip set at the start of solve"). Returns
// ErrErasuresUnsupported if syn.Erasures is non-empty, and
// ErrVertexOutOfRange if a defect vertex index is invalid.
func (g *Graph) LoadSyndrome(syn Syndrome) error {
	if len(syn.Erasures) > 0 {
		return ErrErasuresUnsupported
	}

	effective := make(map[int]bool, len(syn.DefectVertices)+len(g.FlipVertices))
	for _, v := range syn.DefectVertices {
		effective[v] = !effective[v]
	}
	for v, flip := range g.FlipVertices {
		if flip {
			effective[v] = !effective[v]
		}
	}

	for v, isDefect := range effective {
		if !isDefect {
			continue
		}
		if v < 0 || v >= len(g.Vertices) {
			return fmt.Errorf("%w: defect vertex %d", ErrVertexOutOfRange, v)
		}
		g.Vertices[v].IsDefect = true
	}

	return nil
}

// HairsOf returns the hair edges of a vertex/edge-set pair (V_S, E_S):
// every edge incident to some vertex in vs that is not itself in es
// (spec §3 "hairs_S = { e not in E_S : exists v in V_S, v in e.vertices }").
// The returned slice is sorted and deduplicated.
func (g *Graph) HairsOf(vs []int, es map[int]bool) []int {
	seen := make(map[int]bool)
	var hairs []int
	for _, v := range vs {
		for _, e := range g.Vertices[v].IncidentEdges {
			if es[e] || seen[e] {
				continue
			}
			seen[e] = true
			hairs = append(hairs, e)
		}
	}
	sort.Ints(hairs)
	return hairs
}

// TotalWeight returns the sum of weights of the edges in sub, using this
// graph's (post-preprocessing, non-negative) edge weights.
func (g *Graph) TotalWeight(sub Subgraph) *Rational {
	total := RatZero()
	for _, e := range sub {
		total = RatAdd(total, g.Edges[e].Weight)
	}
	return total
}

// Boundary returns the GF(2) boundary of sub: the set of vertices with
// odd incidence count across the included edges, represented as a
// vertex-index -> bool map (true iff the vertex is in the boundary).
// Used to verify spec §8 testable property 3.
func (g *Graph) Boundary(sub Subgraph) map[int]bool {
	boundary := make(map[int]bool)
	for _, e := range sub {
		for _, v := range g.Edges[e].Vertices {
			boundary[v] = !boundary[v]
		}
	}
	return boundary
}
