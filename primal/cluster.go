// Package primal implements the serial primal module: union-find
// cluster bookkeeping over dual nodes, the per-batch resolve step that
// queries the plugin pipeline, and subgraph extraction (spec §4.4).
package primal

import (
	"sort"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/matrix"
)

// Cluster owns the union-find group's dual nodes, its known vertices
// and tight edges, and the matrix decorator stack built over them
// (spec §3 "Cluster", §4.4 "Cluster stores a Tail<Tight<BasicMatrix>>
// and a cached tight-edge set").
type Cluster struct {
	graph *core.Graph

	Nodes      []*dualmodule.DualNode
	Vertices   map[int]bool
	TightEdges map[int]bool

	basic   *matrix.Basic
	tight   *matrix.Tight
	Tail    *matrix.Tail
	Echelon *matrix.Echelon
}

// newCluster builds an empty cluster over g.
func newCluster(g *core.Graph) *Cluster {
	basic := matrix.NewBasic()
	tight := matrix.NewTight(basic)
	tail := matrix.NewTail(tight)
	echelon := matrix.NewEchelon(tail)
	return &Cluster{
		graph:      g,
		Vertices:   make(map[int]bool),
		TightEdges: make(map[int]bool),
		basic:      basic,
		tight:      tight,
		Tail:       tail,
		Echelon:    echelon,
	}
}

// AddVertex adds v's defect-parity constraint row to the cluster's
// matrix (a no-op if v is already present), bringing in all of v's
// incident edges as matrix variables.
func (c *Cluster) AddVertex(v int) {
	if c.Vertices[v] {
		return
	}
	c.Vertices[v] = true
	c.basic.AddConstraint(v, c.graph.Vertices[v].IncidentEdges, c.graph.Vertices[v].IsDefect)
}

// MarkTight flags e as tight in this cluster's matrix (spec §4.4
// "mark e tight in every touched cluster's matrix").
func (c *Cluster) MarkTight(e int) {
	c.TightEdges[e] = true
	c.tight.SetTight(e, true)
}

// AbsorbSubgraph brings every vertex and edge of s into the cluster
// (used when a plugin relaxer introduces a fresh dual node whose
// subgraph reaches vertices the cluster hadn't touched yet).
func (c *Cluster) AbsorbSubgraph(s *dualmodule.InvalidSubgraph) {
	for _, v := range s.Vertices {
		c.AddVertex(v)
	}
}

// merge absorbs other's vertices, tight edges and nodes into c.
func (c *Cluster) merge(other *Cluster) {
	for v := range other.Vertices {
		c.AddVertex(v)
	}
	for e := range other.TightEdges {
		c.MarkTight(e)
	}
	c.Nodes = append(c.Nodes, other.Nodes...)
}

// VertexList returns the cluster's vertices, sorted.
func (c *Cluster) VertexList() []int {
	out := make([]int, 0, len(c.Vertices))
	for v := range c.Vertices {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// TightEdgeList returns the cluster's tight edges, sorted.
func (c *Cluster) TightEdgeList() []int {
	out := make([]int, 0, len(c.TightEdges))
	for e := range c.TightEdges {
		out = append(out, e)
	}
	sort.Ints(out)
	return out
}
