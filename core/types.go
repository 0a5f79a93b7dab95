// Package core defines the immutable decoding-hypergraph model shared by
// every other package in this module: vertices, hyperedges, the solver's
// initializer/syndrome wire types, and the rational-weight helpers used
// throughout the dual-primal relaxation engine.
//
// Once built by NewGraph, a Graph never mutates: indices are dense from
// zero, and for every edge e, every vertex v in e.Vertices has e among
// v.IncidentEdges. Per-decode mutable state (growth, dual variables,
// clusters) lives in the dualmodule/matrix/primal packages, never here.
//
// Initializer and Syndrome implement json.Marshaler/json.Unmarshaler
// (via goccy/go-json) matching spec.md §6's wire shapes exactly, so a
// host-side syndrome-log reader/writer can produce or consume them;
// the core itself never touches a file (spec.md's "persisted syndrome
// file formats" stays an external collaborator).
//
// Errors:
//
//	ErrNilInitializer    - a nil *Initializer was passed to NewGraph.
//	ErrNoVertices        - Initializer.VertexNum <= 0.
//	ErrVertexOutOfRange  - an edge referenced a vertex index outside [0, VertexNum).
//	ErrEmptyEdge         - an edge listed zero vertices.
//	ErrErasuresUnsupported - Syndrome.Erasures was non-empty.
package core

import (
	"errors"
	"math/big"

	"github.com/goccy/go-json"
)

// Sentinel errors for core hypergraph construction and syndrome loading.
var (
	// ErrNilInitializer indicates NewGraph was called with a nil Initializer.
	ErrNilInitializer = errors.New("core: initializer is nil")

	// ErrNoVertices indicates the initializer declared zero or negative vertices.
	ErrNoVertices = errors.New("core: vertex_num must be positive")

	// ErrVertexOutOfRange indicates an edge referenced a vertex index outside [0, VertexNum).
	ErrVertexOutOfRange = errors.New("core: edge references an out-of-range vertex")

	// ErrEmptyEdge indicates an edge was declared with zero incident vertices.
	ErrEmptyEdge = errors.New("core: edge has no vertices")

	// ErrErasuresUnsupported indicates a Syndrome carried non-empty Erasures,
	// which the core rejects until a dedicated erasure path is implemented
	// (spec §4.1, §9 "open questions").
	ErrErasuresUnsupported = errors.New("core: erasures are not supported by the core decoder")
)

// Rational is the exact-arithmetic type used for edge weights and dual
// variables. GF(2)/LP duality requires exact equality tests (lower ==
// upper ⇒ certified optimal), so the module standardizes on *big.Rat
// rather than any floating-point approximation.
type Rational = big.Rat

// RatZero returns a fresh zero rational. Always allocate a fresh value
// when a caller may mutate the result in place (big.Rat methods mutate
// their receiver).
func RatZero() *Rational { return new(big.Rat) }

// RatOne returns a fresh rational equal to 1.
func RatOne() *Rational { return new(big.Rat).SetInt64(1) }

// RatFromInt64 returns a fresh rational equal to n.
func RatFromInt64(n int64) *Rational { return new(big.Rat).SetInt64(n) }

// RatAdd returns a new rational equal to a+b, without mutating a or b.
func RatAdd(a, b *Rational) *Rational { return new(big.Rat).Add(a, b) }

// RatSub returns a new rational equal to a-b, without mutating a or b.
func RatSub(a, b *Rational) *Rational { return new(big.Rat).Sub(a, b) }

// RatMul returns a new rational equal to a*b, without mutating a or b.
func RatMul(a, b *Rational) *Rational { return new(big.Rat).Mul(a, b) }

// RatNeg returns a new rational equal to -a, without mutating a.
func RatNeg(a *Rational) *Rational { return new(big.Rat).Neg(a) }

// RatIsZero reports whether a is exactly zero.
func RatIsZero(a *Rational) bool { return a.Sign() == 0 }

// RatIsPos reports whether a is strictly positive.
func RatIsPos(a *Rational) bool { return a.Sign() > 0 }

// RatIsNeg reports whether a is strictly negative.
func RatIsNeg(a *Rational) bool { return a.Sign() < 0 }

// Vertex is a node of the decoding hypergraph.
//
// Index is this vertex's dense position in Graph.Vertices. IncidentEdges
// lists, in ascending edge-index order, every edge incident to this
// vertex. IsDefect marks whether this vertex carries odd syndrome parity
// for the decode currently in progress; it is the only per-decode field
// on Vertex and is reset by Graph.ResetDefects.
type Vertex struct {
	Index          int
	IncidentEdges  []int
	IsDefect       bool
}

// Edge is a hyperedge of the decoding hypergraph: a set of one or more
// incident vertices plus a non-negative weight.
//
// Index is this edge's dense position in Graph.Edges. Vertices lists
// the incident vertex indices in ascending order (deduplicated). Weight
// is always >= 0 post-construction; negative input weights are folded
// into Graph's FlipVertices/NegativeWeightSum during NewGraph (spec
// §4.1 "Pre-processing of negative weights").
type Edge struct {
	Index    int
	Vertices []int
	Weight   *Rational
}

// WeightedEdge is the wire shape accepted by NewGraph: an unordered list
// of incident vertex indices plus a (possibly negative) weight. Tagged
// to match spec.md §6's `weighted_edges: [ { vertices: [int], weight:
// rational } ]`; Weight marshals as the exact text big.Rat.MarshalText
// produces ("a/b", or just "a" for an integer), not a lossy float.
type WeightedEdge struct {
	Vertices []int     `json:"vertices"`
	Weight   *Rational `json:"weight"`
}

// Initializer is the solver construction input (spec §6 "Solver
// boundary"). MarshalJSON/UnmarshalJSON give it the exact
// `{ vertex_num, weighted_edges }` wire shape spec.md §6 names, so a
// host-side syndrome-log reader/writer (out of scope for the core
// itself) can produce or consume that shape without this package
// depending on any file I/O.
type Initializer struct {
	VertexNum     int
	WeightedEdges []WeightedEdge
}

type initializerJSON struct {
	VertexNum     int            `json:"vertex_num"`
	WeightedEdges []WeightedEdge `json:"weighted_edges"`
}

// MarshalJSON implements json.Marshaler.
func (init Initializer) MarshalJSON() ([]byte, error) {
	return json.Marshal(initializerJSON{
		VertexNum:     init.VertexNum,
		WeightedEdges: init.WeightedEdges,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (init *Initializer) UnmarshalJSON(data []byte) error {
	var wire initializerJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	init.VertexNum = wire.VertexNum
	init.WeightedEdges = wire.WeightedEdges
	return nil
}

// Syndrome is a per-decode input: the set of defect vertices plus an
// (currently unsupported) set of erasure edges. MarshalJSON/
// UnmarshalJSON give it the `{ defect_vertices, erasures }` shape
// spec.md §6 names for the per-line `SyndromePattern` records of the
// (out-of-scope) syndrome-log file format.
type Syndrome struct {
	DefectVertices []int
	Erasures       []int
}

type syndromeJSON struct {
	DefectVertices []int `json:"defect_vertices"`
	Erasures       []int `json:"erasures"`
}

// MarshalJSON implements json.Marshaler.
func (syn Syndrome) MarshalJSON() ([]byte, error) {
	return json.Marshal(syndromeJSON{
		DefectVertices: syn.DefectVertices,
		Erasures:       syn.Erasures,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (syn *Syndrome) UnmarshalJSON(data []byte) error {
	var wire syndromeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	syn.DefectVertices = wire.DefectVertices
	syn.Erasures = wire.Erasures
	return nil
}

// Subgraph is a decoder result: the set of edge indices included in the
// returned correction (spec §6 "subgraph = [edge_index]"); it marshals
// as a plain JSON array of ints with no wrapper type needed.
type Subgraph []int

// WeightRange is the certified [lower, upper] enclosure on the optimal
// correction weight (spec §6 "weight_range = { lower: rational, upper:
// rational }"). IsOptimal reports whether the interval has collapsed
// to a single point. Lower/Upper marshal as big.Rat's exact text form
// via struct tags alone; no custom Marshal/UnmarshalJSON is needed
// since *big.Rat already implements encoding.TextMarshaler/
// TextUnmarshaler.
type WeightRange struct {
	Lower *Rational `json:"lower"`
	Upper *Rational `json:"upper"`
}

// IsOptimal reports whether Lower == Upper, i.e. the returned subgraph is
// a certified minimum-weight parity factor (spec §8 testable property 4).
func (r WeightRange) IsOptimal() bool {
	return r.Lower.Cmp(r.Upper) == 0
}
