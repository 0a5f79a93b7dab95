// Package dualmodule implements the dual side of the MWPF relaxation:
// the obstacle-priority-queue engine that grows dual variables against
// per-edge slack and reports the next blocking event, plus the
// canonical InvalidSubgraph value type used as a dual-variable key
// (spec §3, §4.1, §4.2).
package dualmodule

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/yuewuo/mwps-sub000/core"
)

// Sentinel errors for invalid-subgraph construction.
var (
	// ErrSubgraphIsValid indicates a debug sanity check found a GF(2)
	// assignment satisfying the defect parities of V_S using only E_S,
	// i.e. the caller built a dual-variable key that is not actually
	// invalid (spec §4.6 "Fatal in debug builds").
	ErrSubgraphIsValid = errors.New("dualmodule: invalid subgraph is actually valid")
)

// DebugSanityChecks toggles the expensive invalidity check in
// NewInvalidSubgraph (spec §4.6: fatal in debug builds, a no-op bug in
// release). Off by default; a host or test can set it to true.
var DebugSanityChecks = false

// InvalidSubgraph is the canonical (V_S, E_S, hairs(S)) record that keys
// one dual variable y_S (spec §3). Two InvalidSubgraph values built from
// the same content are expected to collapse onto the same DualNode; see
// DualModule.internSubgraph.
type InvalidSubgraph struct {
	Vertices []int // V_S, sorted, deduplicated
	Edges    []int // E_S, sorted, deduplicated
	Hairs    []int // hairs(S), sorted, deduplicated, computed from the graph

	hash uint64
}

// NewInvalidSubgraph builds the canonical record for (vertices, edges)
// against g, computing hairs(S) and a content hash. When
// DebugSanityChecks is true, it also verifies that no GF(2) assignment
// on edges satisfies the defect parities of vertices, returning
// ErrSubgraphIsValid if S turns out to be valid (spec §3 "S must be
// invalid").
func NewInvalidSubgraph(g *core.Graph, vertices []int, edges []int) (*InvalidSubgraph, error) {
	vs := sortedUnique(vertices)
	es := sortedUnique(edges)
	edgeSet := make(map[int]bool, len(es))
	for _, e := range es {
		edgeSet[e] = true
	}
	hairs := g.HairsOf(vs, edgeSet)

	s := &InvalidSubgraph{Vertices: vs, Edges: es, Hairs: hairs}
	s.hash = s.computeHash()

	if DebugSanityChecks {
		if err := s.sanityCheck(g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewDefectSubgraph builds the trivial single-vertex invalid subgraph
// S = ({v}, {}, hairs) used by DualModule.AddDefect. A lone defect
// vertex's empty-edge-set parity can never satisfy its own odd defect
// parity, so it needs no sanity check.
func NewDefectSubgraph(g *core.Graph, v int) *InvalidSubgraph {
	s, _ := NewInvalidSubgraph(g, []int{v}, nil)
	return s
}

// Hash returns the pre-computed content hash of S.
func (s *InvalidSubgraph) Hash() uint64 { return s.hash }

// Equal reports whether s and other have identical (Vertices, Edges)
// content (Hairs is derived from Vertices/Edges so it need not be
// compared separately).
func (s *InvalidSubgraph) Equal(other *InvalidSubgraph) bool {
	if other == nil {
		return false
	}
	return intSliceEqual(s.Vertices, other.Vertices) && intSliceEqual(s.Edges, other.Edges)
}

func (s *InvalidSubgraph) computeHash() uint64 {
	h := fnv.New64a()
	writeInts(h, s.Vertices)
	_, _ = h.Write([]byte{0})
	writeInts(h, s.Edges)
	_, _ = h.Write([]byte{0})
	writeInts(h, s.Hairs)
	return h.Sum64()
}

// sanityCheck runs a minimal GF(2) elimination (over just E_S's incidence
// on V_S) to confirm no assignment to E_S matches the defect parity of
// V_S. It is intentionally self-contained rather than importing the
// matrix package's full decorator stack, since it only ever runs under
// DebugSanityChecks and operates on a tiny local system.
func (s *InvalidSubgraph) sanityCheck(g *core.Graph) error {
	if len(s.Edges) > 64 {
		// The single-uint64 bitset below only covers E_S up to 64 edges;
		// larger clusters skip the debug check rather than overclaim.
		return nil
	}
	// Build the |V_S| x |E_S| parity system as plain bit rows (one bit
	// per edge column) with RHS = each vertex's defect parity.
	rowOf := make(map[int]int, len(s.Vertices))
	for i, v := range s.Vertices {
		rowOf[v] = i
	}
	colOf := make(map[int]int, len(s.Edges))
	for i, e := range s.Edges {
		colOf[e] = i
	}
	rows := make([]uint64, len(s.Vertices)) // bitset over columns
	rhs := make([]bool, len(s.Vertices))
	for i, v := range s.Vertices {
		rhs[i] = g.Vertices[v].IsDefect
	}
	for _, e := range s.Edges {
		col := colOf[e]
		for _, v := range g.Edges[e].Vertices {
			if r, ok := rowOf[v]; ok {
				rows[r] ^= 1 << uint(col)
			}
		}
	}

	// Gauss-Jordan elimination over GF(2).
	height := len(rows)
	width := len(s.Edges)
	lead := 0
	for r := 0; r < height && lead < width; r++ {
		pivot := -1
		for i := r; i < height; i++ {
			if rows[i]&(1<<uint(lead)) != 0 {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			lead++
			r--
			continue
		}
		rows[r], rows[pivot] = rows[pivot], rows[r]
		rhs[r], rhs[pivot] = rhs[pivot], rhs[r]
		for i := 0; i < height; i++ {
			if i != r && rows[i]&(1<<uint(lead)) != 0 {
				rows[i] ^= rows[r]
				rhs[i] = rhs[i] != rhs[r]
			}
		}
		lead++
	}
	for r := 0; r < height; r++ {
		if rows[r] == 0 && rhs[r] {
			return nil // a row of all-zero LHS with RHS=1: unsatisfiable, S is invalid. Good.
		}
	}
	// Every row has a pivot or is trivially satisfied: S is satisfiable, i.e. valid.
	return fmt.Errorf("%w: V_S=%v E_S=%v", ErrSubgraphIsValid, s.Vertices, s.Edges)
}

func sortedUnique(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeInts(h interface{ Write([]byte) (int, error) }, xs []int) {
	for _, x := range xs {
		_, _ = h.Write([]byte(strconv.Itoa(x)))
		_, _ = h.Write([]byte{','})
	}
}
