// Package plugin implements the pure cluster-classification functions
// the primal module queries after each resolve step: the union-find
// fallback that guarantees progress, and the single-hair refinement
// that reshapes a cluster's tight structure without changing its total
// dual growth (spec §4.5).
package plugin

import (
	"errors"
	"sort"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
)

// ErrRelaxerSelfCheckFailed indicates a proposed relaxer does not
// satisfy Σ Δy_S ≥ 0 and (Σ Δy_S > 0 or untighten_edges non-empty)
// (spec §3 "The relaxer must pass its self-check").
var ErrRelaxerSelfCheckFailed = errors.New("plugin: relaxer failed its self-check")

// Direction is one (S, Δy_S) pair inside a Relaxer's direction vector.
type Direction struct {
	Subgraph *dualmodule.InvalidSubgraph
	DeltaY   *core.Rational
}

// Relaxer is a signed direction over invalid subgraphs that the primal
// module can apply to steer further dual growth: create any new dual
// node it names, then set each named node's grow rate to the
// corresponding Δy (spec §3 "Relaxer").
type Relaxer struct {
	Directions     []Direction
	UntightenEdges []int // derived: edges whose net Δy_S is negative
	GrowingEdges   []int // derived: edges whose net Δy_S is positive
}

// NewRelaxer derives UntightenEdges/GrowingEdges from directions and
// runs the self-check, returning ErrRelaxerSelfCheckFailed if it does
// not hold.
func NewRelaxer(directions []Direction) (*Relaxer, error) {
	sum := core.RatZero()
	net := make(map[int]*core.Rational)
	for _, d := range directions {
		sum = core.RatAdd(sum, d.DeltaY)
		for _, e := range d.Subgraph.Hairs {
			cur, ok := net[e]
			if !ok {
				cur = core.RatZero()
			}
			net[e] = core.RatAdd(cur, d.DeltaY)
		}
	}

	var growing, untighten []int
	for e, v := range net {
		switch {
		case core.RatIsPos(v):
			growing = append(growing, e)
		case core.RatIsNeg(v):
			untighten = append(untighten, e)
		}
	}
	sort.Ints(growing)
	sort.Ints(untighten)

	if core.RatIsNeg(sum) {
		return nil, ErrRelaxerSelfCheckFailed
	}
	if core.RatIsZero(sum) && len(untighten) == 0 {
		return nil, ErrRelaxerSelfCheckFailed
	}

	return &Relaxer{Directions: directions, UntightenEdges: untighten, GrowingEdges: growing}, nil
}
