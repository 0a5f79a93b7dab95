package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/matrix"
	"github.com/yuewuo/mwps-sub000/plugin"
)

// triangleGraph builds 3 vertices with a pairwise-edge triangle, each
// edge weight 1.
func triangleGraph(t *testing.T) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(&core.Initializer{
		VertexNum: 3,
		WeightedEdges: []core.WeightedEdge{
			{Vertices: []int{0, 1}, Weight: core.RatOne()},
			{Vertices: []int{1, 2}, Weight: core.RatOne()},
			{Vertices: []int{0, 2}, Weight: core.RatOne()},
		},
	})
	require.NoError(t, err)
	return g
}

func TestUnionFind_UnsatisfiableClusterEmitsRelaxer(t *testing.T) {
	g := triangleGraph(t)
	m := matrix.NewBasic()
	m.AddConstraint(0, []int{0, 2}, true)
	m.AddConstraint(1, []int{0, 1}, true)
	m.AddConstraint(2, []int{1, 2}, true)
	e := matrix.NewEchelon(m)
	require.False(t, e.Info().Satisfiable)

	relaxers, err := plugin.UnionFind{}.FindRelaxers(plugin.ClusterState{
		Graph:      g,
		Vertices:   []int{0, 1, 2},
		TightEdges: []int{0, 1, 2},
		Echelon:    e,
	})
	require.NoError(t, err)
	require.Len(t, relaxers, 1)
	assert.Equal(t, 0, relaxers[0].Directions[0].DeltaY.Cmp(core.RatOne()))
}

func TestUnionFind_SatisfiableClusterEmitsNothing(t *testing.T) {
	g := triangleGraph(t)
	m := matrix.NewBasic()
	m.AddConstraint(0, []int{0, 2}, true)
	m.AddConstraint(1, []int{0, 1}, true)
	e := matrix.NewEchelon(m)
	require.True(t, e.Info().Satisfiable)

	relaxers, err := plugin.UnionFind{}.FindRelaxers(plugin.ClusterState{
		Graph:      g,
		Vertices:   []int{0, 1},
		TightEdges: []int{0, 1},
		Echelon:    e,
	})
	require.NoError(t, err)
	assert.Nil(t, relaxers)
}

func TestSingleHair_CaseA_NoRelaxerForSingleSufficientHair(t *testing.T) {
	g := triangleGraph(t)
	m := matrix.NewBasic()
	m.AddConstraint(0, []int{0, 2}, true)
	tail := matrix.NewTail(m)
	e := matrix.NewEchelon(tail)

	node := &dualmodule.DualNode{Subgraph: dualmodule.NewDefectSubgraph(g, 0)} // hairs(0) include edges 0 and 2

	relaxers, err := plugin.SingleHair{Repeat: plugin.RepeatOnce()}.FindRelaxers(plugin.ClusterState{
		Graph:         g,
		Vertices:      []int{0},
		Echelon:       e,
		Tail:          tail,
		PositiveNodes: []*dualmodule.DualNode{node},
	})
	require.NoError(t, err)
	assert.Empty(t, relaxers)
}

func TestNewRelaxer_RejectsNegativeSum(t *testing.T) {
	g := triangleGraph(t)
	s, err := dualmodule.NewInvalidSubgraph(g, []int{0}, nil)
	require.NoError(t, err)
	_, err = plugin.NewRelaxer([]plugin.Direction{{Subgraph: s, DeltaY: core.RatFromInt64(-1)}})
	assert.ErrorIs(t, err, plugin.ErrRelaxerSelfCheckFailed)
}

func TestNewRelaxer_RejectsZeroSumWithNoUntighten(t *testing.T) {
	g := triangleGraph(t)
	a, err := dualmodule.NewInvalidSubgraph(g, []int{0}, nil)
	require.NoError(t, err)
	// a's hairs are {0, 2}; b's hairs are {2}. Net Δy per edge is +1 on
	// edge 0 and 0 on edge 2, so no edge is untightened.
	b, err := dualmodule.NewInvalidSubgraph(g, []int{0, 1, 2}, []int{0, 1})
	require.NoError(t, err)
	_, err = plugin.NewRelaxer([]plugin.Direction{
		{Subgraph: a, DeltaY: core.RatOne()},
		{Subgraph: b, DeltaY: core.RatNeg(core.RatOne())},
	})
	assert.ErrorIs(t, err, plugin.ErrRelaxerSelfCheckFailed)
}
