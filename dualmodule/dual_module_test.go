package dualmodule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
)

// pathInitializer builds a 3-vertex path 0-1-2 with unit weight edges.
func pathInitializer() *core.Initializer {
	return &core.Initializer{
		VertexNum: 3,
		WeightedEdges: []core.WeightedEdge{
			{Vertices: []int{0, 1}, Weight: core.RatOne()},
			{Vertices: []int{1, 2}, Weight: core.RatOne()},
		},
	}
}

func newPathGraph(t *testing.T) *core.Graph {
	t.Helper()
	g, err := core.NewGraph(pathInitializer())
	require.NoError(t, err)
	return g
}

func TestAddDefect_GrowsUntilConflict(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0}}))

	d := dualmodule.NewEmpty(g)
	node, err := d.AddDefect(0)
	require.NoError(t, err)
	assert.Equal(t, 0, node.GrowRate.Cmp(core.RatOne()))

	rep := d.Report()
	require.Equal(t, dualmodule.ValidGrow, rep.Kind)
	assert.Equal(t, 0, rep.GrowLength.Cmp(core.RatOne())) // edge 0 has weight 1, slack 1, rate 1

	require.NoError(t, d.Grow(rep.GrowLength))
	rep2 := d.Report()
	require.Equal(t, dualmodule.Obstacles, rep2.Kind)
	require.Len(t, rep2.Obstacles, 1)
	assert.Equal(t, dualmodule.Conflict, rep2.Obstacles[0].Kind)
	assert.Equal(t, 0, rep2.Obstacles[0].Edge)
	assert.True(t, d.IsEdgeTight(0))
}

func TestAddDefect_NoObstaclesIsUnbounded(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{}))
	d := dualmodule.NewEmpty(g)
	rep := d.Report()
	assert.Equal(t, dualmodule.Unbounded, rep.Kind)
}

func TestSetGrowRate_ZeroRateNeverConflicts(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0}}))
	d := dualmodule.NewEmpty(g)
	node, err := d.AddDefect(0)
	require.NoError(t, err)
	require.NoError(t, d.SetGrowRate(node, core.RatZero()))
	rep := d.Report()
	assert.Equal(t, dualmodule.Unbounded, rep.Kind)
}

func TestInternSubgraph_SameDefectSharesNode(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0}}))
	d := dualmodule.NewEmpty(g)
	a, err := d.AddDefect(0)
	require.NoError(t, err)
	b, err := d.AddDefect(0)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestGrow_RejectsNonPositive(t *testing.T) {
	g := newPathGraph(t)
	d := dualmodule.NewEmpty(g)
	err := d.Grow(core.RatZero())
	assert.ErrorIs(t, err, dualmodule.ErrInvalidGrow)
	err = d.Grow(core.RatFromInt64(-1))
	assert.ErrorIs(t, err, dualmodule.ErrInvalidGrow)
}

func TestGrow_RejectsPastNextEvent(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0}}))
	d := dualmodule.NewEmpty(g)
	_, err := d.AddDefect(0)
	require.NoError(t, err)
	err = d.Grow(core.RatFromInt64(2))
	assert.ErrorIs(t, err, dualmodule.ErrInvalidGrow)
}

func TestAdvanceMode_FreezesRatesAndAllowsDirectMutation(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0}}))
	d := dualmodule.NewEmpty(g)
	_, err := d.AddDefect(0)
	require.NoError(t, err)
	require.NoError(t, d.Grow(core.RatOne()))

	d.AdvanceMode()
	assert.True(t, d.InTuningMode())

	err = d.GrowEdge(0, core.RatFromInt64(-1))
	require.NoError(t, err)
	assert.Equal(t, 0, d.GetEdgeSlack(0).Cmp(core.RatOne()))

	err = d.GrowEdge(0, core.RatFromInt64(-10))
	assert.ErrorIs(t, err, dualmodule.ErrEdgeOverGrown)
}

func TestGrowEdge_RequiresTuningMode(t *testing.T) {
	g := newPathGraph(t)
	d := dualmodule.NewEmpty(g)
	err := d.GrowEdge(0, core.RatOne())
	assert.ErrorIs(t, err, dualmodule.ErrNotInTuningMode)
}

func TestSumDualVariables(t *testing.T) {
	g := newPathGraph(t)
	require.NoError(t, g.LoadSyndrome(core.Syndrome{DefectVertices: []int{0, 2}}))
	d := dualmodule.NewEmpty(g)
	_, err := d.AddDefect(0)
	require.NoError(t, err)
	_, err = d.AddDefect(2)
	require.NoError(t, err)
	require.NoError(t, d.Grow(core.RatOne()))
	assert.Equal(t, 0, d.SumDualVariables().Cmp(core.RatFromInt64(2)))
}
