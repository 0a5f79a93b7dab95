package core_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuewuo/mwps-sub000/core"
)

func TestInitializer_JSONRoundTrip(t *testing.T) {
	init := &core.Initializer{
		VertexNum: 3,
		WeightedEdges: []core.WeightedEdge{
			{Vertices: []int{0, 1}, Weight: core.RatFromInt64(1)},
			{Vertices: []int{0, 1, 2}, Weight: core.RatFromInt64(2)},
		},
	}

	body, err := json.Marshal(init)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"vertex_num":3`)
	assert.Contains(t, string(body), `"weighted_edges"`)
	assert.Contains(t, string(body), `"vertices"`)
	assert.Contains(t, string(body), `"weight"`)

	var got core.Initializer
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, init.VertexNum, got.VertexNum)
	require.Len(t, got.WeightedEdges, 2)
	for i := range init.WeightedEdges {
		assert.Equal(t, init.WeightedEdges[i].Vertices, got.WeightedEdges[i].Vertices)
		assert.Equal(t, 0, init.WeightedEdges[i].Weight.Cmp(got.WeightedEdges[i].Weight))
	}
}

func TestSyndrome_JSONRoundTrip(t *testing.T) {
	syn := core.Syndrome{DefectVertices: []int{1, 3, 7}}

	body, err := json.Marshal(syn)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"defect_vertices":[1,3,7]`)
	assert.Contains(t, string(body), `"erasures"`)

	var got core.Syndrome
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, syn.DefectVertices, got.DefectVertices)
	assert.Empty(t, got.Erasures)
}

func TestWeightRange_JSONUsesExactRationalText(t *testing.T) {
	wr := core.WeightRange{Lower: core.RatFromInt64(2), Upper: core.RatFromInt64(3)}

	body, err := json.Marshal(wr)
	require.NoError(t, err)

	var got core.WeightRange
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 0, wr.Lower.Cmp(got.Lower))
	assert.Equal(t, 0, wr.Upper.Cmp(got.Upper))
}

func TestSubgraph_JSONIsPlainIntArray(t *testing.T) {
	sub := core.Subgraph{2, 4, 6}
	body, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.Equal(t, "[2,4,6]", string(body))
}
