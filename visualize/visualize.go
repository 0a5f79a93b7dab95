// Package visualize renders decode-loop snapshots for external tooling:
// a Visualizer receives one Snapshot per solver iteration, and Recorder
// accumulates them into the JSON document shape a companion viewer
// expects (spec §6 "Visualizer snapshot").
package visualize

import (
	"math/big"

	"github.com/goccy/go-json"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
)

// Visualizer receives one Snapshot per Solver.Solve iteration. A nil
// Visualizer is a valid no-op in Solver.Solve.
type Visualizer interface {
	OnSnapshot(s Snapshot)
}

// Snapshot is one point-in-time rendering of the dual module's state,
// shaped to match the wire JSON a companion viewer consumes (spec §6).
type Snapshot struct {
	Vertices    []VertexSnapshot   `json:"vertices"`
	Edges       []EdgeSnapshot     `json:"edges"`
	DualNodes   []DualNodeSnapshot `json:"dual_nodes"`
	Subgraph    []int              `json:"subgraph,omitempty"`
	WeightRange *WeightRangeJSON   `json:"weight_range,omitempty"`
}

// VertexSnapshot reports one vertex's defect status ("s": 0 or 1).
type VertexSnapshot struct {
	S int `json:"s"`
}

// EdgeSnapshot reports one edge's weight, endpoints, and dual-side
// state: current growth (g), plus the growth (gn/gd) and the un-grown
// slack (un/ud) as exact numerator/denominator pairs so a viewer never
// has to re-derive exact rationals from a float.
type EdgeSnapshot struct {
	W  float64 `json:"w"`
	V  []int   `json:"v"`
	G  float64 `json:"g"`
	GN int64   `json:"gn"`
	GD int64   `json:"gd"`
	UN int64   `json:"un"`
	UD int64   `json:"ud"`
}

// DualNodeSnapshot reports one dual node's current variable and growth
// rate, plus the vertex/edge sets defining its InvalidSubgraph.
type DualNodeSnapshot struct {
	Index    int     `json:"index"`
	Y        float64 `json:"y"`
	GrowRate float64 `json:"grow_rate"`
	Vertices []int   `json:"vertices"`
	Edges    []int   `json:"edges"`
}

// WeightRangeJSON mirrors core.WeightRange as exact numerator/denominator
// pairs (spec §6 "weight_range: { ln, ld, un, ud }").
type WeightRangeJSON struct {
	LN int64 `json:"ln"`
	LD int64 `json:"ld"`
	UN int64 `json:"un"`
	UD int64 `json:"ud"`
}

// BuildSnapshot assembles a Snapshot of graph and dual's current state.
// It never mutates either.
func BuildSnapshot(graph *core.Graph, dual *dualmodule.DualModule) Snapshot {
	snap := Snapshot{
		Vertices: make([]VertexSnapshot, len(graph.Vertices)),
		Edges:    make([]EdgeSnapshot, len(graph.Edges)),
	}
	for i, v := range graph.Vertices {
		if v.IsDefect {
			snap.Vertices[i] = VertexSnapshot{S: 1}
		}
	}
	for i, e := range graph.Edges {
		growth := dual.Growth(i)
		weight := e.Weight
		slack := dual.GetEdgeSlack(i)
		snap.Edges[i] = EdgeSnapshot{
			W:  ratToFloat(weight),
			V:  e.Vertices,
			G:  ratToFloat(growth),
			GN: growth.Num().Int64(),
			GD: growth.Denom().Int64(),
			UN: slack.Num().Int64(),
			UD: slack.Denom().Int64(),
		}
	}
	for _, n := range dual.Nodes() {
		snap.DualNodes = append(snap.DualNodes, DualNodeSnapshot{
			Index:    n.Index,
			Y:        ratToFloat(dual.DualVariable(n)),
			GrowRate: ratToFloat(n.GrowRate),
			Vertices: n.Subgraph.Vertices,
			Edges:    n.Subgraph.Edges,
		})
	}
	return snap
}

// AttachResult fills in a Snapshot's terminal fields once a subgraph and
// weight range are known (called by a host after Solver.Solve returns,
// to render the final frame).
func AttachResult(snap Snapshot, sub core.Subgraph, wr core.WeightRange) Snapshot {
	snap.Subgraph = append([]int(nil), sub...)
	snap.WeightRange = &WeightRangeJSON{
		LN: wr.Lower.Num().Int64(),
		LD: wr.Lower.Denom().Int64(),
		UN: wr.Upper.Num().Int64(),
		UD: wr.Upper.Denom().Int64(),
	}
	return snap
}

func ratToFloat(r *core.Rational) float64 {
	f, _ := new(big.Float).SetRat(r).Float64()
	return f
}

// Recorder is a Visualizer that accumulates every snapshot it receives,
// for later serialization (spec §6 "syndrome-log" / companion-viewer
// document shape).
type Recorder struct {
	Snapshots []Snapshot
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnSnapshot implements Visualizer.
func (r *Recorder) OnSnapshot(s Snapshot) {
	r.Snapshots = append(r.Snapshots, s)
}

// MarshalJSON renders the recorded snapshots as a JSON array, using the
// same fast encoder the rest of the module's wire paths use.
func (r *Recorder) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshots)
}
