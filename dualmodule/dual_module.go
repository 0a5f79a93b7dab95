package dualmodule

import (
	"errors"
	"fmt"

	"github.com/yuewuo/mwps-sub000/core"
)

// Sentinel errors for dual-module operations.
var (
	// ErrInvalidGrow indicates Grow was called with a non-positive
	// length, or a length exceeding the next valid event (spec §4.6).
	ErrInvalidGrow = errors.New("dualmodule: invalid grow length")

	// ErrEdgeOverGrown indicates growth_e would leave [0, weight_e]; a
	// tuning-mode GrowEdge returns it for either bound (spec §4.6).
	ErrEdgeOverGrown = errors.New("dualmodule: edge grown past its weight")

	// ErrDualVariableNegative indicates a direct tuning-mode adjustment
	// would push y_S below zero.
	ErrDualVariableNegative = errors.New("dualmodule: dual variable would go negative")

	// ErrNotInTuningMode indicates a tuning-mode-only operation was
	// called while still in search mode.
	ErrNotInTuningMode = errors.New("dualmodule: operation requires tuning mode")
)

// DualNodeState is the coarse-grained direction a dual node is currently
// moving in (spec §3).
type DualNodeState int

const (
	StateGrow DualNodeState = iota
	StateStay
	StateShrink
)

// DualNode is one dual variable y_S (spec §3). Its value is stored
// lazily; use DualModule.DualVariable(node) to read it at the current
// time (the module owns global_time, per spec §9 "Global mutable
// time").
type DualNode struct {
	Index      int
	Subgraph   *InvalidSubgraph
	GrowRate   *core.Rational
	State      DualNodeState

	dualVarAtLastUpdate *core.Rational
	lastUpdatedTime      *core.Rational
}

// edgeState is the dual-side mutable state of one hyperedge (spec §3
// "Edge mutable state").
type edgeState struct {
	weight               *core.Rational
	growRate             *core.Rational
	growthAtLastUpdate   *core.Rational
	lastUpdatedTime      *core.Rational
	growingNodes         []*DualNode // weak back-references, stale entries tolerated (spec §5)
}

// ReportKind distinguishes the three shapes DualModule.Report can return
// (spec §4.1 "report()").
type ReportKind int

const (
	Unbounded ReportKind = iota
	ValidGrow
	Obstacles
)

// DualReport is the result of DualModule.Report.
type DualReport struct {
	Kind       ReportKind
	GrowLength *core.Rational // meaningful iff Kind == ValidGrow
	Obstacles  []Obstacle     // meaningful iff Kind == Obstacles
}

// DualModule is the obstacle-priority-queue dual module: it owns the
// monotonic global virtual time, per-edge slack bookkeeping, the
// append-only set of dual nodes, and the min-heap of future obstacles
// (spec §4.1).
type DualModule struct {
	graph      *core.Graph
	edges      []*edgeState
	nodes      []*DualNode
	globalTime *core.Rational
	queue      obstacleQueue
	tuning     bool

	// subgraphIndex canonicalizes InvalidSubgraph content to a single
	// DualNode (spec §3 "Canonical-by-content").
	subgraphIndex map[uint64][]*DualNode
}

// NewEmpty builds the edge/vertex tables from g and zeros all mutable
// state (spec §4.1 "new_empty").
func NewEmpty(g *core.Graph) *DualModule {
	d := &DualModule{graph: g}
	d.Clear()
	return d
}

// Clear resets all per-decode state (growth, dual nodes, clusters'
// upstream bookkeeping, PQ, global time) while keeping the immutable
// graph structure (spec §3 "Lifecycle", §4.1 "clear()").
func (d *DualModule) Clear() {
	d.edges = make([]*edgeState, len(d.graph.Edges))
	for i, e := range d.graph.Edges {
		d.edges[i] = &edgeState{
			weight:             new(core.Rational).Set(e.Weight),
			growRate:           core.RatZero(),
			growthAtLastUpdate: core.RatZero(),
			lastUpdatedTime:    core.RatZero(),
		}
	}
	d.nodes = nil
	d.globalTime = core.RatZero()
	d.queue.clear()
	d.tuning = false
	d.subgraphIndex = make(map[uint64][]*DualNode)
}

// GlobalTime returns the dual module's current virtual time.
func (d *DualModule) GlobalTime() *core.Rational {
	return new(core.Rational).Set(d.globalTime)
}

// Nodes returns every dual node created so far, in creation order
// (append-only within a decode, per spec §3 "Lifecycle").
func (d *DualModule) Nodes() []*DualNode { return d.nodes }

// growthAt returns edge e's growth at virtual time t >= es.lastUpdatedTime,
// without mutating any state (pure extrapolation).
func growthAt(es *edgeState, t *core.Rational) *core.Rational {
	delta := core.RatSub(t, es.lastUpdatedTime)
	return core.RatAdd(es.growthAtLastUpdate, core.RatMul(delta, es.growRate))
}

// dualVarAt returns node's y_S at virtual time t, without mutating state.
func dualVarAt(node *DualNode, t *core.Rational) *core.Rational {
	delta := core.RatSub(t, node.lastUpdatedTime)
	return core.RatAdd(node.dualVarAtLastUpdate, core.RatMul(delta, node.GrowRate))
}

// lazyUpdateEdge brings e forward to global_time (spec §4.1 "Lazy update
// contract").
func (d *DualModule) lazyUpdateEdge(e int) {
	es := d.edges[e]
	es.growthAtLastUpdate = growthAt(es, d.globalTime)
	es.lastUpdatedTime = new(core.Rational).Set(d.globalTime)
}

// lazyUpdateNode brings node forward to global_time.
func (d *DualModule) lazyUpdateNode(node *DualNode) {
	node.dualVarAtLastUpdate = dualVarAt(node, d.globalTime)
	node.lastUpdatedTime = new(core.Rational).Set(d.globalTime)
}

// Growth returns edge e's growth at the current global time.
func (d *DualModule) Growth(e int) *core.Rational {
	d.lazyUpdateEdge(e)
	return new(core.Rational).Set(d.edges[e].growthAtLastUpdate)
}

// GetEdgeSlack returns weight_e - growth_e at the current global time
// (spec §3).
func (d *DualModule) GetEdgeSlack(e int) *core.Rational {
	d.lazyUpdateEdge(e)
	return core.RatSub(d.edges[e].weight, d.edges[e].growthAtLastUpdate)
}

// IsEdgeTight reports whether slack_e == 0 at the current global time.
func (d *DualModule) IsEdgeTight(e int) bool {
	return core.RatIsZero(d.GetEdgeSlack(e))
}

// DualVariable returns node's y_S at the current global time.
func (d *DualModule) DualVariable(node *DualNode) *core.Rational {
	d.lazyUpdateNode(node)
	return new(core.Rational).Set(node.dualVarAtLastUpdate)
}

// internSubgraph returns the canonical DualNode for s, creating one if
// no existing node shares its content (spec §3 "Canonical-by-content").
func (d *DualModule) internSubgraph(s *InvalidSubgraph) (node *DualNode, created bool) {
	for _, candidate := range d.subgraphIndex[s.Hash()] {
		if candidate.Subgraph.Equal(s) {
			return candidate, false
		}
	}
	node = &DualNode{
		Index:                len(d.nodes),
		Subgraph:             s,
		GrowRate:             core.RatZero(),
		State:                StateStay,
		dualVarAtLastUpdate:  core.RatZero(),
		lastUpdatedTime:      new(core.Rational).Set(d.globalTime),
	}
	d.nodes = append(d.nodes, node)
	d.subgraphIndex[s.Hash()] = append(d.subgraphIndex[s.Hash()], node)
	return node, true
}

// AddNode interns s and, if it is newly created, sets its grow rate to
// rate via SetGrowRate (spec §4.1 "add_node"). Returns the (possibly
// pre-existing) canonical node.
func (d *DualModule) AddNode(s *InvalidSubgraph, rate *core.Rational) (*DualNode, error) {
	node, created := d.internSubgraph(s)
	if created {
		if err := d.SetGrowRate(node, rate); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// AddDefect marks vertex v as a defect and creates (or reuses) the
// trivial dual node for S=({v},∅) with an initial grow rate of +1
// (spec §4.1 "add_defect").
func (d *DualModule) AddDefect(v int) (*DualNode, error) {
	d.graph.Vertices[v].IsDefect = true
	s := NewDefectSubgraph(d.graph, v)
	return d.AddNode(s, core.RatOne())
}

// SetGrowRate lazy-updates node, then adjusts every hair edge's overall
// grow_rate_e by r - r_old and re-schedules conflicts/shrink events
// (spec §4.1 "set_grow_rate").
func (d *DualModule) SetGrowRate(node *DualNode, r *core.Rational) error {
	d.lazyUpdateNode(node)
	delta := core.RatSub(r, node.GrowRate)
	node.GrowRate = new(core.Rational).Set(r)

	switch {
	case core.RatIsPos(r):
		node.State = StateGrow
	case core.RatIsNeg(r):
		node.State = StateShrink
	default:
		node.State = StateStay
	}

	for _, e := range node.Subgraph.Hairs {
		d.lazyUpdateEdge(e)
		es := d.edges[e]
		es.growRate = core.RatAdd(es.growRate, delta)
		if !containsNode(es.growingNodes, node) && !core.RatIsZero(r) {
			es.growingNodes = append(es.growingNodes, node)
		}
		d.rescheduleConflict(e)
	}

	if core.RatIsNeg(r) {
		d.rescheduleShrink(node)
	}
	return nil
}

// rescheduleConflict enqueues a fresh Conflict(e) if e is currently
// approaching tightness (spec §4.1 "enqueues Conflict(e) ... at time
// global_time + slack_e / grow_rate_e").
func (d *DualModule) rescheduleConflict(e int) {
	es := d.edges[e]
	if !core.RatIsPos(es.growRate) {
		return
	}
	slack := core.RatSub(es.weight, es.growthAtLastUpdate)
	span := new(core.Rational).Quo(slack, es.growRate)
	t := core.RatAdd(d.globalTime, span)
	d.queue.push(t, Obstacle{Kind: Conflict, Edge: e})
}

// rescheduleShrink enqueues a fresh ShrinkToZero(node) when node.GrowRate
// is negative (spec §4.1 "ShrinkToZero at global_time + y_S / |r|").
func (d *DualModule) rescheduleShrink(node *DualNode) {
	if !core.RatIsNeg(node.GrowRate) {
		return
	}
	absRate := core.RatNeg(node.GrowRate)
	span := new(core.Rational).Quo(node.dualVarAtLastUpdate, absRate)
	t := core.RatAdd(d.globalTime, span)
	d.queue.push(t, Obstacle{Kind: ShrinkToZero, Node: node})
}

// isValidObstacle reports whether a previously scheduled event is still
// meaningful at the time it was scheduled for (spec §4.1 "Event
// validity").
func (d *DualModule) isValidObstacle(t *core.Rational, o Obstacle) bool {
	switch o.Kind {
	case Conflict:
		es := d.edges[o.Edge]
		return core.RatIsPos(es.growRate) && growthAt(es, t).Cmp(es.weight) == 0
	case ShrinkToZero:
		return core.RatIsNeg(o.Node.GrowRate) && core.RatIsZero(dualVarAt(o.Node, t))
	default:
		return false
	}
}

// Report pops invalid events until either the queue is empty
// (Unbounded), the next valid event lies strictly in the future
// (ValidGrow), or one or more valid events share the current
// global_time (Obstacles, returned as a single batch). Obstacles
// returned are re-enqueued at the same time so a second Report() call
// with no intervening resolve sees the same batch (spec §4.1 "report()").
func (d *DualModule) Report() *DualReport {
	for {
		t, o, ok := d.queue.peek()
		if !ok {
			return &DualReport{Kind: Unbounded}
		}
		if !d.isValidObstacle(t, o) {
			d.queue.pop()
			continue
		}
		if t.Cmp(d.globalTime) > 0 {
			return &DualReport{Kind: ValidGrow, GrowLength: core.RatSub(t, d.globalTime)}
		}
		break
	}

	var batch []Obstacle
	for {
		t, o, ok := d.queue.peek()
		if !ok || t.Cmp(d.globalTime) != 0 {
			break
		}
		d.queue.pop()
		if !d.isValidObstacle(t, o) {
			continue
		}
		batch = append(batch, o)
	}
	for _, o := range batch {
		d.queue.push(d.globalTime, o)
	}
	return &DualReport{Kind: Obstacles, Obstacles: batch}
}

// Grow requires dt > 0 and dt no larger than the bound Report() would
// currently return, then advances global_time by dt (spec §4.1 "grow").
func (d *DualModule) Grow(dt *core.Rational) error {
	if !core.RatIsPos(dt) {
		return fmt.Errorf("%w: length must be positive", ErrInvalidGrow)
	}
	rep := d.Report()
	if rep.Kind == ValidGrow && dt.Cmp(rep.GrowLength) > 0 {
		return fmt.Errorf("%w: length exceeds next valid event", ErrInvalidGrow)
	}
	if rep.Kind == Obstacles {
		return fmt.Errorf("%w: an obstacle is already pending at the current time", ErrInvalidGrow)
	}
	d.globalTime = core.RatAdd(d.globalTime, dt)
	return nil
}

// AdvanceMode syncs every edge and node to global_time, drops the PQ,
// and switches from search mode to tuning mode (spec §4.1
// "advance_mode").
func (d *DualModule) AdvanceMode() {
	for e := range d.edges {
		d.lazyUpdateEdge(e)
	}
	for _, n := range d.nodes {
		d.lazyUpdateNode(n)
	}
	d.queue.clear()
	d.tuning = true
}

// InTuningMode reports whether AdvanceMode has been called since Clear.
func (d *DualModule) InTuningMode() bool { return d.tuning }

// GrowEdge directly mutates growth_e by amt in tuning mode (spec §4.1
// "Subsequent grow_edge(e, amt) mutates growth_e directly"). Requires
// tuning mode and 0 <= resulting growth <= weight.
func (d *DualModule) GrowEdge(e int, amt *core.Rational) error {
	if !d.tuning {
		return ErrNotInTuningMode
	}
	es := d.edges[e]
	next := core.RatAdd(es.growthAtLastUpdate, amt)
	if core.RatIsNeg(next) || next.Cmp(es.weight) > 0 {
		return fmt.Errorf("%w: edge %d", ErrEdgeOverGrown, e)
	}
	es.growthAtLastUpdate = next
	return nil
}

// GrowDualVariable directly mutates y_S by amt in tuning mode. Requires
// tuning mode and a resulting value >= 0.
func (d *DualModule) GrowDualVariable(node *DualNode, amt *core.Rational) error {
	if !d.tuning {
		return ErrNotInTuningMode
	}
	next := core.RatAdd(node.dualVarAtLastUpdate, amt)
	if core.RatIsNeg(next) {
		return ErrDualVariableNegative
	}
	node.dualVarAtLastUpdate = next
	return nil
}

// GrowingNodesOf returns the dual nodes currently recorded as growing on
// edge e (spec §5 "an edge's back-reference list..."); stale zero-rate
// entries may be present and are tolerated by callers.
func (d *DualModule) GrowingNodesOf(e int) []*DualNode {
	return d.edges[e].growingNodes
}

// SumDualVariables returns the sum of every dual node's current y_S
// (spec §6 "sum_dual_variables").
func (d *DualModule) SumDualVariables() *core.Rational {
	sum := core.RatZero()
	for _, n := range d.nodes {
		sum = core.RatAdd(sum, d.DualVariable(n))
	}
	return sum
}

func containsNode(xs []*DualNode, n *DualNode) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
