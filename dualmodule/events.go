package dualmodule

import (
	"container/heap"

	"github.com/yuewuo/mwps-sub000/core"
)

// ObstacleKind distinguishes the two event shapes the dual module can
// schedule (spec §4.1): a growing edge becoming tight (Conflict), or a
// shrinking dual node hitting zero (ShrinkToZero).
type ObstacleKind int

const (
	// Conflict fires when edge Edge becomes tight while still growing.
	Conflict ObstacleKind = iota
	// ShrinkToZero fires when dual node Node's y_S would reach zero.
	ShrinkToZero
)

// Obstacle is one event the dual module may need to act on. Exactly one
// of Edge/Node is meaningful, selected by Kind.
type Obstacle struct {
	Kind ObstacleKind
	Edge int
	Node *DualNode
}

// futureEvent pairs an Obstacle with the virtual time it is scheduled to
// fire at. Ties at identical Time are intentional: report() drains every
// event sharing the head time into a single batch (spec §4.2).
type futureEvent struct {
	time     *core.Rational
	obstacle Obstacle
}

// obstacleQueue is a min-heap over futureEvent ordered by time, exactly
// the lazy-decrease-key shape of the teacher's dijkstra.nodePQ: pushing
// a fresher event for the same edge/node is cheaper than a decrease-key
// heap, and stale entries are filtered out on pop by the caller checking
// isValidObstacle (spec §4.1 "Event validity").
//
// Duplicates are allowed by design (spec §4.2); container/heap never
// needs an index back into the slice because we never remove anything
// but the minimum.
type obstacleQueue []futureEvent

var _ heap.Interface = (*obstacleQueue)(nil)

func (q obstacleQueue) Len() int { return len(q) }

func (q obstacleQueue) Less(i, j int) bool { return q[i].time.Cmp(q[j].time) < 0 }

func (q obstacleQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *obstacleQueue) Push(x interface{}) { *q = append(*q, x.(futureEvent)) }

func (q *obstacleQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// push schedules event to fire at t.
func (q *obstacleQueue) push(t *core.Rational, event Obstacle) {
	heap.Push(q, futureEvent{time: t, obstacle: event})
}

// peek returns the earliest scheduled event without removing it.
func (q *obstacleQueue) peek() (*core.Rational, Obstacle, bool) {
	if len(*q) == 0 {
		return nil, Obstacle{}, false
	}
	head := (*q)[0]
	return head.time, head.obstacle, true
}

// pop removes and returns the earliest scheduled event.
func (q *obstacleQueue) pop() (*core.Rational, Obstacle, bool) {
	if len(*q) == 0 {
		return nil, Obstacle{}, false
	}
	item := heap.Pop(q).(futureEvent)
	return item.time, item.obstacle, true
}

// clear empties the queue, discarding all pending events (spec §4.2).
func (q *obstacleQueue) clear() { *q = (*q)[:0] }
