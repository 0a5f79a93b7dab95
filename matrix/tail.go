package matrix

// Tail reorders its base's visible columns so a caller-chosen set of
// "tail" edges sits at the rightmost columns, preserving the relative
// order of non-tail and tail columns otherwise (spec §4.3 "Tail:
// reorders the view so a user-specified set of tail edges is placed at
// the rightmost columns").
//
// Placing tail edges last is what lets Echelon's ordinary left-to-right
// pivot scan naturally leave them as free/independent columns whenever
// possible, which is exactly the property Hair needs afterward.
type Tail struct {
	base      Matrix
	tailEdges map[int]bool
	order     []int // view column -> base column
	stale     bool
}

var _ Matrix = (*Tail)(nil)

// NewTail wraps base; no edge starts out in the tail set.
func NewTail(base Matrix) *Tail {
	return &Tail{base: base, tailEdges: make(map[int]bool), stale: true}
}

// SetTail flags edge as belonging to the tail set (or removes it).
func (t *Tail) SetTail(edge int, inTail bool) {
	if inTail {
		t.tailEdges[edge] = true
	} else {
		delete(t.tailEdges, edge)
	}
	t.stale = true
}

// TailEdgeSet returns a copy of the current tail-flagged edge set, so a
// caller can temporarily repoint the tail region and restore it
// afterward (spec §9 "each plugin is pure modulo matrix scratch-space
// which must be restored before return").
func (t *Tail) TailEdgeSet() map[int]bool {
	out := make(map[int]bool, len(t.tailEdges))
	for e := range t.tailEdges {
		out[e] = true
	}
	return out
}

// ResetTailSet replaces the tail set wholesale with set (as returned by
// TailEdgeSet, or built fresh by a caller).
func (t *Tail) ResetTailSet(set map[int]bool) {
	t.tailEdges = make(map[int]bool, len(set))
	for e := range set {
		t.tailEdges[e] = true
	}
	t.stale = true
}

// TailCount returns how many of the currently visible columns belong to
// the tail set, after refreshing the ordering. Used by Hair to locate
// the rightmost block.
func (t *Tail) TailCount() int {
	t.refresh()
	count := 0
	for col := 0; col < t.base.Columns(); col++ {
		v := t.base.ColumnToVar(col)
		if t.tailEdges[t.base.VarToEdge(v)] {
			count++
		}
	}
	return count
}

func (t *Tail) refresh() {
	if !t.stale {
		return
	}
	n := t.base.Columns()
	t.order = make([]int, 0, n)
	for col := 0; col < n; col++ {
		v := t.base.ColumnToVar(col)
		if !t.tailEdges[t.base.VarToEdge(v)] {
			t.order = append(t.order, col)
		}
	}
	for col := 0; col < n; col++ {
		v := t.base.ColumnToVar(col)
		if t.tailEdges[t.base.VarToEdge(v)] {
			t.order = append(t.order, col)
		}
	}
	t.stale = false
}

func (t *Tail) AddVariable(edge int) (int, bool) {
	v, created := t.base.AddVariable(edge)
	if created {
		t.stale = true
	}
	return v, created
}

func (t *Tail) AddConstraint(vertex int, incidentEdges []int, parity bool) []int {
	created := t.base.AddConstraint(vertex, incidentEdges, parity)
	if len(created) > 0 {
		t.stale = true
	}
	return created
}

func (t *Tail) XorRow(dst, src int)            { t.base.XorRow(dst, src) }
func (t *Tail) SwapRow(a, b int)               { t.base.SwapRow(a, b) }
func (t *Tail) GetLHS(row, v int) bool         { return t.base.GetLHS(row, v) }
func (t *Tail) GetRHS(row int) bool            { return t.base.GetRHS(row) }
func (t *Tail) EdgeToVar(edge int) (int, bool) { return t.base.EdgeToVar(edge) }

func (t *Tail) Epoch() int { return t.base.Epoch() }

func (t *Tail) Columns() int {
	t.refresh()
	return len(t.order)
}

func (t *Tail) ColumnToVar(column int) int {
	t.refresh()
	return t.base.ColumnToVar(t.order[column])
}

func (t *Tail) Rows() int { return t.base.Rows() }

func (t *Tail) VarToEdge(v int) int { return t.base.VarToEdge(v) }

func (t *Tail) GetViewLHS(row, column int) bool {
	t.refresh()
	return t.base.GetViewLHS(row, t.order[column])
}
