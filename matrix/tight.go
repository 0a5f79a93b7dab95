package matrix

// Tight presents only the columns whose edge is currently flagged
// tight, re-sorted by underlying variable order. The flag set is owned
// here (not by the base matrix) so a cluster can flip an edge's
// tightness without touching the shared Basic store (spec §4.3
// "Tight: presents only columns whose edge is flagged tight").
//
// Grounded on the teacher's Tight decorator shape (original_source
// matrix/tight.rs): a lazily-recomputed var-index cache invalidated by
// a dirty flag rather than a full epoch scheme, since tightness changes
// are the only thing that can invalidate this particular view.
type Tight struct {
	base       Matrix
	tightEdges map[int]bool
	varIndices []int
	stale      bool
}

var _ Matrix = (*Tight)(nil)

// NewTight wraps base; no edge starts out tight.
func NewTight(base Matrix) *Tight {
	return &Tight{base: base, tightEdges: make(map[int]bool), stale: true}
}

// SetTight flags edge as tight or not (spec §4.3
// "update_edge_tightness").
func (t *Tight) SetTight(edge int, isTight bool) {
	if isTight {
		t.tightEdges[edge] = true
	} else {
		delete(t.tightEdges, edge)
	}
	t.stale = true
}

// IsTight reports whether edge is currently flagged tight.
func (t *Tight) IsTight(edge int) bool { return t.tightEdges[edge] }

func (t *Tight) refresh() {
	if !t.stale {
		return
	}
	t.varIndices = t.varIndices[:0]
	for col := 0; col < t.base.Columns(); col++ {
		v := t.base.ColumnToVar(col)
		edge := t.base.VarToEdge(v)
		if t.tightEdges[edge] {
			t.varIndices = append(t.varIndices, v)
		}
	}
	t.stale = false
}

func (t *Tight) AddVariable(edge int) (int, bool) {
	v, created := t.base.AddVariable(edge)
	if created {
		t.stale = true
	}
	return v, created
}

func (t *Tight) AddConstraint(vertex int, incidentEdges []int, parity bool) []int {
	created := t.base.AddConstraint(vertex, incidentEdges, parity)
	if len(created) > 0 {
		t.stale = true
	}
	return created
}

func (t *Tight) XorRow(dst, src int)        { t.base.XorRow(dst, src) }
func (t *Tight) SwapRow(a, b int)           { t.base.SwapRow(a, b) }
func (t *Tight) GetLHS(row, v int) bool     { return t.base.GetLHS(row, v) }
func (t *Tight) GetRHS(row int) bool        { return t.base.GetRHS(row) }
func (t *Tight) EdgeToVar(edge int) (int, bool) { return t.base.EdgeToVar(edge) }

func (t *Tight) Epoch() int { return t.base.Epoch() }

func (t *Tight) Columns() int {
	t.refresh()
	return len(t.varIndices)
}

func (t *Tight) ColumnToVar(column int) int {
	t.refresh()
	return t.varIndices[column]
}

func (t *Tight) Rows() int { return t.base.Rows() }

func (t *Tight) VarToEdge(v int) int { return t.base.VarToEdge(v) }

func (t *Tight) GetViewLHS(row, column int) bool {
	return t.GetLHS(row, t.ColumnToVar(column))
}
