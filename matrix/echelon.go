package matrix

import "github.com/yuewuo/mwps-sub000/core"

// RowInfo describes one row of a computed echelon form.
type RowInfo struct {
	// Column is the row's leading (pivot) view-column, or -1 if the row
	// has no leading column (spec §4.3 "info.rows[r].column").
	Column int
}

// ColumnInfo describes one column of a computed echelon form.
type ColumnInfo struct {
	// Row is the column's dependent (pivot) row, or -1 if the column is
	// independent (spec §4.3 "info.columns[c].row").
	Row int
}

// Info is the Echelon decorator's computed reduced-row-echelon summary
// (spec §4.3).
type Info struct {
	Satisfiable   bool
	Rows          []RowInfo
	Columns       []ColumnInfo
	EffectiveRows int
}

// Echelon lazily computes the reduced row-echelon form of its base's
// *currently visible* columns by Gauss-Jordan elimination, using only
// XorRow and SwapRow so the reduction is visible to every other
// decorator sharing the same underlying Basic store (spec §4.3
// "Echelon: on demand, lazily computes reduced row-echelon form").
//
// Grounded on original_source/src/matrix/echelon_matrix.rs's
// row_echelon_form_reordered: scan columns left to right, pick the
// first row at or below the current pivot row with a set bit, swap it
// into place, clear the column in every other row.
type Echelon struct {
	base        Matrix
	info        Info
	computed    bool
	computedFor int // base.Epoch() value the cached info was built against
}

var _ Matrix = (*Echelon)(nil)

// NewEchelon wraps base.
func NewEchelon(base Matrix) *Echelon {
	return &Echelon{base: base}
}

func (e *Echelon) AddVariable(edge int) (int, bool) {
	v, created := e.base.AddVariable(edge)
	if created {
		e.computed = false
	}
	return v, created
}

func (e *Echelon) AddConstraint(vertex int, incidentEdges []int, parity bool) []int {
	created := e.base.AddConstraint(vertex, incidentEdges, parity)
	if len(created) > 0 {
		e.computed = false
	}
	return created
}

func (e *Echelon) XorRow(dst, src int) { e.base.XorRow(dst, src); e.computed = false }
func (e *Echelon) SwapRow(a, b int)    { e.base.SwapRow(a, b); e.computed = false }
func (e *Echelon) GetLHS(row, v int) bool         { return e.base.GetLHS(row, v) }
func (e *Echelon) GetRHS(row int) bool            { return e.base.GetRHS(row) }
func (e *Echelon) EdgeToVar(edge int) (int, bool) { return e.base.EdgeToVar(edge) }
func (e *Echelon) Epoch() int                     { return e.base.Epoch() }

func (e *Echelon) Columns() int              { return e.base.Columns() }
func (e *Echelon) ColumnToVar(column int) int { return e.base.ColumnToVar(column) }
func (e *Echelon) Rows() int                  { return e.base.Rows() }
func (e *Echelon) VarToEdge(v int) int        { return e.base.VarToEdge(v) }
func (e *Echelon) GetViewLHS(row, column int) bool {
	return e.base.GetViewLHS(row, column)
}

// Info returns the current reduced-echelon summary, recomputing it if
// the base matrix has mutated since the last computation.
func (e *Echelon) Info() Info {
	e.refresh()
	return e.info
}

func (e *Echelon) refresh() {
	if e.computed && e.computedFor == e.base.Epoch() {
		return
	}
	e.recompute()
	e.computed = true
	e.computedFor = e.base.Epoch()
}

func (e *Echelon) recompute() {
	cols := e.base.Columns()
	rows := e.base.Rows()

	info := Info{
		Satisfiable: true,
		Rows:        make([]RowInfo, rows),
		Columns:     make([]ColumnInfo, cols),
	}
	for r := range info.Rows {
		info.Rows[r].Column = -1
	}

	pivotRow := 0
	for c := 0; c < cols; c++ {
		info.Columns[c].Row = -1
		if pivotRow >= rows {
			continue
		}
		found := -1
		for r := pivotRow; r < rows; r++ {
			if e.base.GetViewLHS(r, c) {
				found = r
				break
			}
		}
		if found == -1 {
			continue
		}
		if found != pivotRow {
			e.base.SwapRow(pivotRow, found)
		}
		for r := 0; r < rows; r++ {
			if r != pivotRow && e.base.GetViewLHS(r, c) {
				e.base.XorRow(r, pivotRow)
			}
		}
		info.Rows[pivotRow].Column = c
		info.Columns[c].Row = pivotRow
		pivotRow++
	}

	effectiveRows := pivotRow
	unsatRow := -1
	for r := pivotRow; r < rows; r++ {
		allZero := true
		for c := 0; c < cols; c++ {
			if e.base.GetViewLHS(r, c) {
				allZero = false
				break
			}
		}
		if allZero && e.base.GetRHS(r) {
			unsatRow = r
			break
		}
	}
	if unsatRow != -1 {
		info.Satisfiable = false
		if unsatRow != effectiveRows {
			e.base.SwapRow(unsatRow, effectiveRows)
		}
		effectiveRows++
	}
	info.EffectiveRows = effectiveRows

	// Row/column operations above may have touched the shared store;
	// resnapshot the epoch so the cache we're about to mark valid
	// actually reflects post-reduction state.
	e.info = info
}

// GetSolution returns the set of edges whose leading-column variable is
// assigned true, or ErrUnsatisfiable if info.Satisfiable is false (spec
// §4.3 "Echelon::get_solution()").
func (e *Echelon) GetSolution() (core.Subgraph, error) {
	e.refresh()
	if !e.info.Satisfiable {
		return nil, ErrUnsatisfiable
	}
	assign := e.assignment()
	return e.subgraphFromAssignment(assign), nil
}

// assignment builds the per-variable inclusion map implied by the
// current echelon form: leading variables take their row's RHS,
// independent variables are initialized to false.
func (e *Echelon) assignment() map[int]bool {
	e.refresh()
	assign := make(map[int]bool, e.base.Columns())
	for c := 0; c < e.base.Columns(); c++ {
		v := e.base.ColumnToVar(c)
		if r := e.info.Columns[c].Row; r != -1 {
			assign[v] = e.base.GetRHS(r)
		} else {
			assign[v] = false
		}
	}
	return assign
}

func (e *Echelon) subgraphFromAssignment(assign map[int]bool) core.Subgraph {
	var sub core.Subgraph
	for c := 0; c < e.base.Columns(); c++ {
		v := e.base.ColumnToVar(c)
		if assign[v] {
			sub = append(sub, e.base.VarToEdge(v))
		}
	}
	return sub
}

// GetSolutionLocalMinimum starts from GetSolution, then repeatedly
// tries flipping each independent variable: if the total weight
// strictly decreases, the flip (and the corresponding toggle of every
// row's leading variable touched by that column) is accepted. Converges
// when no single flip improves (spec §4.3
// "get_solution_local_minimum").
func (e *Echelon) GetSolutionLocalMinimum(weight func(edge int) *core.Rational) (core.Subgraph, error) {
	e.refresh()
	if !e.info.Satisfiable {
		return nil, ErrUnsatisfiable
	}
	assign := e.assignment()
	cost := e.weightOf(assign, weight)

	cols := e.base.Columns()
	for {
		improved := false
		for c := 0; c < cols; c++ {
			if e.info.Columns[c].Row != -1 {
				continue // only independent columns are free to flip
			}
			delta := e.flipDelta(c, assign, weight)
			if core.RatIsNeg(delta) {
				e.applyFlip(c, assign)
				cost = core.RatAdd(cost, delta)
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return e.subgraphFromAssignment(assign), nil
}

func (e *Echelon) weightOf(assign map[int]bool, weight func(edge int) *core.Rational) *core.Rational {
	total := core.RatZero()
	for v, included := range assign {
		if included {
			total = core.RatAdd(total, weight(e.base.VarToEdge(v)))
		}
	}
	return total
}

// flipDelta is the signed total-weight change of flipping independent
// column c's variable (and the leading variable of every pivot row with
// a 1 in that column).
func (e *Echelon) flipDelta(c int, assign map[int]bool, weight func(edge int) *core.Rational) *core.Rational {
	v := e.base.ColumnToVar(c)
	delta := signedWeightDelta(assign[v], weight(e.base.VarToEdge(v)))

	for r := 0; r < e.info.EffectiveRows; r++ {
		if e.info.Rows[r].Column == -1 || !e.base.GetViewLHS(r, c) {
			continue
		}
		lv := e.base.ColumnToVar(e.info.Rows[r].Column)
		delta = core.RatAdd(delta, signedWeightDelta(assign[lv], weight(e.base.VarToEdge(lv))))
	}
	return delta
}

func (e *Echelon) applyFlip(c int, assign map[int]bool) {
	v := e.base.ColumnToVar(c)
	assign[v] = !assign[v]
	for r := 0; r < e.info.EffectiveRows; r++ {
		if e.info.Rows[r].Column == -1 || !e.base.GetViewLHS(r, c) {
			continue
		}
		lv := e.base.ColumnToVar(e.info.Rows[r].Column)
		assign[lv] = !assign[lv]
	}
}

// signedWeightDelta returns +w if currentlyIncluded flips false->true,
// or -w if it flips true->false.
func signedWeightDelta(currentlyIncluded bool, w *core.Rational) *core.Rational {
	if currentlyIncluded {
		return core.RatNeg(w)
	}
	return new(core.Rational).Set(w)
}
