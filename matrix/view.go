package matrix

// View is the read-only column/row projection every decorator in the
// family re-exposes (spec §4.3 "Decorators ... re-expose the full
// interface with a restricted/sorted column view").
type View interface {
	// Columns returns the number of columns currently visible.
	Columns() int
	// ColumnToVar maps a visible column index back to the underlying
	// variable index.
	ColumnToVar(column int) int
	// Rows returns the number of constraint rows.
	Rows() int
	// VarToEdge maps a variable index to the edge index it represents.
	VarToEdge(v int) int
	// GetViewLHS reads the LHS bit at (row, column) in this view's
	// column numbering.
	GetViewLHS(row, column int) bool
	// GetRHS reads the RHS parity bit of row.
	GetRHS(row int) bool
}

// Matrix is a mutable GF(2) parity matrix: a View plus the row
// operations and incremental construction primitives every decorator
// forwards down to the underlying Basic matrix (spec §4.3).
type Matrix interface {
	View

	// AddVariable introduces edge as a column if it is not already
	// present, returning its variable index and whether it was newly
	// created.
	AddVariable(edge int) (varIndex int, created bool)

	// AddConstraint adds a row for vertex's defect parity over
	// incidentEdges, implicitly calling AddVariable for any edge not
	// yet present. Returns the variable indices newly created, or nil
	// if vertex already has a constraint row.
	AddConstraint(vertex int, incidentEdges []int, parity bool) []int

	// XorRow merges src into dst in place (dst ^= src).
	XorRow(dst, src int)
	// SwapRow exchanges rows a and b.
	SwapRow(a, b int)
	// GetLHS reads the LHS bit at (row, varIndex) directly (not through
	// a view's column numbering).
	GetLHS(row, varIndex int) bool
	// GetRHS reads the RHS parity bit of row.
	GetRHS(row int) bool
	// EdgeToVar looks up the variable index for edge, if present.
	EdgeToVar(edge int) (int, bool)

	// Epoch returns a counter bumped on every row- or column-mutating
	// operation. Decorators that cache a derived view (Echelon's
	// reduced form, in particular) compare this against the epoch they
	// last computed against to decide whether to recompute (spec §9
	// "Operations that mutate BasicMatrix must bump a single epoch
	// counter that all decorators consult").
	Epoch() int
}
