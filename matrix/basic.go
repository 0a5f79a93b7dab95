package matrix

// Basic is the innermost, sparsely-populated GF(2) parity matrix: rows
// are per-vertex defect-parity constraints, columns are edge variables,
// added incrementally as clusters grow (spec §3 "Cluster ... matrix:
// parity matrix over tight edges", §4.3). It is the bottom of every
// decorator stack, grounded on the teacher's Dense row-major layout
// (bounds-checked accessors, a compile-time interface assertion) but
// packed as GF(2) bitset rows instead of []float64.
type Basic struct {
	vertices    map[int]bool
	edgeToVar   map[int]int
	variables   []int // var index -> edge index
	constraints []row
	epoch       int
}

var _ Matrix = (*Basic)(nil)

// NewBasic returns an empty matrix with no variables and no constraints.
func NewBasic() *Basic {
	return &Basic{
		vertices:  make(map[int]bool),
		edgeToVar: make(map[int]int),
	}
}

// AddVariable introduces edge as a new column if absent (spec §4.3
// "add_variable(e)").
func (m *Basic) AddVariable(edge int) (int, bool) {
	if v, ok := m.edgeToVar[edge]; ok {
		return v, false
	}
	v := len(m.variables)
	m.edgeToVar[edge] = v
	m.variables = append(m.variables, edge)
	for i := range m.constraints {
		m.constraints[i].growTo(len(m.variables))
	}
	m.epoch++
	return v, true
}

// AddConstraint adds vertex's defect-parity row over incidentEdges,
// adding any missing variables first (spec §4.3 "add_constraint").
// Returns nil if vertex already has a row.
func (m *Basic) AddConstraint(vertex int, incidentEdges []int, parity bool) []int {
	if m.vertices[vertex] {
		return nil
	}
	m.vertices[vertex] = true

	var created []int
	for _, e := range incidentEdges {
		if v, isNew := m.AddVariable(e); isNew {
			created = append(created, v)
		}
	}
	r := newRow(len(m.variables))
	for _, e := range incidentEdges {
		r.set(m.edgeToVar[e], true)
	}
	r.rhs = parity
	m.constraints = append(m.constraints, r)
	m.epoch++
	return created
}

// XorRow merges constraint src into dst (spec §4.3 "xor_row").
func (m *Basic) XorRow(dst, src int) {
	m.constraints[dst].xor(m.constraints[src])
	m.epoch++
}

// SwapRow exchanges constraint rows a and b (spec §4.3 "swap_row").
func (m *Basic) SwapRow(a, b int) {
	m.constraints[a], m.constraints[b] = m.constraints[b], m.constraints[a]
	m.epoch++
}

// Epoch returns the mutation counter.
func (m *Basic) Epoch() int { return m.epoch }

// GetLHS reads the LHS bit at (row, varIndex) (spec §4.3 "get_lhs").
func (m *Basic) GetLHS(r, varIndex int) bool {
	return m.constraints[r].get(varIndex)
}

// GetRHS reads row's RHS parity bit (spec §4.3 "get_rhs").
func (m *Basic) GetRHS(r int) bool {
	return m.constraints[r].rhs
}

// EdgeToVar looks up edge's variable index, if it has been added.
func (m *Basic) EdgeToVar(edge int) (int, bool) {
	v, ok := m.edgeToVar[edge]
	return v, ok
}

// Columns returns the number of variables added so far.
func (m *Basic) Columns() int { return len(m.variables) }

// ColumnToVar is the identity map at the Basic level: every variable is
// visible.
func (m *Basic) ColumnToVar(column int) int { return column }

// Rows returns the number of constraint rows.
func (m *Basic) Rows() int { return len(m.constraints) }

// VarToEdge maps a variable index back to its edge index.
func (m *Basic) VarToEdge(v int) int { return m.variables[v] }

// GetViewLHS is GetLHS restricted to the identity column view.
func (m *Basic) GetViewLHS(r, column int) bool { return m.GetLHS(r, column) }
