package matrix

// Hair sits on top of an Echelon(Tail(...)) stack and exposes just the
// rightmost block of columns the Tail decorator placed last (the "hair"
// edges of the dual node the cluster matrix is being queried for),
// together with the rows whose leading column falls inside that block
// (spec §4.3 "Hair: a view placed on top of Tail+Echelon that selects
// the rightmost block ... and the rows whose leading column lies
// inside it. Used by single-hair plugin").
type Hair struct {
	echelon *Echelon
	tail    *Tail
}

// NewHair wraps echelon, consulting tail only to locate where the hair
// block starts.
func NewHair(echelon *Echelon, tail *Tail) *Hair {
	return &Hair{echelon: echelon, tail: tail}
}

func (h *Hair) hairStart() int {
	return h.echelon.Columns() - h.tail.TailCount()
}

// Satisfiable reports whether the whole (tight ∪ hair) system has a
// GF(2) solution, per the shared echelon form.
func (h *Hair) Satisfiable() bool {
	return h.echelon.Info().Satisfiable
}

// NecessaryHairEdges returns the hair edges that are the leading
// (pivot) column of some row with RHS=1: the edges the plugin cannot
// avoid including for that row's parity to hold. An empty (nil) result
// with Satisfiable()==true means every row in the hair block is
// already accounted for without touching a hair edge.
func (h *Hair) NecessaryHairEdges() []int {
	start := h.hairStart()
	info := h.echelon.Info()
	var edges []int
	for c := start; c < h.echelon.Columns(); c++ {
		r := info.Columns[c].Row
		if r == -1 {
			continue
		}
		if h.echelon.GetRHS(r) {
			edges = append(edges, h.echelon.VarToEdge(h.echelon.ColumnToVar(c)))
		}
	}
	return edges
}
