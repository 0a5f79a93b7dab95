package matrix

import "errors"

// Sentinel errors returned by the matrix family (spec §4.3, §4.6).
var (
	// ErrRowOutOfRange indicates a row index outside [0, Rows()).
	ErrRowOutOfRange = errors.New("matrix: row index out of range")
	// ErrVarOutOfRange indicates a variable index outside [0, len(variables)).
	ErrVarOutOfRange = errors.New("matrix: variable index out of range")
	// ErrUnsatisfiable indicates GetSolution was called on an Echelon
	// whose info.satisfiable is false.
	ErrUnsatisfiable = errors.New("matrix: system is unsatisfiable")
)
