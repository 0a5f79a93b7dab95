// Package mwpf is the dual-primal relaxation engine for a Minimum-Weight
// Parity-Factor (MWPF) decoder on hypergraphs.
//
// Given a parity-check hypergraph and a syndrome (a set of defect
// vertices), the decoder searches for a subgraph of hyperedges whose
// GF(2) boundary equals the syndrome and whose total weight is
// minimum, certifying optimality whenever the dual lower bound meets
// the primal upper bound.
//
// The engine is organized into seven subpackages:
//
//	core/       — immutable hypergraph model (Vertex, Edge, Initializer, Syndrome)
//	dualmodule/ — obstacle-priority-queue dual module (InvalidSubgraph, DualNode, growth)
//	matrix/     — GF(2) parity matrix family (Basic, Tight, Tail, Echelon, Hair views)
//	primal/     — union-find clustering, resolve loop, plugin orchestration
//	plugin/     — relaxer-producing plugins (union-find fallback, single-hair)
//	solver/     — the public façade: NewSolver / Solve / SubgraphRange / SumDualVariables
//	visualize/  — snapshot boundary contract for an external visualizer
//
// This module implements only the single-threaded serial core described
// above. The CLI, benchmark harness, visualization file formats, and
// multi-partition/parallel orchestration that a full decoder ships with
// are external collaborators and are not part of this repository.
//
//	go get github.com/yuewuo/mwps-sub000/solver
package mwpf
