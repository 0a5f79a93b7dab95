// Package solver is the decoder façade: it wires the dual module,
// matrix-backed primal module, and plugin pipeline into the single
// solve loop a host calls per syndrome (spec §6 "Solver boundary").
package solver

import (
	"context"
	"errors"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/plugin"
	"github.com/yuewuo/mwps-sub000/primal"
	"github.com/yuewuo/mwps-sub000/visualize"
)

// ErrMaxRoundsExceeded indicates Solve's host-side iteration budget
// (Config.MaxResolveRounds) was exhausted before the dual module
// reported Unbounded (spec §5 "a host can bound iterations via a
// timeout counter ... which aborts by returning the current best
// (subgraph, range)").
var ErrMaxRoundsExceeded = errors.New("solver: max resolve rounds exceeded")

// Config configures a Solver (spec §9 "functional-options
// convention").
type Config struct {
	MaxResolveRounds int // 0 means unlimited
}

// Option mutates a Config.
type Option func(*Config)

// WithMaxResolveRounds bounds how many report/resolve iterations a
// single Solve call may run.
func WithMaxResolveRounds(n int) Option {
	return func(c *Config) { c.MaxResolveRounds = n }
}

// Solver is the decode façade: it owns the immutable graph and the
// per-decode dual/primal module pair by exclusive reference during a
// decode (spec §5 "The solver façade owns the dual module, primal
// module, and interface by exclusive reference during a decode").
type Solver struct {
	graph  *core.Graph
	dual   *dualmodule.DualModule
	primal *primal.PrimalModule
	cfg    Config
}

// NewSolver builds the immutable decoding graph from init and wires the
// dual/primal modules over it with the given plugin pipeline (spec §6
// "Solver.new(initializer, plugin_list, config_json)").
func NewSolver(init *core.Initializer, plugins []plugin.Plugin, opts ...Option) (*Solver, error) {
	g, err := core.NewGraph(init)
	if err != nil {
		return nil, err
	}
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	dual := dualmodule.NewEmpty(g)
	var primalOpts []primal.Option
	if len(plugins) > 0 {
		// An empty/nil plugin list leaves the primal module's own
		// UnionFind-only default in place rather than silently
		// disabling the resolve step.
		primalOpts = append(primalOpts, primal.WithPlugins(plugins...))
	}
	if cfg.MaxResolveRounds > 0 {
		primalOpts = append(primalOpts, primal.WithMaxResolveRounds(cfg.MaxResolveRounds))
	}
	return &Solver{
		graph:  g,
		dual:   dual,
		primal: primal.New(g, dual, primalOpts...),
		cfg:    cfg,
	}, nil
}

// Solve decodes syn: it resets defects, replays the dual module's
// report/grow/resolve loop to convergence (search mode), then tunes
// (tuning mode) until every cluster is valid and no plugin proposes a
// relaxer (spec §4.4). vis may be nil.
func (s *Solver) Solve(ctx context.Context, syn core.Syndrome, vis visualize.Visualizer) error {
	s.graph.ResetDefects()
	if err := s.graph.LoadSyndrome(syn); err != nil {
		return err
	}
	s.dual.Clear()
	s.primal.Clear()

	for _, v := range s.graph.Vertices {
		if v.IsDefect {
			if _, err := s.dual.AddDefect(v.Index); err != nil {
				return err
			}
		}
	}

	rounds := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.cfg.MaxResolveRounds > 0 && rounds >= s.cfg.MaxResolveRounds {
			return ErrMaxRoundsExceeded
		}
		rounds++

		rep := s.dual.Report()
		if vis != nil {
			vis.OnSnapshot(s.snapshot())
		}

		switch rep.Kind {
		case dualmodule.Unbounded:
			s.dual.AdvanceMode()
			return s.primal.TuneClusters()
		case dualmodule.ValidGrow:
			if err := s.dual.Grow(rep.GrowLength); err != nil {
				return err
			}
		case dualmodule.Obstacles:
			if err := s.primal.Resolve(rep.Obstacles); err != nil {
				return err
			}
		}
	}
}

// SubgraphRange returns the current candidate subgraph and its
// certified weight range (spec §6 "solver.subgraph_range()").
func (s *Solver) SubgraphRange() (core.Subgraph, core.WeightRange, error) {
	return s.primal.SubgraphRange()
}

// SumDualVariables returns Σ y_S over every dual node (spec §6
// "solver.sum_dual_variables()").
func (s *Solver) SumDualVariables() *core.Rational {
	return s.dual.SumDualVariables()
}

// Clear resets all per-decode state, ready for the next syndrome (spec
// §6 "solver.clear()").
func (s *Solver) Clear() {
	s.graph.ResetDefects()
	s.dual.Clear()
	s.primal.Clear()
}

func (s *Solver) snapshot() visualize.Snapshot {
	return visualize.BuildSnapshot(s.graph, s.dual)
}
