package primal

import (
	"sort"

	"github.com/yuewuo/mwps-sub000/core"
	"github.com/yuewuo/mwps-sub000/dualmodule"
	"github.com/yuewuo/mwps-sub000/plugin"
)

// Config configures a PrimalModule (spec §9 "functional-options
// convention").
type Config struct {
	Plugins          []plugin.Plugin
	MaxResolveRounds int // 0 means unlimited; a host-side safety seam (spec §5)
}

// Option mutates a Config.
type Option func(*Config)

// WithPlugins sets the ordered plugin pipeline every resolve step
// queries (spec §4.5 "Plugins are sequenced in a configured order").
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(c *Config) { c.Plugins = plugins }
}

// WithMaxResolveRounds records a round budget in Config.MaxResolveRounds.
// PrimalModule itself does not read it; solver.Solver enforces its own
// copy of the budget in Solve.
func WithMaxResolveRounds(n int) Option {
	return func(c *Config) { c.MaxResolveRounds = n }
}

func defaultConfig() Config {
	return Config{Plugins: []plugin.Plugin{plugin.UnionFind{}}}
}

// PrimalModule is the serial primal module: it owns cluster union-find
// state over the dual module's nodes and drives the plugin pipeline
// after each batch of obstacles (spec §4.4).
type PrimalModule struct {
	graph *core.Graph
	dual  *dualmodule.DualModule
	cfg   Config

	uf          unionFind
	rootCluster map[int]*Cluster // union-find root node-index -> its Cluster
	nodeRoot    map[int]int      // dual node index -> the root it was registered under
}

// New builds a PrimalModule over g and d, applying opts over the
// default configuration (union-find plugin only).
func New(g *core.Graph, d *dualmodule.DualModule, opts ...Option) *PrimalModule {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PrimalModule{
		graph:       g,
		dual:        d,
		cfg:         cfg,
		rootCluster: make(map[int]*Cluster),
		nodeRoot:    make(map[int]int),
	}
}

// Clear drops all cluster state, ready for a fresh decode.
func (p *PrimalModule) Clear() {
	p.uf = unionFind{}
	p.rootCluster = make(map[int]*Cluster)
	p.nodeRoot = make(map[int]int)
}

// register ensures node has a singleton cluster if it doesn't already
// belong to one, and returns its current cluster.
func (p *PrimalModule) register(node *dualmodule.DualNode) *Cluster {
	p.uf.ensure(node.Index + 1)
	root := p.uf.find(node.Index)
	if c, ok := p.rootCluster[root]; ok {
		return c
	}
	c := newCluster(p.graph)
	c.Nodes = append(c.Nodes, node)
	c.AbsorbSubgraph(node.Subgraph)
	for _, e := range node.Subgraph.Edges {
		c.MarkTight(e)
	}
	p.rootCluster[root] = c
	p.nodeRoot[node.Index] = root
	return c
}

// union merges the clusters of a and b and returns the surviving root
// and cluster.
func (p *PrimalModule) union(a, b *dualmodule.DualNode) (int, *Cluster) {
	p.register(a)
	p.register(b)
	oldRootA, oldRootB := p.uf.find(a.Index), p.uf.find(b.Index)
	if oldRootA == oldRootB {
		return oldRootA, p.rootCluster[oldRootA]
	}
	newRoot := p.uf.union(a.Index, b.Index)
	loserRoot := oldRootA
	if newRoot == oldRootA {
		loserRoot = oldRootB
	}
	winner := p.rootCluster[newRoot]
	loser := p.rootCluster[loserRoot]
	winner.merge(loser)
	delete(p.rootCluster, loserRoot)
	return newRoot, winner
}

// clusterOf returns node's current cluster, registering a singleton
// cluster for it first if needed.
func (p *PrimalModule) clusterOf(node *dualmodule.DualNode) *Cluster {
	p.uf.ensure(node.Index + 1)
	root := p.uf.find(node.Index)
	if c, ok := p.rootCluster[root]; ok {
		return c
	}
	return p.register(node)
}

// Resolve processes one batch of obstacles reported by the dual module
// (spec §4.4 "Resolve step"): it unions clusters across Conflict
// edges, retires ShrinkToZero nodes, then queries the plugin pipeline
// for every cluster touched this round and applies the relaxers it
// returns.
func (p *PrimalModule) Resolve(batch []dualmodule.Obstacle) error {
	touched := make(map[int]bool)

	for _, o := range batch {
		switch o.Kind {
		case dualmodule.Conflict:
			var anchor *dualmodule.DualNode
			var root int
			var cluster *Cluster
			for _, node := range p.dual.GrowingNodesOf(o.Edge) {
				if node.GrowRate == nil || !core.RatIsPos(node.GrowRate) {
					continue // tolerate stale back-references (spec §5)
				}
				if anchor == nil {
					anchor = node
					cluster = p.register(node)
					root = p.uf.find(node.Index)
					continue
				}
				root, cluster = p.union(anchor, node)
			}
			if cluster != nil {
				cluster.MarkTight(o.Edge)
				touched[root] = true
			}
		case dualmodule.ShrinkToZero:
			p.clusterOf(o.Node)
			if err := p.dual.SetGrowRate(o.Node, core.RatZero()); err != nil {
				return err
			}
			touched[p.uf.find(o.Node.Index)] = true
		}
	}

	roots := make([]int, 0, len(touched))
	for r := range touched {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	for _, root := range roots {
		cluster, ok := p.rootCluster[root]
		if !ok {
			continue
		}
		if err := p.resolveCluster(cluster); err != nil {
			return err
		}
	}
	return nil
}

// resolveCluster freezes the cluster's member grow rates, queries the
// plugin pipeline, and applies every relaxer returned (spec §4.4 steps
// 3-4).
func (p *PrimalModule) resolveCluster(cluster *Cluster) error {
	for _, n := range cluster.Nodes {
		if err := p.dual.SetGrowRate(n, core.RatZero()); err != nil {
			return err
		}
	}

	cs := plugin.ClusterState{
		Graph:         p.graph,
		Vertices:      cluster.VertexList(),
		TightEdges:    cluster.TightEdgeList(),
		Echelon:       cluster.Echelon,
		Tail:          cluster.Tail,
		PositiveNodes: positiveNodes(p.dual, cluster.Nodes),
	}

	for _, pl := range p.cfg.Plugins {
		relaxers, err := pl.FindRelaxers(cs)
		if err != nil {
			return err
		}
		for _, r := range relaxers {
			if err := p.applyRelaxer(cluster, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyRelaxer creates any new dual node a relaxer names, folds it into
// cluster, and sets every named node's grow rate to its Δy (spec §4.4
// "Each returned relaxer is applied").
func (p *PrimalModule) applyRelaxer(cluster *Cluster, r *plugin.Relaxer) error {
	for _, dir := range r.Directions {
		node, err := p.dual.AddNode(dir.Subgraph, core.RatZero())
		if err != nil {
			return err
		}
		p.uf.ensure(node.Index + 1)
		if _, ok := p.rootCluster[p.uf.find(node.Index)]; !ok {
			p.register(node)
		}
		root, merged := p.union(cluster.Nodes[0], node)
		cluster = merged
		_ = root
		cluster.AbsorbSubgraph(dir.Subgraph)
		if err := p.dual.SetGrowRate(node, dir.DeltaY); err != nil {
			return err
		}
	}
	return nil
}

func positiveNodes(d *dualmodule.DualModule, nodes []*dualmodule.DualNode) []*dualmodule.DualNode {
	var out []*dualmodule.DualNode
	for _, n := range nodes {
		if core.RatIsPos(d.DualVariable(n)) {
			out = append(out, n)
		}
	}
	return out
}

// SubgraphRange extracts a candidate subgraph per cluster via local-
// minimum echelon solution, unions them, and reports the certified
// weight range (spec §4.4 "Subgraph extraction").
func (p *PrimalModule) SubgraphRange() (core.Subgraph, core.WeightRange, error) {
	seen := make(map[int]bool)
	var subgraph core.Subgraph
	roots := make([]int, 0, len(p.rootCluster))
	for r := range p.rootCluster {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	for _, root := range roots {
		if seen[root] {
			continue
		}
		seen[root] = true
		cluster := p.rootCluster[root]
		sol, err := cluster.Echelon.GetSolutionLocalMinimum(func(e int) *core.Rational {
			return p.graph.Edges[e].Weight
		})
		if err != nil {
			return nil, core.WeightRange{}, err
		}
		subgraph = append(subgraph, sol...)
	}

	lower := p.dual.SumDualVariables()
	upper := core.RatSub(p.graph.TotalWeight(subgraph), p.graph.NegativeWeightSum)
	return subgraph, core.WeightRange{Lower: lower, Upper: upper}, nil
}

// TuneClusters runs the tuning-mode loop (spec §4.4 "Tuning mode"):
// while any cluster's plugin pipeline still returns a relaxer, apply it
// by directly nudging y_S/growth_e by the largest scale that keeps
// every edge's growth within [0, weight] and every y_S non-negative.
func (p *PrimalModule) TuneClusters() error {
	roots := make([]int, 0, len(p.rootCluster))
	for r := range p.rootCluster {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	for {
		anyRelaxer := false
		for _, root := range roots {
			cluster, ok := p.rootCluster[root]
			if !ok {
				continue
			}
			cs := plugin.ClusterState{
				Graph:         p.graph,
				Vertices:      cluster.VertexList(),
				TightEdges:    cluster.TightEdgeList(),
				Echelon:       cluster.Echelon,
				Tail:          cluster.Tail,
				PositiveNodes: positiveNodes(p.dual, cluster.Nodes),
			}
			for _, pl := range p.cfg.Plugins {
				relaxers, err := pl.FindRelaxers(cs)
				if err != nil {
					return err
				}
				for _, r := range relaxers {
					anyRelaxer = true
					if err := p.applyTunedRelaxer(cluster, r); err != nil {
						return err
					}
				}
			}
		}
		if !anyRelaxer {
			return nil
		}
	}
}

// applyTunedRelaxer nudges each direction's node by the largest common
// scale s>0 such that no edge grows past its weight and no y_S goes
// negative, then applies s*Δy to every named node and its hairs (spec
// §4.4 "a scalar chosen as the min of per-edge and per-node slack
// budgets").
func (p *PrimalModule) applyTunedRelaxer(cluster *Cluster, r *plugin.Relaxer) error {
	nodes := make([]*dualmodule.DualNode, len(r.Directions))
	for i, dir := range r.Directions {
		node, err := p.dual.AddNode(dir.Subgraph, core.RatZero())
		if err != nil {
			return err
		}
		nodes[i] = node
		p.uf.ensure(node.Index + 1)
		if _, ok := p.rootCluster[p.uf.find(node.Index)]; !ok {
			p.register(node)
		}
		_, merged := p.union(cluster.Nodes[0], node)
		cluster = merged
		cluster.AbsorbSubgraph(dir.Subgraph)
	}

	scale := p.tuningScale(r, nodes)
	if !core.RatIsPos(scale) {
		return nil
	}
	for i, dir := range r.Directions {
		amt := core.RatMul(scale, dir.DeltaY)
		if err := p.dual.GrowDualVariable(nodes[i], amt); err != nil {
			return err
		}
		for _, e := range dir.Subgraph.Hairs {
			if err := p.dual.GrowEdge(e, amt); err != nil {
				return err
			}
		}
	}
	return nil
}

// tuningScale computes the largest s>0 the relaxer can be applied at
// without violating any edge or dual-variable bound (spec §4.4 "the
// largest scale at which no edge becomes over-grown and no y_S becomes
// negative").
func (p *PrimalModule) tuningScale(r *plugin.Relaxer, nodes []*dualmodule.DualNode) *core.Rational {
	var scale *core.Rational
	consider := func(bound *core.Rational) {
		if core.RatIsNeg(bound) {
			bound = core.RatZero()
		}
		if scale == nil || bound.Cmp(scale) < 0 {
			scale = bound
		}
	}
	for i, dir := range r.Directions {
		if core.RatIsNeg(dir.DeltaY) {
			// y_S would shrink: bounded by the current y_S itself.
			y := p.dual.DualVariable(nodes[i])
			consider(new(core.Rational).Quo(y, core.RatNeg(dir.DeltaY)))
		}
		for _, e := range dir.Subgraph.Hairs {
			if core.RatIsPos(dir.DeltaY) {
				consider(new(core.Rational).Quo(p.dual.GetEdgeSlack(e), dir.DeltaY))
			}
		}
	}
	if scale == nil {
		return core.RatZero()
	}
	return scale
}
