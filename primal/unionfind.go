package primal

// unionFind is a disjoint-set over dense dual-node indices with path
// compression and union-by-rank, generalized from the teacher's
// Kruskal helper (which closed over string vertex IDs in a map) to a
// slice-indexed structure since dual node indices are dense ints
// assigned in creation order (spec §4.4 "union-find with
// path-compression and union-by-rank on cluster IDs").
type unionFind struct {
	parent []int
	rank   []int
}

// ensure grows the structure so index n-1 is valid, initializing any
// newly visible index as its own singleton set.
func (u *unionFind) ensure(n int) {
	for len(u.parent) < n {
		u.parent = append(u.parent, len(u.parent))
		u.rank = append(u.rank, 0)
	}
}

// find returns x's set representative, path-compressing along the way.
func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		// Path compression: make x point to its grandparent.
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets containing a and b, returning the resulting
// root.
func (u *unionFind) union(a, b int) int {
	rootA, rootB := u.find(a), u.find(b)
	if rootA == rootB {
		return rootA
	}
	// Attach smaller-rank tree under larger-rank root.
	if u.rank[rootA] < u.rank[rootB] {
		u.parent[rootA] = rootB
		return rootB
	}
	u.parent[rootB] = rootA
	if u.rank[rootA] == u.rank[rootB] {
		u.rank[rootA]++
	}
	return rootA
}
