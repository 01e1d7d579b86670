// Package coupling implements the coupling engine (component F): the
// coupling interface, transitive coupling, and coupling profile of a
// package over a user of that package, computed against precomputed
// descendant bitsets from the reach sweep (pkg/olivia/metrics).
package coupling

import (
	"github.com/olivia-graph/olivia/pkg/bitset"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
)

// Engine answers coupling queries against a fixed graph, condensation, and
// descendant-set table.
type Engine struct {
	g    *graph.Graph
	c    *condensation.Condensation
	desc []bitset.Set // scc id -> set of scc ids reachable from it (incl. itself)
}

// New precomputes the descendant bitsets coupling queries need.
func New(g *graph.Graph, c *condensation.Condensation) *Engine {
	return &Engine{g: g, c: c, desc: metrics.DescendantSets(c, metrics.Options{})}
}

// reachableFrom reports whether target is reachable from source (including
// source == target) in the original graph, via their condensation SCCs.
func (e *Engine) reachableFrom(source, target int) bool {
	return e.desc[e.c.SCCOf(source)].Test(e.c.SCCOf(target))
}

// InterfaceOf returns the coupling interface of dependency over user: the
// subset of user's direct dependencies through which dependency's defects
// can reach user. Package ids are returned in ascending order.
func (e *Engine) InterfaceOf(dependency, user int) []int {
	var iface []int
	for _, d := range e.g.OutNeighbors(user) {
		if e.reachableFrom(d, dependency) {
			iface = append(iface, d)
		}
	}
	return iface
}

// TransitiveCoupling returns |InterfaceOf(dependency, user)|.
func (e *Engine) TransitiveCoupling(dependency, user int) int {
	return len(e.InterfaceOf(dependency, user))
}

// Profile returns, for every transitive dependency of user (user's
// descendant set in the forward direction, excluding user itself), its
// coupling interface over user.
func (e *Engine) Profile(user int) map[int][]int {
	profile := make(map[int][]int)
	userSCC := e.c.SCCOf(user)
	e.desc[userSCC].Each(func(sccID int) {
		for _, dependency := range e.c.Members(sccID) {
			if dependency == user {
				continue
			}
			profile[dependency] = e.InterfaceOf(dependency, user)
		}
	})
	return profile
}
