package network

import (
	"context"

	"github.com/olivia-graph/olivia/pkg/bitset"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
)

// PackageView is a thin, non-owning handle onto one package inside a
// Network. It never outlives the Network it was created from.
type PackageView struct {
	net *Network
	id  int
}

// Name returns the package's name.
func (v *PackageView) Name() string { return v.net.g.Name(v.id) }

// DirectDependencies returns the packages v directly depends on.
func (v *PackageView) DirectDependencies() []string {
	return namesOf(v.net.g, v.net.g.OutNeighbors(v.id))
}

// DirectDependants returns the packages that directly depend on v.
func (v *PackageView) DirectDependants() []string {
	return namesOf(v.net.g, v.net.g.InNeighbors(v.id))
}

// TransitiveDependencies returns every package reachable from v, excluding
// v itself, via the Network's cached forward descendant-set table: O(1)
// lookup plus O(result size) materialization, per §4.C.
func (v *PackageView) TransitiveDependencies() []string {
	sets := v.net.descendantSetTable()
	return membersExcludingSelf(v.net.g, v.net.c, sets[v.net.c.SCCOf(v.id)], v.id)
}

// TransitiveDependants returns every package that can reach v, excluding v
// itself, via the Network's cached reverse (ascendant) set table.
func (v *PackageView) TransitiveDependants() []string {
	sets := v.net.ascendantSetTable()
	return membersExcludingSelf(v.net.g, v.net.c, sets[v.net.c.SCCOf(v.id)], v.id)
}

func membersExcludingSelf(g *graph.Graph, c *condensation.Condensation, set bitset.Set, self int) []string {
	var ids []int
	set.Each(func(sccID int) {
		for _, pkg := range c.Members(sccID) {
			if pkg != self {
				ids = append(ids, pkg)
			}
		}
	})
	return namesOf(g, ids)
}

// SCC returns the names of every package sharing v's strongly connected
// component, including v itself.
func (v *PackageView) SCC() []string {
	return namesOf(v.net.g, v.net.c.Members(v.net.c.SCCOf(v.id)))
}

// Reach returns v's cached or newly computed Reach value.
func (v *PackageView) Reach(ctx context.Context) (float64, error) {
	return v.metric(ctx, metrics.Reach)
}

// Impact returns v's cached or newly computed Impact value.
func (v *PackageView) Impact(ctx context.Context) (float64, error) {
	return v.metric(ctx, metrics.Impact)
}

// Surface returns v's cached or newly computed Surface value.
func (v *PackageView) Surface(ctx context.Context) (float64, error) {
	return v.metric(ctx, metrics.Surface)
}

// DependentsCount returns len(DirectDependants()).
func (v *PackageView) DependentsCount() int { return v.net.g.InDegree(v.id) }

// DependenciesCount returns len(DirectDependencies()).
func (v *PackageView) DependenciesCount() int { return v.net.g.OutDegree(v.id) }

func (v *PackageView) metric(ctx context.Context, kind metrics.Kind) (float64, error) {
	stats, err := v.net.GetMetric(ctx, kind)
	if err != nil {
		return 0, err
	}
	value, _ := stats.Value(v.Name())
	return value, nil
}

// CouplingInterfaceTo returns the coupling interface of v over target: the
// subset of target's direct dependencies through which v's defects reach
// target.
func (v *PackageView) CouplingInterfaceTo(target *PackageView) []string {
	ids := v.net.couplingEngine().InterfaceOf(v.id, target.id)
	return namesOf(v.net.g, ids)
}

// CouplingInterfaceFrom returns the coupling interface of source over v:
// the subset of v's direct dependencies through which source's defects
// reach v.
func (v *PackageView) CouplingInterfaceFrom(source *PackageView) []string {
	ids := v.net.couplingEngine().InterfaceOf(source.id, v.id)
	return namesOf(v.net.g, ids)
}

// CouplingProfile returns, for every transitive dependency of v, its
// coupling interface over v, keyed by package name.
func (v *PackageView) CouplingProfile() map[string][]string {
	raw := v.net.couplingEngine().Profile(v.id)
	profile := make(map[string][]string, len(raw))
	for depID, ifaceIDs := range raw {
		profile[v.net.g.Name(depID)] = namesOf(v.net.g, ifaceIDs)
	}
	return profile
}
