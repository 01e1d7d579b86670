// Package network implements the network model (component C): it composes
// the graph store and the condensation builder, owns the metric cache, and
// exposes the per-package view operations and SCC queries the rest of the
// engine is built on.
package network

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/olivia-graph/olivia/pkg/bitset"
	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/coupling"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
)

// Network is the immutable-graph, mutable-cache model at the center of the
// engine. The graph and condensation never change after Build; the metric
// cache is append-only and safe for concurrent use.
type Network struct {
	g       *graph.Graph
	c       *condensation.Condensation
	buildID uuid.UUID

	mu     sync.RWMutex
	cache  map[metrics.Kind]*metrics.Stats
	flight singleflight.Group

	couplingOnce sync.Once
	couplingEng  *coupling.Engine

	descendantsOnce sync.Once
	descendantSets  []bitset.Set
	ascendantsOnce  sync.Once
	ascendantSets   []bitset.Set
}

// Build constructs a Network from an already-ingested graph, running the
// condensation builder once up front so later queries never pay for it.
func Build(g *graph.Graph) (*Network, error) {
	c, err := condensation.Build(g)
	if err != nil {
		return nil, err
	}
	return &Network{
		g:       g,
		c:       c,
		buildID: uuid.New(),
		cache:   make(map[metrics.Kind]*metrics.Stats),
	}, nil
}

// BuildID returns the per-build identifier stamped at construction, used to
// namespace pkg/store cache keys so two builds never collide.
func (n *Network) BuildID() uuid.UUID { return n.buildID }

// Size returns the number of packages.
func (n *Network) Size() int { return n.g.Size() }

// Contains reports whether name is a known package.
func (n *Network) Contains(name string) bool { return n.g.Contains(name) }

// Iter returns package names in id order.
func (n *Network) Iter() []string { return n.g.Names() }

func (n *Network) couplingEngine() *coupling.Engine {
	n.couplingOnce.Do(func() {
		n.couplingEng = coupling.New(n.g, n.c)
	})
	return n.couplingEng
}

// descendantSetTable returns, for every SCC, the bitset of SCCs reachable
// from it (including itself), computed once per Network and reused by
// every PackageView.TransitiveDependencies call instead of re-sweeping the
// condensation on each lookup.
func (n *Network) descendantSetTable() []bitset.Set {
	n.descendantsOnce.Do(func() {
		n.descendantSets = metrics.DescendantSets(n.c, metrics.Options{})
	})
	return n.descendantSets
}

// ascendantSetTable is the mirror image of descendantSetTable: for every
// SCC, the bitset of SCCs that can reach it. PackageView.TransitiveDependants
// indexes into this rather than recomputing the reverse sweep per call.
func (n *Network) ascendantSetTable() []bitset.Set {
	n.ascendantsOnce.Do(func() {
		n.ascendantSets = metrics.AscendantSets(n.c, metrics.Options{})
	})
	return n.ascendantSets
}

// GetMetric returns the cached MetricStats for kind, computing it on first
// request. Concurrent calls for the same kind compute at most once via a
// single-flight group keyed by kind; once inserted, a cache entry is never
// recomputed or overwritten.
func (n *Network) GetMetric(ctx context.Context, kind metrics.Kind) (*metrics.Stats, error) {
	n.mu.RLock()
	if s, ok := n.cache[kind]; ok {
		n.mu.RUnlock()
		return s, nil
	}
	n.mu.RUnlock()

	v, err, _ := n.flight.Do(string(kind), func() (interface{}, error) {
		n.mu.RLock()
		if s, ok := n.cache[kind]; ok {
			n.mu.RUnlock()
			return s, nil
		}
		n.mu.RUnlock()

		values, ok := metrics.Compute(ctx, kind, n.g, n.c)
		if !ok {
			return nil, errcode.New(errcode.UnsupportedMetric, "unknown metric kind %q", kind)
		}
		stats := statsFromValues(n.g, values)

		n.mu.Lock()
		n.cache[kind] = stats
		n.mu.Unlock()
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*metrics.Stats), nil
}

func statsFromValues(g *graph.Graph, values []float64) *metrics.Stats {
	m := make(map[string]float64, len(values))
	for id, v := range values {
		m[g.Name(id)] = v
	}
	return metrics.NewStats(m)
}

// SCCs returns every SCC's member names, in SCC-id order. Singleton and
// clustered SCCs are both represented; this is the engine's lazy-ish
// analogue of an SCC iterator since the condensation is already fully
// materialized at Build time.
func (n *Network) SCCs() [][]string {
	out := make([][]string, n.c.SCCCount())
	for s := 0; s < n.c.SCCCount(); s++ {
		out[s] = namesOf(n.g, n.c.Members(s))
	}
	return out
}

// SortedClusters returns every SCC's member names sorted by decreasing
// size, ties broken by ascending first-member name.
func (n *Network) SortedClusters() [][]string {
	clusters := n.SCCs()
	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

func namesOf(g *graph.Graph, ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = g.Name(id)
	}
	sort.Strings(names)
	return names
}

// View returns a PackageView for name, or NotFound if name is unknown.
func (n *Network) View(name string) (*PackageView, error) {
	id, ok := n.g.ID(name)
	if !ok {
		return nil, errcode.New(errcode.NotFound, "package %q not found", name)
	}
	return &PackageView{net: n, id: id}, nil
}

// graphStore and condensationDAG expose the underlying graph store and
// condensation to the rest of package network (views, save/load) without
// widening the public surface.
func (n *Network) graphStore() *graph.Graph                    { return n.g }
func (n *Network) condensationDAG() *condensation.Condensation { return n.c }
