// Package iset implements immunization-set heuristics layered on top of
// the public network/metrics surface: given a built Network, suggest which
// packages are worth immunizing first.
//
// This package supplements the distilled specification: it is grounded on
// original_source/olivia/immunization.py's iset_naive_ranking,
// iset_delta_frame_reach, iset_delta_frame_impact, iset_sap and iset_random
// functions, reimplemented against the component C/D/E engine instead of a
// networkx-backed model.
package iset

import (
	"context"
	"math/rand"
	"sort"

	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
	"github.com/olivia-graph/olivia/pkg/olivia/network"
)

// NaiveRanking returns the setSize packages with the largest value of kind,
// ties broken by ascending name. Grounded on iset_naive_ranking, which picks
// the top of whatever metric it is handed.
func NaiveRanking(ctx context.Context, net *network.Network, kind metrics.Kind, setSize int) ([]string, error) {
	stats, err := net.GetMetric(ctx, kind)
	if err != nil {
		return nil, err
	}
	top := stats.Top(setSize, nil)
	names := make([]string, len(top))
	for i, e := range top {
		names[i] = e.Name
	}
	return names, nil
}

// DeltaFrameReach computes an immunization set via the DELTA FRAME bound on
// Reach: a package is included whenever Reach(p)*Surface(p) is at least the
// best (Reach+Surface-1) achieved anywhere in the network, which guarantees
// the set contains the single optimal package to immunize. Grounded on
// iset_delta_frame_reach.
func DeltaFrameReach(ctx context.Context, net *network.Network) ([]string, error) {
	reach, err := net.GetMetric(ctx, metrics.Reach)
	if err != nil {
		return nil, err
	}
	surface, err := net.GetMetric(ctx, metrics.Surface)
	if err != nil {
		return nil, err
	}
	sum, err := metrics.Add(reach, surface)
	if err != nil {
		return nil, err
	}
	// deltaFrame multiplies its two lower factors; an all-ones second
	// factor keeps Reach+Surface-1 as the lower bound.
	ones := surface.MulScalar(0).AddScalar(1)
	return deltaFrame(reach, surface, sum.SubScalar(1), ones)
}

// DeltaFrameImpact computes an immunization set via the DELTA FRAME bound on
// Impact: upper = Impact*Surface, lower = DependentsCount*Surface. Grounded
// on iset_delta_frame_impact.
func DeltaFrameImpact(ctx context.Context, net *network.Network) ([]string, error) {
	impact, err := net.GetMetric(ctx, metrics.Impact)
	if err != nil {
		return nil, err
	}
	surface, err := net.GetMetric(ctx, metrics.Surface)
	if err != nil {
		return nil, err
	}
	dependents, err := net.GetMetric(ctx, metrics.DependentsCount)
	if err != nil {
		return nil, err
	}
	return deltaFrame(impact, surface, dependents, surface)
}

// deltaFrame multiplies upperA*upperB to get per-package upper bounds and
// lowerA*lowerB to get lower bounds, takes the max lower bound across the
// network, and returns every package whose upper bound is at least that
// maximum.
func deltaFrame(upperA, upperB, lowerA, lowerB *metrics.Stats) ([]string, error) {
	upper, err := metrics.Mul(upperA, upperB)
	if err != nil {
		return nil, err
	}
	lower, err := metrics.Mul(lowerA, lowerB)
	if err != nil {
		return nil, err
	}
	top := lower.Top(1, nil)
	if len(top) == 0 {
		return nil, nil
	}
	maxLower := top[0].Value

	var names []string
	for _, name := range upper.Names() {
		v, _ := upper.Value(name)
		if v >= maxLower {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// StrongArticulationPoints returns, for each of clusters, the strong
// articulation points of the induced subgraph on that cluster's members: a
// node whose removal splits the cluster into more than one SCC. If clusters
// is nil, the single largest SCC in net is used. Grounded on iset_sap.
func StrongArticulationPoints(net *network.Network, clusters [][]string) ([]string, error) {
	if clusters == nil {
		sorted := net.SortedClusters()
		if len(sorted) == 0 {
			return nil, nil
		}
		clusters = sorted[:1]
	}

	seen := make(map[string]bool)
	for _, cluster := range clusters {
		points, err := sapOfCluster(net, cluster)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			seen[p] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// sapOfCluster rebuilds the induced subgraph on cluster's members, then
// tests each member in turn: removing it and recomputing the condensation
// is a strong articulation point test whenever the remaining members no
// longer form a single SCC. This is the direct, unoptimized algorithm; the
// source's own docstring does not commit to a faster one, and clusters are
// expected to be the handful of non-trivial SCCs in a dependency network
// rather than the whole graph.
func sapOfCluster(net *network.Network, cluster []string) ([]string, error) {
	if len(cluster) <= 1 {
		return nil, nil
	}
	memberSet := make(map[string]bool, len(cluster))
	for _, name := range cluster {
		memberSet[name] = true
	}

	var points []string
	for _, candidate := range cluster {
		b := graph.NewBuilder()
		for _, name := range cluster {
			if name != candidate {
				b.Register(name)
			}
		}
		for _, name := range cluster {
			if name == candidate {
				continue
			}
			v, err := net.View(name)
			if err != nil {
				return nil, err
			}
			for _, dep := range v.DirectDependencies() {
				if memberSet[dep] && dep != candidate {
					b.AddEdge(name, dep)
				}
			}
		}
		sub := b.Build()
		c, err := condensation.Build(sub)
		if err != nil {
			return nil, err
		}
		if c.SCCCount() > 1 {
			points = append(points, candidate)
		}
	}
	return points, nil
}

// Random returns a uniformly sampled immunization set of size setSize. If
// indirect is true, each member is instead a randomly chosen direct
// dependency of a randomly chosen package with at least one dependency,
// repeated (with resampling on duplicates) until setSize distinct packages
// are collected. Grounded on iset_random.
func Random(net *network.Network, setSize int, indirect bool, rng *rand.Rand) ([]string, error) {
	packages := net.Iter()
	if setSize > len(packages) {
		return nil, errcode.New(errcode.MalformedInput, "immunization set size %d exceeds network size %d", setSize, len(packages))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	if !indirect {
		perm := rng.Perm(len(packages))
		names := make([]string, setSize)
		for i := 0; i < setSize; i++ {
			names[i] = packages[perm[i]]
		}
		return names, nil
	}

	result := make(map[string]bool, setSize)
	for len(result) < setSize {
		current := packages[rng.Intn(len(packages))]
		v, err := net.View(current)
		if err != nil {
			return nil, err
		}
		deps := v.DirectDependencies()
		if len(deps) == 0 {
			continue
		}
		result[deps[rng.Intn(len(deps))]] = true
	}
	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
