// Package metrics implements the package metric engine (component D): a
// reverse-topological bitset-union sweep over the condensation DAG that
// computes Reach, Impact, Surface, DependentsCount, and DependenciesCount
// for every package in one pass per metric kind, plus the pluggable
// MetricKind registration contract and the MetricStats value type
// (component E).
package metrics

import (
	"context"

	"github.com/olivia-graph/olivia/pkg/bitset"
	"github.com/olivia-graph/olivia/pkg/observability"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
)

// Kind identifies a metric. The five built-in kinds below share the sweep
// contract; callers may register their own via Register.
type Kind string

// Built-in metric kinds.
const (
	Reach            Kind = "reach"
	Impact           Kind = "impact"
	Surface          Kind = "surface"
	DependentsCount  Kind = "dependents_count"
	DependenciesCount Kind = "dependencies_count"
)

// SweepFunc computes per-package values for a custom metric kind, given the
// graph and its condensation. It has the same shape as the built-in sweeps:
// a single pass producing one value per package id.
type SweepFunc func(ctx context.Context, g *graph.Graph, c *condensation.Condensation) []float64

var registry = map[Kind]SweepFunc{
	Reach:             sweepReach,
	Impact:            sweepImpact,
	Surface:           sweepSurface,
	DependentsCount:   sweepDependentsCount,
	DependenciesCount: sweepDependenciesCount,
}

// Register adds or replaces a custom metric kind's sweep implementation.
// Built-in kinds may be overridden, primarily for testing.
func Register(kind Kind, fn SweepFunc) {
	registry[kind] = fn
}

// Lookup returns the sweep function for kind, or false if kind is unknown.
func Lookup(kind Kind) (SweepFunc, bool) {
	fn, ok := registry[kind]
	return fn, ok
}

// Compute runs kind's sweep over g and c, returning one value per package
// id in g's id order.
func Compute(ctx context.Context, kind Kind, g *graph.Graph, c *condensation.Condensation) ([]float64, bool) {
	fn, ok := Lookup(kind)
	if !ok {
		return nil, false
	}
	return fn(ctx, g, c), true
}

// DensityThreshold is the default bitset-vs-hashed-set crossover used by the
// sweep when the caller does not supply one via Options.
const DensityThreshold = 0.1

// ProgressEvery is the default number of SCCs between progress callbacks.
const ProgressEvery = 1000

// Options tunes a sweep's adaptive-representation and progress-reporting
// behavior without changing its result.
type Options struct {
	DensityThreshold float64
	ProgressEvery    int
}

func (o Options) normalized() Options {
	if o.DensityThreshold <= 0 {
		o.DensityThreshold = DensityThreshold
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = ProgressEvery
	}
	return o
}

// descendantSweep walks SCCs in order, unioning each SCC's own bit with the
// sets already computed for its neighbors (as given by neighborsOf), then
// derives an aggregate value per SCC by summing weight over the resulting
// set. This single routine implements Reach (neighbors = successors,
// weight = SCC size), Impact (successors, weight = out-degree sum) and
// Surface (predecessors, weight = SCC size) by varying its three
// parameters, matching the shared "reverse-topo bitset-union sweep" shape
// the built-in metrics are specified to have.
func descendantSweep(
	ctx context.Context,
	kind Kind,
	c *condensation.Condensation,
	order []int,
	neighborsOf func(s int) []int,
	weight []int64,
	opts Options,
) []int64 {
	opts = opts.normalized()
	nscc := c.SCCCount()
	sets := make([]bitset.Set, nscc)
	sccValue := make([]int64, nscc)

	observability.Engine().OnSweepStart(ctx, string(kind), nscc)
	for i, s := range order {
		neighbors := neighborsOf(s)
		estimate := 1
		for _, t := range neighbors {
			estimate += sets[t].Count()
		}
		set := bitset.NewAdaptive(nscc, estimate, opts.DensityThreshold)
		set.Set(s)
		for _, t := range neighbors {
			set.UnionWith(sets[t])
		}
		sets[s] = set

		var total int64
		set.Each(func(id int) { total += weight[id] })
		sccValue[s] = total

		if (i+1)%opts.ProgressEvery == 0 {
			observability.Engine().OnSweepProgress(ctx, string(kind), i+1, nscc)
		}
	}
	observability.Engine().OnSweepComplete(ctx, string(kind), nil)

	return sccValue
}

func sccSizeWeights(c *condensation.Condensation) []int64 {
	w := make([]int64, c.SCCCount())
	for s := range w {
		w[s] = int64(len(c.Members(s)))
	}
	return w
}

func outDegreeSumWeights(g *graph.Graph, c *condensation.Condensation) []int64 {
	w := make([]int64, c.SCCCount())
	for s := range w {
		var sum int64
		for _, u := range c.Members(s) {
			sum += int64(g.OutDegree(u))
		}
		w[s] = sum
	}
	return w
}

func forwardTopoOrder(c *condensation.Condensation) []int {
	rev := c.ReverseTopoOrder()
	order := make([]int, len(rev))
	for i, s := range rev {
		order[len(rev)-1-i] = s
	}
	return order
}

func expandToPackages(g *graph.Graph, c *condensation.Condensation, sccValue []int64) []float64 {
	values := make([]float64, g.Size())
	for s := 0; s < c.SCCCount(); s++ {
		v := float64(sccValue[s])
		for _, u := range c.Members(s) {
			values[u] = v
		}
	}
	return values
}

func sweepReach(ctx context.Context, g *graph.Graph, c *condensation.Condensation) []float64 {
	sccValue := descendantSweep(ctx, Reach, c, c.ReverseTopoOrder(), c.Successors, sccSizeWeights(c), Options{})
	return expandToPackages(g, c, sccValue)
}

func sweepImpact(ctx context.Context, g *graph.Graph, c *condensation.Condensation) []float64 {
	sccValue := descendantSweep(ctx, Impact, c, c.ReverseTopoOrder(), c.Successors, outDegreeSumWeights(g, c), Options{})
	return expandToPackages(g, c, sccValue)
}

func sweepSurface(ctx context.Context, g *graph.Graph, c *condensation.Condensation) []float64 {
	sccValue := descendantSweep(ctx, Surface, c, forwardTopoOrder(c), c.Predecessors, sccSizeWeights(c), Options{})
	return expandToPackages(g, c, sccValue)
}

func sweepDependentsCount(_ context.Context, g *graph.Graph, _ *condensation.Condensation) []float64 {
	values := make([]float64, g.Size())
	for u := 0; u < g.Size(); u++ {
		values[u] = float64(g.InDegree(u))
	}
	return values
}

func sweepDependenciesCount(_ context.Context, g *graph.Graph, _ *condensation.Condensation) []float64 {
	values := make([]float64, g.Size())
	for u := 0; u < g.Size(); u++ {
		values[u] = float64(g.OutDegree(u))
	}
	return values
}

// ComputeParallel behaves like Compute for Reach, Impact, and Surface, but
// sweeps each generation of independent SCCs concurrently across a worker
// pool bounded by runtime.NumCPU(). Other kinds fall back to Compute, since
// DependentsCount/DependenciesCount are already O(1) per package and
// custom-registered kinds do not expose a parallel shape.
func ComputeParallel(ctx context.Context, kind Kind, g *graph.Graph, c *condensation.Condensation) ([]float64, bool, error) {
	switch kind {
	case Reach:
		sccValue, err := descendantSweepParallel(ctx, Reach, c, c.ReverseTopoOrder(), c.Successors, sccSizeWeights(c), Options{})
		if err != nil {
			return nil, true, err
		}
		return expandToPackages(g, c, sccValue), true, nil
	case Impact:
		sccValue, err := descendantSweepParallel(ctx, Impact, c, c.ReverseTopoOrder(), c.Successors, outDegreeSumWeights(g, c), Options{})
		if err != nil {
			return nil, true, err
		}
		return expandToPackages(g, c, sccValue), true, nil
	case Surface:
		sccValue, err := descendantSweepParallel(ctx, Surface, c, forwardTopoOrder(c), c.Predecessors, sccSizeWeights(c), Options{})
		if err != nil {
			return nil, true, err
		}
		return expandToPackages(g, c, sccValue), true, nil
	default:
		values, ok := Compute(ctx, kind, g, c)
		return values, ok, nil
	}
}

// DescendantSets returns, for every SCC, the bitset of SCC ids reachable
// from it (including itself) in the condensation's forward direction. The
// coupling engine (component F) builds its interface sets from this.
func DescendantSets(c *condensation.Condensation, opts Options) []bitset.Set {
	opts = opts.normalized()
	nscc := c.SCCCount()
	sets := make([]bitset.Set, nscc)
	for _, s := range c.ReverseTopoOrder() {
		neighbors := c.Successors(s)
		estimate := 1
		for _, t := range neighbors {
			estimate += sets[t].Count()
		}
		set := bitset.NewAdaptive(nscc, estimate, opts.DensityThreshold)
		set.Set(s)
		for _, t := range neighbors {
			set.UnionWith(sets[t])
		}
		sets[s] = set
	}
	return sets
}

// AscendantSets returns, for every SCC, the bitset of SCC ids that can
// reach it (including itself) in the condensation's forward direction —
// the mirror image of DescendantSets, walked over Predecessors in forward
// topological order the way sweepSurface does. PackageView.TransitiveDependants
// indexes into this instead of re-running the sweep per call.
func AscendantSets(c *condensation.Condensation, opts Options) []bitset.Set {
	opts = opts.normalized()
	nscc := c.SCCCount()
	sets := make([]bitset.Set, nscc)
	for _, s := range forwardTopoOrder(c) {
		neighbors := c.Predecessors(s)
		estimate := 1
		for _, t := range neighbors {
			estimate += sets[t].Count()
		}
		set := bitset.NewAdaptive(nscc, estimate, opts.DensityThreshold)
		set.Set(s)
		for _, t := range neighbors {
			set.UnionWith(sets[t])
		}
		sets[s] = set
	}
	return sets
}
