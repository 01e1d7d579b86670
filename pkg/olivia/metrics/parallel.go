package metrics

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/olivia-graph/olivia/pkg/bitset"
	"github.com/olivia-graph/olivia/pkg/observability"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
)

// levels partitions order into generations: SCCs whose every neighbor (per
// neighborsOf) has already been assigned to an earlier generation. Every
// SCC in generation g can be processed concurrently once generation g-1 has
// fully completed, since descendantSweep only reads already-finished
// neighbor sets.
func levels(c *condensation.Condensation, order []int, neighborsOf func(s int) []int) [][]int {
	rank := make([]int, c.SCCCount())
	for i := range rank {
		rank[i] = -1
	}
	var gens [][]int
	for _, s := range order {
		maxNeighborRank := -1
		for _, t := range neighborsOf(s) {
			if rank[t] > maxNeighborRank {
				maxNeighborRank = rank[t]
			}
		}
		r := maxNeighborRank + 1
		rank[s] = r
		for len(gens) <= r {
			gens = append(gens, nil)
		}
		gens[r] = append(gens[r], s)
	}
	return gens
}

// descendantSweepParallel is functionally equivalent to descendantSweep but
// processes each generation's independent SCCs concurrently across a
// worker pool bounded by runtime.NumCPU(), per the spec's requirement that
// any parallel sweep be bounded and deterministic. Determinism holds
// because every SCC's result depends only on already-finished neighbors
// from strictly earlier generations, and each goroutine writes only its
// own sets[s]/sccValue[s] slot, so there is no data race and no dependence
// on scheduling order within a generation.
func descendantSweepParallel(
	ctx context.Context,
	kind Kind,
	c *condensation.Condensation,
	order []int,
	neighborsOf func(s int) []int,
	weight []int64,
	opts Options,
) ([]int64, error) {
	opts = opts.normalized()
	nscc := c.SCCCount()
	sets := make([]bitset.Set, nscc)
	sccValue := make([]int64, nscc)

	gens := levels(c, order, neighborsOf)
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	observability.Engine().OnSweepStart(ctx, string(kind), nscc)
	processed := 0
	for _, gen := range gens {
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(workers)
		for _, s := range gen {
			s := s
			group.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
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
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			observability.Engine().OnSweepComplete(ctx, string(kind), err)
			return nil, err
		}
		processed += len(gen)
		observability.Engine().OnSweepProgress(ctx, string(kind), processed, nscc)
	}
	observability.Engine().OnSweepComplete(ctx, string(kind), nil)

	return sccValue, nil
}
