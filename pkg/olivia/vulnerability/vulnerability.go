// Package vulnerability implements failure_vulnerability and
// immunization_delta (component G): the network-wide cost of uniform
// package failure, and the improvement achievable by immunizing a target
// set of packages against two algorithms of identical semantics.
package vulnerability

import (
	"context"

	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
	"github.com/olivia-graph/olivia/pkg/olivia/network"
)

// Algorithm selects how ImmunizationDelta computes its result.
type Algorithm string

const (
	// Network rebuilds the graph with target out-edges removed and
	// recomputes the metric from scratch. Always correct, for any metric.
	Network Algorithm = "network"
	// Analytic restricts the sweep to the subgraph touched by the target
	// set. Only exact for Reach, and only implemented for targets whose
	// SCCs are all trivial (singleton); see Open Question (a).
	Analytic Algorithm = "analytic"
)

// FailureVulnerability returns the arithmetic mean of metric(u) over every
// package u in net.
func FailureVulnerability(ctx context.Context, net *network.Network, kind metrics.Kind) (float64, error) {
	stats, err := net.GetMetric(ctx, kind)
	if err != nil {
		return 0, err
	}
	if stats.Len() == 0 {
		return 0, nil
	}
	return stats.Mean(), nil
}

// ImmunizationDelta returns the non-negative decrease in mean metric
// achieved by treating every package in targets as if its defects no
// longer propagate (i.e. removing its out-edges).
func ImmunizationDelta(ctx context.Context, net *network.Network, targets []string, kind metrics.Kind, algo Algorithm) (float64, error) {
	switch algo {
	case Network, "":
		return networkDelta(ctx, net, targets, kind)
	case Analytic:
		if kind != metrics.Reach {
			return 0, errcode.New(errcode.UnsupportedMetric, "analytic algorithm only supports reach, got %q", kind)
		}
		return analyticDelta(ctx, net, targets)
	default:
		return 0, errcode.New(errcode.UnsupportedMetric, "unknown immunization algorithm %q", algo)
	}
}

// networkDelta materializes the graph with every target's out-edges
// removed, rebuilds the network, and diffs the mean metric. Correct for
// any registered metric kind.
func networkDelta(ctx context.Context, net *network.Network, targets []string, kind metrics.Kind) (float64, error) {
	before, err := FailureVulnerability(ctx, net, kind)
	if err != nil {
		return 0, err
	}

	immunized, err := buildWithOutEdgesRemoved(net, targets)
	if err != nil {
		return 0, err
	}
	after, err := FailureVulnerability(ctx, immunized, kind)
	if err != nil {
		return 0, err
	}

	delta := before - after
	if delta < 0 {
		delta = 0
	}
	return delta, nil
}

// buildWithOutEdgesRemoved rebuilds a network where the out-edges of every
// name in targets have been dropped; the packages themselves remain
// present. This is an external-collaborator-facing helper: Network has no
// public mutation surface, so the immunized network is a fresh Build over
// a rewritten adjacency.
func buildWithOutEdgesRemoved(net *network.Network, targets []string) (*network.Network, error) {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		if !net.Contains(t) {
			return nil, errcode.New(errcode.NotFound, "package %q not found", t)
		}
		targetSet[t] = true
	}

	b := graph.NewBuilder()
	for _, name := range net.Iter() {
		b.Register(name)
	}
	for _, name := range net.Iter() {
		v, err := net.View(name)
		if err != nil {
			return nil, err
		}
		if targetSet[name] {
			continue
		}
		for _, dep := range v.DirectDependencies() {
			b.AddEdge(name, dep)
		}
	}
	return network.Build(b.Build())
}

// analyticDelta computes the Reach-only immunization delta by sweeping
// only the subgraph touched by targets, per §4.G. It is only implemented
// for target sets whose members all sit in trivial (singleton) SCCs; per
// Open Question (a), any target inside a non-trivial SCC falls back to the
// network algorithm rather than guessing an unverified mixed-target
// formula.
func analyticDelta(ctx context.Context, net *network.Network, targets []string) (float64, error) {
	for _, t := range targets {
		if !net.Contains(t) {
			return 0, errcode.New(errcode.NotFound, "package %q not found", t)
		}
	}

	if !allTargetsTrivial(net, targets) {
		return networkDelta(ctx, net, targets, metrics.Reach)
	}

	n := net.Size()
	if n == 0 {
		return 0, nil
	}

	touched, err := restrictedSubgraphPackages(net, targets)
	if err != nil {
		return 0, err
	}
	before, err := restrictedReach(net, targets, touched, false)
	if err != nil {
		return 0, err
	}
	after, err := restrictedReach(net, targets, touched, true)
	if err != nil {
		return 0, err
	}

	var sumDelta float64
	for _, name := range touched {
		sumDelta += before[name] - after[name]
	}
	delta := sumDelta / float64(n)
	if delta < 0 {
		delta = 0
	}
	return delta, nil
}

func allTargetsTrivial(net *network.Network, targets []string) bool {
	for _, t := range targets {
		v, err := net.View(t)
		if err != nil {
			return false
		}
		if len(v.SCC()) > 1 {
			return false
		}
	}
	return true
}

// restrictedSubgraphPackages returns the union of targets, their
// transitive dependants, and their transitive dependencies: the only
// packages whose Reach value can possibly change when targets' out-edges
// are removed.
func restrictedSubgraphPackages(net *network.Network, targets []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, t := range targets {
		seen[t] = true
		v, err := net.View(t)
		if err != nil {
			return nil, err
		}
		for _, name := range v.TransitiveDependants() {
			seen[name] = true
		}
		for _, name := range v.TransitiveDependencies() {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names, nil
}

// restrictedReach computes the Reach of every package in touched within the
// subgraph induced on touched alone. Any edge from a touched package to a
// package outside touched is dropped from this subgraph in *both* the
// before and after call, so the unchanged outside-touched contribution to
// each package's true Reach appears identically on both sides and cancels
// out of the before-after difference; restrictedReach never needs to
// reproduce that contribution's absolute value, only its invariance.
//
// When removeTargets is true, edges leaving a target are also dropped,
// modeling the out-edge removal immunization performs; when false, the
// subgraph carries every touched-to-touched edge as it exists today.
func restrictedReach(net *network.Network, targets []string, touched []string, removeTargets bool) (map[string]float64, error) {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}
	touchedSet := make(map[string]bool, len(touched))
	for _, t := range touched {
		touchedSet[t] = true
	}

	b := graph.NewBuilder()
	for _, name := range touched {
		b.Register(name)
	}
	for _, name := range touched {
		if removeTargets && targetSet[name] {
			continue
		}
		v, err := net.View(name)
		if err != nil {
			return nil, err
		}
		for _, dep := range v.DirectDependencies() {
			if touchedSet[dep] {
				b.AddEdge(name, dep)
			}
		}
	}
	g := b.Build()
	c, err := condensation.Build(g)
	if err != nil {
		return nil, err
	}
	sets := metrics.DescendantSets(c, metrics.Options{})

	result := make(map[string]float64, len(touched))
	for _, name := range touched {
		id, _ := g.ID(name)
		var reach int64
		set := sets[c.SCCOf(id)]
		set.Each(func(sccID int) { reach += int64(len(c.Members(sccID))) })
		result[name] = float64(reach)
	}
	return result, nil
}
