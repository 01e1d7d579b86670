package vulnerability

import (
	"context"
	"math"
	"testing"

	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
	"github.com/olivia-graph/olivia/pkg/olivia/network"
)

func buildNet(t *testing.T, edges [][2]string) *network.Network {
	t.Helper()
	b := graph.NewBuilder()
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	n, err := network.Build(b.Build())
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	return n
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestPathGraphFailureVulnerability exercises scenario 1's Reach column
// through the mean aggregate: (5+4+3+2+1)/5 = 3.
func TestPathGraphFailureVulnerability(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})
	got, err := FailureVulnerability(context.Background(), n, metrics.Reach)
	if err != nil {
		t.Fatalf("FailureVulnerability: %v", err)
	}
	if !approxEqual(got, 3) {
		t.Fatalf("FailureVulnerability = %v, want 3", got)
	}
}

// TestImmunizationShrinkageRootFanOut grounds the "10/11" shrinkage figure
// from the worked star example: a root package depending directly on ten
// otherwise-unconnected leaves. Reach(root)=11, Reach(leaf)=1 each, so mean
// Reach before immunizing root is 21/11; after removing root's out-edges
// (root no longer propagates into its dependencies), Reach(root) collapses
// to 1 and every leaf is untouched, giving 11/11 and a delta of 10/11.
func TestImmunizationShrinkageRootFanOut(t *testing.T) {
	edges := make([][2]string, 0, 10)
	for i := 0; i < 10; i++ {
		edges = append(edges, [2]string{"root", string(rune('a' + i))})
	}
	n := buildNet(t, edges)

	delta, err := ImmunizationDelta(context.Background(), n, []string{"root"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("ImmunizationDelta: %v", err)
	}
	want := 10.0 / 11.0
	if !approxEqual(delta, want) {
		t.Fatalf("ImmunizationDelta = %v, want %v", delta, want)
	}
}

// TestImmunizationNoopOnSink covers the complementary "star-in" shape: ten
// leaves each depending on a shared hub. The hub itself has no out-edges,
// so immunizing it (removing out-edges that do not exist) must leave Reach
// unchanged for everyone — a degenerate but meaningful zero-delta case.
func TestImmunizationNoopOnSink(t *testing.T) {
	edges := make([][2]string, 0, 10)
	for i := 0; i < 10; i++ {
		edges = append(edges, [2]string{string(rune('a' + i)), "hub"})
	}
	n := buildNet(t, edges)

	delta, err := ImmunizationDelta(context.Background(), n, []string{"hub"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("ImmunizationDelta: %v", err)
	}
	if delta != 0 {
		t.Fatalf("ImmunizationDelta = %v, want 0", delta)
	}
}

// TestAnalyticMatchesNetworkOnTrivialSCCs checks algorithm equivalence
// (§8) for a target set whose members are all in trivial SCCs, where the
// analytic sweep is defined to be exact.
func TestAnalyticMatchesNetworkOnTrivialSCCs(t *testing.T) {
	edges := make([][2]string, 0, 10)
	for i := 0; i < 10; i++ {
		edges = append(edges, [2]string{"root", string(rune('a' + i))})
	}
	n := buildNet(t, edges)

	net, err := ImmunizationDelta(context.Background(), n, []string{"root"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("network algorithm: %v", err)
	}
	analytic, err := ImmunizationDelta(context.Background(), n, []string{"root"}, metrics.Reach, Analytic)
	if err != nil {
		t.Fatalf("analytic algorithm: %v", err)
	}
	if !approxEqual(net, analytic) {
		t.Fatalf("network delta = %v, analytic delta = %v, want equal", net, analytic)
	}
}

// TestAnalyticMatchesNetworkWithUntouchedSibling grounds the defect where a
// touched package's unrelated, unaffected dependency (p also depends on x,
// outside the touched set {t,p,y}) must not be dropped from the delta
// computation. p->t, p->x, t->y, target {t}: removing t's out-edge to y
// only changes p's and t's Reach by the loss of y's subtree, not by losing
// x too, so network and analytic must agree.
func TestAnalyticMatchesNetworkWithUntouchedSibling(t *testing.T) {
	n := buildNet(t, [][2]string{{"p", "t"}, {"p", "x"}, {"t", "y"}})

	net, err := ImmunizationDelta(context.Background(), n, []string{"t"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("network algorithm: %v", err)
	}
	analytic, err := ImmunizationDelta(context.Background(), n, []string{"t"}, metrics.Reach, Analytic)
	if err != nil {
		t.Fatalf("analytic algorithm: %v", err)
	}
	if !approxEqual(net, 0.5) {
		t.Fatalf("network delta = %v, want 0.5", net)
	}
	if !approxEqual(net, analytic) {
		t.Fatalf("network delta = %v, analytic delta = %v, want equal", net, analytic)
	}
}

// TestImmunizationDeltaRejectsAnalyticForNonReach covers §4.G/§7: the
// analytic algorithm is only defined for Reach, so any other metric kind
// must fail with UnsupportedMetric rather than silently falling back to a
// Reach-shaped number.
func TestImmunizationDeltaRejectsAnalyticForNonReach(t *testing.T) {
	n := buildNet(t, [][2]string{{"a", "b"}})
	_, err := ImmunizationDelta(context.Background(), n, []string{"a"}, metrics.Impact, Analytic)
	if err == nil {
		t.Fatalf("expected UnsupportedMetric error, got nil")
	}
}

// TestAnalyticFallsBackForNonTrivialSCC ensures a target inside a
// multi-member SCC is routed to the network algorithm (Open Question (a))
// rather than an unverified mixed-target formula, and that both paths
// agree on the result for this case.
func TestAnalyticFallsBackForNonTrivialSCC(t *testing.T) {
	n := buildNet(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "a"}})

	net, err := ImmunizationDelta(context.Background(), n, []string{"a"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("network algorithm: %v", err)
	}
	analytic, err := ImmunizationDelta(context.Background(), n, []string{"a"}, metrics.Reach, Analytic)
	if err != nil {
		t.Fatalf("analytic algorithm: %v", err)
	}
	if !approxEqual(net, analytic) {
		t.Fatalf("network delta = %v, analytic delta = %v, want equal after fallback", net, analytic)
	}
}

// TestImmunizationMonotonicity checks delta(T1) <= delta(T2) for T1 subset
// of T2, using the fan-out root plus an independent second root so the two
// immunized sets do not interact.
func TestImmunizationMonotonicity(t *testing.T) {
	edges := [][2]string{
		{"root1", "a"}, {"root1", "b"}, {"root1", "c"},
		{"root2", "d"}, {"root2", "e"},
	}
	n := buildNet(t, edges)

	d1, err := ImmunizationDelta(context.Background(), n, []string{"root1"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("delta(T1): %v", err)
	}
	d2, err := ImmunizationDelta(context.Background(), n, []string{"root1", "root2"}, metrics.Reach, Network)
	if err != nil {
		t.Fatalf("delta(T2): %v", err)
	}
	if d1 < 0 || d2 < 0 {
		t.Fatalf("immunization delta must be non-negative, got %v and %v", d1, d2)
	}
	if d1 > d2 {
		t.Fatalf("monotonicity violated: delta(T1)=%v > delta(T2)=%v", d1, d2)
	}
}

func TestImmunizationDeltaUnknownPackage(t *testing.T) {
	n := buildNet(t, [][2]string{{"a", "b"}})
	if _, err := ImmunizationDelta(context.Background(), n, []string{"missing"}, metrics.Reach, Network); err == nil {
		t.Fatalf("expected NotFound error for unknown target")
	}
}
