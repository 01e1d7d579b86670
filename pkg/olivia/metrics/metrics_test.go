package metrics

import (
	"context"
	"testing"

	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
)

func buildGraph(t *testing.T, edges [][2]string) (*graph.Graph, *condensation.Condensation) {
	t.Helper()
	b := graph.NewBuilder()
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	g := b.Build()
	c, err := condensation.Build(g)
	if err != nil {
		t.Fatalf("condensation.Build: %v", err)
	}
	return g, c
}

func valueOf(g *graph.Graph, values []float64, name string) float64 {
	id, _ := g.ID(name)
	return values[id]
}

func TestPathGraphReachSurfaceImpact(t *testing.T) {
	g, c := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})

	reach, _ := Compute(context.Background(), Reach, g, c)
	wantReach := map[string]float64{"0": 5, "1": 4, "2": 3, "3": 2, "4": 1}
	for name, want := range wantReach {
		if got := valueOf(g, reach, name); got != want {
			t.Errorf("reach[%s] = %v, want %v", name, got, want)
		}
	}

	surface, _ := Compute(context.Background(), Surface, g, c)
	if got := valueOf(g, surface, "0"); got != 1 {
		t.Errorf("surface[0] = %v, want 1", got)
	}
	if got := valueOf(g, surface, "4"); got != 5 {
		t.Errorf("surface[4] = %v, want 5", got)
	}

	impact, _ := Compute(context.Background(), Impact, g, c)
	if got := valueOf(g, impact, "0"); got != 4 {
		t.Errorf("impact[0] = %v, want 4", got)
	}
	if got := valueOf(g, impact, "4"); got != 0 {
		t.Errorf("impact[4] = %v, want 0", got)
	}
}

func TestThreeCycleSCCSharedMetrics(t *testing.T) {
	g, c := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "a"}})

	reach, _ := Compute(context.Background(), Reach, g, c)
	impact, _ := Compute(context.Background(), Impact, g, c)

	for _, name := range []string{"a", "b", "c"} {
		if got := valueOf(g, reach, name); got != 3 {
			t.Errorf("reach[%s] = %v, want 3", name, got)
		}
		if got := valueOf(g, impact, name); got != 3 {
			t.Errorf("impact[%s] = %v, want 3", name, got)
		}
	}
	if got := valueOf(g, reach, "d"); got != 4 {
		t.Errorf("reach[d] = %v, want 4", got)
	}
	if got := valueOf(g, impact, "d"); got != 4 {
		t.Errorf("impact[d] = %v, want 4", got)
	}
}

// TestStarInHubSurfaceAndDependentsCount covers the "star-in" scenario:
// ten leaves each directly depend on a shared hub package. Under the
// engine's edge convention (u->v means u depends on v), a defect in the
// hub can affect every leaf, which is exactly Surface (who can a defect
// reach *into* this package from), not Reach (what this package's own
// defect can reach *out* to, which for a dependency-free hub is just
// itself).
func TestStarInHubSurfaceAndDependentsCount(t *testing.T) {
	edges := make([][2]string, 0, 10)
	for i := 0; i < 10; i++ {
		edges = append(edges, [2]string{string(rune('a' + i)), "hub"})
	}
	g, c := buildGraph(t, edges)

	surface, _ := Compute(context.Background(), Surface, g, c)
	if got := valueOf(g, surface, "hub"); got != 11 {
		t.Errorf("surface[hub] = %v, want 11", got)
	}
	if got := valueOf(g, surface, "a"); got != 1 {
		t.Errorf("surface[a] = %v, want 1", got)
	}

	reach, _ := Compute(context.Background(), Reach, g, c)
	if got := valueOf(g, reach, "hub"); got != 1 {
		t.Errorf("reach[hub] = %v, want 1 (hub has no dependencies of its own)", got)
	}

	dependents, _ := Compute(context.Background(), DependentsCount, g, c)
	if got := valueOf(g, dependents, "hub"); got != 10 {
		t.Errorf("dependents[hub] = %v, want 10", got)
	}
}

func TestComputeParallelMatchesCompute(t *testing.T) {
	g, c := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})

	serial, _ := Compute(context.Background(), Reach, g, c)
	parallel, ok, err := ComputeParallel(context.Background(), Reach, g, c)
	if err != nil {
		t.Fatalf("ComputeParallel: %v", err)
	}
	if !ok {
		t.Fatalf("ComputeParallel reported kind not found")
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("serial[%d] = %v, parallel[%d] = %v", i, serial[i], i, parallel[i])
		}
	}
}

func TestStatsArithmeticAndRanking(t *testing.T) {
	a := NewStats(map[string]float64{"x": 2, "y": 4})
	b := NewStats(map[string]float64{"x": 3, "y": 5})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if v, _ := sum.Value("x"); v != 5 {
		t.Errorf("sum[x] = %v, want 5", v)
	}

	scaled := a.MulScalar(2)
	if v, _ := scaled.Value("y"); v != 8 {
		t.Errorf("scaled[y] = %v, want 8", v)
	}

	top := a.Top(1, nil)
	if len(top) != 1 || top[0].Name != "y" {
		t.Fatalf("Top(1) = %v, want [y]", top)
	}
}

func TestStatsDomainMismatch(t *testing.T) {
	a := NewStats(map[string]float64{"x": 1})
	b := NewStats(map[string]float64{"x": 1, "y": 2})
	if _, err := Add(a, b); err == nil {
		t.Fatalf("expected DomainMismatch error")
	}
}

func TestStatsTopTieBreakAscendingName(t *testing.T) {
	s := NewStats(map[string]float64{"b": 1, "a": 1, "c": 1})
	top := s.Top(2, nil)
	if top[0].Name != "a" || top[1].Name != "b" {
		t.Fatalf("Top(2) = %v, want [a b]", top)
	}
}

func TestPathGraphArithmeticComposition(t *testing.T) {
	g, c := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})
	reach, _ := Compute(context.Background(), Reach, g, c)
	stats := fromSlice(g.Names(), reach)

	scaled := stats.DivScalar(float64(g.Size()))
	top := scaled.Top(1, nil)
	if len(top) != 1 || top[0].Name != "0" || top[0].Value != 1.0 {
		t.Fatalf("Top(1) = %v, want [{0 1.0}]", top)
	}

	squared := stats.PowScalar(2)
	if v, _ := squared.Value("0"); v != 25 {
		t.Fatalf("squared[0] = %v, want 25", v)
	}
}
