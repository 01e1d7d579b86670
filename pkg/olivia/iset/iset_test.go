package iset

import (
	"context"
	"math/rand"
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

func TestNaiveRankingPathGraph(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})
	top, err := NaiveRanking(context.Background(), n, metrics.Reach, 2)
	if err != nil {
		t.Fatalf("NaiveRanking: %v", err)
	}
	if len(top) != 2 || top[0] != "0" || top[1] != "1" {
		t.Fatalf("NaiveRanking(2) = %v, want [0 1]", top)
	}
}

func TestDeltaFrameReachContainsOptimum(t *testing.T) {
	edges := make([][2]string, 0, 10)
	for i := 0; i < 10; i++ {
		edges = append(edges, [2]string{"root", string(rune('a' + i))})
	}
	n := buildNet(t, edges)

	set, err := DeltaFrameReach(context.Background(), n)
	if err != nil {
		t.Fatalf("DeltaFrameReach: %v", err)
	}
	found := false
	for _, name := range set {
		if name == "root" {
			found = true
		}
	}
	if !found {
		t.Fatalf("DeltaFrameReach = %v, want it to contain the optimal package %q", set, "root")
	}
}

func TestStrongArticulationPointsOnCycle(t *testing.T) {
	n := buildNet(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	points, err := StrongArticulationPoints(n, nil)
	if err != nil {
		t.Fatalf("StrongArticulationPoints: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("StrongArticulationPoints(simple 3-cycle) = %v, want all 3 members", points)
	}
}

func TestStrongArticulationPointsTrivialCluster(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}})
	points, err := StrongArticulationPoints(n, [][]string{{"0"}})
	if err != nil {
		t.Fatalf("StrongArticulationPoints: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("StrongArticulationPoints(singleton cluster) = %v, want none", points)
	}
}

func TestRandomDirectReturnsDistinctSubset(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})
	set, err := Random(n, 3, false, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("Random(3) = %v, want 3 distinct packages", set)
	}
	seen := make(map[string]bool)
	for _, name := range set {
		if seen[name] {
			t.Fatalf("Random returned duplicate %q", name)
		}
		seen[name] = true
	}
}

func TestRandomIndirectOnlyReturnsDependencies(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}, {"1", "2"}})
	set, err := Random(n, 1, true, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Random(indirect): %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("Random(indirect, 1) = %v, want exactly one package", set)
	}
	if set[0] != "1" && set[0] != "2" {
		t.Fatalf("Random(indirect) = %v, want a dependency of 0 or 1", set)
	}
}

func TestRandomRejectsOversizedSet(t *testing.T) {
	n := buildNet(t, [][2]string{{"0", "1"}})
	if _, err := Random(n, 5, false, nil); err == nil {
		t.Fatalf("expected MalformedInput error for oversized set")
	}
}
