package condensation

import (
	"testing"

	"github.com/olivia-graph/olivia/pkg/olivia/graph"
)

func buildGraph(t *testing.T, edges [][2]string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}

func TestBuildPathGraphHasSingletonSCCs(t *testing.T) {
	g := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}})
	c, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.SCCCount() != 5 {
		t.Fatalf("SCCCount() = %d, want 5", c.SCCCount())
	}
	for s := 0; s < c.SCCCount(); s++ {
		if len(c.Members(s)) != 1 {
			t.Fatalf("SCC %d has %d members, want 1", s, len(c.Members(s)))
		}
	}
}

func TestBuildThreeCycleSCC(t *testing.T) {
	// a->b, b->c, c->a, d->a
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"d", "a"}})
	c, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.SCCCount() != 2 {
		t.Fatalf("SCCCount() = %d, want 2", c.SCCCount())
	}

	a, _ := g.ID("a")
	b, _ := g.ID("b")
	cc, _ := g.ID("c")
	d, _ := g.ID("d")

	if c.SCCOf(a) != c.SCCOf(b) || c.SCCOf(b) != c.SCCOf(cc) {
		t.Fatalf("a, b, c must share an SCC")
	}
	if c.SCCOf(d) == c.SCCOf(a) {
		t.Fatalf("d must not share a's SCC")
	}

	cycleSCC := c.SCCOf(a)
	if got := c.IntraArcs(cycleSCC); got != 3 {
		t.Fatalf("IntraArcs(cycle) = %d, want 3", got)
	}
	if got := len(c.Successors(cycleSCC)); got != 0 {
		t.Fatalf("cycle SCC has %d successors, want 0", got)
	}

	dSCC := c.SCCOf(d)
	if got := c.Successors(dSCC); len(got) != 1 || got[0] != cycleSCC {
		t.Fatalf("Successors(d) = %v, want [%d]", got, cycleSCC)
	}
}

func TestReverseTopoOrderSinksFirst(t *testing.T) {
	g := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}})
	c, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	order := c.ReverseTopoOrder()
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3", len(order))
	}
	two, _ := g.ID("2")
	if order[0] != c.SCCOf(two) {
		t.Fatalf("first in reverse-topo order must be the sink SCC")
	}
}

func TestStarInHub(t *testing.T) {
	b := graph.NewBuilder()
	for i := 0; i < 10; i++ {
		b.AddEdge(string(rune('a'+i)), "hub")
	}
	g := b.Build()
	c, err := Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.SCCCount() != g.Size() {
		t.Fatalf("SCCCount() = %d, want %d (all singletons)", c.SCCCount(), g.Size())
	}
}
