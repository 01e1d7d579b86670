package coupling

import (
	"testing"

	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
)

func TestTransitiveCouplingExample(t *testing.T) {
	// v -> {p, q, r}; q -> s -> u; r -> u; p unrelated to u.
	b := graph.NewBuilder()
	b.AddEdge("v", "p")
	b.AddEdge("v", "q")
	b.AddEdge("v", "r")
	b.AddEdge("q", "s")
	b.AddEdge("s", "u")
	b.AddEdge("r", "u")
	g := b.Build()
	c, err := condensation.Build(g)
	if err != nil {
		t.Fatalf("condensation.Build: %v", err)
	}

	e := New(g, c)
	v, _ := g.ID("v")
	u, _ := g.ID("u")
	q, _ := g.ID("q")
	r, _ := g.ID("r")

	iface := e.InterfaceOf(u, v)
	if len(iface) != 2 {
		t.Fatalf("InterfaceOf(u, v) = %v, want 2 entries", iface)
	}
	got := map[int]bool{iface[0]: true, iface[1]: true}
	if !got[q] || !got[r] {
		t.Fatalf("InterfaceOf(u, v) = %v, want {q, r}", iface)
	}
	if tc := e.TransitiveCoupling(u, v); tc != 2 {
		t.Fatalf("TransitiveCoupling(u, v) = %d, want 2", tc)
	}
}

func TestCouplingInterfaceThroughCycle(t *testing.T) {
	// Three-cycle a->b->c->a plus dependant d->a: the coupling interface of
	// a over d has exactly one entry.
	b := graph.NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("b", "c")
	b.AddEdge("c", "a")
	b.AddEdge("d", "a")
	g := b.Build()
	c, err := condensation.Build(g)
	if err != nil {
		t.Fatalf("condensation.Build: %v", err)
	}
	e := New(g, c)

	d, _ := g.ID("d")
	a, _ := g.ID("a")

	// d's only transitive dependant structure: a's coupling interface over d
	// is d's own direct dependencies through which a is reachable.
	iface := e.InterfaceOf(a, d)
	if len(iface) != 1 {
		t.Fatalf("InterfaceOf(a, d) = %v, want 1 entry", iface)
	}
}

func TestProfileExcludesSelf(t *testing.T) {
	b := graph.NewBuilder()
	b.AddEdge("0", "1")
	b.AddEdge("1", "2")
	g := b.Build()
	c, err := condensation.Build(g)
	if err != nil {
		t.Fatalf("condensation.Build: %v", err)
	}
	e := New(g, c)
	zero, _ := g.ID("0")

	profile := e.Profile(zero)
	if _, ok := profile[zero]; ok {
		t.Fatalf("Profile(0) must not include 0 itself")
	}
	if len(profile) != 2 {
		t.Fatalf("Profile(0) has %d entries, want 2", len(profile))
	}
}
