package graph

import (
	"strings"
	"testing"
)

func TestBuilderDedupSelfLoop(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("a", "b")
	b.AddEdge("a", "b")
	b.AddEdge("a", "a")
	g := b.Build()

	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	a, _ := g.ID("a")
	if got := g.OutDegree(a); got != 1 {
		t.Fatalf("OutDegree(a) = %d, want 1", got)
	}
}

func TestBuilderAutoRegistersDependencyOnlyNames(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("app", "lib")
	g := b.Build()

	if !g.Contains("lib") {
		t.Fatalf("expected auto-registered name %q", "lib")
	}
	if got := g.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
}

func TestParseAdjacency(t *testing.T) {
	input := "# comment\n\napp\tlib\tutil\nlib\tutil\nutil\n"
	g, err := ParseAdjacency(strings.NewReader(input), "packages.txt")
	if err != nil {
		t.Fatalf("ParseAdjacency: %v", err)
	}
	if g.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", g.Size())
	}
	app, _ := g.ID("app")
	if got := g.OutDegree(app); got != 2 {
		t.Fatalf("OutDegree(app) = %d, want 2", got)
	}
}

func TestParseAdjacencyMalformedEmptyName(t *testing.T) {
	_, err := ParseAdjacency(strings.NewReader("\tdep\n"), "bad.txt")
	if err == nil {
		t.Fatalf("expected error for empty head name")
	}
}

func TestPathGraphAdjacency(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("0", "1")
	b.AddEdge("1", "2")
	b.AddEdge("2", "3")
	b.AddEdge("3", "4")
	g := b.Build()

	if g.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", g.Size())
	}
	four, _ := g.ID("4")
	if got := g.OutDegree(four); got != 0 {
		t.Fatalf("OutDegree(4) = %d, want 0", got)
	}
}
