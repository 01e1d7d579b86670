// Package graph is the immutable labeled directed graph store (component
// A): a name<->id bimap plus CSR-style forward and reverse adjacency. It is
// the only package that knows how package names map to dense integer ids.
package graph

import (
	"sort"

	"github.com/olivia-graph/olivia/pkg/errcode"
)

// Graph is an immutable directed graph over a dense id space [0, N).
// Multi-edges and self-loops are collapsed during construction.
type Graph struct {
	names    []string       // id -> name, in insertion order
	byName   map[string]int // name -> id
	fwdOff   []int          // forward CSR offsets, len N+1
	fwdIdx   []int          // forward CSR neighbor ids
	revOff   []int          // reverse CSR offsets, len N+1
	revIdx   []int          // reverse CSR neighbor ids
}

// Size returns the number of packages.
func (g *Graph) Size() int { return len(g.names) }

// ID returns the dense id for name, or false if it is not present.
func (g *Graph) ID(name string) (int, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Name returns the package name for id. Panics if id is out of range,
// which indicates a caller bug, not a recoverable condition.
func (g *Graph) Name(id int) string { return g.names[id] }

// Contains reports whether name is a known package.
func (g *Graph) Contains(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// Names returns package names in id order. The returned slice must not be
// mutated by the caller.
func (g *Graph) Names() []string { return g.names }

// OutNeighbors returns the ids of packages u directly depends on.
func (g *Graph) OutNeighbors(u int) []int { return g.fwdIdx[g.fwdOff[u]:g.fwdOff[u+1]] }

// InNeighbors returns the ids of packages that directly depend on u.
func (g *Graph) InNeighbors(u int) []int { return g.revIdx[g.revOff[u]:g.revOff[u+1]] }

// OutDegree returns len(OutNeighbors(u)).
func (g *Graph) OutDegree(u int) int { return g.fwdOff[u+1] - g.fwdOff[u] }

// InDegree returns len(InNeighbors(u)).
func (g *Graph) InDegree(u int) int { return g.revOff[u+1] - g.revOff[u] }

// EdgeCount returns the total number of distinct directed arcs.
func (g *Graph) EdgeCount() int { return len(g.fwdIdx) }

// Builder accumulates edges before a single, immutable Graph is produced by
// Build. It performs its own normalization: names are auto-registered on
// first sight, duplicate edges are deduplicated, and self-loops are
// dropped.
type Builder struct {
	byName map[string]int
	names  []string
	adj    [][]int // adjacency lists during accumulation, deduped on insert via seen
	seen   []map[int]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]int)}
}

// Register ensures name has an id, returning it. Calling Register for a
// name that was previously seen only as a dependency (auto-registered) is
// a no-op that returns the existing id.
func (b *Builder) Register(name string) int {
	if id, ok := b.byName[name]; ok {
		return id
	}
	id := len(b.names)
	b.byName[name] = id
	b.names = append(b.names, name)
	b.adj = append(b.adj, nil)
	b.seen = append(b.seen, make(map[int]struct{}))
	return id
}

// AddEdge records that head directly depends on dep. Both names are
// auto-registered if new. Self-loops (head == dep) and duplicate edges are
// silently dropped, per the graph store's normalization contract.
func (b *Builder) AddEdge(head, dep string) {
	u := b.Register(head)
	v := b.Register(dep)
	if u == v {
		return
	}
	if _, dup := b.seen[u][v]; dup {
		return
	}
	b.seen[u][v] = struct{}{}
	b.adj[u] = append(b.adj[u], v)
}

// Build materializes the accumulated edges into an immutable CSR Graph.
func (b *Builder) Build() *Graph {
	n := len(b.names)
	g := &Graph{
		names:  b.names,
		byName: b.byName,
		fwdOff: make([]int, n+1),
		revOff: make([]int, n+1),
	}

	for u := 0; u < n; u++ {
		sort.Ints(b.adj[u])
		g.fwdOff[u+1] = g.fwdOff[u] + len(b.adj[u])
	}
	g.fwdIdx = make([]int, g.fwdOff[n])
	for u := 0; u < n; u++ {
		copy(g.fwdIdx[g.fwdOff[u]:g.fwdOff[u+1]], b.adj[u])
	}

	revDegree := make([]int, n)
	for u := 0; u < n; u++ {
		for _, v := range b.adj[u] {
			revDegree[v]++
		}
	}
	for v := 0; v < n; v++ {
		g.revOff[v+1] = g.revOff[v] + revDegree[v]
	}
	g.revIdx = make([]int, g.revOff[n])
	cursor := make([]int, n)
	copy(cursor, g.revOff[:n])
	for u := 0; u < n; u++ {
		for _, v := range b.adj[u] {
			g.revIdx[cursor[v]] = u
			cursor[v]++
		}
	}
	for v := 0; v < n; v++ {
		sort.Ints(g.revIdx[g.revOff[v]:g.revOff[v+1]])
	}

	return g
}

// ErrEmptyName is returned by the ingest parser when a line's head field is
// empty after trimming.
var ErrEmptyName = errcode.New(errcode.MalformedInput, "package name must not be empty")
