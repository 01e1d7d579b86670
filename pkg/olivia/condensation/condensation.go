// Package condensation builds the SCC-quotient DAG (component B) from a
// graph.Graph using an iterative Tarjan's algorithm. The explicit-stack
// state machine below is adapted from the iterative CyclicDependencies
// implementation used by one of the reference repos' dependency-graph
// analytics package, which faces the same recursion-depth risk on graphs
// with hundreds of thousands of nodes.
package condensation

import (
	"sort"

	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
)

// Condensation is the immutable SCC-quotient DAG over a graph.Graph.
type Condensation struct {
	g *graph.Graph

	nodeSCC []int   // package id -> scc id
	members [][]int // scc id -> member package ids, ascending
	fwdOff  []int   // condensation CSR offsets over successor scc ids
	fwdIdx  []int
	revOff  []int // condensation CSR offsets over predecessor scc ids
	revIdx  []int

	intraArcs []int // scc id -> count of arcs with both endpoints in the scc

	// revTopo lists scc ids in reverse topological order: sinks first.
	revTopo []int
}

// SCCCount returns the number of strongly connected components.
func (c *Condensation) SCCCount() int { return len(c.members) }

// SCCOf returns the SCC id containing package id u.
func (c *Condensation) SCCOf(u int) int { return c.nodeSCC[u] }

// Members returns the package ids belonging to SCC s, ascending.
func (c *Condensation) Members(s int) []int { return c.members[s] }

// Successors returns the SCC ids s has a condensation arc to.
func (c *Condensation) Successors(s int) []int { return c.fwdIdx[c.fwdOff[s]:c.fwdOff[s+1]] }

// Predecessors returns the SCC ids with a condensation arc to s.
func (c *Condensation) Predecessors(s int) []int { return c.revIdx[c.revOff[s]:c.revOff[s+1]] }

// IntraArcs returns the number of original-graph arcs with both endpoints
// inside SCC s.
func (c *Condensation) IntraArcs(s int) int { return c.intraArcs[s] }

// ReverseTopoOrder returns SCC ids ordered with sinks first, used by every
// metric sweep.
func (c *Condensation) ReverseTopoOrder() []int { return c.revTopo }

// callFrame is one entry of the explicit DFS stack replacing recursion in
// Build's Tarjan pass. nextIdx tracks how far this frame has progressed
// through its neighbor list.
type callFrame struct {
	node      int
	neighbors []int
	nextIdx   int
}

// Build runs Tarjan's SCC algorithm over g using an explicit stack (no
// recursion, since real dependency graphs can exceed the default goroutine
// stack's safe recursion depth), then materializes the condensation DAG:
// per-SCC member lists, the quotient adjacency in CSR form, per-SCC intra
// arc counts, and a reverse topological order of SCC ids.
func Build(g *graph.Graph) (*Condensation, error) {
	n := g.Size()
	indices := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range indices {
		indices[i] = -1
	}

	var tarjanStack []int
	var sccOf = make([]int, n)
	for i := range sccOf {
		sccOf[i] = -1
	}
	var members [][]int
	nextIndex := 0

	var callStack []*callFrame

	push := func(u int) {
		indices[u] = nextIndex
		lowlink[u] = nextIndex
		nextIndex++
		tarjanStack = append(tarjanStack, u)
		onStack[u] = true
		callStack = append(callStack, &callFrame{node: u, neighbors: g.OutNeighbors(u)})
	}

	for start := 0; start < n; start++ {
		if indices[start] != -1 {
			continue
		}
		push(start)

		for len(callStack) > 0 {
			frame := callStack[len(callStack)-1]
			u := frame.node

			if frame.nextIdx < len(frame.neighbors) {
				v := frame.neighbors[frame.nextIdx]
				frame.nextIdx++
				if indices[v] == -1 {
					push(v)
					continue
				} else if onStack[v] {
					if lowlink[v] < lowlink[u] {
						lowlink[u] = lowlink[v]
					}
				}
				continue
			}

			// All neighbors processed: pop, propagate lowlink to parent,
			// and close the SCC if u is its own root.
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := callStack[len(callStack)-1]
				if lowlink[u] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[u]
				}
			}
			if lowlink[u] == indices[u] {
				sccID := len(members)
				var comp []int
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					sccOf[w] = sccID
					comp = append(comp, w)
					if w == u {
						break
					}
				}
				sort.Ints(comp)
				members = append(members, comp)
			}
		}
	}

	c := &Condensation{g: g, nodeSCC: sccOf, members: members}
	if err := c.buildQuotient(); err != nil {
		return nil, err
	}
	c.buildReverseTopo()
	return c, nil
}

func (c *Condensation) buildQuotient() error {
	n := c.g.Size()
	nscc := len(c.members)
	c.intraArcs = make([]int, nscc)

	type edgeKey struct{ from, to int }
	seen := make(map[edgeKey]struct{})
	adj := make([][]int, nscc)

	for u := 0; u < n; u++ {
		su := c.nodeSCC[u]
		for _, v := range c.g.OutNeighbors(u) {
			sv := c.nodeSCC[v]
			if su == sv {
				c.intraArcs[su]++
				continue
			}
			key := edgeKey{su, sv}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			adj[su] = append(adj[su], sv)
		}
	}

	c.fwdOff = make([]int, nscc+1)
	for s := 0; s < nscc; s++ {
		sort.Ints(adj[s])
		c.fwdOff[s+1] = c.fwdOff[s] + len(adj[s])
	}
	c.fwdIdx = make([]int, c.fwdOff[nscc])
	for s := 0; s < nscc; s++ {
		copy(c.fwdIdx[c.fwdOff[s]:c.fwdOff[s+1]], adj[s])
	}

	revDeg := make([]int, nscc)
	for s := 0; s < nscc; s++ {
		for _, t := range adj[s] {
			revDeg[t]++
		}
	}
	c.revOff = make([]int, nscc+1)
	for s := 0; s < nscc; s++ {
		c.revOff[s+1] = c.revOff[s] + revDeg[s]
	}
	c.revIdx = make([]int, c.revOff[nscc])
	cursor := make([]int, nscc)
	copy(cursor, c.revOff[:nscc])
	for s := 0; s < nscc; s++ {
		for _, t := range adj[s] {
			c.revIdx[cursor[t]] = s
			cursor[t]++
		}
	}
	for s := 0; s < nscc; s++ {
		sort.Ints(c.revIdx[c.revOff[s]:c.revOff[s+1]])
	}

	if len(c.intraArcs) != nscc {
		return errcode.New(errcode.InvariantViolation, "intra-arc table size mismatch")
	}
	return nil
}

// buildReverseTopo computes a reverse topological order (sinks first) of
// the quotient DAG via Kahn's algorithm on remaining out-degree within the
// forward adjacency: SCCs with no outgoing quotient arcs are emitted first.
func (c *Condensation) buildReverseTopo() {
	nscc := len(c.members)
	outRemaining := make([]int, nscc)
	for s := 0; s < nscc; s++ {
		outRemaining[s] = c.fwdOff[s+1] - c.fwdOff[s]
	}

	var queue []int
	for s := 0; s < nscc; s++ {
		if outRemaining[s] == 0 {
			queue = append(queue, s)
		}
	}

	order := make([]int, 0, nscc)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		order = append(order, s)
		for _, p := range c.Predecessors(s) {
			outRemaining[p]--
			if outRemaining[p] == 0 {
				queue = append(queue, p)
			}
		}
	}

	c.revTopo = order
}
