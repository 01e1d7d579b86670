// Package bitset implements the adaptive dense/sparse descendant-set
// representation used by the condensation sweep (reach, impact, surface)
// and by the coupling engine.
//
// No bitset or roaring-bitmap library appears anywhere in the retrieved
// reference corpus, so this is a direct, small implementation rather than
// an adaptation of teacher code.
package bitset

import "math/bits"

// Dense is a fixed-universe bitset over [0, n) backed by a []uint64 word
// array, used for SCCs whose descendant set is a large fraction of the
// condensation.
type Dense struct {
	words []uint64
	n     int
}

// NewDense allocates a Dense bitset over a universe of n ids.
func NewDense(n int) *Dense {
	return &Dense{words: make([]uint64, (n+63)/64), n: n}
}

// Set marks id as present.
func (d *Dense) Set(id int) {
	d.words[id/64] |= 1 << uint(id%64)
}

// Test reports whether id is present.
func (d *Dense) Test(id int) bool {
	return d.words[id/64]&(1<<uint(id%64)) != 0
}

// UnionWith ORs other into d in place.
func (d *Dense) UnionWith(other *Dense) {
	for i, w := range other.words {
		d.words[i] |= w
	}
}

// IntersectCount returns |d ∩ other| without allocating.
func (d *Dense) IntersectCount(other *Dense) int {
	count := 0
	for i, w := range d.words {
		count += bits.OnesCount64(w & other.words[i])
	}
	return count
}

// Count returns the number of set bits.
func (d *Dense) Count() int {
	count := 0
	for _, w := range d.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Clone returns an independent copy.
func (d *Dense) Clone() *Dense {
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	return &Dense{words: words, n: d.n}
}

// Each calls fn for every set id in ascending order.
func (d *Dense) Each(fn func(id int)) {
	for i, w := range d.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			fn(i*64 + bit)
			w &= w - 1
		}
	}
}

// Sparse is a hashed-set descendant representation used for SCCs whose
// descendant set is small relative to the condensation, where a map avoids
// the O(n) allocation and union cost of a Dense bitset.
type Sparse struct {
	members map[int]struct{}
}

// NewSparse allocates an empty Sparse set.
func NewSparse() *Sparse {
	return &Sparse{members: make(map[int]struct{})}
}

// Set marks id as present.
func (s *Sparse) Set(id int) {
	s.members[id] = struct{}{}
}

// Test reports whether id is present.
func (s *Sparse) Test(id int) bool {
	_, ok := s.members[id]
	return ok
}

// UnionWith adds every member of other to s.
func (s *Sparse) UnionWith(other *Sparse) {
	for id := range other.members {
		s.members[id] = struct{}{}
	}
}

// IntersectCount returns |s ∩ other|.
func (s *Sparse) IntersectCount(other *Sparse) int {
	small, big := s, other
	if len(big.members) < len(small.members) {
		small, big = big, small
	}
	count := 0
	for id := range small.members {
		if _, ok := big.members[id]; ok {
			count++
		}
	}
	return count
}

// Count returns the number of members.
func (s *Sparse) Count() int {
	return len(s.members)
}

// Clone returns an independent copy.
func (s *Sparse) Clone() *Sparse {
	members := make(map[int]struct{}, len(s.members))
	for id := range s.members {
		members[id] = struct{}{}
	}
	return &Sparse{members: members}
}

// Each calls fn for every member, in unspecified order.
func (s *Sparse) Each(fn func(id int)) {
	for id := range s.members {
		fn(id)
	}
}

// Set is the common interface implemented by Dense and Sparse, used by the
// condensation sweep so it can pick a representation per SCC without the
// caller needing to know which one it got.
type Set interface {
	Set(id int)
	Test(id int) bool
	UnionWith(other Set)
	IntersectCount(other Set) int
	Count() int
	Clone() Set
	Each(fn func(id int))
}

// denseAdapter and sparseAdapter satisfy Set by delegating to the
// concrete types above; UnionWith/IntersectCount accept the Set interface
// and type-assert to the same concrete kind, falling back to Each when the
// two operands differ in representation.
type denseAdapter struct{ *Dense }

func (a denseAdapter) UnionWith(other Set) {
	if d, ok := other.(denseAdapter); ok {
		a.Dense.UnionWith(d.Dense)
		return
	}
	other.Each(func(id int) { a.Dense.Set(id) })
}

func (a denseAdapter) IntersectCount(other Set) int {
	if d, ok := other.(denseAdapter); ok {
		return a.Dense.IntersectCount(d.Dense)
	}
	count := 0
	other.Each(func(id int) {
		if a.Dense.Test(id) {
			count++
		}
	})
	return count
}

func (a denseAdapter) Clone() Set { return denseAdapter{a.Dense.Clone()} }

type sparseAdapter struct{ *Sparse }

func (a sparseAdapter) UnionWith(other Set) {
	if s, ok := other.(sparseAdapter); ok {
		a.Sparse.UnionWith(s.Sparse)
		return
	}
	other.Each(func(id int) { a.Sparse.Set(id) })
}

func (a sparseAdapter) IntersectCount(other Set) int {
	if s, ok := other.(sparseAdapter); ok {
		return a.Sparse.IntersectCount(s.Sparse)
	}
	count := 0
	other.Each(func(id int) {
		if a.Sparse.Test(id) {
			count++
		}
	})
	return count
}

func (a sparseAdapter) Clone() Set { return sparseAdapter{a.Sparse.Clone()} }

// NewAdaptive returns a Set backed by a Dense bitset when the SCC's expected
// descendant count, relative to the condensation size n, meets or exceeds
// densityThreshold; otherwise it returns a Sparse set. This implements the
// density-adaptive choice required of the reach/impact/surface sweep.
func NewAdaptive(n int, expectedDescendants int, densityThreshold float64) Set {
	if n == 0 {
		return denseAdapter{NewDense(0)}
	}
	density := float64(expectedDescendants) / float64(n)
	if density >= densityThreshold {
		return denseAdapter{NewDense(n)}
	}
	return sparseAdapter{NewSparse()}
}
