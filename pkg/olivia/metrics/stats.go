package metrics

import (
	"math"
	"sort"

	"github.com/olivia-graph/olivia/pkg/errcode"
)

// Stats is the component-E value object: a per-package numeric result with
// a lazily computed summary and element-wise arithmetic. Two Stats are
// arithmetic-compatible only if they share the exact same universe of
// package names.
type Stats struct {
	values map[string]float64

	summaryComputed bool
	min, max, sum    float64
	mean             float64
}

// NewStats builds a Stats from an arbitrary name->number mapping, letting
// external code plug in metrics the engine never computed directly (for
// example a centrality measure from another tool).
func NewStats(values map[string]float64) *Stats {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Stats{values: copied}
}

func fromSlice(names []string, values []float64) *Stats {
	m := make(map[string]float64, len(names))
	for i, name := range names {
		m[name] = values[i]
	}
	return &Stats{values: m}
}

// Len returns the number of packages this Stats covers.
func (s *Stats) Len() int { return len(s.values) }

// Value returns the value for name, and whether name is in the universe.
func (s *Stats) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the covered package names in unspecified order.
func (s *Stats) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	return names
}

func (s *Stats) computeSummary() {
	if s.summaryComputed {
		return
	}
	s.summaryComputed = true
	if len(s.values) == 0 {
		return
	}
	first := true
	for _, v := range s.values {
		if first {
			s.min, s.max = v, v
			first = false
		} else {
			if v < s.min {
				s.min = v
			}
			if v > s.max {
				s.max = v
			}
		}
		s.sum += v
	}
	s.mean = s.sum / float64(len(s.values))
}

// Min returns the smallest value.
func (s *Stats) Min() float64 { s.computeSummary(); return s.min }

// Max returns the largest value.
func (s *Stats) Max() float64 { s.computeSummary(); return s.max }

// Sum returns the sum of all values.
func (s *Stats) Sum() float64 { s.computeSummary(); return s.sum }

// Mean returns the arithmetic mean of all values.
func (s *Stats) Mean() float64 { s.computeSummary(); return s.mean }

func sameUniverse(a, b *Stats) bool {
	if len(a.values) != len(b.values) {
		return false
	}
	for name := range a.values {
		if _, ok := b.values[name]; !ok {
			return false
		}
	}
	return true
}

func elementwise(a, b *Stats, op func(x, y float64) float64) (*Stats, error) {
	if !sameUniverse(a, b) {
		return nil, errcode.New(errcode.DomainMismatch, "metric universes differ (%d vs %d packages)", a.Len(), b.Len())
	}
	out := make(map[string]float64, len(a.values))
	for name, x := range a.values {
		out[name] = op(x, b.values[name])
	}
	return &Stats{values: out}, nil
}

func broadcast(a *Stats, scalar float64, op func(x, y float64) float64) *Stats {
	out := make(map[string]float64, len(a.values))
	for name, x := range a.values {
		out[name] = op(x, scalar)
	}
	return &Stats{values: out}
}

// Add returns element-wise a+b, or DomainMismatch if the universes differ.
func Add(a, b *Stats) (*Stats, error) { return elementwise(a, b, func(x, y float64) float64 { return x + y }) }

// Sub returns element-wise a-b.
func Sub(a, b *Stats) (*Stats, error) { return elementwise(a, b, func(x, y float64) float64 { return x - y }) }

// Mul returns element-wise a*b.
func Mul(a, b *Stats) (*Stats, error) { return elementwise(a, b, func(x, y float64) float64 { return x * y }) }

// Div returns element-wise a/b.
func Div(a, b *Stats) (*Stats, error) { return elementwise(a, b, func(x, y float64) float64 { return x / y }) }

// Pow returns element-wise a**b.
func Pow(a, b *Stats) (*Stats, error) { return elementwise(a, b, math.Pow) }

// AddScalar returns a+k for every package.
func (s *Stats) AddScalar(k float64) *Stats { return broadcast(s, k, func(x, y float64) float64 { return x + y }) }

// SubScalar returns a-k for every package.
func (s *Stats) SubScalar(k float64) *Stats { return broadcast(s, k, func(x, y float64) float64 { return x - y }) }

// MulScalar returns a*k for every package.
func (s *Stats) MulScalar(k float64) *Stats { return broadcast(s, k, func(x, y float64) float64 { return x * y }) }

// DivScalar returns a/k for every package.
func (s *Stats) DivScalar(k float64) *Stats { return broadcast(s, k, func(x, y float64) float64 { return x / y }) }

// PowScalar returns a**k for every package.
func (s *Stats) PowScalar(k float64) *Stats { return broadcast(s, k, math.Pow) }

// Entry is a single (name, value) ranking result.
type Entry struct {
	Name  string
	Value float64
}

func (s *Stats) rank(k int, subset []string, descending bool) []Entry {
	var names []string
	if subset != nil {
		names = subset
	} else {
		names = s.Names()
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		v, ok := s.values[name]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Name: name, Value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value == entries[j].Value {
			return entries[i].Name < entries[j].Name
		}
		if descending {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Value < entries[j].Value
	})

	if k > 0 && k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// Top returns the k packages with the largest value, optionally restricted
// to subset, ties broken by ascending name. k<=0 means "all".
func (s *Stats) Top(k int, subset []string) []Entry { return s.rank(k, subset, true) }

// Bottom returns the k packages with the smallest value, optionally
// restricted to subset, ties broken by ascending name. k<=0 means "all".
func (s *Stats) Bottom(k int, subset []string) []Entry { return s.rank(k, subset, false) }
