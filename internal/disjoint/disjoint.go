// Package disjoint implements an arena-indexed union-find over comparable
// keys. Nodes live in parallel slices indexed by insertion order; the key map
// is used only for lookup, so component enumeration is deterministic.
package disjoint

// Sets is a disjoint-set forest with union by rank and path compression.
// The zero value is not usable; call New.
type Sets[T comparable] struct {
	index  map[T]int
	items  []T
	parent []int
	rank   []int
}

// New returns an empty forest.
func New[T comparable]() *Sets[T] {
	return &Sets[T]{index: make(map[T]int)}
}

// Add registers item as a singleton if it is not already present and returns
// its arena index.
func (s *Sets[T]) Add(item T) int {
	if i, ok := s.index[item]; ok {
		return i
	}
	i := len(s.items)
	s.index[item] = i
	s.items = append(s.items, item)
	s.parent = append(s.parent, i)
	s.rank = append(s.rank, 0)
	return i
}

func (s *Sets[T]) find(i int) int {
	root := i
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[i] != root {
		next := s.parent[i]
		s.parent[i] = root
		i = next
	}
	return root
}

// Union merges the components of a and b, registering either if needed.
// It reports whether the two were previously in different components.
func (s *Sets[T]) Union(a, b T) bool {
	ra, rb := s.find(s.Add(a)), s.find(s.Add(b))
	if ra == rb {
		return false
	}
	switch {
	case s.rank[ra] < s.rank[rb]:
		s.parent[ra] = rb
	case s.rank[ra] > s.rank[rb]:
		s.parent[rb] = ra
	default:
		s.parent[rb] = ra
		s.rank[ra]++
	}
	return true
}

// Root returns the arena index of item's component root, or -1 if item is
// unknown.
func (s *Sets[T]) Root(item T) int {
	i, ok := s.index[item]
	if !ok {
		return -1
	}
	return s.find(i)
}

// Components returns every component. Components are ordered by the
// insertion index of their first member and members keep insertion order.
func (s *Sets[T]) Components() [][]T {
	slot := make(map[int]int)
	var components [][]T
	for i, item := range s.items {
		root := s.find(i)
		c, ok := slot[root]
		if !ok {
			c = len(components)
			slot[root] = c
			components = append(components, nil)
		}
		components[c] = append(components[c], item)
	}
	return components
}
