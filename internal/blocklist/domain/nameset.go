package domain

import (
	"sort"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/utils"
)

// NameSet is an unordered set of canonical domain names (or, for trusted
// whitelist sources, name patterns).
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name and reports whether it was not already present.
func (s NameSet) Add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Has reports whether name is a member of the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names in the set.
func (s NameSet) Len() int { return len(s) }

// AddAll inserts every name of other into s.
func (s NameSet) AddAll(other NameSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Union returns a new set holding the members of all sets.
func Union(sets ...NameSet) NameSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(NameSet, n)
	for _, s := range sets {
		out.AddAll(s)
	}
	return out
}

// Sorted returns the members ordered by reversed labels.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	SortNames(out)
	return out
}

// SortNames orders names in place by their reversed-label key so that
// "foo.example.com" compares as "com.example.foo".
func SortNames(names []string) {
	keys := make(map[string]string, len(names))
	for _, n := range names {
		keys[n] = utils.ReverseLabels(n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ki, kj := keys[names[i]], keys[names[j]]
		if ki != kj {
			return ki < kj
		}
		return names[i] < names[j]
	})
}
