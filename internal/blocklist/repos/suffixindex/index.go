package suffixindex

import (
	"strings"

	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

// HasSuffix reports whether a proper parent of candidate is present in names.
// Labels are dropped from the left one at a time, so "a.b.example.com" tests
// "b.example.com", then "example.com", then "com". Equality with candidate
// itself is not considered.
func HasSuffix(names domain.NameSet, candidate string) bool {
	if len(names) == 0 {
		return false
	}
	return walkParents(candidate, names.Has)
}

// HasSuffixOrSelf reports whether candidate, or one of its parents, is in names.
func HasSuffixOrSelf(names domain.NameSet, candidate string) bool {
	return names.Has(candidate) || HasSuffix(names, candidate)
}

// walkParents calls visit with each proper parent of name, most specific
// first, and stops at the first true result.
func walkParents(name string, visit func(string) bool) bool {
	for {
		i := strings.IndexByte(name, '.')
		if i < 0 {
			return false
		}
		name = name[i+1:]
		if name == "" {
			return false
		}
		if visit(name) {
			return true
		}
	}
}

// Index is a growable NameSet fronted by an optional Bloom filter. The
// filter answers most negative lookups of the parent walk without touching
// the map; the map stays authoritative. An Index is not safe for concurrent
// use.
type Index struct {
	names  domain.NameSet
	filter BloomFilter
}

// New builds an Index seeded with names. capacity is the expected final
// size and sizes the Bloom filter; a nil factory disables the filter.
func New(names domain.NameSet, capacity uint64, factory BloomFactory, fpRate float64) *Index {
	if c := uint64(len(names)); c > capacity {
		capacity = c
	}
	ix := &Index{names: make(domain.NameSet, len(names))}
	if factory != nil {
		ix.filter = factory.New(capacity, fpRate)
	}
	for n := range names {
		ix.Add(n)
	}
	return ix
}

// Add inserts name into the index.
func (ix *Index) Add(name string) {
	if !ix.names.Add(name) {
		return
	}
	if ix.filter != nil {
		ix.filter.Add(name)
	}
}

// Contains reports exact membership.
func (ix *Index) Contains(name string) bool {
	if ix.filter != nil && !ix.filter.MightContain(name) {
		return false
	}
	return ix.names.Has(name)
}

// HasSuffix reports whether a proper parent of name is in the index.
func (ix *Index) HasSuffix(name string) bool {
	if len(ix.names) == 0 {
		return false
	}
	return walkParents(name, ix.Contains)
}

// HasSuffixOrSelf reports whether name or a parent of it is in the index.
func (ix *Index) HasSuffixOrSelf(name string) bool {
	return ix.Contains(name) || ix.HasSuffix(name)
}

// Len returns the number of indexed names.
func (ix *Index) Len() int { return len(ix.names) }
