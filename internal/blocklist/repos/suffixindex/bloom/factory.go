package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex"
)

type factory struct {
	sizer suffixindex.BloomSizer
}

// NewFactory returns a BloomFactory backed by bits-and-blooms filters.
func NewFactory() suffixindex.BloomFactory { return factory{sizer: NewSizer()} }

// New returns an empty filter sized for capacity names at fpRate.
func (f factory) New(capacity uint64, fpRate float64) suffixindex.BloomFilter {
	m, k := f.sizer.Size(capacity, fpRate)
	return filter{bf: bitsbloom.New(uint(m), uint(k))}
}
