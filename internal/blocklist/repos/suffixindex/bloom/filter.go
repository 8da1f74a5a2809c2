package bloom

import bitsbloom "github.com/bits-and-blooms/bloom/v3"

// filter adapts a bits-and-blooms filter to string keys. Each filter
// belongs to one Index and shares its single-goroutine contract.
type filter struct {
	bf *bitsbloom.BloomFilter
}

func (f filter) Add(name string) { f.bf.AddString(name) }

func (f filter) MightContain(name string) bool { return f.bf.TestString(name) }
