package suffixindex

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter answers "definitely absent" for names never added. Names
// are passed as strings so the parent walk does not allocate.
type BloomFilter interface {
	Add(name string)
	MightContain(name string) bool
}

// BloomFactory builds filters sized for an expected number of names.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}
