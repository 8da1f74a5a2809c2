package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/rr-blocklist/internal/blocklist/repos/suffixindex"
)

// defaultFPRate applies when the requested rate is outside (0, 1).
const defaultFPRate = 0.01

// sizer implements suffixindex.BloomSizer on top of the library's
// parameter estimation. Inputs are clamped so every filter is usable.
type sizer struct{}

// NewSizer returns a BloomSizer implementation.
func NewSizer() suffixindex.BloomSizer { return sizer{} }

func (s sizer) Size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if !(p > 0 && p < 1) {
		p = defaultFPRate
	}
	m, k := bitsbloom.EstimateParameters(uint(n), p)
	if m == 0 {
		m = 1
	}
	if k == 0 {
		k = 1
	}
	if k > 255 {
		k = 255
	}
	return uint64(m), uint8(k)
}
