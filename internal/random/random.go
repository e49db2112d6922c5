// Package random builds the explicit generator handle threaded through
// repository construction, replicate sampling and expression.
package random

import (
	"math/rand/v2"
)

// New returns a generator seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
