package crawler

import "math/rand"

// randFloat returns a pseudo-random float in [0,1). Jitter does not
// need to be reproducible across runs (only the Scorer's clustering
// pass has a determinism requirement), so the package-level source is fine.
func randFloat() float64 {
	return rand.Float64()
}
