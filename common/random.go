package common

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// SeededRand returns a deterministic PRNG for seed. Different salts give
// independent streams from the same seed.
func SeededRand(seed int64, salt string) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible sessions.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, salt+":a"), seedWord(seed, salt+":b")))
}

// Uniform returns a value in [lo, hi). Swapped bounds are tolerated.
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
