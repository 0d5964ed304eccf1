package trace

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
)

// groupSize is the number of symbols per space-separated word, matching the
// layout of the classroom reference traces ("ABCD AEGH FFDC").
const groupSize = 4

// Synthesize returns a deterministic trace of length symbols drawn uniformly
// from symbols. The same (seed, symbols, length) always produces the same
// trace; different symbol sets under one seed draw from isolated streams.
func Synthesize(seed int64, symbols string, length int) (string, error) {
	if symbols == "" {
		return "", fmt.Errorf("synthesize: symbol set must not be empty")
	}
	if length < 0 {
		return "", fmt.Errorf("synthesize: length must be non-negative, got %d", length)
	}
	rng := rand.New(rand.NewSource(seed ^ fnv1a64(symbols)))

	var sb strings.Builder
	sb.Grow(length + length/groupSize)
	for i := 0; i < length; i++ {
		if i > 0 && i%groupSize == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(symbols[rng.Intn(len(symbols))])
	}
	return sb.String(), nil
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
