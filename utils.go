package vss

import (
	"crypto/subtle"
	"math/big"
	"slices"
)

// SecureCompare performs constant-time comparison of byte slices
func SecureCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ZeroizeBytes securely clears a byte slice
func ZeroizeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeInts clears every integer in the slice in place. Best effort: math/big
// may have left copies of the words in memory it has since released.
func ZeroizeInts(values []*big.Int) {
	for _, v := range values {
		zeroizeInt(v)
	}
}

func zeroizeInt(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func cloneInts(values []*big.Int) []*big.Int {
	if values == nil {
		return nil
	}
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = cloneInt(v)
	}
	return out
}

func intsEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// shareIndices returns the share indices in ascending order
func shareIndices(shares []RevealedShare) []int {
	indices := make([]int, len(shares))
	for i, s := range shares {
		indices[i] = s.Index
	}
	slices.Sort(indices)
	return indices
}
