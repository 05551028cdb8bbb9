// Package deniable implements the dual-payload partition (C6): a keyed,
// deterministic split of a cover's slot sequence into two disjoint halves,
// so a decoy payload and a real payload can share one cover without either
// half's slots overlapping.
package deniable

import "stegcore/internal/position"

// Partition splits the index range [0, n) into two disjoint halves using a
// keyed Fisher-Yates permutation of the full range, then bisecting it: H0
// gets the first half of the shuffled order, H1 the second. key is a
// 32-byte partition key; the engine derives it from the public partition
// salt both sidecars record, so the split itself is not secret and each
// half's contents are protected by that payload's own encryption.
func Partition(key []byte, n int) (h0, h1 []int) {
	perm := position.KeyedPermutation(key, n)
	mid := n / 2
	h0 = append([]int(nil), perm[:mid]...)
	h1 = append([]int(nil), perm[mid:]...)
	return h0, h1
}
