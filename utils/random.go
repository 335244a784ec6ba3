package utils

import "math/rand"

// PickOne returns a uniformly random element of pool using intn, which must
// return a value in [0, n). A nil intn uses math/rand. ok is false for an
// empty pool.
func PickOne[T any](pool []T, intn func(n int) int) (picked T, ok bool) {
	if len(pool) == 0 {
		return picked, false
	}
	if intn == nil {
		intn = rand.Intn
	}
	return pool[intn(len(pool))], true
}
