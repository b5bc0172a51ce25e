// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-two helpers used to validate and
suggest FFT sizes.

	size := bitint.NextPowerOfTwo(3000)   // 4096
	ok := bitint.IsPowerOfTwo(fftSize)    // gonum backend requirement

NextPowerOfTwo works on size-1 so that exact powers of two are returned
unchanged: for 8, bits.Len(7) == 3 and 1<<3 == 8, whereas bits.Len(8)
would give 16.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= size. Non-positive
// sizes yield 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two. A power of two
// has a single bit set, so clearing the lowest set bit leaves zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
