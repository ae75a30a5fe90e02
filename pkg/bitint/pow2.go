/*
Package bitint provides power-of-2 bit manipulation helpers used for
sizing buffers on the real-time transfer path.

Design Principles:
- Zero Allocations: All operations use stack memory only
- Predictable Performance: O(1) constant time operations
- Real-Time Safe: No locks, syscalls, or blocking operations

The subtraction (size-1) in NextPowerOfTwo is critical: without it,
exact powers of 2 would be incorrectly doubled. For input 8, size-1 = 7
(binary 0111), bits.Len64(7) = 3, and 1 << 3 = 8 preserves the value.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
// Inputs <= 0 return 1.
//
// Examples:
//
//	Input  Output
//	4      4       Already a power of 2 (preserved)
//	5      8       Next power after 5
//	0      1       Zero case
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}

	// 64-bit platforms (where int is 64-bit)
	if ^uint(0)>>63 == 0 {
		return int(1 << (bits.Len64(uint64(size - 1))))
	}

	// 32-bit platforms
	return int(1 << (bits.Len32(uint32(size - 1))))
}

// IsPowerOfTwo reports whether n is a power of 2. Powers of 2 have
// exactly one bit set, so (n & (n-1)) == 0 holds only for them (and
// zero, excluded by the positivity check).
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
