// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

import "math/bits"

const (
	maxInt    = int(^uint(0) >> 1)
	maxUint32 = uint64(^uint32(0))
)

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// intFromU32 converts a header field to an int.
func intFromU32(n uint32) (int, error) {
	if uint64(n) > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}

// mulInt multiplies two non-negative ints, failing on overflow.
func mulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrSizeOverflow
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(lo), nil
}

// addInt adds two non-negative ints, failing on overflow.
func addInt(a, b int) (int, error) {
	if a < 0 || b < 0 || a > maxInt-b {
		return 0, ErrSizeOverflow
	}

	return a + b, nil
}
