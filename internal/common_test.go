// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package internal

import "testing"

func TestReverse(t *testing.T) {
	var vectors = []struct {
		v, n, want uint64
	}{
		{0x0, 0, 0x0},
		{0x1, 1, 0x1},
		{0x1, 2, 0x2},
		{0x6, 3, 0x3},
		{0x1f, 5, 0x1f},
		{0x3, 5, 0x18},
		{0x0123, 16, 0xc480},
		{0x1, 32, 0x80000000},
		{0x1, 64, 0x8000000000000000},
	}
	for i, v := range vectors {
		if got := ReverseUint64N(v.v, uint(v.n)); got != v.want {
			t.Errorf("test %d, ReverseUint64N(%#x, %d) = %#x, want %#x", i, v.v, v.n, got, v.want)
		}
		if v.n > 0 && v.n <= 32 {
			if got := ReverseUint32N(uint32(v.v), uint(v.n)); uint64(got) != v.want {
				t.Errorf("test %d, ReverseUint32N(%#x, %d) = %#x, want %#x", i, v.v, v.n, got, v.want)
			}
		}
	}
	for i := 0; i < 256; i++ {
		if got := ReverseLUT[ReverseLUT[i]]; int(got) != i {
			t.Errorf("ReverseLUT is not an involution at %d: got %d", i, got)
		}
		if IdentityLUT[i] != byte(i) {
			t.Errorf("IdentityLUT[%d] = %d", i, IdentityLUT[i])
		}
	}
}
