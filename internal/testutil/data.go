// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

// Repeats generates n bytes of data that heavily favors LZ77 based
// compression since most of it is a copy from some distance ago. Since the
// source material is random, prefix encoding does not benefit as much.
//
// The output is fully determined by seed.
func Repeats(seed, n int) []byte {
	r := NewRand(seed)
	b := make([]byte, 0, n+512)

	randLen := func() int {
		// Lengths in [4<<k, 8<<k) for k chosen mostly uniformly in [0, 7).
		k := uint(r.Intn(7))
		return 4<<k + r.Intn(4<<k)
	}
	randDist := func() int {
		for {
			// Distances in [1<<k, 2<<k) for k in [0, 15).
			k := uint(r.Intn(15))
			d := 1<<k + r.Intn(1<<k)
			if d <= len(b) && d <= 1<<15 {
				return d
			}
		}
	}
	writeRand := func(l int) {
		b = append(b, r.Bytes(l)...)
	}
	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	writeRand(256)
	for len(b) < n {
		switch p := r.Intn(10); {
		case p < 1:
			writeRand(randLen())
		case p < 9:
			d, l := randDist(), randLen()
			for d <= l {
				d, l = randDist(), randLen()
			}
			writeCopy(d, l)
		default:
			writeCopy(randDist(), randLen())
		}
	}
	return b[:n]
}
