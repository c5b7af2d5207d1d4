// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "github.com/blockcraft/compress/internal/prefix"

const (
	maxNumCLenSyms = 19
	maxNumLitSyms  = 286
	maxNumDistSyms = 30

	// Header fields can declare up to 288 literal and 32 distance lengths even
	// though the trailing symbols can never be used.
	maxDeclaredLits  = 288
	maxDeclaredDists = 32
)

type rangeCode struct {
	base uint16 // Starting base offset of the range
	bits uint8  // Bit-width of a subsequent integer to add to base offset
}

var (
	lenLUT  [maxNumLitSyms - 257]rangeCode // RFC section 3.2.5
	distLUT [maxNumDistSyms]rangeCode      // RFC section 3.2.5

	// lenSyms maps a match length to its index in lenLUT.
	lenSyms [maxMatchLen + 1]uint8

	fixedLitLens  [maxDeclaredLits]uint8  // RFC section 3.2.6
	fixedDistLens [maxDeclaredDists]uint8 // RFC section 3.2.6

	fixedLitTable  prefix.Table
	fixedDistTable prefix.Table

	// RFC section 3.2.7.
	// Order in which the code length code lengths are transmitted.
	clenOrder = [maxNumCLenSyms]uint8{
		16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
	}
)

func init() {
	for i, base := 0, 3; i < len(lenLUT)-1; i++ {
		nb := i/4 - 1
		if i < 4 {
			nb = 0
		}
		lenLUT[i] = rangeCode{base: uint16(base), bits: uint8(nb)}
		base += 1 << uint(nb)
	}
	lenLUT[len(lenLUT)-1] = rangeCode{base: maxMatchLen, bits: 0}

	for i, base := 0, 1; i < len(distLUT); i++ {
		nb := i/2 - 1
		if i < 2 {
			nb = 0
		}
		distLUT[i] = rangeCode{base: uint16(base), bits: uint8(nb)}
		base += 1 << uint(nb)
	}

	for i := range lenLUT {
		lo, hi := int(lenLUT[i].base), int(lenLUT[i].base)+1<<lenLUT[i].bits
		for n := lo; n < hi && n <= maxMatchLen; n++ {
			lenSyms[n] = uint8(i)
		}
	}
	lenSyms[maxMatchLen] = uint8(len(lenLUT) - 1)

	for i := range fixedLitLens {
		switch {
		case i < 144:
			fixedLitLens[i] = 8
		case i < 256:
			fixedLitLens[i] = 9
		case i < 280:
			fixedLitLens[i] = 7
		default:
			fixedLitLens[i] = 8
		}
	}
	for i := range fixedDistLens {
		fixedDistLens[i] = 5
	}
	if err := fixedLitTable.Build(fixedLitLens[:]); err != nil {
		panic(err)
	}
	if err := fixedDistTable.Build(fixedDistLens[:]); err != nil {
		panic(err)
	}
}
