// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blockcraft/compress/internal"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// DecodeBitGen decodes a BitGen formatted string.
//
// BitGen is a small language for scripting bit-streams by hand. Tokens are
// separated by white space and '#' starts a comment that runs to the end of
// the line.
//
// The first token selects the bit-packing order of the stream: "<<<" packs
// bits starting at the least-significant bit of each byte (DEFLATE order)
// while ">>>" packs from the most-significant bit.
//
// A standalone "<" or ">" sets the bit-parsing mode for the tokens that follow.
// In little-endian mode ("<", the default) the right-most bit of a bit-string
// and the least-significant bit of a number are written first. Big-endian
// mode (">") writes the left-most bit first, which is the order in which
// DEFLATE transmits Huffman codes. A "<" or ">" prefix on a single token
// overrides the mode for that token only.
//
// The value tokens are:
//	[01]{1,64}           a bit-string, e.g. 110
//	D<n>:<decimal>       an n-bit number, e.g. D5:29
//	H<n>:<hex>           an n-bit number, e.g. H16:fff3
//	X:<hex>              literal bytes; the stream must be byte-aligned
//
// Any token may be followed by a "*<count>" quantifier that repeats it.
// The stream is zero-padded up to the next byte boundary.
//
// Example:
//	<<<
//	< 0 00 0*5           # Non-last, stored block, padding
//	< H16:0002 H16:fffd  # Len: 2, NLen: ^2
//	X:6869               # "hi"
//	< 1 01               # Last, fixed block
//	> 0000000            # End-of-block
//
// encodes to 00 02 00 fd ff 68 69 03 00.
func DecodeBitGen(str string) ([]byte, error) {
	toks := tokenize(str)
	if len(toks) == 0 {
		return nil, fmt.Errorf("testutil: missing stream bit-packing mode")
	}

	var msbPack bool
	switch toks[0] {
	case "<<<":
	case ">>>":
		msbPack = true
	default:
		return nil, fmt.Errorf("testutil: unknown stream bit-packing mode: %q", toks[0])
	}

	var bb bitBuffer
	var msbParse bool
	for _, t := range toks[1:] {
		pm := msbParse
		if t[0] == '<' || t[0] == '>' {
			pm = t[0] == '>'
			if t = t[1:]; t == "" {
				msbParse = pm
				continue
			}
		}
		if err := bb.writeToken(t, pm); err != nil {
			return nil, err
		}
	}

	buf := bb.b
	if msbPack {
		for i, b := range buf {
			buf[i] = internal.ReverseLUT[b]
		}
	}
	return buf, nil
}

func tokenize(str string) (toks []string) {
	for _, line := range strings.Split(str, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		toks = append(toks, strings.Fields(line)...)
	}
	return toks
}

func (bb *bitBuffer) writeToken(t string, msb bool) error {
	rep := 1
	if reQnt.MatchString(t) {
		i := strings.LastIndexByte(t, '*')
		n, err := strconv.Atoi(t[i+1:])
		if err != nil {
			return fmt.Errorf("testutil: invalid quantified token: %q", t)
		}
		t, rep = t[:i], n
	}

	var v uint64
	var n uint
	switch {
	case reBin.MatchString(t):
		for _, c := range t {
			v = v<<1 | uint64(c-'0')
		}
		n = uint(len(t))
	case reDec.MatchString(t) || reHex.MatchString(t):
		i := strings.IndexByte(t, ':')
		base := 10
		if t[0] == 'H' {
			base = 16
		}
		nb, err1 := strconv.Atoi(t[1:i])
		val, err2 := strconv.ParseUint(t[i+1:], base, 64)
		if err1 != nil || err2 != nil || nb > 64 {
			return fmt.Errorf("testutil: invalid numeric token: %q", t)
		}
		if nb < 64 && val>>uint(nb) != 0 {
			return fmt.Errorf("testutil: integer overflow on token: %q", t)
		}
		v, n = val, uint(nb)
	case reRaw.MatchString(t):
		b, err := hex.DecodeString(t[2:])
		if err != nil {
			return fmt.Errorf("testutil: invalid raw bytes token: %q", t)
		}
		if bb.m != 0x00 {
			return fmt.Errorf("testutil: unaligned raw bytes token: %q", t)
		}
		bb.b = append(bb.b, bytes.Repeat(b, rep)...)
		return nil
	default:
		return fmt.Errorf("testutil: invalid token: %q", t)
	}

	if msb {
		v = internal.ReverseUint64N(v, n)
	}
	for i := 0; i < rep; i++ {
		bb.writeBits(v, n)
	}
	return nil
}

// bitBuffer is a minimal LSB-first bit writer, kept separate from the codec
// packages so that tests never rely on the code under test to build inputs.
type bitBuffer struct {
	b []byte
	m byte // Mask of the next bit to set in the last byte; 0 when aligned
}

func (bb *bitBuffer) writeBits(v uint64, n uint) {
	for i := uint(0); i < n; i++ {
		if bb.m == 0x00 {
			bb.m = 0x01
			bb.b = append(bb.b, 0x00)
		}
		if v&(1<<i) != 0 {
			bb.b[len(bb.b)-1] |= bb.m
		}
		bb.m <<= 1
	}
}
