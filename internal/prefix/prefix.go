// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements canonical prefix (Huffman) codes as used by the
// DEFLATE format, along with helpers for buffered bit-level input.
package prefix

import (
	"github.com/blockcraft/compress/internal"
	"github.com/blockcraft/compress/internal/errors"
)

const (
	// MaxBits is the longest code length DEFLATE permits.
	MaxBits = 15

	// MaxSyms is the largest alphabet that a Table can hold.
	MaxSyms = 288

	// FastBits is the width of the direct lookup table.
	FastBits = 9
	fastMask = 1<<FastBits - 1
)

var (
	// ErrTooManyCodes reports that some length has more codes than fit.
	ErrTooManyCodes error = errors.Error{Code: errors.Corrupted, Pkg: "prefix", Msg: "too many codes of one length"}

	// ErrInvalidCode reports a code that is over-subscribed, illegally
	// incomplete, or a code word that is not present in the table.
	ErrInvalidCode error = errors.Error{Code: errors.Corrupted, Pkg: "prefix", Msg: "invalid code"}
)

// Table decodes a canonical prefix code.
//
// Codes are assigned in order of increasing length, and within one length in
// order of increasing symbol value. Bits arrive least-significant first while
// each code word is transmitted starting with its most-significant bit.
type Table struct {
	firstCode   [MaxBits + 1]int32 // First code word of each length
	firstOffset [MaxBits + 1]int32 // Index into values of that first code word
	count       [MaxBits + 1]int32 // Number of code words of each length
	maxLen      uint               // Longest assigned length; 0 for an empty code
	values      [MaxSyms]uint16    // Symbols sorted by (length, symbol)

	// fast maps the next FastBits stream bits to (length<<FastBits | symbol)
	// for every code no longer than FastBits, and to -1 otherwise.
	fast [1 << FastBits]int16
}

// Build initializes t from the code lengths of each symbol, where a length of
// zero means the symbol is unused.
//
// An empty code and a code consisting of one symbol of length 1 are accepted
// even though they are incomplete; every other incomplete code is rejected.
func (t *Table) Build(lens []uint8) error {
	if len(lens) > MaxSyms {
		return ErrInvalidCode
	}
	var count [MaxBits + 1]int32
	for _, n := range lens {
		if n > MaxBits {
			return ErrInvalidCode
		}
		count[n]++
	}
	count[0] = 0

	var total int32
	left := int32(1)
	for i := 1; i <= MaxBits; i++ {
		if count[i] > 1<<uint(i) {
			return ErrTooManyCodes
		}
		left = left<<1 - count[i]
		if left < 0 {
			return ErrInvalidCode
		}
		total += count[i]
	}
	if left > 0 && total > 1 || total == 1 && count[1] != 1 {
		return ErrInvalidCode
	}

	*t = Table{count: count}
	var code, offset int32
	var offs [MaxBits + 1]int32
	for i := 1; i <= MaxBits; i++ {
		code = (code + count[i-1]) << 1
		t.firstCode[i] = code
		t.firstOffset[i] = offset
		offs[i] = offset
		offset += count[i]
		if count[i] > 0 {
			t.maxLen = uint(i)
		}
	}
	for sym, n := range lens {
		if n > 0 {
			t.values[offs[n]] = uint16(sym)
			offs[n]++
		}
	}

	for i := range t.fast {
		t.fast[i] = -1
	}
	for i := 1; i <= FastBits && i <= int(t.maxLen); i++ {
		for j := int32(0); j < count[i]; j++ {
			sym := t.values[t.firstOffset[i]+j]
			rev := internal.ReverseUint32N(uint32(t.firstCode[i]+j), uint(i))
			entry := int16(i<<FastBits | int(sym))
			for k := rev; k < 1<<FastBits; k += 1 << uint(i) {
				t.fast[k] = entry
			}
		}
	}
	return nil
}

// Decode decodes a single symbol from the lowest nb bits of bits, where the
// earliest stream bit is bit 0. It returns the symbol and the number of bits
// it occupies. If nb bits are not enough to resolve a symbol, it returns
// n == 0 and a nil error so that the caller may supply more input.
func (t *Table) Decode(bits uint64, nb uint) (sym, n uint, err error) {
	if e := t.fast[bits&fastMask]; e >= 0 {
		if n = uint(e) >> FastBits; n <= nb {
			return uint(e) & fastMask, n, nil
		}
		return 0, 0, nil
	}

	var cw int32
	for i := uint(1); i <= t.maxLen; i++ {
		if i > nb {
			return 0, 0, nil
		}
		cw = cw<<1 | int32(bits>>(i-1)&1)
		if c := cw - t.firstCode[i]; c >= 0 && c < t.count[i] {
			return uint(t.values[t.firstOffset[i]+c]), i, nil
		}
	}
	return 0, 0, ErrInvalidCode
}

// Empty reports whether the code has no symbols.
func (t *Table) Empty() bool { return t.maxLen == 0 }

// AssignCodes computes the canonical code word for every symbol in lens,
// stored bit-reversed so that it can be emitted least-significant bit first.
// The lengths must describe a valid code.
func AssignCodes(lens []uint8, codes []uint32) {
	var count [MaxBits + 1]uint32
	for _, n := range lens {
		count[n]++
	}
	count[0] = 0
	var next [MaxBits + 1]uint32
	var code uint32
	for i := 1; i <= MaxBits; i++ {
		code = (code + count[i-1]) << 1
		next[i] = code
	}
	for sym, n := range lens {
		if n > 0 {
			codes[sym] = internal.ReverseUint32N(next[n], uint(n))
			next[n]++
		}
	}
}
