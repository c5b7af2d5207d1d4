// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"github.com/blockcraft/compress/internal/errors"
	"github.com/blockcraft/compress/internal/prefix"
)

// The bitReader accumulates bits from the input slice handed to a single
// Inflate call. It pulls in one byte at a time, and only when the bits it
// holds cannot satisfy the current request. Thus, when the stream ends, fewer
// than 8 bits of padding remain and no byte past the stream is consumed.
//
// The exception is refill, used by the fast decoding loop, which loads as
// many bytes as fit. Any whole bytes left over must be returned with unread.
type bitReader struct {
	bits  uint64 // Buffer to hold some bits
	nbits uint   // Number of valid bits in bits

	src []byte // Input for the current Inflate call
	pos int    // Number of bytes of src moved into bits
}

func (br *bitReader) reset() {
	*br = bitReader{}
}

// pull moves one byte from src into the bit buffer.
func (br *bitReader) pull() bool {
	if br.pos >= len(br.src) {
		return false
	}
	br.bits |= uint64(br.src[br.pos]) << br.nbits
	br.nbits += 8
	br.pos++
	return true
}

// need reports whether at least nb bits are buffered, pulling input as needed.
func (br *bitReader) need(nb uint) bool {
	for br.nbits < nb {
		if !br.pull() {
			return false
		}
	}
	return true
}

func (br *bitReader) peekBits(nb uint) uint {
	return uint(br.bits & (1<<nb - 1))
}

func (br *bitReader) consume(nb uint) {
	br.bits >>= nb
	br.nbits -= nb
}

// tryReadBits reads nb bits, reporting false if more input is needed.
// Nothing is consumed in that case.
func (br *bitReader) tryReadBits(nb uint) (uint, bool) {
	if !br.need(nb) {
		return 0, false
	}
	v := br.peekBits(nb)
	br.consume(nb)
	return v, true
}

// tryReadSymbol decodes one symbol, reporting false if more input is needed.
// It panics if the input does not contain a valid code word.
func (br *bitReader) tryReadSymbol(t *prefix.Table) (uint, bool) {
	for {
		sym, n, err := t.Decode(br.bits, br.nbits)
		if err != nil {
			errors.Panic(prefixError(err))
		}
		if n > 0 {
			br.consume(n)
			return sym, true
		}
		if !br.pull() {
			return 0, false
		}
	}
}

// readSymbol decodes one symbol assuming enough bits are buffered.
func (br *bitReader) readSymbol(t *prefix.Table) uint {
	sym, n, err := t.Decode(br.bits, br.nbits)
	if err != nil || n == 0 {
		errors.Panic(ErrInvalidHuffmanCode)
	}
	br.consume(n)
	return sym
}

// readPads discards bits up to the next byte boundary.
func (br *bitReader) readPads() {
	br.consume(br.nbits % 8)
}

// refill loads whole bytes until more than 56 bits are buffered or the input
// runs out.
func (br *bitReader) refill() {
	for br.nbits <= 56 && br.pos < len(br.src) {
		br.bits |= uint64(br.src[br.pos]) << br.nbits
		br.nbits += 8
		br.pos++
	}
}

// unread gives back whole buffered bytes that were loaded from src.
func (br *bitReader) unread() {
	n := br.nbits / 8
	if n > uint(br.pos) {
		n = uint(br.pos)
	}
	br.pos -= int(n)
	br.nbits -= 8 * n
	br.bits &= 1<<br.nbits - 1
}
