// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "io"

const (
	outBufSize = 1 << 13

	// Room kept free in the output buffer; one symbol with its extra bits
	// never needs more than 5 bytes.
	outBufSlack = 20
)

// bitWriter packs bits least-significant first into a fixed-size buffer.
type bitWriter struct {
	bits  uint64
	nbits uint
	buf   [outBufSize]byte
	n     int
}

func (bw *bitWriter) reset() {
	bw.bits, bw.nbits, bw.n = 0, 0, 0
}

// writeBits appends the low nb bits of v. Huffman codes must already be
// bit-reversed so that their most-significant bit goes out first.
func (bw *bitWriter) writeBits(v uint32, nb uint) {
	bw.bits |= uint64(v) << bw.nbits
	bw.nbits += nb
	for bw.nbits >= 8 {
		bw.buf[bw.n] = byte(bw.bits)
		bw.n++
		bw.bits >>= 8
		bw.nbits -= 8
	}
}

// writePads pads the output with zero bits up to the next byte boundary.
func (bw *bitWriter) writePads() {
	if bw.nbits > 0 {
		bw.writeBits(0, 8-bw.nbits)
	}
}

// nearlyFull reports whether the buffer should be flushed before the next
// symbol is written.
func (bw *bitWriter) nearlyFull() bool {
	return bw.n >= len(bw.buf)-outBufSlack
}

// flush writes all completed bytes to w.
func (bw *bitWriter) flush(w io.Writer) (int, error) {
	n, err := w.Write(bw.buf[:bw.n])
	if err == nil && n < bw.n {
		err = io.ErrShortWrite
	}
	bw.n = 0
	return n, err
}
