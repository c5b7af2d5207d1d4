// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"io"
	"math/bits"

	"github.com/blockcraft/compress/internal/prefix"
)

const (
	blockSize = maxHistSize
	bufSize   = 2 * blockSize

	hashBits = 16
	hashSize = 1 << hashBits
	hashMask = hashSize - 1

	// maxChainLen bounds how many earlier positions are tried per match.
	maxChainLen = 5
)

var (
	fixedLitCodes  [maxDeclaredLits]uint32
	fixedDistCodes [maxDeclaredDists]uint32
)

func init() {
	prefix.AssignCodes(fixedLitLens[:], fixedLitCodes[:])
	prefix.AssignCodes(fixedDistLens[:], fixedDistCodes[:])
}

// Writer is an io.WriteCloser that compresses data into a raw DEFLATE stream.
//
// The whole stream is emitted as one final block using the fixed Huffman
// codes of RFC section 3.2.6. Matches are found with a hash table of 3-byte
// prefixes chained through earlier positions, and each match is checked
// against the match at the next position before it is taken.
type Writer struct {
	InputOffset  int64 // Total number of bytes passed to Write
	OutputOffset int64 // Total number of bytes written to the underlying io.Writer

	wr  io.Writer
	err error // Persistent error

	// buf holds the previous block of input followed by the current one.
	// Positions in head and prev are indexes into buf plus one; zero is empty.
	buf  [bufSize]byte
	end  int // Number of valid bytes in buf
	cur  int // Next position in buf to encode
	head [hashSize]uint32
	prev [bufSize]uint32

	bw          bitWriter
	wroteHeader bool
}

// NewWriter returns a new Writer that compresses to w.
func NewWriter(w io.Writer) *Writer {
	zw := new(Writer)
	zw.Reset(w)
	return zw
}

// Reset discards the Writer's state and makes it equivalent to the result of
// NewWriter, but writing to w instead.
func (zw *Writer) Reset(w io.Writer) error {
	zw.InputOffset, zw.OutputOffset = 0, 0
	zw.wr, zw.err = w, nil
	zw.end, zw.cur = 0, 0
	zw.head = [hashSize]uint32{}
	zw.prev = [bufSize]uint32{}
	zw.bw.reset()
	zw.wroteHeader = false
	return nil
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}

	var n int
	for len(buf) > 0 {
		cnt := copy(zw.buf[zw.end:], buf)
		zw.end += cnt
		buf = buf[cnt:]
		n += cnt
		zw.InputOffset += int64(cnt)
		if zw.end == len(zw.buf) {
			if err := zw.encodeBlock(); err != nil {
				zw.err = err
				return n, err
			}
			zw.slide()
		}
	}
	return n, nil
}

// Close compresses any buffered input, ends the block, and flushes the output.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == ErrClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	if err := zw.encodeBlock(); err != nil {
		zw.err = err
		return err
	}
	zw.writeHeader()
	zw.bw.writeBits(fixedLitCodes[endBlockSym], uint(fixedLitLens[endBlockSym]))
	zw.bw.writePads()
	if err := zw.flush(); err != nil {
		zw.err = err
		return err
	}
	zw.err = ErrClosed
	return nil
}

func (zw *Writer) writeHeader() {
	if !zw.wroteHeader {
		zw.bw.writeBits(1|1<<1, 3) // Final block, fixed Huffman codes
		zw.wroteHeader = true
	}
}

func (zw *Writer) flush() error {
	n, err := zw.bw.flush(zw.wr)
	zw.OutputOffset += int64(n)
	return err
}

// encodeBlock encodes buf[cur:end] as literals and matches.
func (zw *Writer) encodeBlock() error {
	zw.writeHeader()
	for zw.cur < zw.end {
		p := zw.cur
		rem := zw.end - p
		if rem < minMatchLen {
			zw.writeLiteral(zw.buf[p])
			zw.cur++
		} else {
			bestLen, bestDist := zw.findMatch(p, min(rem, maxMatchLen))
			zw.insert(p)

			// Lazy evaluation: defer to a strictly longer match at p+1.
			if bestLen >= minMatchLen && rem > minMatchLen {
				if nextLen, _ := zw.findMatch(p+1, min(rem-1, maxMatchLen)); nextLen > bestLen {
					bestLen = 0
				}
			}

			if bestLen >= minMatchLen {
				zw.writeMatch(bestLen, bestDist)
				for i := p + 1; i < p+bestLen; i++ {
					zw.insert(i)
				}
				zw.cur += bestLen
			} else {
				zw.writeLiteral(zw.buf[p])
				zw.cur++
			}
		}

		if zw.bw.nearlyFull() {
			if err := zw.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (zw *Writer) hash(p int) uint32 {
	b := zw.buf[p : p+3]
	return (uint32(b[0])<<8 ^ uint32(b[1])<<4 ^ uint32(b[2])) & hashMask
}

// insert adds position p to the hash chains.
func (zw *Writer) insert(p int) {
	if p+minMatchLen > zw.end {
		return
	}
	h := zw.hash(p)
	zw.prev[p] = zw.head[h]
	zw.head[h] = uint32(p + 1)
}

// findMatch returns the longest match for position p, limited to maxLen bytes.
// It returns a length below minMatchLen if there is no usable match.
func (zw *Writer) findMatch(p, maxLen int) (bestLen, bestDist int) {
	if maxLen < minMatchLen {
		return 0, 0
	}
	want := zw.buf[p : p+maxLen]
	cand := zw.head[zw.hash(p)]
	for depth := 0; cand != 0 && depth < maxChainLen; depth++ {
		c := int(cand) - 1
		dist := p - c
		if dist <= 0 || dist > maxHistSize {
			break
		}
		if n := matchLen(zw.buf[c:c+maxLen], want); n > bestLen {
			bestLen, bestDist = n, dist
			if n == maxLen {
				break
			}
		}
		cand = zw.prev[c]
	}
	return bestLen, bestDist
}

func matchLen(a, b []byte) int {
	var n int
	for n < len(a) && a[n] == b[n] {
		n++
	}
	return n
}

func (zw *Writer) writeLiteral(c byte) {
	zw.bw.writeBits(fixedLitCodes[c], uint(fixedLitLens[c]))
}

func (zw *Writer) writeMatch(length, dist int) {
	sym := uint(lenSyms[length])
	rec := lenLUT[sym]
	zw.bw.writeBits(fixedLitCodes[257+sym], uint(fixedLitLens[257+sym]))
	zw.bw.writeBits(uint32(length-int(rec.base)), uint(rec.bits))

	sym = distSymbol(dist)
	rec = distLUT[sym]
	zw.bw.writeBits(fixedDistCodes[sym], uint(fixedDistLens[sym]))
	zw.bw.writeBits(uint32(dist-int(rec.base)), uint(rec.bits))
}

// distSymbol returns the distance code for dist, which is in [1, 32768].
func distSymbol(dist int) uint {
	d := uint32(dist - 1)
	if d < 4 {
		return uint(d)
	}
	k := uint(bits.Len32(d) - 1)
	return 2*k + uint(d>>(k-1)&1)
}

// slide moves the current block into the previous block's place and rebases
// the hash chains, dropping positions that fall out of the window.
func (zw *Writer) slide() {
	copy(zw.buf[:blockSize], zw.buf[blockSize:zw.end])
	zw.end -= blockSize
	zw.cur -= blockSize

	rebase := func(v uint32) uint32 {
		if v > blockSize {
			return v - blockSize
		}
		return 0
	}
	for i, v := range zw.head {
		zw.head[i] = rebase(v)
	}
	for i := 0; i < blockSize; i++ {
		zw.prev[i] = rebase(zw.prev[i+blockSize])
	}
	for i := blockSize; i < bufSize; i++ {
		zw.prev[i] = 0
	}
}
