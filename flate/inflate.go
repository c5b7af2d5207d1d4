// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"io"

	"github.com/blockcraft/compress/internal/errors"
	"github.com/blockcraft/compress/internal/prefix"
)

// Thresholds for the fast decoding loop. A single length and distance pair
// needs at most 48 bits of input and produces at most maxMatchLen bytes.
const (
	fastMinInput  = 10
	fastMinOutput = maxMatchLen
)

type inflateState int

const (
	stateBlockHeader inflateState = iota
	stateStoredHeader
	stateStoredData
	stateDynamicHeader
	stateCodeLengths
	stateLitDistLengths
	stateRepeatLengths
	stateLiteral
	stateLengthExtra
	stateDistance
	stateDistanceExtra
	stateCopyMatch
	stateDone
)

// Inflater decodes a raw DEFLATE stream.
//
// The Inflater does no I/O of its own. Each call to Inflate decodes as much
// of src into dst as possible and may be resumed with more input or more
// output room at any point. The zero value is ready to use.
type Inflater struct {
	InputOffset  int64 // Total number of bytes consumed by Inflate
	OutputOffset int64 // Total number of bytes produced by Inflate

	rd     bitReader
	win    window
	toRead []byte // Decoded data not yet copied to the caller
	state  inflateState
	final  bool  // Final block bit seen
	err    error // Persistent error; io.EOF once the stream is complete

	blkLen int // Bytes remaining in the current stored block

	numLits  int
	numDists int
	numCLens int
	lensIdx  int
	repSym   uint
	lens     [maxDeclaredLits + maxDeclaredDists]uint8

	lenSym   uint // Pending length symbol, index into lenLUT
	distSym  uint // Pending distance symbol
	cpyLen   int  // Bytes left to copy for the pending match
	cpyDist  int
	litTree  *prefix.Table
	distTree *prefix.Table

	clenTable prefix.Table
	litTable  prefix.Table
	distTable prefix.Table
}

// Reset discards all state so that f can decode a new stream.
func (f *Inflater) Reset() {
	f.rd.reset()
	f.win.reset()
	f.toRead = nil
	f.state = stateBlockHeader
	f.final = false
	f.err = nil
	f.InputOffset, f.OutputOffset = 0, 0
}

// Done reports whether the end of the final block has been decoded and all
// of the output has been returned.
func (f *Inflater) Done() bool {
	return f.err == io.EOF && len(f.toRead) == 0
}

// Inflate decodes src into dst. It returns the number of bytes written to dst
// and read from src. Input bytes that are read are consumed, even if they
// only partially complete a symbol; the remainder is kept internally.
//
// When the stream is complete and all output has been written, Inflate
// returns io.EOF. If dst is full, or all of src was consumed without
// finishing the stream, Inflate returns a nil error and may be called again.
// Any other error is persistent.
func (f *Inflater) Inflate(dst, src []byte) (nDst, nSrc int, err error) {
	f.rd.src, f.rd.pos = src, 0
	for {
		if len(f.toRead) > 0 {
			n := copy(dst[nDst:], f.toRead)
			f.toRead = f.toRead[n:]
			nDst += n
			if len(f.toRead) > 0 {
				break
			}
		}
		if f.err != nil || nDst == len(dst) {
			break
		}

		suspended := f.step()
		f.toRead = f.win.readFlush()
		if suspended && len(f.toRead) == 0 {
			break
		}
	}

	nSrc = f.rd.pos
	f.rd.src, f.rd.pos = nil, 0
	f.InputOffset += int64(nSrc)
	f.OutputOffset += int64(nDst)
	if len(f.toRead) == 0 {
		err = f.err
	}
	return nDst, nSrc, err
}

// step decodes until the window is full, the input is exhausted, or the
// stream ends. It reports whether it stopped for lack of input.
func (f *Inflater) step() (suspended bool) {
	defer errors.Recover(&f.err)

	br := &f.rd
	for {
		switch f.state {
		case stateBlockHeader:
			// Read the block header according to RFC section 3.2.3.
			if f.final {
				br.readPads()
				f.state = stateDone
				continue
			}
			if !br.need(3) {
				return true
			}
			f.final = br.peekBits(1) == 1
			typ := br.peekBits(3) >> 1
			br.consume(3)
			switch typ {
			case 0:
				f.state = stateStoredHeader
			case 1:
				f.litTree, f.distTree = &fixedLitTable, &fixedDistTable
				f.state = stateLiteral
			case 2:
				f.state = stateDynamicHeader
			default:
				errors.Panic(ErrInvalidBlockType)
			}

		case stateStoredHeader:
			// Read the stored block header according to RFC section 3.2.4.
			br.readPads()
			if !br.need(32) {
				return true
			}
			n, nn := uint16(br.peekBits(16)), uint16(br.peekBits(32)>>16)
			if n != ^nn {
				errors.Panic(ErrBadStoredBlockLength)
			}
			br.consume(32)
			f.blkLen = int(n)
			f.state = stateStoredData

		case stateStoredData:
			for f.blkLen > 0 && br.nbits >= 8 {
				if f.win.availSize() == 0 {
					return false
				}
				f.win.writeByte(byte(br.peekBits(8)))
				br.consume(8)
				f.blkLen--
			}
			for f.blkLen > 0 {
				buf := f.win.writeSlice()
				if len(buf) == 0 {
					return false
				}
				if len(buf) > f.blkLen {
					buf = buf[:f.blkLen]
				}
				n := copy(buf, br.src[br.pos:])
				br.pos += n
				f.win.writeMark(n)
				f.blkLen -= n
				if n == 0 {
					return true
				}
			}
			f.state = stateBlockHeader

		case stateDynamicHeader:
			// Read the dynamic block header according to RFC section 3.2.7.
			if !br.need(14) {
				return true
			}
			f.numLits = int(br.peekBits(5)) + 257
			f.numDists = int(br.peekBits(10)>>5) + 1
			f.numCLens = int(br.peekBits(14)>>10) + 4
			br.consume(14)
			f.lensIdx = 0
			f.state = stateCodeLengths

		case stateCodeLengths:
			for f.lensIdx < f.numCLens {
				v, ok := br.tryReadBits(3)
				if !ok {
					return true
				}
				f.lens[clenOrder[f.lensIdx]] = uint8(v)
				f.lensIdx++
			}
			for _, sym := range clenOrder[f.numCLens:] {
				f.lens[sym] = 0
			}
			if err := f.clenTable.Build(f.lens[:maxNumCLenSyms]); err != nil {
				errors.Panic(prefixError(err))
			}
			f.lensIdx = 0
			f.state = stateLitDistLengths

		case stateLitDistLengths:
			total := f.numLits + f.numDists
			for f.lensIdx < total {
				sym, ok := br.tryReadSymbol(&f.clenTable)
				if !ok {
					return true
				}
				if sym >= 16 {
					f.repSym = sym
					f.state = stateRepeatLengths
					break
				}
				f.lens[f.lensIdx] = uint8(sym)
				f.lensIdx++
			}
			if f.state == stateRepeatLengths {
				continue
			}
			if err := f.litTable.Build(f.lens[:f.numLits]); err != nil {
				errors.Panic(prefixError(err))
			}
			if err := f.distTable.Build(f.lens[f.numLits:total]); err != nil {
				errors.Panic(prefixError(err))
			}
			f.litTree, f.distTree = &f.litTable, &f.distTable
			f.state = stateLiteral

		case stateRepeatLengths:
			var nb, base uint
			var val uint8
			switch f.repSym {
			case 16:
				if f.lensIdx == 0 {
					errors.Panic(ErrRepeatWithNoPriorLength)
				}
				nb, base, val = 2, 3, f.lens[f.lensIdx-1]
			case 17:
				nb, base = 3, 3
			default:
				nb, base = 7, 11
			}
			v, ok := br.tryReadBits(nb)
			if !ok {
				return true
			}
			cnt := int(base + v)
			if f.lensIdx+cnt > f.numLits+f.numDists {
				errors.Panic(ErrRepeatCountOverflow)
			}
			for end := f.lensIdx + cnt; f.lensIdx < end; f.lensIdx++ {
				f.lens[f.lensIdx] = val
			}
			f.state = stateLitDistLengths

		case stateLiteral:
			// Read literal and/or (length, distance) according to RFC section 3.2.3.
			if f.win.availSize() == 0 {
				return false
			}
			if f.win.availSize() >= fastMinOutput && len(br.src)-br.pos >= fastMinInput {
				f.decodeFast()
				continue
			}
			sym, ok := br.tryReadSymbol(f.litTree)
			if !ok {
				return true
			}
			switch {
			case sym < endBlockSym:
				f.win.writeByte(byte(sym))
			case sym == endBlockSym:
				f.state = stateBlockHeader
			case sym < maxNumLitSyms:
				f.lenSym = sym - 257
				f.state = stateLengthExtra
			default:
				errors.Panic(ErrInvalidHuffmanCode)
			}

		case stateLengthExtra:
			rec := lenLUT[f.lenSym]
			extra, ok := br.tryReadBits(uint(rec.bits))
			if !ok {
				return true
			}
			f.cpyLen = int(rec.base) + int(extra)
			f.state = stateDistance

		case stateDistance:
			sym, ok := br.tryReadSymbol(f.distTree)
			if !ok {
				return true
			}
			if sym >= maxNumDistSyms {
				errors.Panic(ErrInvalidHuffmanCode)
			}
			f.distSym = sym
			f.state = stateDistanceExtra

		case stateDistanceExtra:
			rec := distLUT[f.distSym]
			extra, ok := br.tryReadBits(uint(rec.bits))
			if !ok {
				return true
			}
			f.cpyDist = int(rec.base) + int(extra)
			if f.cpyDist > f.win.histSize() {
				errors.Panic(ErrInvalidDistance)
			}
			f.state = stateCopyMatch

		case stateCopyMatch:
			if f.win.availSize() == 0 {
				return false
			}
			f.cpyLen -= f.win.writeCopy(f.cpyDist, f.cpyLen)
			if f.cpyLen == 0 {
				f.state = stateLiteral
			}

		case stateDone:
			errors.Panic(io.EOF)

		default:
			errors.Panic(errorf(errors.Internal, "unknown inflate state"))
		}
	}
}

// decodeFast decodes symbols while there is enough input for a complete
// length and distance pair and enough room for the longest match. It leaves
// the Inflater in stateLiteral or stateBlockHeader.
func (f *Inflater) decodeFast() {
	br := &f.rd
	defer br.unread()

	for f.win.availSize() >= fastMinOutput && len(br.src)-br.pos >= fastMinInput {
		br.refill()

		sym := br.readSymbol(f.litTree)
		switch {
		case sym < endBlockSym:
			f.win.writeByte(byte(sym))
			continue
		case sym == endBlockSym:
			f.state = stateBlockHeader
			return
		case sym >= maxNumLitSyms:
			errors.Panic(ErrInvalidHuffmanCode)
		}

		rec := lenLUT[sym-257]
		length := int(rec.base) + int(br.peekBits(uint(rec.bits)))
		br.consume(uint(rec.bits))

		sym = br.readSymbol(f.distTree)
		if sym >= maxNumDistSyms {
			errors.Panic(ErrInvalidHuffmanCode)
		}
		rec = distLUT[sym]
		dist := int(rec.base) + int(br.peekBits(uint(rec.bits)))
		br.consume(uint(rec.bits))
		if dist > f.win.histSize() {
			errors.Panic(ErrInvalidDistance)
		}
		f.win.writeCopy(dist, length)
	}
}
