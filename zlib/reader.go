// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlib

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"io"

	"github.com/blockcraft/compress"
	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/internal/prefix"
)

type readerState int

const (
	stateHeader readerState = iota
	stateBody
	stateTrailer
)

// Reader is an io.ReadCloser that decompresses a ZLib stream.
// Exactly the bytes of the stream are consumed from the underlying reader.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd    compress.BufferedReader
	fr    flate.Reader
	hash  hash.Hash32
	state readerState
	err   error // Persistent error

	hdr     [2]byte
	trailer [4]byte
	cnt     int // Bytes of hdr or trailer collected so far
}

// NewReader creates a Reader and reads the stream header from r.
func NewReader(r io.Reader) (*Reader, error) {
	zr := new(Reader)
	if err := zr.Reset(r); err != nil {
		return nil, err
	}
	return zr, nil
}

// Reset discards the Reader's state and reads a new stream header from r.
//
// If r has no data available yet (reads return no bytes and no error), the
// header is completed by a later call to Read instead.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{
		rd:   prefix.Buffered(r),
		fr:   zr.fr,
		hash: zr.hash,
	}
	if zr.hash == nil {
		zr.hash = adler32.New()
	}
	zr.hash.Reset()

	if _, err := zr.readHeader(); err != nil {
		zr.err = err
		return err
	}
	return nil
}

// collect continues filling dst from the input. It reports false with a nil
// error if the source had no data to offer.
func (zr *Reader) collect(dst []byte) (bool, error) {
	n, err := prefix.Fill(zr.rd, dst[zr.cnt:])
	zr.cnt += n
	zr.InputOffset += int64(n)
	switch {
	case err == io.EOF:
		return false, ErrTruncatedInput
	case err != nil:
		return false, err
	}
	return zr.cnt == len(dst), nil
}

func (zr *Reader) readHeader() (bool, error) {
	if ok, err := zr.collect(zr.hdr[:]); !ok {
		return false, err
	}
	if err := checkHeader(zr.hdr[0], zr.hdr[1]); err != nil {
		return false, err
	}
	zr.fr.Reset(zr.rd)
	zr.state, zr.cnt = stateBody, 0
	return true, nil
}

func checkHeader(cmf, flg byte) error {
	switch {
	case (uint(cmf)<<8|uint(flg))%31 != 0:
		return ErrHeader
	case cmf&0x0f != zlibDeflate || cmf>>4 > zlibMaxWindow:
		return ErrMethod
	case flg&zlibDictFlag != 0:
		return ErrDictionary
	}
	return nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for zr.err == nil {
		switch zr.state {
		case stateHeader:
			ok, err := zr.readHeader()
			if err != nil {
				zr.err = err
				continue
			}
			if !ok {
				return 0, nil
			}

		case stateTrailer:
			ok, err := zr.collect(zr.trailer[:])
			if err != nil {
				zr.err = err
				continue
			}
			if !ok {
				return 0, nil
			}
			if binary.BigEndian.Uint32(zr.trailer[:]) != zr.hash.Sum32() {
				zr.err = ErrChecksum
				continue
			}
			zr.err = io.EOF

		default:
			in0 := zr.fr.InputOffset
			n, err := zr.fr.Read(buf)
			zr.InputOffset += zr.fr.InputOffset - in0
			zr.OutputOffset += int64(n)
			zr.hash.Write(buf[:n])

			switch {
			case err == io.EOF:
				zr.state, zr.cnt = stateTrailer, 0
			case err != nil:
				zr.err = err
			}
			if n > 0 || len(buf) == 0 {
				return n, nil
			}
			if err == nil {
				// The source had nothing to offer right now.
				return 0, nil
			}
		}
	}
	return 0, zr.err
}

// Close ends the use of the Reader. It does not close the underlying reader.
func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == ErrClosed || zr.err == nil {
		zr.err = ErrClosed
		return nil
	}
	err := zr.err
	zr.err = ErrClosed
	return err
}
