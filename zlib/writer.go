// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlib

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"io"

	"github.com/blockcraft/compress/flate"
)

// Writer is an io.WriteCloser that compresses data into a ZLib stream.
type Writer struct {
	wr          io.Writer
	fw          flate.Writer
	hash        hash.Hash32
	wroteHeader bool
	err         error // Persistent error
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
	if zw.hash == nil {
		zw.hash = adler32.New()
	}
	zw.hash.Reset()
	zw.wr = w
	zw.fw.Reset(w)
	zw.wroteHeader = false
	zw.err = nil
	return nil
}

func (zw *Writer) writeHeader() error {
	zw.wroteHeader = true
	_, err := zw.wr.Write([]byte{0x78, 0x9c})
	return err
}

func (zw *Writer) Write(buf []byte) (int, error) {
	if zw.err != nil {
		return 0, zw.err
	}
	if !zw.wroteHeader {
		if zw.err = zw.writeHeader(); zw.err != nil {
			return 0, zw.err
		}
	}
	n, err := zw.fw.Write(buf)
	zw.hash.Write(buf[:n])
	if err != nil {
		zw.err = err
	}
	return n, err
}

// Close finishes the stream and writes the Adler-32 trailer.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == ErrClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	if !zw.wroteHeader {
		if zw.err = zw.writeHeader(); zw.err != nil {
			return zw.err
		}
	}
	if zw.err = zw.fw.Close(); zw.err != nil {
		return zw.err
	}
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], zw.hash.Sum32())
	if _, zw.err = zw.wr.Write(trailer[:]); zw.err != nil {
		return zw.err
	}
	zw.err = ErrClosed
	return nil
}
