// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/blockcraft/compress"
)

// Buffered returns r as a compress.BufferedReader.
//
// The common in-memory readers are extended in place so that reads through
// the result and through r stay in sync. Any other reader is wrapped in a
// bufio.Reader, which may read ahead of what the caller consumes.
func Buffered(r io.Reader) compress.BufferedReader {
	switch rr := r.(type) {
	case compress.BufferedReader:
		return rr
	case *bytes.Buffer:
		return &buffer{Buffer: rr}
	case *bytes.Reader:
		return newPeekReader(rr)
	case *strings.Reader:
		return newPeekReader(rr)
	default:
		return bufio.NewReader(r)
	}
}

// PeekAvailable returns the input already buffered in r, filling the buffer
// first if it is empty. When the source has nothing to offer right now it
// returns no data and either a nil error or io.ErrNoProgress.
func PeekAvailable(r compress.BufferedReader) ([]byte, error) {
	n := r.Buffered()
	if n == 0 {
		if b, err := r.Peek(1); len(b) == 0 {
			return nil, err
		}
		n = r.Buffered()
	}
	return r.Peek(n)
}

// Fill consumes input from r into dst and returns the number of bytes copied.
// It returns early with a nil error if the source has no data available yet,
// so a fixed-size field can be collected over several calls. It returns
// io.EOF if the input ends before dst is full.
func Fill(r compress.BufferedReader, dst []byte) (int, error) {
	var n int
	for n < len(dst) {
		b, err := PeekAvailable(r)
		if len(b) == 0 {
			if err == nil || err == io.ErrNoProgress {
				return n, nil
			}
			return n, err
		}
		cnt := copy(dst[n:], b)
		r.Discard(cnt)
		n += cnt
	}
	return n, nil
}

type buffer struct {
	*bytes.Buffer
}

func (r *buffer) Buffered() int {
	return r.Len()
}

func (r *buffer) Peek(n int) ([]byte, error) {
	b := r.Bytes()
	if len(b) < n {
		return b, io.EOF
	}
	return b[:n], nil
}

func (r *buffer) Discard(n int) (int, error) {
	b := r.Next(n)
	if len(b) < n {
		return len(b), io.EOF
	}
	return n, nil
}

// readerAtSeeker is the common subset of bytes.Reader and strings.Reader.
type readerAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	Len() int
}

// peekReader serves Peek from a small window copied out with ReadAt,
// leaving the position of the wrapped reader untouched until Discard.
type peekReader struct {
	readerAtSeeker
	pos int64 // Offset of buf within the wrapped reader
	buf []byte
	arr [512]byte
}

func newPeekReader(r readerAtSeeker) *peekReader {
	return &peekReader{readerAtSeeker: r}
}

func (r *peekReader) Buffered() int {
	if r.Len() > len(r.arr) {
		return len(r.arr)
	}
	return r.Len()
}

func (r *peekReader) Peek(n int) ([]byte, error) {
	if n > len(r.arr) {
		return nil, io.ErrShortBuffer
	}

	// Return sub-slice of local buffer if possible.
	pos, _ := r.Seek(0, io.SeekCurrent)
	if off := pos - r.pos; off > 0 && off < int64(len(r.buf)) {
		r.buf, r.pos = r.buf[off:], pos
	}
	if len(r.buf) >= n && r.pos == pos {
		return r.buf[:n], nil
	}

	// Fill entire local buffer, and return appropriate sub-slice.
	cnt, err := r.ReadAt(r.arr[:], pos)
	r.buf, r.pos = r.arr[:cnt], pos
	if cnt < n {
		if err == nil {
			err = io.EOF
		}
		return r.arr[:cnt], err
	}
	return r.arr[:n], nil
}

func (r *peekReader) Discard(n int) (int, error) {
	var err error
	if n > r.Len() {
		n, err = r.Len(), io.EOF
	}
	r.Seek(int64(n), io.SeekCurrent)
	return n, err
}
