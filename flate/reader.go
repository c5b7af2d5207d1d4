// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"io"

	"github.com/blockcraft/compress"
	"github.com/blockcraft/compress/internal/prefix"
)

// Reader is an io.ReadCloser that decompresses a raw DEFLATE stream.
//
// If the underlying reader is a compress.BufferedReader (or one of the
// readers prefix.Buffered knows how to extend), the Reader consumes exactly
// the bytes of the DEFLATE stream and nothing more.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd  compress.BufferedReader
	inf Inflater
	err error // Persistent error
}

// NewReader returns a new Reader that decompresses from r.
func NewReader(r io.Reader) *Reader {
	fr := new(Reader)
	fr.Reset(r)
	return fr
}

// Reset discards the Reader's state and makes it equivalent to the result of
// NewReader, but reading from r instead.
func (fr *Reader) Reset(r io.Reader) error {
	fr.InputOffset, fr.OutputOffset = 0, 0
	fr.rd = prefix.Buffered(r)
	fr.inf.Reset()
	fr.err = nil
	return nil
}

func (fr *Reader) Read(buf []byte) (int, error) {
	if fr.err != nil {
		return 0, fr.err
	}
	if fr.rd == nil {
		return 0, ErrClosed
	}
	if len(buf) == 0 {
		return 0, nil
	}

	for {
		in, rdErr := prefix.PeekAvailable(fr.rd)
		nDst, nSrc, err := fr.inf.Inflate(buf, in)
		if nSrc > 0 {
			fr.rd.Discard(nSrc)
		}
		fr.InputOffset += int64(nSrc)
		fr.OutputOffset += int64(nDst)

		switch {
		case err != nil:
			fr.err = err
			if nDst > 0 {
				return nDst, nil
			}
			return 0, err
		case nDst > 0:
			return nDst, nil
		case nSrc > 0:
			continue
		case rdErr == io.EOF:
			fr.err = ErrTruncatedInput
			return 0, fr.err
		case rdErr == io.ErrNoProgress || rdErr == nil:
			// The source had nothing to offer right now.
			return 0, nil
		default:
			fr.err = rdErr
			return 0, rdErr
		}
	}
}

// Close ends the use of the Reader. It returns the error that stopped
// decoding, if any, unless that was the normal end of the stream.
func (fr *Reader) Close() error {
	if fr.err == io.EOF || fr.err == ErrClosed || fr.rd == nil {
		fr.err = ErrClosed
		return nil
	}
	err := fr.err
	fr.err = ErrClosed
	return err
}
