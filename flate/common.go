// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package flate implements the DEFLATE compressed data format,
// described in RFC 1951.
//
// The Inflater is a resumable decoding engine that works on caller-supplied
// input and output slices. Reader adapts it to io.Reader. Writer produces a
// single fixed-Huffman block using LZ77 with hash chains and lazy matching.
package flate

import (
	"io"

	"github.com/blockcraft/compress/internal/errors"
	"github.com/blockcraft/compress/internal/prefix"
)

const (
	maxHistSize = 1 << 15
	endBlockSym = 256

	minMatchLen = 3
	maxMatchLen = 258
)

func errorf(c int, msg string) error {
	return errors.Error{Code: c, Pkg: "flate", Msg: msg}
}

var (
	// ErrInvalidBlockType reports the reserved block type 3.
	ErrInvalidBlockType = errorf(errors.Corrupted, "invalid block type")

	// ErrBadStoredBlockLength reports a stored block whose length does not
	// match the complement that follows it.
	ErrBadStoredBlockLength = errorf(errors.Corrupted, "stored block length mismatch")

	// ErrTooManyHuffmanCodes reports a code with more codes of some length
	// than that length can represent.
	ErrTooManyHuffmanCodes = errorf(errors.Corrupted, "too many huffman codes")

	// ErrInvalidHuffmanCode reports an unusable code or a code word that
	// does not map to a valid symbol.
	ErrInvalidHuffmanCode = errorf(errors.Corrupted, "invalid huffman code")

	// ErrRepeatWithNoPriorLength reports a code length repeat (symbol 16)
	// before any code length was read.
	ErrRepeatWithNoPriorLength = errorf(errors.Corrupted, "repeat with no prior length")

	// ErrRepeatCountOverflow reports a code length repeat that runs past the
	// number of declared lengths.
	ErrRepeatCountOverflow = errorf(errors.Corrupted, "repeat count overflow")

	// ErrInvalidDistance reports a back-reference to before the start of
	// the output.
	ErrInvalidDistance = errorf(errors.Corrupted, "invalid distance")

	// ErrClosed reports the use of a Reader or Writer after Close.
	ErrClosed = errorf(errors.Closed, "")

	// ErrTruncatedInput reports that the input ended in the middle of the
	// stream.
	ErrTruncatedInput = io.ErrUnexpectedEOF
)

// prefixError converts errors from building or decoding a prefix code.
func prefixError(err error) error {
	if err == prefix.ErrTooManyCodes {
		return ErrTooManyHuffmanCodes
	}
	return ErrInvalidHuffmanCode
}
