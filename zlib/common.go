// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package zlib implements the ZLib data format, described in RFC 1950,
// on top of the DEFLATE codec in package flate.
package zlib

import (
	"io"

	"github.com/blockcraft/compress/internal/errors"
)

const (
	zlibDeflate   = 8
	zlibMaxWindow = 7 // log2(32 KiB) - 8
	zlibDictFlag  = 0x20
)

func errorf(c int, msg string) error {
	return errors.Error{Code: c, Pkg: "zlib", Msg: msg}
}

var (
	// ErrHeader reports a header whose check bits are wrong.
	ErrHeader = errorf(errors.Corrupted, "invalid header")

	// ErrMethod reports a compression method other than DEFLATE or a window
	// larger than 32 KiB.
	ErrMethod = errorf(errors.Corrupted, "unsupported compression method")

	// ErrDictionary reports a stream that requires a preset dictionary.
	ErrDictionary = errorf(errors.Invalid, "preset dictionary not supported")

	// ErrChecksum reports an Adler-32 mismatch in the trailer.
	ErrChecksum = errorf(errors.Corrupted, "checksum mismatch")

	// ErrClosed reports the use of a Reader or Writer after Close.
	ErrClosed = errorf(errors.Closed, "")

	// ErrTruncatedInput reports that the input ended before the trailer.
	ErrTruncatedInput = io.ErrUnexpectedEOF
)
