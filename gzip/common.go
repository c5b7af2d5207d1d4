// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package gzip implements the GZip file format, described in RFC 1952,
// on top of the DEFLATE codec in package flate.
package gzip

import (
	"io"
	"time"

	"github.com/blockcraft/compress/internal/errors"
)

const (
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8

	flagText    = 1 << 0
	flagHdrCRC  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
	flagsKnown  = flagText | flagHdrCRC | flagExtra | flagName | flagComment
)

func errorf(c int, msg string) error {
	return errors.Error{Code: c, Pkg: "gzip", Msg: msg}
}

var (
	// ErrHeader reports a member that does not start with the GZip magic.
	ErrHeader = errorf(errors.Corrupted, "invalid header")

	// ErrMethod reports a compression method other than DEFLATE.
	ErrMethod = errorf(errors.Corrupted, "unsupported compression method")

	// ErrFlags reports reserved header flag bits that are set.
	ErrFlags = errorf(errors.Corrupted, "reserved flags set")

	// ErrHeaderChecksum reports a header CRC-16 mismatch.
	ErrHeaderChecksum = errorf(errors.Corrupted, "header checksum mismatch")

	// ErrChecksum reports a CRC-32 mismatch in the trailer.
	ErrChecksum = errorf(errors.Corrupted, "checksum mismatch")

	// ErrSize reports a size mismatch in the trailer.
	ErrSize = errorf(errors.Corrupted, "size mismatch")

	// ErrClosed reports the use of a Reader or Writer after Close.
	ErrClosed = errorf(errors.Closed, "")

	// ErrTruncatedInput reports that the input ended in the middle of a member.
	ErrTruncatedInput = io.ErrUnexpectedEOF
)

// Header holds the optional metadata of a GZip member.
type Header struct {
	Comment string    // Comment, decoded from ISO 8859-1
	Extra   []byte    // Extra field payload; nil when absent
	ModTime time.Time // Modification time; zero when unset
	Name    string    // Original file name, decoded from ISO 8859-1
	OS      byte      // Operating system that produced the member
}
