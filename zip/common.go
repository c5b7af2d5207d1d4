// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package zip reads and writes ZIP archives.
//
// Only the Store and Deflate methods are supported. ZIP64 archives,
// encryption and multi-disk archives are not.
package zip

import (
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/blockcraft/compress/internal/errors"
)

// Compression methods.
const (
	Store   uint16 = 0
	Deflate uint16 = 8
)

const (
	sigLocalHeader    = 0x04034b50
	sigCentralDir     = 0x02014b50
	sigEndOfCentral   = 0x06054b50
	sigDataDescriptor = 0x08074b50

	localHeaderLen    = 30
	centralDirLen     = 46
	endOfCentralLen   = 22
	dataDescriptorLen = 16
	maxCommentLen     = 0xffff

	flagDataDescriptor = 0x0008
	flagUTF8           = 0x0800

	zipVersion = 20

	// MaxNameLen is the longest file name accepted in an archive.
	MaxNameLen = 512

	// DefaultMaxEntries is the number of entries an Extractor keeps when
	// MaxEntries is zero.
	DefaultMaxEntries = 2048
)

func errorf(c int, msg string) error {
	return errors.Error{Code: c, Pkg: "zip", Msg: msg}
}

var (
	// ErrFilenameTooLong reports an entry name longer than MaxNameLen.
	ErrFilenameTooLong = errorf(errors.Invalid, "file name too long")

	// ErrTooManyEntries reports an archive with more selected entries than
	// the Extractor allows, or a Writer past the 65535 entry limit.
	ErrTooManyEntries = errorf(errors.Invalid, "too many entries")

	// ErrMissingEndOfCentralDirectory reports that no end of central
	// directory record was found near the end of the input.
	ErrMissingEndOfCentralDirectory = errorf(errors.Corrupted, "end of central directory not found")

	// ErrBadCentralDirectory reports a malformed or truncated central
	// directory record.
	ErrBadCentralDirectory = errorf(errors.Corrupted, "invalid central directory record")

	// ErrBadLocalHeader reports a local file header with the wrong signature.
	ErrBadLocalHeader = errorf(errors.Corrupted, "invalid local file header")

	// ErrChecksum reports an entry body whose CRC-32 does not match.
	ErrChecksum = errorf(errors.Corrupted, "checksum mismatch")

	// ErrArchiveTooLarge reports a Writer whose output would need ZIP64.
	ErrArchiveTooLarge = errorf(errors.Invalid, "archive exceeds 4 GiB")

	// ErrClosed reports the use of a Writer after Close.
	ErrClosed = errorf(errors.Closed, "")
)

// Entry describes one archive member.
type Entry struct {
	Name              string
	Method            uint16
	Modified          time.Time
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	LocalHeaderOffset uint32
}

// decodeName converts a raw file name to UTF-8. Names without the UTF-8 flag
// are in code page 437.
func decodeName(b []byte, flags uint16) string {
	if flags&flagUTF8 != 0 {
		return string(b)
	}
	s, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// encodeName returns the raw bytes for name and the flags they require.
func encodeName(name string) ([]byte, uint16) {
	if b, err := charmap.CodePage437.NewEncoder().Bytes([]byte(name)); err == nil {
		return b, 0
	}
	return []byte(name), flagUTF8
}

// MS-DOS date and time have a two second resolution and start in 1980.
func toDOSTime(t time.Time) (dosDate, dosTime uint16) {
	if t.Year() < 1980 {
		t = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	dosDate = uint16(t.Day() + int(t.Month())<<5 + (t.Year()-1980)<<9)
	dosTime = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return dosDate, dosTime
}

func fromDOSTime(dosDate, dosTime uint16) time.Time {
	return time.Date(
		int(dosDate>>9)+1980,
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f)*2,
		0, time.UTC)
}
