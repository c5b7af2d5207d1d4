// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zip

import (
	"bufio"
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/blockcraft/compress/flate"
)

// Extractor walks the entries of a ZIP archive.
//
// Entries are chosen by Select while the central directory is read, and then
// handed to Process one at a time in directory order. The body passed to
// Process yields the uncompressed data and reports ErrChecksum at the end if
// the data does not match the recorded CRC-32. Process need not consume the
// whole body.
type Extractor struct {
	// Select reports whether an entry should be kept. A nil Select keeps
	// every entry.
	Select func(name string) bool

	// Process is called for every kept entry that uses a supported method.
	// A non-nil error aborts the extraction.
	Process func(name string, body io.Reader, e *Entry) error

	// MaxEntries bounds the number of kept entries.
	// If zero, DefaultMaxEntries is used.
	MaxEntries int

	// Log receives notices about skipped entries.
	// If nil, the standard logrus logger is used.
	Log logrus.FieldLogger
}

// Extract reads the archive in rs and returns the kept entries.
// On error, the entries kept so far are returned along with it.
func (x *Extractor) Extract(rs io.ReadSeeker) ([]Entry, error) {
	log := x.Log
	if log == nil {
		log = logrus.WithField("pkg", "zip")
	}
	maxEntries := x.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	numEntries, dirOffset, err := findEndOfCentralDir(rs)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"entries": numEntries,
		"offset":  dirOffset,
	}).Debug("found central directory")

	entries, err := x.readCentralDir(rs, numEntries, dirOffset, maxEntries)
	if err != nil {
		return entries, err
	}

	for i := range entries {
		e := &entries[i]
		body, err := openEntry(rs, e)
		if err != nil {
			return entries, err
		}
		if body == nil {
			log.WithFields(logrus.Fields{
				"name":   e.Name,
				"method": e.Method,
			}).Warn("skipping entry with unsupported compression method")
			continue
		}
		if x.Process == nil {
			continue
		}
		if err := x.Process(e.Name, body, e); err != nil {
			return entries, errors.Wrapf(err, "zip: processing %q", e.Name)
		}
	}
	return entries, nil
}

// findEndOfCentralDir locates the end of central directory record, which may
// be followed by a comment of up to 64 KiB.
func findEndOfCentralDir(rs io.ReadSeeker) (numEntries int, dirOffset int64, err error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, errors.Wrap(err, "zip: seek to end")
	}
	if size < endOfCentralLen {
		return 0, 0, ErrMissingEndOfCentralDirectory
	}

	n := int64(endOfCentralLen + maxCommentLen)
	if n > size {
		n = size
	}
	if _, err := rs.Seek(size-n, io.SeekStart); err != nil {
		return 0, 0, errors.Wrap(err, "zip: seek to directory end")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return 0, 0, errors.Wrap(err, "zip: read directory end")
	}

	for i := len(buf) - endOfCentralLen; i >= 0; i-- {
		rec := buf[i:]
		if binary.LittleEndian.Uint32(rec) != sigEndOfCentral {
			continue
		}
		// A signature inside a comment must not claim a comment that runs
		// past the end of the file.
		if commentLen := int(binary.LittleEndian.Uint16(rec[20:])); i+endOfCentralLen+commentLen > len(buf) {
			continue
		}
		numEntries = int(binary.LittleEndian.Uint16(rec[10:]))
		dirOffset = int64(binary.LittleEndian.Uint32(rec[16:]))
		return numEntries, dirOffset, nil
	}
	return 0, 0, ErrMissingEndOfCentralDirectory
}

func (x *Extractor) readCentralDir(rs io.ReadSeeker, numEntries int, dirOffset int64, maxEntries int) ([]Entry, error) {
	if _, err := rs.Seek(dirOffset, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "zip: seek to central directory")
	}
	br := bufio.NewReader(rs)

	var entries []Entry
	var hdr [centralDirLen]byte
	name := make([]byte, 0, MaxNameLen)
	for i := 0; i < numEntries; i++ {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return entries, ErrBadCentralDirectory
		}
		if binary.LittleEndian.Uint32(hdr[0:]) != sigCentralDir {
			return entries, ErrBadCentralDirectory
		}
		flags := binary.LittleEndian.Uint16(hdr[8:])
		nameLen := int(binary.LittleEndian.Uint16(hdr[28:]))
		extraLen := int(binary.LittleEndian.Uint16(hdr[30:]))
		commentLen := int(binary.LittleEndian.Uint16(hdr[32:]))
		if nameLen > MaxNameLen {
			return entries, ErrFilenameTooLong
		}

		name = name[:nameLen]
		if _, err := io.ReadFull(br, name); err != nil {
			return entries, ErrBadCentralDirectory
		}
		if _, err := br.Discard(extraLen + commentLen); err != nil {
			return entries, ErrBadCentralDirectory
		}

		e := Entry{Name: decodeName(name, flags)}
		if x.Select != nil && !x.Select(e.Name) {
			continue
		}
		if len(entries) >= maxEntries {
			return entries, ErrTooManyEntries
		}
		e.Method = binary.LittleEndian.Uint16(hdr[10:])
		e.Modified = fromDOSTime(binary.LittleEndian.Uint16(hdr[14:]), binary.LittleEndian.Uint16(hdr[12:]))
		e.CRC32 = binary.LittleEndian.Uint32(hdr[16:])
		e.CompressedSize = binary.LittleEndian.Uint32(hdr[20:])
		e.UncompressedSize = binary.LittleEndian.Uint32(hdr[24:])
		e.LocalHeaderOffset = binary.LittleEndian.Uint32(hdr[42:])
		entries = append(entries, e)
	}
	return entries, nil
}

// openEntry positions rs at the body of e and returns a reader of the
// uncompressed data. It returns a nil reader for unsupported methods.
func openEntry(rs io.ReadSeeker, e *Entry) (io.Reader, error) {
	if _, err := rs.Seek(int64(e.LocalHeaderOffset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "zip: seek to %q", e.Name)
	}
	var hdr [localHeaderLen]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		return nil, ErrBadLocalHeader
	}
	if binary.LittleEndian.Uint32(hdr[0:]) != sigLocalHeader {
		return nil, ErrBadLocalHeader
	}
	method := binary.LittleEndian.Uint16(hdr[8:])
	csize := binary.LittleEndian.Uint32(hdr[18:])
	usize := binary.LittleEndian.Uint32(hdr[22:])
	nameLen := int64(binary.LittleEndian.Uint16(hdr[26:]))
	extraLen := int64(binary.LittleEndian.Uint16(hdr[28:]))
	if _, err := rs.Seek(nameLen+extraLen, io.SeekCurrent); err != nil {
		return nil, errors.Wrapf(err, "zip: seek to %q", e.Name)
	}

	// Sizes are zero when they follow the data in a data descriptor.
	if csize == 0 && usize == 0 {
		csize, usize = e.CompressedSize, e.UncompressedSize
	}

	var rd io.Reader
	switch method {
	case Store:
		rd = io.LimitReader(rs, int64(usize))
	case Deflate:
		rd = flate.NewReader(io.LimitReader(rs, int64(csize)))
	default:
		return nil, nil
	}
	return &checksumReader{rd: rd, hash: crc32.NewIEEE(), want: e.CRC32, size: usize}, nil
}

// checksumReader verifies the size and CRC-32 of the data read through it.
type checksumReader struct {
	rd   io.Reader
	hash hash.Hash32
	want uint32
	size uint32
	n    uint32
	err  error
}

func (cr *checksumReader) Read(buf []byte) (int, error) {
	if cr.err != nil {
		return 0, cr.err
	}
	n, err := cr.rd.Read(buf)
	cr.hash.Write(buf[:n])
	cr.n += uint32(n)
	switch {
	case err == io.EOF && cr.n != cr.size:
		err = io.ErrUnexpectedEOF
	case err == io.EOF && cr.hash.Sum32() != cr.want:
		err = ErrChecksum
	}
	cr.err = err
	return n, err
}
