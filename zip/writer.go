// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zip

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"
	"time"

	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/internal/errors"
)

// Writer creates a ZIP archive on an io.Writer that need not be seekable.
// The sizes and CRC-32 of every entry follow its data in a data descriptor.
type Writer struct {
	// Modified is the timestamp recorded for subsequently created entries.
	// If zero, the time of the call to Create is used.
	Modified time.Time

	cw      countWriter
	fw      flate.Writer
	entries []writerEntry
	cur     *entryWriter
	err     error // Persistent error
}

type writerEntry struct {
	Entry
	rawName []byte
	flags   uint16
	dosDate uint16
	dosTime uint16
}

// NewWriter returns a Writer that writes an archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: countWriter{w: w}}
}

// Create adds an entry named name using the given compression method and
// returns a writer for its contents. The writer is valid until the next call
// to Create or Close.
func (zw *Writer) Create(name string, method uint16) (io.Writer, error) {
	if zw.err != nil {
		return nil, zw.err
	}
	if zw.err = zw.finishEntry(); zw.err != nil {
		return nil, zw.err
	}
	if method != Store && method != Deflate {
		return nil, errorf(errors.Invalid, "unsupported compression method")
	}
	rawName, flags := encodeName(name)
	if len(rawName) > MaxNameLen {
		return nil, ErrFilenameTooLong
	}
	if len(zw.entries) >= math.MaxUint16 {
		return nil, ErrTooManyEntries
	}
	if zw.cw.n > math.MaxUint32 {
		zw.err = ErrArchiveTooLarge
		return nil, zw.err
	}

	mod := zw.Modified
	if mod.IsZero() {
		mod = time.Now()
	}
	we := writerEntry{
		Entry: Entry{
			Name:              name,
			Method:            method,
			Modified:          mod,
			LocalHeaderOffset: uint32(zw.cw.n),
		},
		rawName: rawName,
		flags:   flags | flagDataDescriptor,
	}
	we.dosDate, we.dosTime = toDOSTime(mod)

	var hdr [localHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(hdr[0:], sigLocalHeader)
	le.PutUint16(hdr[4:], zipVersion)
	le.PutUint16(hdr[6:], we.flags)
	le.PutUint16(hdr[8:], method)
	le.PutUint16(hdr[10:], we.dosTime)
	le.PutUint16(hdr[12:], we.dosDate)
	// CRC-32 and sizes are left zero.
	le.PutUint16(hdr[26:], uint16(len(rawName)))
	if _, zw.err = zw.cw.Write(append(hdr[:], rawName...)); zw.err != nil {
		return nil, zw.err
	}

	zw.entries = append(zw.entries, we)
	ew := &entryWriter{zw: zw, start: zw.cw.n, dst: &zw.cw}
	if method == Deflate {
		zw.fw.Reset(&zw.cw)
		ew.dst = &zw.fw
	}
	zw.cur = ew
	return ew, nil
}

// finishEntry completes the current entry and writes its data descriptor.
func (zw *Writer) finishEntry() error {
	ew := zw.cur
	if ew == nil {
		return nil
	}
	zw.cur = nil
	ew.closed = true
	if ew.dst == &zw.fw {
		if err := zw.fw.Close(); err != nil {
			return err
		}
	}

	csize := zw.cw.n - ew.start
	if csize > math.MaxUint32 || ew.size > math.MaxUint32 {
		return ErrArchiveTooLarge
	}
	we := &zw.entries[len(zw.entries)-1]
	we.CRC32 = ew.crc
	we.CompressedSize = uint32(csize)
	we.UncompressedSize = uint32(ew.size)

	var desc [dataDescriptorLen]byte
	le := binary.LittleEndian
	le.PutUint32(desc[0:], sigDataDescriptor)
	le.PutUint32(desc[4:], we.CRC32)
	le.PutUint32(desc[8:], we.CompressedSize)
	le.PutUint32(desc[12:], we.UncompressedSize)
	_, err := zw.cw.Write(desc[:])
	return err
}

// Close finishes the last entry and writes the central directory.
// It does not close the underlying io.Writer.
func (zw *Writer) Close() error {
	if zw.err == ErrClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	if zw.err = zw.finishEntry(); zw.err != nil {
		return zw.err
	}

	dirStart := zw.cw.n
	le := binary.LittleEndian
	for _, we := range zw.entries {
		var hdr [centralDirLen]byte
		le.PutUint32(hdr[0:], sigCentralDir)
		le.PutUint16(hdr[4:], zipVersion)
		le.PutUint16(hdr[6:], zipVersion)
		le.PutUint16(hdr[8:], we.flags)
		le.PutUint16(hdr[10:], we.Method)
		le.PutUint16(hdr[12:], we.dosTime)
		le.PutUint16(hdr[14:], we.dosDate)
		le.PutUint32(hdr[16:], we.CRC32)
		le.PutUint32(hdr[20:], we.CompressedSize)
		le.PutUint32(hdr[24:], we.UncompressedSize)
		le.PutUint16(hdr[28:], uint16(len(we.rawName)))
		le.PutUint32(hdr[42:], we.LocalHeaderOffset)
		if _, zw.err = zw.cw.Write(append(hdr[:], we.rawName...)); zw.err != nil {
			return zw.err
		}
	}
	dirEnd := zw.cw.n
	if dirEnd > math.MaxUint32 {
		zw.err = ErrArchiveTooLarge
		return zw.err
	}

	var eocd [endOfCentralLen]byte
	le.PutUint32(eocd[0:], sigEndOfCentral)
	le.PutUint16(eocd[8:], uint16(len(zw.entries)))
	le.PutUint16(eocd[10:], uint16(len(zw.entries)))
	le.PutUint32(eocd[12:], uint32(dirEnd-dirStart))
	le.PutUint32(eocd[16:], uint32(dirStart))
	if _, zw.err = zw.cw.Write(eocd[:]); zw.err != nil {
		return zw.err
	}
	zw.err = ErrClosed
	return nil
}

// Entries returns the entries written so far.
func (zw *Writer) Entries() []Entry {
	es := make([]Entry, len(zw.entries))
	for i, we := range zw.entries {
		es[i] = we.Entry
	}
	return es
}

type entryWriter struct {
	zw     *Writer
	dst    io.Writer
	start  int64
	crc    uint32
	size   int64
	closed bool
}

func (ew *entryWriter) Write(buf []byte) (int, error) {
	if ew.closed {
		return 0, ErrClosed
	}
	if ew.zw.err != nil {
		return 0, ew.zw.err
	}
	n, err := ew.dst.Write(buf)
	ew.crc = crc32.Update(ew.crc, crc32.IEEETable, buf[:n])
	ew.size += int64(n)
	if err != nil {
		ew.zw.err = err
	}
	return n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(buf []byte) (int, error) {
	n, err := cw.w.Write(buf)
	cw.n += int64(n)
	return n, err
}
