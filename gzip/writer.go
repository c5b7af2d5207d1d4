// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/internal/errors"
)

// Writer is an io.WriteCloser that compresses data into a GZip member.
//
// The Header fields are written out before the first compressed byte, so they
// must be set before the first call to Write or Close. With a zero Header the
// member starts with the 10 bytes 1f 8b 08 00 00 00 00 00 00 00.
type Writer struct {
	Header

	wr          io.Writer
	fw          flate.Writer
	crc         uint32
	size        uint32
	wroteHeader bool
	err         error // Persistent error
}

// NewWriter returns a new Writer that compresses to w.
func NewWriter(w io.Writer) *Writer {
	zw := new(Writer)
	zw.Reset(w)
	return zw
}

// Reset discards the Writer's state, including the Header, and makes it
// equivalent to the result of NewWriter, but writing to w instead.
func (zw *Writer) Reset(w io.Writer) error {
	zw.Header = Header{}
	zw.wr = w
	zw.fw.Reset(w)
	zw.crc, zw.size = 0, 0
	zw.wroteHeader = false
	zw.err = nil
	return nil
}

func (zw *Writer) writeHeader() error {
	var flags byte
	var name, comment []byte
	var err error
	if zw.Extra != nil {
		flags |= flagExtra
	}
	if zw.Name != "" {
		if name, err = encodeLatin1(zw.Name); err != nil {
			return errorf(errors.Invalid, "name is not representable in ISO 8859-1")
		}
		flags |= flagName
	}
	if zw.Comment != "" {
		if comment, err = encodeLatin1(zw.Comment); err != nil {
			return errorf(errors.Invalid, "comment is not representable in ISO 8859-1")
		}
		flags |= flagComment
	}
	if len(zw.Extra) > 0xffff {
		return errorf(errors.Invalid, "extra field too long")
	}

	hdr := []byte{gzipID1, gzipID2, gzipDeflate, flags, 0, 0, 0, 0, 0, zw.OS}
	if !zw.ModTime.IsZero() && zw.ModTime.Unix() > 0 {
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(zw.ModTime.Unix()))
	}
	if zw.Extra != nil {
		hdr = binary.LittleEndian.AppendUint16(hdr, uint16(len(zw.Extra)))
		hdr = append(hdr, zw.Extra...)
	}
	if name != nil {
		hdr = append(append(hdr, name...), 0)
	}
	if comment != nil {
		hdr = append(append(hdr, comment...), 0)
	}
	_, err = zw.wr.Write(hdr)
	zw.wroteHeader = true
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
	zw.crc = crc32.Update(zw.crc, crc32.IEEETable, buf[:n])
	zw.size += uint32(n)
	if err != nil {
		zw.err = err
	}
	return n, err
}

// Close finishes the DEFLATE stream and writes the trailer.
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

	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[0:], zw.crc)
	binary.LittleEndian.PutUint32(trailer[4:], zw.size)
	if _, zw.err = zw.wr.Write(trailer[:]); zw.err != nil {
		return zw.err
	}
	zw.err = ErrClosed
	return nil
}
