// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/blockcraft/compress"
	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/internal/prefix"
)

// Reader is an io.ReadCloser that decompresses GZip data.
//
// Header holds the metadata of the member currently being read. By default a
// Reader reads concatenated members as one stream; see Multistream.
type Reader struct {
	Header

	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd          compress.BufferedReader
	fr          flate.Reader
	hp          headerParser
	members     int // Number of members whose header has been read
	crc         uint32
	size        uint32
	multistream bool

	inTrailer bool
	trailer   [8]byte
	ntrail    int // Number of trailer bytes collected so far
	err         error // Persistent error
}

// NewReader creates a Reader and reads the header of the first member.
func NewReader(r io.Reader) (*Reader, error) {
	zr := new(Reader)
	if err := zr.Reset(r); err != nil {
		return nil, err
	}
	return zr, nil
}

// Reset discards the Reader's state and reads the first member header from r.
//
// If r has no data available yet (reads return no bytes and no error), the
// header is completed by a later call to Read instead.
func (zr *Reader) Reset(r io.Reader) error {
	*zr = Reader{
		rd:          prefix.Buffered(r),
		fr:          zr.fr,
		hp:          zr.hp,
		multistream: true,
	}
	zr.hp.reset()
	if _, err := zr.readHeader(); err != nil {
		if err == io.EOF {
			err = ErrTruncatedInput
		}
		zr.err = err
		return err
	}
	return nil
}

// Multistream controls whether the Reader continues with the next member
// after the end of the current one. Disabling it lets a caller inspect each
// member in turn; call Reset on the same underlying reader to move on.
func (zr *Reader) Multistream(ok bool) {
	zr.multistream = ok
}

// readHeader continues parsing a member header. It reports false with a nil
// error if the source had no data to offer. It returns io.EOF if the input
// ends cleanly where another member could have started.
func (zr *Reader) readHeader() (bool, error) {
	for !zr.hp.done() {
		b, err := prefix.PeekAvailable(zr.rd)
		if len(b) == 0 {
			switch {
			case err == io.EOF && zr.hp.state == hdrID1 && zr.members > 0:
				return false, io.EOF
			case err == io.EOF:
				return false, ErrTruncatedInput
			case err == nil || err == io.ErrNoProgress:
				return false, nil
			default:
				return false, err
			}
		}
		n, err := zr.hp.parse(b)
		zr.rd.Discard(n)
		zr.InputOffset += int64(n)
		if err != nil {
			return false, err
		}
	}

	zr.members++
	zr.Header = zr.hp.hdr
	zr.crc, zr.size = 0, 0
	zr.fr.Reset(zr.rd)
	return true, nil
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for zr.err == nil {
		if !zr.hp.done() {
			ok, err := zr.readHeader()
			if err != nil {
				zr.err = err
				break
			}
			if !ok {
				return 0, nil
			}
		}
		if zr.inTrailer {
			ok, err := zr.readTrailer()
			if err != nil {
				zr.err = err
				break
			}
			if !ok {
				return 0, nil
			}
			continue
		}

		in0 := zr.fr.InputOffset
		n, err := zr.fr.Read(buf)
		zr.InputOffset += zr.fr.InputOffset - in0
		zr.OutputOffset += int64(n)
		zr.crc = crc32.Update(zr.crc, crc32.IEEETable, buf[:n])
		zr.size += uint32(n)

		switch {
		case err == io.EOF:
			zr.inTrailer, zr.ntrail = true, 0
		case err != nil:
			zr.err = err
		}
		if n > 0 || len(buf) == 0 {
			return n, nil
		}
		if err == nil {
			// The source had nothing to offer right now.
			return 0, nil
		}
	}
	return 0, zr.err
}

// readTrailer collects and verifies the member trailer. It reports false with
// a nil error if the source had no data to offer. It returns io.EOF if no
// further member should be read.
func (zr *Reader) readTrailer() (bool, error) {
	n, err := prefix.Fill(zr.rd, zr.trailer[zr.ntrail:])
	zr.ntrail += n
	zr.InputOffset += int64(n)
	switch {
	case err == io.EOF:
		return false, ErrTruncatedInput
	case err != nil:
		return false, err
	case zr.ntrail < len(zr.trailer):
		return false, nil
	}

	zr.inTrailer = false
	if binary.LittleEndian.Uint32(zr.trailer[0:]) != zr.crc {
		return false, ErrChecksum
	}
	if binary.LittleEndian.Uint32(zr.trailer[4:]) != zr.size {
		return false, ErrSize
	}
	if !zr.multistream {
		return false, io.EOF
	}
	zr.hp.reset()
	return true, nil
}

// Close ends the use of the Reader. It does not close the underlying reader.
func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == ErrClosed || zr.err == nil {
		zr.err = ErrClosed
		return nil
	}
	err := zr.err
	zr.err = ErrClosed
	return err
}
