// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"encoding/binary"
	"hash/crc32"
	"time"

	"golang.org/x/text/encoding/charmap"
)

type headerState int

const (
	hdrID1 headerState = iota
	hdrID2
	hdrMethod
	hdrFlags
	hdrModTime
	hdrXFlags
	hdrOS
	hdrExtraLen
	hdrExtra
	hdrName
	hdrComment
	hdrCRC
	hdrDone
)

// headerParser decodes a member header from input that may arrive in
// arbitrarily small pieces. Each call to parse continues where the previous
// one stopped.
type headerParser struct {
	state     headerState
	flags     byte
	partsRead int     // Bytes read of the current multi-byte field
	parts     [4]byte // Bytes of the current fixed-size field
	extraLen  int
	crc       uint32 // CRC-32 of all header bytes consumed so far
	str       []byte // Name or comment bytes read so far
	hdr       Header
}

func (p *headerParser) reset() {
	*p = headerParser{str: p.str[:0]}
}

func (p *headerParser) done() bool {
	return p.state == hdrDone
}

// parse consumes header bytes from b and returns how many were used.
// It stops early once the header is complete.
func (p *headerParser) parse(b []byte) (n int, err error) {
	for n < len(b) && p.state != hdrDone {
		c := b[n]
		if p.state != hdrCRC {
			p.crc = crc32.Update(p.crc, crc32.IEEETable, b[n:n+1])
		}
		n++

		switch p.state {
		case hdrID1:
			if c != gzipID1 {
				return n, ErrHeader
			}
			p.state = hdrID2
		case hdrID2:
			if c != gzipID2 {
				return n, ErrHeader
			}
			p.state = hdrMethod
		case hdrMethod:
			if c != gzipDeflate {
				return n, ErrMethod
			}
			p.state = hdrFlags
		case hdrFlags:
			if c&^flagsKnown != 0 {
				return n, ErrFlags
			}
			p.flags = c
			p.state = hdrModTime
		case hdrModTime:
			if p.fill(c, 4) {
				if t := binary.LittleEndian.Uint32(p.parts[:]); t > 0 {
					p.hdr.ModTime = time.Unix(int64(t), 0)
				}
				p.state = hdrXFlags
			}
		case hdrXFlags:
			p.state = hdrOS
		case hdrOS:
			p.hdr.OS = c
			p.state = p.nextOptional(hdrOS)
		case hdrExtraLen:
			if p.fill(c, 2) {
				p.extraLen = int(binary.LittleEndian.Uint16(p.parts[:]))
				p.hdr.Extra = make([]byte, 0, p.extraLen)
				p.state = hdrExtra
				if p.extraLen == 0 {
					p.state = p.nextOptional(hdrExtra)
				}
			}
		case hdrExtra:
			p.hdr.Extra = append(p.hdr.Extra, c)
			if len(p.hdr.Extra) == p.extraLen {
				p.state = p.nextOptional(hdrExtra)
			}
		case hdrName, hdrComment:
			if c != 0 {
				p.str = append(p.str, c)
				continue
			}
			s := decodeLatin1(p.str)
			p.str = p.str[:0]
			if p.state == hdrName {
				p.hdr.Name = s
			} else {
				p.hdr.Comment = s
			}
			p.state = p.nextOptional(p.state)
		case hdrCRC:
			if p.fill(c, 2) {
				if binary.LittleEndian.Uint16(p.parts[:]) != uint16(p.crc) {
					return n, ErrHeaderChecksum
				}
				p.state = hdrDone
			}
		}
	}
	return n, nil
}

// fill appends c to the current fixed-size field and reports whether the
// field now holds size bytes.
func (p *headerParser) fill(c byte, size int) bool {
	p.parts[p.partsRead] = c
	p.partsRead++
	if p.partsRead < size {
		return false
	}
	p.partsRead = 0
	return true
}

// nextOptional returns the state of the next optional field that is present
// according to the flags, after the field handled by state s.
func (p *headerParser) nextOptional(s headerState) headerState {
	optional := []struct {
		state headerState
		flag  byte
	}{
		{hdrExtraLen, flagExtra},
		{hdrName, flagName},
		{hdrComment, flagComment},
		{hdrCRC, flagHdrCRC},
	}
	for _, o := range optional {
		if o.state > s && p.flags&o.flag != 0 {
			return o.state
		}
	}
	return hdrDone
}

func decodeLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func encodeLatin1(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}
