// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/blockcraft/compress/internal"
	"github.com/blockcraft/compress/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	var vectors = []struct {
		desc string
		lens []uint8
		err  error
	}{
		{desc: "empty code", lens: []uint8{0, 0, 0}},
		{desc: "single code of length 1", lens: []uint8{0, 1, 0}},
		{desc: "single code of length 2", lens: []uint8{0, 2}, err: ErrInvalidCode},
		{desc: "complete code", lens: []uint8{2, 1, 3, 3}},
		{desc: "three codes of length 1", lens: []uint8{1, 1, 1}, err: ErrTooManyCodes},
		{desc: "over-subscribed", lens: []uint8{1, 2, 2, 2}, err: ErrInvalidCode},
		{desc: "incomplete", lens: []uint8{1, 2, 0, 3}, err: ErrInvalidCode},
		{desc: "length too long", lens: []uint8{16, 1}, err: ErrInvalidCode},
		{desc: "alphabet too large", lens: make([]uint8, MaxSyms+1), err: ErrInvalidCode},
	}
	for _, v := range vectors {
		var tbl Table
		assert.Equal(t, v.err, tbl.Build(v.lens), v.desc)
	}
}

// encode writes the symbols using the canonical codes for lens.
func encode(lens []uint8, syms ...int) (bits uint64, nb uint) {
	codes := make([]uint32, len(lens))
	AssignCodes(lens, codes)
	for _, s := range syms {
		bits |= uint64(codes[s]) << nb
		nb += uint(lens[s])
	}
	return bits, nb
}

func TestDecode(t *testing.T) {
	// RFC 1951, section 3.2.2 example: ABCDEFGH with lengths (3,3,3,3,3,2,4,4).
	lens := []uint8{3, 3, 3, 3, 3, 2, 4, 4}
	var tbl Table
	require.NoError(t, tbl.Build(lens))

	codes := make([]uint32, len(lens))
	AssignCodes(lens, codes)
	want := []uint32{2, 3, 4, 5, 6, 0, 14, 15}
	for i, c := range codes {
		assert.Equal(t, want[i], internal.ReverseUint32N(c, uint(lens[i])), "code of symbol %d", i)
	}

	for sym := range lens {
		bits, nb := encode(lens, sym)
		got, n, err := tbl.Decode(bits, nb)
		require.NoError(t, err)
		assert.Equal(t, uint(sym), got)
		assert.Equal(t, nb, n)

		// Every proper prefix of the code word must ask for more input.
		for k := uint(0); k < nb; k++ {
			_, n, err := tbl.Decode(bits&(1<<k-1), k)
			assert.NoError(t, err)
			assert.Zero(t, n, "symbol %d decoded from %d bits", sym, k)
		}
	}
}

func TestDecodeLongCodes(t *testing.T) {
	// Lengths 1..15 followed by a second 15; the code is complete.
	lens := make([]uint8, 16)
	for i := range lens {
		lens[i] = uint8(i + 1)
	}
	lens[15] = 15

	var tbl Table
	require.NoError(t, tbl.Build(lens))
	for sym := range lens {
		bits, nb := encode(lens, sym, 0)
		got, n, err := tbl.Decode(bits, nb)
		require.NoError(t, err)
		assert.Equal(t, uint(sym), got)
		assert.Equal(t, uint(lens[sym]), n)
	}
}

func TestDecodeMissing(t *testing.T) {
	var tbl Table
	require.NoError(t, tbl.Build([]uint8{0, 1}))
	sym, n, err := tbl.Decode(0, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), sym)
	assert.Equal(t, uint(1), n)
	_, _, err = tbl.Decode(1, 1)
	assert.Equal(t, ErrInvalidCode, err)

	require.NoError(t, tbl.Build(nil))
	assert.True(t, tbl.Empty())
	_, _, err = tbl.Decode(0, 0)
	assert.Equal(t, ErrInvalidCode, err)
}

func TestBuffered(t *testing.T) {
	const data = "the quick brown fox"
	readers := []io.Reader{
		bytes.NewBufferString(data),
		bytes.NewReader([]byte(data)),
		strings.NewReader(data),
		bufio.NewReader(strings.NewReader(data)),
		&testutil.BuggyReader{R: strings.NewReader(data), N: int64(len(data)), Err: io.EOF},
	}
	for i, r := range readers {
		br := Buffered(r)
		b, err := br.Peek(3)
		require.NoError(t, err, "reader %d", i)
		assert.Equal(t, "the", string(b))

		n, err := br.Discard(4)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		rest, err := io.ReadAll(br)
		require.NoError(t, err)
		assert.Equal(t, data[4:], string(rest), "reader %d", i)

		_, err = br.Peek(1)
		assert.Equal(t, io.EOF, err)
	}

	// Reads through the original reader observe the discarded bytes.
	r := strings.NewReader(data)
	br := Buffered(r)
	br.Peek(8)
	br.Discard(10)
	rest, _ := io.ReadAll(r)
	assert.Equal(t, data[10:], string(rest))
}

func TestFill(t *testing.T) {
	src := new(testutil.FeedReader)
	src.Feed([]byte("ab"))
	br := Buffered(src)

	var dst [4]byte
	n, err := Fill(br, dst[:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Nothing more to offer yet.
	n, err = Fill(br, dst[2:])
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	src.Feed([]byte("cdef"))
	src.End()
	n, err = Fill(br, dst[2:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "abcd", string(dst[:]))

	// The rest of the input is left unread.
	n, err = Fill(br, dst[:])
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ef", string(dst[:2]))
}
