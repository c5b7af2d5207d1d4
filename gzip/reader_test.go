// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockcraft/compress/internal/testutil"
)

const (
	hiHeader  = "1f8b08000000000000ff"
	hiBody    = "010200fdff6869"
	hiTrailer = "ac2a93d802000000"
	hiMember  = hiHeader + hiBody + hiTrailer
)

func TestReader(t *testing.T) {
	dh := testutil.MustDecodeHex

	var vectors = []struct {
		desc   string
		input  []byte
		output []byte
		inIdx  int64
		err    error
	}{{
		desc: "empty input",
		err:  ErrTruncatedInput,
	}, {
		desc:   "stored member",
		input:  dh(hiMember),
		output: []byte("hi"),
		inIdx:  25,
	}, {
		desc:   "two members",
		input:  dh(hiMember + hiMember),
		output: []byte("hihi"),
		inIdx:  50,
	}, {
		desc:   "header checksum",
		input:  dh("1f8b08020000000000ff" + "90c9" + hiBody + hiTrailer),
		output: []byte("hi"),
		inIdx:  27,
	}, {
		desc:  "header checksum mismatch",
		input: dh("1f8b08020000000000ff" + "91c9" + hiBody + hiTrailer),
		err:   ErrHeaderChecksum,
	}, {
		desc:  "bad magic",
		input: dh("1f8c08000000000000ff" + hiBody + hiTrailer),
		err:   ErrHeader,
	}, {
		desc:  "unknown method",
		input: dh("1f8b07000000000000ff" + hiBody + hiTrailer),
		err:   ErrMethod,
	}, {
		desc:  "reserved flag",
		input: dh("1f8b08200000000000ff" + hiBody + hiTrailer),
		err:   ErrFlags,
	}, {
		desc:   "checksum mismatch",
		input:  dh(hiHeader + hiBody + "ad2a93d802000000"),
		output: []byte("hi"),
		err:    ErrChecksum,
	}, {
		desc:   "size mismatch",
		input:  dh(hiHeader + hiBody + "ac2a93d803000000"),
		output: []byte("hi"),
		err:    ErrSize,
	}, {
		desc:   "truncated trailer",
		input:  dh(hiHeader + hiBody + "ac2a93"),
		output: []byte("hi"),
		err:    ErrTruncatedInput,
	}, {
		desc:  "truncated header",
		input: dh("1f8b0800000000"),
		err:   ErrTruncatedInput,
	}, {
		desc:   "garbage after member",
		input:  dh(hiMember + "00"),
		output: []byte("hi"),
		err:    ErrHeader,
	}}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			zr, err := NewReader(bytes.NewReader(v.input))
			var output []byte
			if err == nil {
				output, err = io.ReadAll(zr)
				if err == nil {
					assert.Equal(t, v.inIdx, zr.InputOffset)
					assert.Equal(t, int64(len(output)), zr.OutputOffset)
				}
			}
			assert.Equal(t, v.err, err)
			assert.Equal(t, string(v.output), string(output))
		})
	}
}

func TestReaderHeaderFields(t *testing.T) {
	input := testutil.MustDecodeHex(
		"1f8b081e00000000000304006162000166e92e747874006300" + "d577" + hiBody + hiTrailer)

	// The header must parse the same no matter how the input is split up.
	for name, r := range map[string]io.Reader{
		"whole":       bytes.NewReader(input),
		"one byte":    iotest.OneByteReader(bytes.NewReader(input)),
		"with stalls": &testutil.StallReader{R: bytes.NewReader(input)},
	} {
		t.Run(name, func(t *testing.T) {
			zr, err := NewReader(r)
			require.NoError(t, err)
			got, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, "hi", string(got))
			assert.Equal(t, "fé.txt", zr.Name)
			assert.Equal(t, "c", zr.Comment)
			assert.Equal(t, []byte("ab\x00\x01"), zr.Extra)
			assert.Equal(t, byte(3), zr.OS)
			assert.True(t, zr.ModTime.IsZero())
			assert.Equal(t, int64(len(input)), zr.InputOffset)
			assert.NoError(t, zr.Close())
		})
	}
}

func TestReaderSingleStream(t *testing.T) {
	input := testutil.MustDecodeHex(hiMember + "ffff")
	br := bytes.NewReader(input)

	zr, err := NewReader(br)
	require.NoError(t, err)
	zr.Multistream(false)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	// Exactly the member is consumed; the trailing bytes are left alone.
	assert.Equal(t, 2, br.Len())
}

func TestReaderWaitingSource(t *testing.T) {
	input := testutil.MustDecodeHex(hiMember)

	// Input is withheld from the given offset on: inside the header, at the
	// start of the body, before the trailer and inside the trailer.
	for _, cut := range []int{0, 4, 10, len(input) - 8, len(input) - 3} {
		src := new(testutil.FeedReader)
		src.Feed(input[:cut])

		zr, err := NewReader(src)
		require.NoError(t, err, "cut %d", cut)
		var got []byte
		buf := make([]byte, 64)
		for i := 0; i < 3; i++ {
			n, err := zr.Read(buf)
			require.NoError(t, err, "cut %d", cut)
			got = append(got, buf[:n]...)
		}
		assert.NotZero(t, src.Empty, "cut %d", cut)

		src.Feed(input[cut:])
		src.End()
		rest, err := io.ReadAll(zr)
		require.NoError(t, err, "cut %d", cut)
		assert.Equal(t, "hi", string(got)+string(rest), "cut %d", cut)
		assert.Equal(t, int64(len(input)), zr.InputOffset, "cut %d", cut)
	}
}

func TestReaderClose(t *testing.T) {
	zr, err := NewReader(bytes.NewReader(testutil.MustDecodeHex(hiMember)))
	require.NoError(t, err)
	assert.NoError(t, zr.Close())
	assert.NoError(t, zr.Close())
	_, err = zr.Read(make([]byte, 1))
	assert.Equal(t, ErrClosed, err)

	zr, err = NewReader(bytes.NewReader(testutil.MustDecodeHex(hiHeader + hiBody + "ad2a93d802000000")))
	require.NoError(t, err)
	_, err = io.ReadAll(zr)
	assert.Equal(t, ErrChecksum, err)
	assert.Equal(t, ErrChecksum, zr.Close())
}
