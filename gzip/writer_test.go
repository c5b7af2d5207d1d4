// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
	"time"

	kgzip "github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockcraft/compress/internal/errors"
	"github.com/blockcraft/compress/internal/testutil"
)

func TestWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	require.NoError(t, zw.Close())
	assert.Equal(t, testutil.MustDecodeHex("1f8b08000000000000000300"+"0000000000000000"), buf.Bytes())
}

func TestWriterRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":   nil,
		"text":    []byte("hello, world\n"),
		"random":  testutil.NewRand(0).Bytes(64 << 10),
		"repeats": testutil.Repeats(1, 200<<10),
	}
	mtime := time.Unix(1500000000, 0)
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			zw := NewWriter(&buf)
			zw.Name = "naïve.txt"
			zw.Comment = "test"
			zw.ModTime = mtime
			zw.Extra = []byte{'x', 'y', 0, 0}
			_, err := zw.Write(input)
			require.NoError(t, err)
			require.NoError(t, zw.Close())

			zr, err := NewReader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			got, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(input, got))
			assert.Equal(t, "naïve.txt", zr.Name)
			assert.Equal(t, "test", zr.Comment)
			assert.True(t, mtime.Equal(zr.ModTime))
			assert.Equal(t, []byte{'x', 'y', 0, 0}, zr.Extra)

			kr, err := kgzip.NewReader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			got, err = io.ReadAll(kr)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(input, got))
			assert.Equal(t, "naïve.txt", kr.Name)
			assert.Equal(t, "test", kr.Comment)
		})
	}
}

func TestDecodeForeignMembers(t *testing.T) {
	input := testutil.Repeats(2, 100<<10)
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		kw := kgzip.NewWriter(&buf)
		kw.Name = "part"
		_, err := kw.Write(input)
		require.NoError(t, err)
		require.NoError(t, kw.Close())
	}

	zr, err := NewReader(iotest.OneByteReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(bytes.Repeat(input, 3), got))
	assert.Equal(t, "part", zr.Name)
	assert.Equal(t, int64(buf.Len()), zr.InputOffset)
}

func TestWriterUnencodableName(t *testing.T) {
	zw := NewWriter(io.Discard)
	zw.Name = "日本"
	_, err := zw.Write([]byte("x"))
	assert.True(t, errors.IsInvalid(err), "got %v", err)
	assert.Equal(t, err, zw.Close())

	zw.Reset(io.Discard)
	zw.Extra = make([]byte, 1<<16)
	assert.True(t, errors.IsInvalid(zw.Close()))
}

func TestWriterClose(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	require.NoError(t, zw.Close())
	assert.NoError(t, zw.Close())
	_, err := zw.Write([]byte("x"))
	assert.Equal(t, ErrClosed, err)

	buf.Reset()
	require.NoError(t, zw.Reset(&buf))
	_, err = zw.Write([]byte("again"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zr, err := NewReader(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "again", string(got))
}
