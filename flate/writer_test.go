// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"io"
	"strings"
	"testing"

	kflate "github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockcraft/compress/internal/testutil"
)

func testInputs() map[string][]byte {
	return map[string][]byte{
		"empty":      nil,
		"one byte":   []byte("x"),
		"max match":  bytes.Repeat([]byte("y"), maxMatchLen),
		"random":     testutil.NewRand(0).Bytes(100 << 10),
		"repeats":    testutil.Repeats(0, 100<<10),
		"text":       []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 3000)),
		"large runs": bytes.Repeat(testutil.NewRand(1).Bytes(40<<10), 5),
	}
}

func deflateBytes(t *testing.T, input []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	n, err := zw.Write(input)
	require.NoError(t, err)
	require.Equal(t, len(input), n)
	require.NoError(t, zw.Close())
	assert.Equal(t, int64(len(input)), zw.InputOffset)
	assert.Equal(t, int64(buf.Len()), zw.OutputOffset)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for name, input := range testInputs() {
		t.Run(name, func(t *testing.T) {
			output := deflateBytes(t, input)

			got, err := io.ReadAll(NewReader(bytes.NewReader(output)))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(input, got), "round trip mismatch")

			// The stream must also be acceptable to an independent decoder.
			got, err = io.ReadAll(kflate.NewReader(bytes.NewReader(output)))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(input, got), "interop decode mismatch")
		})
	}
}

func TestDecodeForeignStreams(t *testing.T) {
	levels := []int{kflate.NoCompression, kflate.BestSpeed, kflate.DefaultCompression, kflate.BestCompression, kflate.HuffmanOnly}
	for name, input := range testInputs() {
		for _, lvl := range levels {
			var buf bytes.Buffer
			zw, err := kflate.NewWriter(&buf, lvl)
			require.NoError(t, err)
			zw.Write(input)
			require.NoError(t, zw.Close())

			got, err := io.ReadAll(NewReader(bytes.NewReader(buf.Bytes())))
			require.NoError(t, err, "%s at level %d", name, lvl)
			assert.True(t, bytes.Equal(input, got), "%s at level %d: output mismatch", name, lvl)
		}
	}
}

func TestWriterEmpty(t *testing.T) {
	assert.Equal(t, []byte{0x03, 0x00}, deflateBytes(t, nil))
}

func TestWriterCompresses(t *testing.T) {
	input := testutil.Repeats(3, 1<<18)
	output := deflateBytes(t, input)
	assert.Less(t, len(output), len(input)/2, "repetitive data did not compress")

	// Fixed codes spend at most 9 bits on a literal.
	random := testutil.NewRand(4).Bytes(1 << 16)
	output = deflateBytes(t, random)
	assert.LessOrEqual(t, len(output), len(random)*9/8+8)
}

func TestWriterChunked(t *testing.T) {
	input := testutil.Repeats(5, 200<<10)
	whole := deflateBytes(t, input)

	var buf bytes.Buffer
	zw := NewWriter(&buf)
	for in := input; len(in) > 0; {
		n := min(len(in), 1+len(in)%4099)
		_, err := zw.Write(in[:n])
		require.NoError(t, err)
		in = in[n:]
	}
	require.NoError(t, zw.Close())
	assert.Equal(t, whole, buf.Bytes(), "output depends on write boundaries")
}

func TestWriterClose(t *testing.T) {
	var buf bytes.Buffer
	zw := NewWriter(&buf)
	zw.Write([]byte("hello"))
	require.NoError(t, zw.Close())
	require.NoError(t, zw.Close())
	_, err := zw.Write([]byte("more"))
	assert.Equal(t, ErrClosed, err)

	zw.Reset(&buf)
	buf.Reset()
	zw.Write([]byte("hello"))
	require.NoError(t, zw.Close())
	got, err := io.ReadAll(NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestWriterError(t *testing.T) {
	want := io.ErrClosedPipe
	bw := &testutil.BuggyWriter{W: io.Discard, N: 100, Err: want}
	zw := NewWriter(bw)
	_, err := zw.Write(testutil.NewRand(6).Bytes(1 << 17))
	assert.Equal(t, want, err)
	assert.Equal(t, want, zw.Close())
}

func TestDistSymbol(t *testing.T) {
	for sym, rec := range distLUT {
		lo, hi := int(rec.base), int(rec.base)+1<<rec.bits-1
		assert.Equal(t, uint(sym), distSymbol(lo), "distance %d", lo)
		assert.Equal(t, uint(sym), distSymbol(hi), "distance %d", hi)
	}
	for n := minMatchLen; n <= maxMatchLen; n++ {
		rec := lenLUT[lenSyms[n]]
		if n < int(rec.base) || n-int(rec.base) >= 1<<rec.bits && !(n == maxMatchLen && rec.bits == 0) {
			t.Errorf("length %d mapped to range [%d, +%d bits)", n, rec.base, rec.bits)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	input := testutil.Repeats(0, 1<<20)
	zw := NewWriter(io.Discard)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		zw.Reset(io.Discard)
		zw.Write(input)
		zw.Close()
	}
}

func BenchmarkDecode(b *testing.B) {
	var buf bytes.Buffer
	zw, _ := kflate.NewWriter(&buf, kflate.DefaultCompression)
	zw.Write(testutil.Repeats(0, 1<<20))
	zw.Close()
	input := buf.Bytes()

	rd := NewReader(nil)
	b.SetBytes(1 << 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rd.Reset(bytes.NewReader(input))
		if _, err := io.Copy(io.Discard, rd); err != nil {
			b.Fatal(err)
		}
	}
}
