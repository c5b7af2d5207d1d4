// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"bytes"
	"io"
	"testing"

	kflate "github.com/klauspost/compress/flate"

	"github.com/blockcraft/compress/internal/errors"
	"github.com/blockcraft/compress/internal/testutil"
)

// FuzzDecoders checks that this decoder and an independent one agree on
// arbitrary input. Both may reject it, but if both accept it then they must
// produce the same output.
func FuzzDecoders(f *testing.F) {
	f.Add(testutil.MustDecodeHex("010100feff11"))
	f.Add(testutil.MustDecodeHex("0300"))
	f.Add(testutil.MustDecodeHex("4b4c4a4e490500"))
	var buf bytes.Buffer
	zw, _ := kflate.NewWriter(&buf, kflate.BestCompression)
	zw.Write(testutil.Repeats(0, 4<<10))
	zw.Close()
	f.Add(buf.Bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		gb, gerr := io.ReadAll(NewReader(bytes.NewReader(data)))
		kb, kerr := io.ReadAll(kflate.NewReader(bytes.NewReader(data)))
		switch {
		case gerr == nil && kerr == nil:
			if !bytes.Equal(gb, kb) {
				t.Fatalf("mismatching output")
			}
		case gerr != nil && kerr == nil:
			t.Fatalf("unexpected error: %v", gerr)
		case gerr != nil:
			if gerr != ErrTruncatedInput && !errors.IsCorrupted(gerr) {
				t.Fatalf("unclassified error: %v", gerr)
			}
		}
	})
}

// FuzzRoundTrip checks that the encoder output decodes to its input with both
// this decoder and an independent one.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("abcabcabcabcabc"))
	f.Add(testutil.Repeats(1, 1<<10))

	f.Fuzz(func(t *testing.T, data []byte) {
		var buf bytes.Buffer
		zw := NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			t.Fatalf("unexpected Write error: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("unexpected Close error: %v", err)
		}
		for _, rd := range []io.Reader{
			NewReader(bytes.NewReader(buf.Bytes())),
			kflate.NewReader(bytes.NewReader(buf.Bytes())),
		} {
			got, err := io.ReadAll(rd)
			if err != nil {
				t.Fatalf("unexpected Read error: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("mismatching output")
			}
		}
	})
}
