// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"testing"
)

func TestDecodeBitGen(t *testing.T) {
	var vectors = []struct {
		input  string
		output []byte
		valid  bool
	}{{
		input: "",
	}, {
		input: "<<<",
		valid: true,
	}, {
		input: "<<< X:7",
	}, {
		input:  "<<< X:abcdef0123456789",
		output: MustDecodeHex("abcdef0123456789"),
		valid:  true,
	}, {
		input:  "<<< 1 10 H4:f",
		output: []byte{0x7d},
		valid:  true,
	}, {
		input:  ">>> 1 10 H4:f",
		output: []byte{0xbe},
		valid:  true,
	}, {
		input:  "<<< > 1100 D4:3",
		output: []byte{0xc3},
		valid:  true,
	}, {
		input: "<<< D2:4",
	}, {
		input: "<<< 1 X:ff",
	}, {
		input:  "<<< H16:fff3*2 0*3",
		output: []byte{0xf3, 0xff, 0xf3, 0xff, 0x00},
		valid:  true,
	}, {
		input: `<<<
			< 0 00 0*5           # Non-last, stored block, padding
			< H16:0002 H16:fffd  # Len: 2, NLen: ^2
			X:6869               # "hi"
			< 1 01               # Last, fixed block
			> 0000000            # End-of-block
		`,
		output: MustDecodeHex("000200fdff68690300"),
		valid:  true,
	}}

	for i, v := range vectors {
		output, err := DecodeBitGen(v.input)
		if err == nil != v.valid {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d, output mismatch:\ngot  %x\nwant %x", i, output, v.output)
		}
	}
}

func TestRepeats(t *testing.T) {
	a, b := Repeats(0, 1<<16), Repeats(0, 1<<16)
	if len(a) != 1<<16 || !bytes.Equal(a, b) {
		t.Fatalf("Repeats is not deterministic")
	}
	if c := Repeats(1, 1<<16); bytes.Equal(a, c) {
		t.Errorf("Repeats ignores its seed")
	}
}
