// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"

	"github.com/ulikunitz/xz"
)

// XZ serves as a reference point for the ratio of a modern LZMA2 codec.
// The level is mapped onto the dictionary size.
func init() {
	RegisterEncoder(FormatXZ, "xz",
		func(w io.Writer, lvl int) io.WriteCloser {
			cfg := xz.WriterConfig{DictCap: xzDictCap(lvl)}
			zw, err := cfg.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatXZ, "xz",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) {
				zr, err := xz.NewReader(r)
				if err != nil {
					return nil, err
				}
				return io.NopCloser(zr), nil
			})
		})
}

func xzDictCap(lvl int) int {
	if lvl < 1 {
		lvl = 1
	}
	if lvl > 9 {
		lvl = 9
	}
	return 1 << uint(17+lvl) // 256 KiB to 64 MiB
}
