// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

func init() {
	RegisterEncoder(FormatFlate, "kp",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatFlate, "kp",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	RegisterEncoder(FormatGZip, "kp",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := gzip.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGZip, "kp",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return gzip.NewReader(r) })
		})
	RegisterEncoder(FormatZLib, "kp",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := zlib.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatZLib, "kp",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return zlib.NewReader(r) })
		})
}
