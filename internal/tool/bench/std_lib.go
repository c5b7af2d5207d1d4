// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
)

func init() {
	RegisterEncoder(FormatFlate, "std",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := flate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatFlate, "std",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	RegisterEncoder(FormatGZip, "std",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := gzip.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGZip, "std",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return gzip.NewReader(r) })
		})
	RegisterEncoder(FormatZLib, "std",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := zlib.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatZLib, "std",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return zlib.NewReader(r) })
		})
}
