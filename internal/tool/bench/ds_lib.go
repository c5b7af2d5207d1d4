// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"

	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/gzip"
	"github.com/blockcraft/compress/zlib"
)

// The "ds" codecs have a single compression level; lvl is ignored.
func init() {
	RegisterEncoder(FormatFlate, "ds",
		func(w io.Writer, lvl int) io.WriteCloser {
			return flate.NewWriter(w)
		})
	RegisterDecoder(FormatFlate, "ds",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
	RegisterEncoder(FormatGZip, "ds",
		func(w io.Writer, lvl int) io.WriteCloser {
			return gzip.NewWriter(w)
		})
	RegisterDecoder(FormatGZip, "ds",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return gzip.NewReader(r) })
		})
	RegisterEncoder(FormatZLib, "ds",
		func(w io.Writer, lvl int) io.WriteCloser {
			return zlib.NewWriter(w)
		})
	RegisterDecoder(FormatZLib, "ds",
		func(r io.Reader) io.ReadCloser {
			return newLazyReader(func() (io.ReadCloser, error) { return zlib.NewReader(r) })
		})
}

// lazyReader defers a constructor that reads a header until the first Read,
// so that header errors surface from Read like any other decoding error.
type lazyReader struct {
	open func() (io.ReadCloser, error)
	rd   io.ReadCloser
	err  error
}

func newLazyReader(open func() (io.ReadCloser, error)) *lazyReader {
	return &lazyReader{open: open}
}

func (lr *lazyReader) Read(buf []byte) (int, error) {
	if lr.rd == nil && lr.err == nil {
		rd, err := lr.open()
		if err != nil {
			lr.err = err
			return 0, err
		}
		lr.rd = rd
	}
	if lr.err != nil {
		return 0, lr.err
	}
	return lr.rd.Read(buf)
}

func (lr *lazyReader) Close() error {
	if lr.rd == nil {
		return lr.err
	}
	return lr.rd.Close()
}
