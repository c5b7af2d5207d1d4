// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package compress is a collection of codecs for the DEFLATE family of
// formats: raw DEFLATE streams, the GZip and ZLib framings around them, and
// the subset of ZIP archives that store or deflate their entries.
//
// Every decoder in this module consumes its input through a BufferedReader
// when one is available so that it never reads past the end of its own
// stream. Any bytes that follow (a GZip trailer, the next ZIP entry, or
// unrelated data) remain unread in the underlying reader.
package compress

import "io"

// BufferedReader is an interface accepted by all decompression Readers.
// It guarantees that the decompressor never reads more data than is necessary
// from the underlying io.Reader. The following Readers satisfy this interface
// when used with decompression Readers in this module:
//	bufio.Reader, bytes.Buffer, bytes.Reader, strings.Reader
//
// Furthermore, if the underlying io.Reader is wrapped by a BufferedReader,
// then decompressors can use the buffered data directly instead of copying
// it into an internal buffer first.
type BufferedReader interface {
	io.Reader

	// Buffered returns the number of bytes currently buffered.
	//
	// This value becomes invalid following the next Read/Discard operation.
	Buffered() int

	// Peek returns the next n bytes without advancing the reader.
	//
	// If Peek returns fewer than n bytes, it also returns an error explaining
	// why the peek is short. Peek must support peeking of at least 8 bytes.
	// If 0 <= n <= Buffered(), Peek is guaranteed to succeed without reading
	// from the underlying io.Reader.
	//
	// This result becomes invalid following the next Read/Discard operation.
	Peek(n int) ([]byte, error)

	// Discard skips the next n bytes, returning the number of bytes discarded.
	//
	// If Discard skips fewer than n bytes, it also returns an error.
	// If 0 <= n <= Buffered(), Discard is guaranteed to succeed without reading
	// from the underlying io.Reader.
	Discard(n int) (int, error)
}
