// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

// window is the sliding history used by the Inflater. Decoded bytes are
// written directly into hist and are later handed out by readFlush.
//
// The write position only wraps back to the start once every byte up to the
// end of hist has been flushed, so unread output is never overwritten.
type window struct {
	hist  [maxHistSize]byte
	wrPos int  // Index of the next byte to write
	rdPos int  // Index of the first byte not yet flushed
	full  bool // Has hist wrapped at least once
}

func (w *window) reset() {
	w.wrPos, w.rdPos, w.full = 0, 0, false
}

// histSize reports the number of bytes available for back-references.
func (w *window) histSize() int {
	if w.full {
		return len(w.hist)
	}
	return w.wrPos
}

// availSize reports the number of bytes that may be written before a flush.
func (w *window) availSize() int {
	return len(w.hist) - w.wrPos
}

// writeSlice returns the writable tail of the window. Call writeMark with the
// number of bytes actually written.
func (w *window) writeSlice() []byte {
	return w.hist[w.wrPos:]
}

func (w *window) writeMark(n int) {
	w.wrPos += n
}

func (w *window) writeByte(c byte) {
	w.hist[w.wrPos] = c
	w.wrPos++
}

// writeCopy copies up to length bytes from dist bytes back in the history,
// stopping early if the window fills up. It returns the number of bytes
// copied. The caller ensures 0 < dist <= histSize().
//
// Overlapping copies (dist < length) repeat the last dist bytes. Each call to
// the built-in copy works on disjoint ranges so the pattern is replicated
// forward exactly as a byte-by-byte copy would.
func (w *window) writeCopy(dist, length int) int {
	dstBase := w.wrPos
	dstPos := dstBase
	srcPos := dstPos - dist
	endPos := dstPos + length
	if endPos > len(w.hist) {
		endPos = len(w.hist)
	}

	if srcPos < 0 {
		// The source starts in the previous pass over the buffer.
		srcPos += len(w.hist)
		dstPos += copy(w.hist[dstPos:endPos], w.hist[srcPos:])
		srcPos = 0
	}
	for dstPos < endPos {
		dstPos += copy(w.hist[dstPos:endPos], w.hist[srcPos:dstPos])
	}

	w.wrPos = dstPos
	return dstPos - dstBase
}

// readFlush returns the bytes written since the last flush. The slice is only
// valid until the next write.
func (w *window) readFlush() []byte {
	b := w.hist[w.rdPos:w.wrPos]
	w.rdPos = w.wrPos
	if w.wrPos == len(w.hist) {
		w.wrPos, w.rdPos = 0, 0
		w.full = true
	}
	return b
}
