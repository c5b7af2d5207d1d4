// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	strconv "github.com/dsnet/golib/unitconv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/blockcraft/compress/flate"
	"github.com/blockcraft/compress/gzip"
	"github.com/blockcraft/compress/zlib"
)

type CLI struct {
	Debug   bool             `kong:"help='Enable debug output',short='d'"`
	Version kong.VersionFlag `help:"Show version and exit" short:"v" env:"-"`

	Deflate DeflateCmd `cmd:"" help:"Compress into a raw DEFLATE stream"`
	Inflate InflateCmd `cmd:"" help:"Decompress a raw DEFLATE stream"`
	Gzip    GzipCmd    `cmd:"" help:"Compress into a GZip member"`
	Gunzip  GunzipCmd  `cmd:"" help:"Decompress GZip members"`
	Zlib    ZlibCmd    `cmd:"" help:"Compress into a ZLib stream"`
	Unzlib  UnzlibCmd  `cmd:"" help:"Decompress a ZLib stream"`
	Zip     ZipCmd     `cmd:"" help:"Create a ZIP archive"`
	Unzip   UnzipCmd   `cmd:"" help:"Extract a ZIP archive"`
	Bench   BenchCmd   `cmd:"" help:"Benchmark codec implementations"`
}

type streamFlags struct {
	Input  string `kong:"help='Input file, - for standard input',short='i',default='-'"`
	Output string `kong:"help='Output file, - for standard output',short='o',default='-'"`
}

// open returns the input and output of a stream command.
// The returned closer closes both files and must always be called.
func (f *streamFlags) open(g *globals) (io.Reader, io.Writer, func() error, error) {
	var files []*os.File
	closeAll := func() error {
		var err error
		for i := len(files) - 1; i >= 0; i-- {
			if cerr := files[i].Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}

	var r io.Reader = g.Stdin
	if f.Input != "-" {
		fi, err := os.Open(f.Input)
		if err != nil {
			return nil, nil, closeAll, errors.Wrap(err, "unable to open input")
		}
		files = append(files, fi)
		r = fi
	}
	var w io.Writer = g.Stdout
	if f.Output != "-" {
		fo, err := os.Create(f.Output)
		if err != nil {
			return nil, nil, closeAll, errors.Wrap(err, "unable to create output")
		}
		files = append(files, fo)
		w = fo
	}
	return r, w, closeAll, nil
}

// countWriter counts the bytes written through it.
type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(buf []byte) (int, error) {
	n, err := cw.w.Write(buf)
	cw.n += int64(n)
	return n, err
}

func formatSize(n int64) string {
	return strconv.FormatPrefix(float64(n), strconv.Base1024, 2) + "B"
}

func logSizes(log logrus.FieldLogger, cmd string, in, out int64) {
	fields := logrus.Fields{
		"cmd": cmd,
		"in":  formatSize(in),
		"out": formatSize(out),
	}
	if in > 0 && out > 0 {
		fields["ratio"] = float64(in) / float64(out)
	}
	log.WithFields(fields).Info("done")
}

// compressStream copies the input through the encoder made by newWriter.
func compressStream(g *globals, cmd string, f *streamFlags, newWriter func(io.Writer) io.WriteCloser) (err error) {
	r, w, closeAll, err := f.open(g)
	defer func() {
		if cerr := closeAll(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "unable to close files")
		}
	}()
	if err != nil {
		return err
	}

	cw := &countWriter{w: w}
	zw := newWriter(cw)
	n, err := io.Copy(zw, r)
	if err != nil {
		return errors.Wrap(err, "unable to compress")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "unable to finish stream")
	}
	logSizes(g.Log, cmd, n, cw.n)
	return nil
}

// decompressStream copies the output of the decoder made by newReader.
func decompressStream(g *globals, cmd string, f *streamFlags, newReader func(io.Reader) (io.ReadCloser, error)) (err error) {
	r, w, closeAll, err := f.open(g)
	defer func() {
		if cerr := closeAll(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "unable to close files")
		}
	}()
	if err != nil {
		return err
	}

	cr := &countReader{r: r}
	zr, err := newReader(cr)
	if err != nil {
		return errors.Wrap(err, "unable to read header")
	}
	n, err := io.Copy(w, zr)
	if err != nil {
		return errors.Wrap(err, "unable to decompress")
	}
	if err := zr.Close(); err != nil {
		return errors.Wrap(err, "unable to finish stream")
	}
	logSizes(g.Log, cmd, cr.n, n)
	return nil
}

type countReader struct {
	r io.Reader
	n int64
}

func (cr *countReader) Read(buf []byte) (int, error) {
	n, err := cr.r.Read(buf)
	cr.n += int64(n)
	return n, err
}

type DeflateCmd struct {
	Stream streamFlags `embed:""`
}

func (c *DeflateCmd) Run(g *globals) error {
	return compressStream(g, "deflate", &c.Stream, func(w io.Writer) io.WriteCloser {
		return flate.NewWriter(w)
	})
}

type InflateCmd struct {
	Stream streamFlags `embed:""`
}

func (c *InflateCmd) Run(g *globals) error {
	return decompressStream(g, "inflate", &c.Stream, func(r io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(r), nil
	})
}

type GzipCmd struct {
	Stream streamFlags `embed:""`
	Name   string      `kong:"help='File name recorded in the header, defaults to the input name'"`
}

func (c *GzipCmd) Run(g *globals) error {
	name := c.Name
	if name == "" && c.Stream.Input != "-" {
		name = filepath.Base(c.Stream.Input)
	}
	return compressStream(g, "gzip", &c.Stream, func(w io.Writer) io.WriteCloser {
		zw := gzip.NewWriter(w)
		zw.Name = name
		if fi, err := os.Stat(c.Stream.Input); err == nil {
			zw.ModTime = fi.ModTime()
		}
		return zw
	})
}

type GunzipCmd struct {
	Stream      streamFlags `embed:""`
	SingleMember bool        `kong:"help='Stop after the first member'"`
}

func (c *GunzipCmd) Run(g *globals) error {
	return decompressStream(g, "gunzip", &c.Stream, func(r io.Reader) (io.ReadCloser, error) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		zr.Multistream(!c.SingleMember)
		g.Log.WithFields(logrus.Fields{
			"name":    zr.Name,
			"comment": zr.Comment,
			"mtime":   zr.ModTime,
		}).Debug("gzip header")
		return zr, nil
	})
}

type ZlibCmd struct {
	Stream streamFlags `embed:""`
}

func (c *ZlibCmd) Run(g *globals) error {
	return compressStream(g, "zlib", &c.Stream, func(w io.Writer) io.WriteCloser {
		return zlib.NewWriter(w)
	})
}

type UnzlibCmd struct {
	Stream streamFlags `embed:""`
}

func (c *UnzlibCmd) Run(g *globals) error {
	return decompressStream(g, "unzlib", &c.Stream, func(r io.Reader) (io.ReadCloser, error) {
		return zlib.NewReader(r)
	})
}
