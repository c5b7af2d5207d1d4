// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/blockcraft/compress/zip"
)

type ZipCmd struct {
	Archive string   `kong:"arg,help='Archive to create',type='path'"`
	Files   []string `kong:"arg,help='Files to add, relative to --dir'"`
	Dir     string   `kong:"help='Directory the file names are relative to',default='.',short='C',type='path'"`
	Store   bool     `kong:"help='Store files without compression'"`
}

func (c *ZipCmd) Run(g *globals) (err error) {
	log := g.Log.WithField("cmd", "zip")

	f, err := os.Create(c.Archive)
	if err != nil {
		return errors.Wrap(err, "unable to create archive")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "unable to close archive")
		}
	}()

	method := zip.Deflate
	if c.Store {
		method = zip.Store
	}
	cw := &countWriter{w: f}
	zw := zip.NewWriter(cw)
	for _, name := range c.Files {
		if err := addFile(zw, c.Dir, name, method); err != nil {
			return errors.Wrapf(err, "unable to add %s", name)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "unable to finish archive")
	}

	var total int64
	for _, e := range zw.Entries() {
		total += int64(e.UncompressedSize)
		log.WithFields(logrus.Fields{
			"name": e.Name,
			"size": formatSize(int64(e.UncompressedSize)),
		}).Debug("added")
	}
	logSizes(log, "zip", total, cw.n)
	return nil
}

func addFile(zw *zip.Writer, dir, name string, method uint16) error {
	if !filepath.IsLocal(name) {
		return errors.Errorf("file name %q is not relative", name)
	}
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		zw.Modified = fi.ModTime()
	}
	w, err := zw.Create(filepath.ToSlash(filepath.Clean(name)), method)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

type UnzipCmd struct {
	Archive    string `kong:"arg,help='Archive to extract',type='existingfile'"`
	Dir        string `kong:"help='Directory to extract into',default='.',type='path'"`
	Match      string `kong:"help='Only extract entries whose name matches this glob'"`
	MaxEntries int    `kong:"help='Maximum number of entries to extract',default='2048'"`
	List       bool   `kong:"help='List the selected entries without extracting',short='l'"`
}

func (c *UnzipCmd) Run(g *globals) error {
	log := g.Log.WithField("cmd", "unzip")
	if c.Match != "" {
		if _, err := path.Match(c.Match, ""); err != nil {
			return errors.Wrap(err, "invalid match pattern")
		}
	}

	f, err := os.Open(c.Archive)
	if err != nil {
		return errors.Wrap(err, "unable to open archive")
	}
	defer f.Close()

	var written int64
	x := &zip.Extractor{
		MaxEntries: c.MaxEntries,
		Log:        log,
		Select: func(name string) bool {
			if c.Match == "" {
				return true
			}
			ok, _ := path.Match(c.Match, name)
			return ok
		},
		Process: func(name string, body io.Reader, e *zip.Entry) error {
			if c.List {
				log.WithFields(logrus.Fields{
					"name":     name,
					"size":     formatSize(int64(e.UncompressedSize)),
					"modified": e.Modified,
				}).Info("entry")
				return nil
			}
			n, err := extractFile(c.Dir, name, body)
			written += n
			return err
		},
	}
	entries, err := x.Extract(f)
	if err != nil {
		return errors.Wrap(err, "unable to extract archive")
	}
	if fi, err := f.Stat(); err == nil && !c.List {
		logSizes(log, "unzip", fi.Size(), written)
	}
	log.WithField("entries", len(entries)).Debug("extracted")
	return nil
}

// extractFile writes body to name under dir. Names that would escape dir
// are rejected.
func extractFile(dir, name string, body io.Reader) (int64, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return 0, errors.Errorf("unsafe entry name %q", name)
	}
	dst := filepath.Join(dir, filepath.FromSlash(name))
	if name[len(name)-1] == '/' {
		return 0, os.MkdirAll(dst, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
