// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/blockcraft/compress/internal/tool/bench"
)

const (
	defaultLevels = "1,6,9"
	defaultSizes  = "1e4,1e5,1e6"
)

type BenchCmd struct {
	Profile string   `kong:"help='TOML file with default benchmark settings',type='path',short='p'"`
	Formats []string `kong:"help='Formats to benchmark (fl, gz, zl, xz)',sep=','"`
	Tests   []string `kong:"help='Tests to run (encRate, decRate, ratio)',sep=','"`
	Codecs  []string `kong:"help='Codecs to compare (std, ds, kp, xz)',sep=','"`
	Paths   []string `kong:"help='Directories to search for input files',sep=','"`
	Files   []string `kong:"help='Input files or generated inputs',sep=','"`
	Levels  []string `kong:"help='Compression levels',sep=','"`
	Sizes   []string `kong:"help='Input sizes, SI or IEC prefixes allowed',sep=','"`
	Quiet   bool     `kong:"help='Do not show progress',short='q'"`
}

// benchProfile is the layout of a profile file. Keys mirror the flags.
//
//	formats = ["fl", "gz"]
//	tests   = ["ratio"]
//	files   = ["repeats.gen", "twain.txt"]
//	levels  = ["1", "9"]
//	sizes   = ["1e5", "1Mi"]
type benchProfile struct {
	Formats []string `toml:"formats"`
	Tests   []string `toml:"tests"`
	Codecs  []string `toml:"codecs"`
	Paths   []string `toml:"paths"`
	Files   []string `toml:"files"`
	Levels  []string `toml:"levels"`
	Sizes   []string `toml:"sizes"`
}

func readProfile(file string) (*benchProfile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}
	p := &benchProfile{}
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(err, "error parsing TOML profile")
	}
	return p, nil
}

// config merges the flags over the profile and the built-in defaults.
func (c *BenchCmd) config() (bench.Config, error) {
	p := &benchProfile{}
	if c.Profile != "" {
		var err error
		if p, err = readProfile(c.Profile); err != nil {
			return bench.Config{}, errors.Wrapf(err, "unable to load profile %s", c.Profile)
		}
	}
	pick := func(flag, profile, def []string) []string {
		switch {
		case len(flag) > 0:
			return flag
		case len(profile) > 0:
			return profile
		}
		return def
	}

	var formatNames, testNames []string
	for _, f := range bench.Formats() {
		formatNames = append(formatNames, f.String())
	}
	for _, t := range []bench.Test{bench.TestEncodeRate, bench.TestDecodeRate, bench.TestCompressRatio} {
		testNames = append(testNames, t.String())
	}

	var cfg bench.Config
	for _, s := range pick(c.Formats, p.Formats, formatNames) {
		f, err := bench.ParseFormat(s)
		if err != nil {
			return cfg, err
		}
		cfg.Formats = append(cfg.Formats, f)
	}
	for _, s := range pick(c.Tests, p.Tests, testNames) {
		t, err := bench.ParseTest(s)
		if err != nil {
			return cfg, err
		}
		cfg.Tests = append(cfg.Tests, t)
	}
	for _, s := range pick(c.Levels, p.Levels, strings.Split(defaultLevels, ",")) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			return cfg, errors.Errorf("invalid level: %q", s)
		}
		cfg.Levels = append(cfg.Levels, int(lvl))
	}
	for _, s := range pick(c.Sizes, p.Sizes, strings.Split(defaultSizes, ",")) {
		n, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil || n < 0 {
			return cfg, errors.Errorf("invalid size: %q", s)
		}
		cfg.Sizes = append(cfg.Sizes, int(n))
	}
	cfg.Codecs = pick(c.Codecs, p.Codecs, bench.Codecs())
	cfg.Files = pick(c.Files, p.Files, bench.GeneratedInputs())
	bench.Paths = pick(c.Paths, p.Paths, []string{"."})
	return cfg, nil
}

func (c *BenchCmd) Run(g *globals) error {
	cfg, err := c.config()
	if err != nil {
		return errors.Wrap(err, "invalid benchmark settings")
	}
	if !c.Quiet {
		cfg.Progress = func(done, total int) {
			pct := 100.0 * float64(done) / float64(total)
			fmt.Fprintf(os.Stderr, "\t[%6.2f%%] %d of %d\r", pct, done, total)
		}
	}

	ts := time.Now()
	bench.Run(g.Stdout, cfg)
	fmt.Fprintf(g.Stdout, "RUNTIME: %v\n", time.Since(ts))
	return nil
}
