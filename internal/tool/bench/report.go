// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// The decompression speed benchmark works by decompressing some pre-compressed
// data. In order for the benchmarks to be consistent, the same encoder should
// be used to generate the pre-compressed data for all the trials.
//
// encRefs defines the priority order for which encoders to choose first as the
// reference compressor. If no compressor is found for any of the listed codecs,
// then an arbitrary encoder will be chosen.
var encRefs = []string{"std", "kp", "ds"}

// Config selects what Run measures.
type Config struct {
	Formats []Format
	Tests   []Test
	Codecs  []string
	Files   []string
	Levels  []int
	Sizes   []int

	// Progress is called before every single measurement. It may be nil.
	Progress func(done, total int)
}

// Run performs every benchmark in cfg and writes a table per format and test
// to w.
func Run(w io.Writer, cfg Config) {
	for _, f := range cfg.Formats {
		// Get lists of encoders and decoders that exist.
		var encs, decs []string
		for _, c := range cfg.Codecs {
			if _, ok := Encoders[f][c]; ok {
				encs = append(encs, c)
			}
			if _, ok := Decoders[f][c]; ok {
				decs = append(decs, c)
			}
		}

		for _, t := range cfg.Tests {
			var results [][]Result
			var names, codecs []string
			var title, suffix string

			// Check that we can actually do this bench.
			fmt.Fprintf(w, "BENCHMARK: %v:%v\n", f, t)
			if len(encs) == 0 {
				fmt.Fprint(w, "\tSKIP: There are no encoders available.\n\n")
				continue
			}
			if len(decs) == 0 && t == TestDecodeRate {
				fmt.Fprint(w, "\tSKIP: There are no decoders available.\n\n")
				continue
			}

			var cnt int
			tick := func() {
				if cfg.Progress != nil {
					cfg.Progress(cnt, len(codecs)*len(cfg.Files)*len(cfg.Levels)*len(cfg.Sizes))
				}
				cnt++
			}

			// Perform the bench. This may take some time.
			switch t {
			case TestEncodeRate:
				codecs, title, suffix = encs, "MB/s", ""
				results, names = BenchmarkEncoderSuite(f, encs, cfg.Files, cfg.Levels, cfg.Sizes, tick)
			case TestDecodeRate:
				codecs, title, suffix = decs, "MB/s", ""
				results, names = BenchmarkDecoderSuite(f, decs, cfg.Files, cfg.Levels, cfg.Sizes, referenceEncoder(f), tick)
			case TestCompressRatio:
				codecs, title, suffix = encs, "ratio", "x"
				results, names = BenchmarkRatioSuite(f, encs, cfg.Files, cfg.Levels, cfg.Sizes, tick)
			default:
				panic("unknown test")
			}

			WriteTable(w, results, names, codecs, title, suffix)
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
}

func referenceEncoder(f Format) Encoder {
	for _, c := range encRefs {
		if enc, ok := Encoders[f][c]; ok {
			return enc // Choose by priority
		}
	}
	for _, enc := range Encoders[f] {
		return enc
	}
	return nil
}

// WriteTable writes results as an aligned table with one row per name and a
// value and delta column per codec.
func WriteTable(w io.Writer, results [][]Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	// Insert all rows.
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		fmt.Fprint(w, "\t")
		for i, s := range row {
			switch {
			case i == 0: // Column 0
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1: // Column 1, 3, 5, 7, ...
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0: // Column 2, 4, 6, 8, ...
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Fprint(w, row[i])
		}
		fmt.Fprintln(w)
	}
}
