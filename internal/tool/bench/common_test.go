// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetName(t *testing.T) {
	var vectors = []struct {
		file  string
		level int
		size  int
		want  string
	}{
		{"twain.txt", 6, 1e4, "twain.txt:6:1e4"},
		{"/tmp/data/twain.txt", 1, 1e6, "twain.txt:1:1e6"},
	}
	for _, v := range vectors {
		assert.Equal(t, v.want, getName(v.file, v.level, v.size))
	}

	// Other sizes use binary prefixes without redundant decimals.
	name := getName("repeats.gen", 9, 1<<20)
	assert.True(t, strings.HasPrefix(name, "repeats.gen:9:1"), name)
	assert.NotContains(t, name, ".00")
}

func TestParse(t *testing.T) {
	for _, f := range []Format{FormatFlate, FormatGZip, FormatZLib, FormatXZ} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("br")
	assert.Error(t, err)

	for _, tt := range []Test{TestEncodeRate, TestDecodeRate, TestCompressRatio} {
		got, err := ParseTest(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}
	_, err = ParseTest("speed")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []Format{FormatFlate, FormatGZip, FormatZLib, FormatXZ}, Formats())
	assert.Equal(t, []string{"std", "ds", "kp", "xz"}, Codecs())
}

func TestLoadInput(t *testing.T) {
	b, err := LoadInput("zeros.gen", 100)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 100), b)

	_, err = LoadInput("does-not-exist.bin", 100)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	var ticks int
	Run(&buf, Config{
		Formats:  []Format{FormatFlate},
		Tests:    []Test{TestCompressRatio},
		Codecs:   []string{"std", "ds"},
		Files:    []string{"repeats.gen"},
		Levels:   []int{6},
		Sizes:    []int{1e4},
		Progress: func(done, total int) { ticks++ },
	})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BENCHMARK: fl:ratio\n"), out)
	assert.Contains(t, out, "std ratio")
	assert.Contains(t, out, "ds ratio")
	assert.Contains(t, out, "repeats.gen:6:1e4")
	assert.Equal(t, 2, ticks)
}
