// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError(t *testing.T) {
	var vectors = []struct {
		err  Error
		want string
	}{
		{Error{}, "unknown error"},
		{Error{Pkg: "flate"}, "flate: unknown error"},
		{Error{Pkg: "flate", Code: Corrupted}, "flate: corrupted input"},
		{Error{Pkg: "flate", Code: Corrupted, Msg: "invalid block type"}, "flate: corrupted input (invalid block type)"},
		{Error{Pkg: "zip", Code: Invalid, Msg: "too many entries"}, "zip: invalid argument (too many entries)"},
	}
	for i, v := range vectors {
		if got := v.err.Error(); got != v.want {
			t.Errorf("test %d, Error() = %q, want %q", i, got, v.want)
		}
	}
}

func TestClassify(t *testing.T) {
	corrupt := Error{Pkg: "gzip", Code: Corrupted, Msg: "checksum mismatch"}
	wrapped := fmt.Errorf("member 2: %w", corrupt)

	if !IsCorrupted(corrupt) || !IsCorrupted(wrapped) {
		t.Errorf("IsCorrupted failed to classify %v", wrapped)
	}
	if IsCorrupted(io.EOF) || IsClosed(corrupt) {
		t.Errorf("unexpected classification")
	}
	if !errors.Is(wrapped, corrupt) {
		t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, corrupt)
	}
}

func TestRecover(t *testing.T) {
	want := Error{Pkg: "flate", Code: Closed}
	got := func() (err error) {
		defer Recover(&err)
		Panic(want)
		return nil
	}()
	if got != want {
		t.Errorf("Recover() = %v, want %v", got, want)
	}

	defer func() {
		if ex := recover(); ex == nil {
			t.Errorf("runtime panic was swallowed")
		}
	}()
	func() (err error) {
		defer Recover(&err)
		var s []int
		_ = s[len(s)+1]
		return nil
	}()
}
