// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements functions to manipulate compression errors.
//
// In idiomatic Go, it is an anti-pattern to use panics as a form of error
// reporting in the API. Instead, the expected way to transmit errors is by
// returning an error value. Unfortunately, the checking of "err != nil" in
// tight loops commonly found in compression causes non-negligible performance
// degradation. While this may not be idiomatic, the codecs in this module
// use panics in the hot paths and convert them to returned errors at the API
// boundary with Recover.
package errors

import (
	"errors"
	"runtime"
)

const (
	// Unknown indicates that there is no classification for this error.
	Unknown = iota

	// Internal indicates that this error is due to an internal bug.
	// Users should file a issue report if this type of error is encountered.
	Internal

	// Invalid indicates that this error is due to the user misusing the API
	// and is indicative of a bug on the user's part.
	Invalid

	// Deprecated indicates the use of a deprecated and unsupported feature.
	Deprecated

	// Corrupted indicates that the input stream is corrupted.
	Corrupted

	// Closed indicates that the handlers are closed.
	Closed
)

var codeMap = map[int]string{
	Unknown:    "unknown error",
	Internal:   "internal error",
	Invalid:    "invalid argument",
	Deprecated: "deprecated format",
	Corrupted:  "corrupted input",
	Closed:     "closed handler",
}

// Error is a classified error raised by one of the codec packages.
// Errors are comparable, so package-level sentinel values can be checked
// with == as well as with errors.Is.
type Error struct {
	Code int    // The error type
	Pkg  string // Name of the package where the error originated
	Msg  string // Descriptive message about the error (optional)
}

func (e Error) Error() string {
	var ss []string
	for _, s := range []string{e.Pkg, codeMap[e.Code], e.Msg} {
		if s != "" {
			ss = append(ss, s)
		}
	}
	switch len(ss) {
	case 0:
		return ""
	case 1:
		return ss[0]
	}
	s := ss[0] + ": " + ss[1]
	for _, m := range ss[2:] {
		s += " (" + m + ")"
	}
	return s
}

func (e Error) IsInternal() bool   { return e.Code == Internal }
func (e Error) IsInvalid() bool    { return e.Code == Invalid }
func (e Error) IsDeprecated() bool { return e.Code == Deprecated }
func (e Error) IsCorrupted() bool  { return e.Code == Corrupted }
func (e Error) IsClosed() bool     { return e.Code == Closed }

func code(err error) int {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return -1
}

func IsInternal(err error) bool   { return code(err) == Internal }
func IsInvalid(err error) bool    { return code(err) == Invalid }
func IsDeprecated(err error) bool { return code(err) == Deprecated }
func IsCorrupted(err error) bool  { return code(err) == Corrupted }
func IsClosed(err error) bool     { return code(err) == Closed }

// Panic raises err as a panic that Recover will convert back into an error.
func Panic(err error) {
	panic(errWrap{err})
}

// errWrap distinguishes errors raised through Panic from genuine panics.
type errWrap struct{ e error }

// Recover converts a panic raised through Panic into an error stored in *err.
// Runtime errors and any other panic values are re-panicked.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case errWrap:
		*err = ex.e
	default:
		panic(ex)
	}
}
