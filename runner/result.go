// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/errorlist"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

// AssertKind names the implicit and explicit assert categories.
type AssertKind uint8

// The assert kinds.
const (
	AssertVersion AssertKind = iota
	AssertStatus
	AssertHeader
	AssertBody
	AssertExplicit
)

var assertKindNames = map[AssertKind]string{
	AssertVersion:  "version",
	AssertStatus:   "status",
	AssertHeader:   "header",
	AssertBody:     "body",
	AssertExplicit: "assert",
}

func (k AssertKind) String() string { return assertKindNames[k] }

// AssertResult is the outcome of one assert.
type AssertResult struct {
	Kind       AssertKind
	Success    bool
	SourceInfo script.SourceInfo
	Actual     string
	Expected   string
	Err        *Error // nil on success
}

// CaptureResult is one named binding extracted from a response.
type CaptureResult struct {
	Name   string
	Value  value.Value
	Secret bool
}

// EntryResult is the outcome of one entry including all its retries.
type EntryResult struct {
	// EntryIndex is 1-based.
	EntryIndex int
	SourceInfo script.SourceInfo

	// Calls holds one call per attempt; retries append.
	Calls []*client.Call

	Captures []CaptureResult
	Asserts  []AssertResult

	// Errors are the errors of the final attempt; retried attempts
	// drop theirs.
	Errors []*Error

	// TransferDuration sums the call durations of all attempts.
	TransferDuration time.Duration

	// Compressed records whether the response body was served
	// compressed.
	Compressed bool

	// CurlCmd is a best-effort curl reconstruction of the rendered
	// request.
	CurlCmd string
}

// Success reports whether the entry finished without errors.
func (r *EntryResult) Success() bool { return len(r.Errors) == 0 }

// Err returns the entry's errors as a single error, nil when none.
func (r *EntryResult) Err() error {
	el := errorlist.List{}
	for _, e := range r.Errors {
		el = el.Append(e)
	}
	return el.AsError()
}

// HurlResult is the outcome of one file run.
type HurlResult struct {
	Filename  string
	Entries   []*EntryResult
	Duration  time.Duration
	Success   bool
	Cookies   []client.JarCookie
	Timestamp time.Time

	// Variables is the final variable set, captures included.
	Variables *vars.Set
}

// Errors returns the effective errors of the run: the surviving errors
// of each entry's last attempt.
func (r *HurlResult) Errors() []*Error {
	var errs []*Error
	for _, e := range r.Entries {
		errs = append(errs, e.Errors...)
	}
	return errs
}

// Err returns every effective error of the run as a single error, nil
// on success.
func (r *HurlResult) Err() error {
	el := errorlist.List{}
	for _, e := range r.Entries {
		el = el.Append(e.Err())
	}
	return el.AsError()
}
