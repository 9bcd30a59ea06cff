// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// error.go defines the runner error taxonomy. Every error carries a
// SourceInfo pointing into the script; rendering redacts secrets before
// anything reaches the user.

package runner

import (
	"fmt"

	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/vars"
)

// ErrorKind classifies runner errors.
type ErrorKind uint8

// The runner error kinds.
const (
	// Template errors.
	ErrTemplateVariableNotDefined ErrorKind = iota
	ErrUnrenderableVariable
	ErrVariableReserved

	// Query errors.
	ErrInvalidJSON
	ErrInvalidXML
	ErrInvalidXPathEval
	ErrInvalidJSONPathExpr
	ErrQueryInvalidRegex
	ErrNoQueryResult

	// Filter errors.
	ErrFilterInvalidInput
	ErrFilterMissingInput
	ErrNoFilterResult
	ErrInvalidDecoding
	ErrInvalidCharset
	ErrInvalidRegex

	// Predicate errors.
	ErrPredicateType
	ErrAssertFailure

	// Implicit assert errors.
	ErrAssertVersion
	ErrAssertStatus
	ErrAssertHeaderValue
	ErrAssertHeaderNotFound
	ErrAssertBodyValue

	// Transport errors, wrapping a client.Error.
	ErrHTTP

	// Output and file access errors.
	ErrUnauthorizedFileAccess
	ErrIO
)

var errorKindNames = map[ErrorKind]string{
	ErrTemplateVariableNotDefined: "undefined variable",
	ErrUnrenderableVariable:       "unrenderable variable",
	ErrVariableReserved:           "variable name is reserved",
	ErrInvalidJSON:                "invalid JSON",
	ErrInvalidXML:                 "invalid XML",
	ErrInvalidXPathEval:           "invalid XPath evaluation",
	ErrInvalidJSONPathExpr:        "invalid JSONPath expression",
	ErrQueryInvalidRegex:          "invalid regex in query",
	ErrNoQueryResult:              "no query result",
	ErrFilterInvalidInput:         "invalid filter input",
	ErrFilterMissingInput:         "missing filter input",
	ErrNoFilterResult:             "no filter result",
	ErrInvalidDecoding:            "invalid decoding",
	ErrInvalidCharset:             "invalid charset",
	ErrInvalidRegex:               "invalid regex",
	ErrPredicateType:              "predicate type mismatch",
	ErrAssertFailure:              "assert failure",
	ErrAssertVersion:              "assert HTTP version",
	ErrAssertStatus:               "assert status code",
	ErrAssertHeaderValue:          "assert header value",
	ErrAssertHeaderNotFound:       "assert header not found",
	ErrAssertBodyValue:            "assert body value",
	ErrHTTP:                       "HTTP error",
	ErrUnauthorizedFileAccess:     "unauthorized file access",
	ErrIO:                         "I/O error",
}

// Error is a runner error located in the script.
type Error struct {
	Kind       ErrorKind
	SourceInfo script.SourceInfo
	Msg        string

	// Assert marks errors produced by a failing assert.
	Assert bool

	// Actual and Expected describe a failed comparison.
	Actual   string
	Expected string

	// TypeMismatch marks an assert that failed because the kinds do
	// not interoperate.
	TypeMismatch bool
}

func (e *Error) Error() string {
	s := errorKindNames[e.Kind]
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Actual != "" || e.Expected != "" {
		s += fmt.Sprintf(" (actual: %s, expected: %s)", e.Actual, e.Expected)
	}
	if !e.SourceInfo.IsZero() {
		s += " at " + e.SourceInfo.String()
	}
	return s
}

// Render returns the user-visible message with every secret redacted.
func (e *Error) Render(variables *vars.Set) string {
	return variables.Redact(e.Error())
}

func newErr(kind ErrorKind, si script.SourceInfo, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, SourceInfo: si, Msg: fmt.Sprintf(format, args...)}
}

// Fatal reports whether the error aborts the entry without retries:
// template and I/O problems are programming errors of the script, not
// transient conditions.
func (e *Error) Fatal() bool {
	switch e.Kind {
	case ErrTemplateVariableNotDefined, ErrUnrenderableVariable,
		ErrVariableReserved, ErrUnauthorizedFileAccess, ErrIO:
		return true
	}
	return false
}

// Retryable reports whether the error may succeed on a new attempt.
func (e *Error) Retryable() bool {
	return !e.Fatal()
}
