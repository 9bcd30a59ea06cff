// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package script defines the AST of a script file as consumed by the
// runner. The textual syntax and the parser producing this AST live
// outside this module; the runner only depends on the shapes here.
package script

import "time"

// Script is an ordered sequence of entries, the result of parsing one
// script file. The AST is produced once and never mutated.
type Script struct {
	Filename string
	Entries  []*Entry
}

// Entry is one request/response pair.
type Entry struct {
	Request    *Request
	Response   *Response // nil when the entry declares no expectations
	SourceInfo SourceInfo
}

// Header is a templated key/value pair.
type Header struct {
	Key        Template
	Value      Template
	SourceInfo SourceInfo
}

// Param is a templated query-string or form parameter.
type Param struct {
	Key        Template
	Value      Template
	SourceInfo SourceInfo
}

// MultipartPart is one part of a multipart body: either a plain field or
// an uploaded file.
type MultipartPart struct {
	Name        Template
	Value       Template // plain field value; empty for file parts
	Filename    Template // nonempty marks a file part
	ContentType string
	SourceInfo  SourceInfo
}

// RequestCookie is a cookie sent with the request.
type RequestCookie struct {
	Name       Template
	Value      Template
	SourceInfo SourceInfo
}

// BasicAuth is the [BasicAuth] section.
type BasicAuth struct {
	User       Template
	Password   Template
	SourceInfo SourceInfo
}

// BodyKind discriminates request and response bodies.
type BodyKind uint8

// The body kinds.
const (
	BodyText   BodyKind = iota // templated text
	BodyBinary                 // raw bytes (hex or base64 literal)
	BodyFile                   // @file reference, resolved under file root
)

// Body is a request or expected response body.
type Body struct {
	Kind       BodyKind
	Text       Template
	Data       []byte
	File       Template
	SourceInfo SourceInfo
}

// Request describes the HTTP request of an entry before rendering.
type Request struct {
	Method      string
	URL         Template
	Headers     []Header
	QueryParams []Param
	FormParams  []Param
	Multipart   []MultipartPart
	Cookies     []RequestCookie
	BasicAuth   *BasicAuth
	Options     *EntryOptions
	Body        *Body
	SourceInfo  SourceInfo
}

// StatusKind discriminates expected-status specs.
type StatusKind uint8

// The expected status kinds.
const (
	StatusAny   StatusKind = iota // *
	StatusExact                   // e.g. 200
	StatusRange                   // e.g. 2xx
)

// StatusSpec is the expected status of a response.
type StatusSpec struct {
	Kind       StatusKind
	Code       int // exact code, or the leading digit of a range
	SourceInfo SourceInfo
}

// Matches reports whether the actual status code fulfills s.
func (s StatusSpec) Matches(code int) bool {
	switch s.Kind {
	case StatusAny:
		return true
	case StatusExact:
		return code == s.Code
	case StatusRange:
		return code/100 == s.Code
	}
	return false
}

// Capture is a named binding extracted from a response.
type Capture struct {
	Name       Template
	Query      Query
	Filters    []Filter
	Redacted   bool
	SourceInfo SourceInfo
}

// Assert is an explicit check on a response.
type Assert struct {
	Query      Query
	Filters    []Filter
	Predicate  Predicate
	SourceInfo SourceInfo
}

// Response describes the declared expectations of an entry.
type Response struct {
	// Version is the expected HTTP version: "HTTP/1.0", "HTTP/1.1",
	// "HTTP/2", "HTTP/3", or "HTTP" respectively "*" for any.
	Version string

	Status StatusSpec

	// Headers are implicit asserts: each declared header must be
	// present with exactly the declared value.
	Headers []Header

	Captures []Capture
	Asserts  []Assert

	// Body, if declared, must equal the actual response body.
	Body *Body

	SourceInfo SourceInfo
}

// VersionAny reports whether the declared version accepts any actual
// version.
func (r *Response) VersionAny() bool {
	return r.Version == "" || r.Version == "*" || r.Version == "HTTP"
}

// EntryOptions is the [Options] section of a request. Nil pointer fields
// keep the file-level option.
type EntryOptions struct {
	Delay          *time.Duration
	Retry          *int // -1 retries forever
	RetryInterval  *time.Duration
	FollowRedirect *bool
	MaxRedirects   *int
	Insecure       *bool
	Compressed     *bool
	HTTPVersion    *string // "1.0", "1.1", "2", "3"
	IPVersion      *string // "4", "6"
	User           *Template
	Proxy          *Template
	ConnectTimeout *time.Duration
	CallTimeout    *time.Duration
	LimitRate      *int64
	Output         *Template
	Skip           *bool

	// Variables defined inline; bound before the request renders.
	Variables []OptionVariable

	SourceInfo SourceInfo
}

// OptionVariable is a "variable: name=value" line of an [Options] section.
type OptionVariable struct {
	Name       string
	Value      Template
	Secret     bool
	SourceInfo SourceInfo
}
