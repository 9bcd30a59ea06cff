// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client defines the HTTP client contract used by the runner and
// an implementation on top of net/http. The runner never talks to
// net/http directly: it hands a rendered Request to a Client and gets a
// Call (request, response, timings) back.
package client

import (
	"fmt"
	"time"
)

// Request is a fully rendered HTTP request, ready to send.
type Request struct {
	Method  string
	URL     string
	Headers *HeaderList
	Body    []byte
}

// Certificate carries the fields of the server certificate a query can
// extract.
type Certificate struct {
	Subject      string
	Issuer       string
	StartDate    time.Time
	ExpireDate   time.Time
	SerialNumber string
}

// Response is a received HTTP response. Body holds the raw transfer
// bytes; decompression is explicit (see Options.Compressed and
// Uncompress).
type Response struct {
	Version     string // "HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP/3"
	Status      int
	Headers     *HeaderList
	Body        []byte
	URL         string // final URL after redirects
	IP          string // remote address the response came from
	Certificate *Certificate

	// Decompressed marks a body already undone by the client (the
	// compressed option); Uncompress is a no-op then.
	Decompressed bool
}

// Timings of one exchange.
type Timings struct {
	Begin         time.Time
	End           time.Time
	NameLookup    time.Duration
	Connect       time.Duration
	AppConnect    time.Duration
	PreTransfer   time.Duration
	StartTransfer time.Duration
	Total         time.Duration
}

// Call is one HTTP exchange, possibly one of several retries of an entry.
type Call struct {
	Request  *Request
	Response *Response
	Timings  Timings
}

// Version preferences.
const (
	VersionDefault = ""
	Version10      = "1.0"
	Version11      = "1.1"
	Version2       = "2"
	Version3       = "3"
)

// IP version preferences.
const (
	IPAny = ""
	IPv4  = "4"
	IPv6  = "6"
)

// Options configure a Client. The zero value is usable.
type Options struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration

	FollowLocation bool
	MaxRedirects   int // 0 means the default of 50

	Insecure   bool
	CACert     string
	ClientCert string
	ClientKey  string

	Proxy      string // proxy for all protocols
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    []string

	Resolves  map[string]string // host:port -> address overrides
	ConnectTo map[string]string // host1:port1 -> host2:port2
	UnixSock  string

	HTTPVersion string
	IPVersion   string

	// Compressed requests a compressed transfer and transparently
	// decompresses the received body.
	Compressed bool

	User      string // user:password for basic auth
	UserAgent string
	AWSSigV4  string

	CookieFile   string // seed the jar from a Netscape cookie file
	PinnedPubKey string

	// LimitRate caps the transfer speed in bytes per second. Zero
	// means unlimited.
	LimitRate int64
}

// Client executes rendered requests. Implementations keep the cookie
// jar: Set-Cookie headers of a response update the jar before the Call
// is returned.
type Client interface {
	Execute(req *Request, opts *Options) (*Call, error)

	// ClearCookies drops every cookie from the jar. Used between jobs
	// sharing a worker.
	ClearCookies()

	// Cookies returns the current jar content for persisting.
	Cookies() []JarCookie
}

// JarCookie is one cookie of the jar in exchange-format terms.
type JarCookie struct {
	Domain           string
	IncludeSubdomain bool
	Path             string
	Secure           bool
	Expires          int64 // unix seconds, 0 for session cookies
	Name             string
	Value            string
	HTTPOnly         bool
}

// --------------------------------------------------------------------------
// Error taxonomy

// ErrorKind classifies transport errors.
type ErrorKind uint8

// The transport error kinds.
const (
	ErrCouldNotResolveProxyName ErrorKind = iota
	ErrCouldNotResolveHost
	ErrFailToConnect
	ErrTimeout
	ErrTooManyRedirect
	ErrCouldNotParseResponse
	ErrSSLCertificate
	ErrInvalidURL
	ErrStatuslineMissing
	ErrUnsupportedContentEncoding
	ErrCouldNotUncompress
	ErrTransport // anything else, with the underlying description
)

var errorKindNames = map[ErrorKind]string{
	ErrCouldNotResolveProxyName:   "could not resolve proxy name",
	ErrCouldNotResolveHost:        "could not resolve host",
	ErrFailToConnect:              "fail to connect",
	ErrTimeout:                    "timeout",
	ErrTooManyRedirect:            "too many redirects",
	ErrCouldNotParseResponse:      "could not parse response",
	ErrSSLCertificate:             "SSL certificate error",
	ErrInvalidURL:                 "invalid URL",
	ErrStatuslineMissing:          "missing status line",
	ErrUnsupportedContentEncoding: "unsupported content encoding",
	ErrCouldNotUncompress:         "could not uncompress response",
	ErrTransport:                  "transport error",
}

// Error is a transport-level error.
type Error struct {
	Kind ErrorKind
	Msg  string
	URL  string
}

func (e *Error) Error() string {
	s := errorKindNames[e.Kind]
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.URL != "" {
		s = fmt.Sprintf("%s (%s)", s, e.URL)
	}
	return s
}

func newError(kind ErrorKind, url, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, URL: url, Msg: fmt.Sprintf(format, args...)}
}
