// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report serializes run results into the JSON event format
// consumed by external reporters (HTML, JUnit, TAP). Secret values are
// redacted before serialization.
package report

import (
	"encoding/json"

	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/vars"
)

// Result is the wire form of a runner.HurlResult.
type Result struct {
	Filename   string  `json:"filename"`
	Entries    []Entry `json:"entries"`
	Success    bool    `json:"success"`
	DurationMS int64   `json:"duration_ms"`
	Cookies    []Cookie `json:"cookies"`
	Timestamp  int64    `json:"timestamp"`
}

// Entry is the wire form of an entry result.
type Entry struct {
	Index      int       `json:"index"`
	Calls      []Call    `json:"calls"`
	Captures   []Capture `json:"captures"`
	Asserts    []Assert  `json:"asserts"`
	Errors     []Error   `json:"errors"`
	DurationMS int64     `json:"duration_ms"`
	CurlCmd    string    `json:"curl_cmd"`
}

// Call is the wire form of one HTTP exchange.
type Call struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// Request is the wire form of a rendered request.
type Request struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers"`
}

// Response is the wire form of a received response.
type Response struct {
	HTTPVersion string   `json:"http_version"`
	Status      int      `json:"status"`
	Headers     []Header `json:"headers"`
}

// Header is a name/value pair.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Capture is the wire form of a capture result.
type Capture struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Assert is the wire form of an assert result.
type Assert struct {
	Kind       string     `json:"kind"`
	Actual     string     `json:"actual,omitempty"`
	Expected   string     `json:"expected,omitempty"`
	SourceInfo SourceInfo `json:"source_info"`
	Success    bool       `json:"success"`
}

// Error is the wire form of an entry error.
type Error struct {
	Message    string     `json:"message"`
	Assert     bool       `json:"assert"`
	SourceInfo SourceInfo `json:"source_info"`
}

// SourceInfo is a script span.
type SourceInfo struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Cookie is the wire form of a jar cookie.
type Cookie struct {
	Domain string `json:"domain"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

// Marshal serializes hr, redacting every secret through the run's
// variable set.
func Marshal(hr *runner.HurlResult) ([]byte, error) {
	return json.Marshal(Build(hr))
}

// Build converts hr into its wire form.
func Build(hr *runner.HurlResult) Result {
	redact := func(s string) string { return s }
	if hr.Variables != nil {
		redact = hr.Variables.Redact
	}

	res := Result{
		Filename:   hr.Filename,
		Success:    hr.Success,
		DurationMS: hr.Duration.Milliseconds(),
		Timestamp:  hr.Timestamp.Unix(),
		Entries:    []Entry{},
		Cookies:    []Cookie{},
	}
	for _, c := range hr.Cookies {
		res.Cookies = append(res.Cookies, Cookie{
			Domain: c.Domain,
			Path:   c.Path,
			Name:   c.Name,
			Value:  redact(c.Value),
		})
	}
	for _, e := range hr.Entries {
		res.Entries = append(res.Entries, buildEntry(e, hr.Variables, redact))
	}
	return res
}

func buildEntry(er *runner.EntryResult, variables *vars.Set,
	redact func(string) string) Entry {

	entry := Entry{
		Index:      er.EntryIndex,
		DurationMS: er.TransferDuration.Milliseconds(),
		CurlCmd:    redact(er.CurlCmd),
		Calls:      []Call{},
		Captures:   []Capture{},
		Asserts:    []Assert{},
		Errors:     []Error{},
	}
	for _, call := range er.Calls {
		c := Call{
			Request: Request{
				Method:  call.Request.Method,
				URL:     redact(call.Request.URL),
				Headers: []Header{},
			},
			Response: Response{
				HTTPVersion: call.Response.Version,
				Status:      call.Response.Status,
				Headers:     []Header{},
			},
		}
		for _, h := range call.Request.Headers.All() {
			c.Request.Headers = append(c.Request.Headers,
				Header{Name: h.Name, Value: redact(h.Value)})
		}
		for _, h := range call.Response.Headers.All() {
			c.Response.Headers = append(c.Response.Headers,
				Header{Name: h.Name, Value: redact(h.Value)})
		}
		entry.Calls = append(entry.Calls, c)
	}
	for _, cap := range er.Captures {
		v := "***"
		if !cap.Secret {
			if s, ok := cap.Value.Render(); ok {
				v = s
			} else {
				v = redact(cap.Value.Repr())
			}
		}
		entry.Captures = append(entry.Captures, Capture{Name: cap.Name, Value: v})
	}
	for _, a := range er.Asserts {
		entry.Asserts = append(entry.Asserts, Assert{
			Kind:     a.Kind.String(),
			Actual:   redact(a.Actual),
			Expected: redact(a.Expected),
			SourceInfo: SourceInfo{
				Line:   a.SourceInfo.Start.Line,
				Column: a.SourceInfo.Start.Column,
			},
			Success: a.Success,
		})
	}
	for _, e := range er.Errors {
		msg := e.Error()
		if variables != nil {
			msg = variables.Redact(msg)
		}
		entry.Errors = append(entry.Errors, Error{
			Message: msg,
			Assert:  e.Assert,
			SourceInfo: SourceInfo{
				Line:   e.SourceInfo.Start.Line,
				Column: e.SourceInfo.Start.Column,
			},
		})
	}
	return entry
}
