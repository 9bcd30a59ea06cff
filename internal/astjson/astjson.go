// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astjson loads the JSON AST export of the external script
// parser into the script package types. The textual script syntax stays
// outside this module; this is only the exchange format between the
// parser and the runner.
package astjson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hurlgo/hurl/script"
)

// Load decodes one parsed script file.
func Load(filename string, data []byte) (*script.Script, error) {
	var doc struct {
		Entries []jsonEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %s", filename, err)
	}
	s := &script.Script{Filename: filename}
	for i, je := range doc.Entries {
		entry, err := je.toEntry()
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %s", filename, i+1, err)
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, nil
}

type jsonEntry struct {
	Request  *jsonRequest  `json:"request"`
	Response *jsonResponse `json:"response"`
	Line     int           `json:"line"`
}

type jsonKV struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Line  int    `json:"line"`
}

type jsonRequest struct {
	Method      string       `json:"method"`
	URL         string       `json:"url"`
	Headers     []jsonKV     `json:"headers"`
	QueryParams []jsonKV     `json:"query_string_params"`
	FormParams  []jsonKV     `json:"form_params"`
	Cookies     []jsonKV     `json:"cookies"`
	BasicAuth   *jsonKV      `json:"basic_auth"`
	Body        *jsonBody    `json:"body"`
	Options     *jsonOptions `json:"options"`
}

type jsonBody struct {
	Type  string `json:"type"` // "text", "base64", "file"
	Value string `json:"value"`
}

type jsonOptions struct {
	DelayMS         *int64   `json:"delay"`
	Retry           *int     `json:"retry"`
	RetryIntervalMS *int64   `json:"retry_interval"`
	Location        *bool    `json:"location"`
	MaxRedirs       *int     `json:"max_redirs"`
	Insecure        *bool    `json:"insecure"`
	Compressed      *bool    `json:"compressed"`
	HTTPVersion     *string  `json:"http_version"`
	IPVersion       *string  `json:"ip_version"`
	User            *string  `json:"user"`
	Proxy           *string  `json:"proxy"`
	Output          *string  `json:"output"`
	Skip            *bool    `json:"skip"`
	Variables       []jsonKV `json:"variables"`
	Secrets         []jsonKV `json:"secrets"`
}

type jsonResponse struct {
	Version  string        `json:"version"`
	Status   string        `json:"status"`
	Headers  []jsonKV      `json:"headers"`
	Captures []jsonCapture `json:"captures"`
	Asserts  []jsonAssert  `json:"asserts"`
	Body     *jsonBody     `json:"body"`
	Line     int           `json:"line"`
}

type jsonCapture struct {
	Name     string       `json:"name"`
	Query    jsonQuery    `json:"query"`
	Filters  []jsonFilter `json:"filters"`
	Redacted bool         `json:"redact"`
	Line     int          `json:"line"`
}

type jsonQuery struct {
	Type string `json:"type"`
	// Expr holds the header name, cookie path, jsonpath/xpath/regex
	// expression, variable or env name, or certificate field.
	Expr string `json:"expr"`
	Line int    `json:"line"`
}

type jsonFilter struct {
	Type string `json:"type"`
	N    int64  `json:"n"`
	Arg  string `json:"arg"`
	Arg2 string `json:"arg2"`
	Line int    `json:"line"`
}

type jsonAssert struct {
	Query     jsonQuery     `json:"query"`
	Filters   []jsonFilter  `json:"filters"`
	Predicate jsonPredicate `json:"predicate"`
	Line      int           `json:"line"`
}

type jsonPredicate struct {
	Type  string          `json:"type"`
	Not   bool            `json:"not"`
	Value json.RawMessage `json:"value"`
	Line  int             `json:"line"`
}

func span(line int) script.SourceInfo {
	if line == 0 {
		return script.SourceInfo{}
	}
	return script.Span(line, 1, line, 1)
}

// template splits {{name}} placeholders out of s.
func template(s string, line int) script.Template {
	t := script.Template{SourceInfo: span(line)}
	for {
		i := strings.Index(s, "{{")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}}")
		if j < 0 {
			break
		}
		if i > 0 {
			t.Elements = append(t.Elements, script.Element{
				Kind: script.ElementString, Value: s[:i], Source: s[:i]})
		}
		name := strings.TrimSpace(s[i+2 : i+j])
		expr := script.Expr{Kind: script.ExprVariable, Name: name, SourceInfo: span(line)}
		if name == "newUuid" || name == "newDate" {
			expr.Kind = script.ExprFunction
		}
		t.Elements = append(t.Elements, script.Element{
			Kind: script.ElementPlaceholder, Expr: expr})
		s = s[i+j+2:]
	}
	if s != "" {
		t.Elements = append(t.Elements, script.Element{
			Kind: script.ElementString, Value: s, Source: s})
	}
	return t
}

func (je jsonEntry) toEntry() (*script.Entry, error) {
	if je.Request == nil {
		return nil, fmt.Errorf("missing request")
	}
	req, err := je.Request.toRequest()
	if err != nil {
		return nil, err
	}
	entry := &script.Entry{Request: req, SourceInfo: span(je.Line)}
	if je.Response != nil {
		resp, err := je.Response.toResponse()
		if err != nil {
			return nil, err
		}
		entry.Response = resp
	}
	return entry, nil
}

func (jr *jsonRequest) toRequest() (*script.Request, error) {
	req := &script.Request{
		Method: jr.Method,
		URL:    template(jr.URL, 0),
	}
	for _, h := range jr.Headers {
		req.Headers = append(req.Headers, script.Header{
			Key:        template(h.Name, h.Line),
			Value:      template(h.Value, h.Line),
			SourceInfo: span(h.Line),
		})
	}
	for _, p := range jr.QueryParams {
		req.QueryParams = append(req.QueryParams, script.Param{
			Key: template(p.Name, p.Line), Value: template(p.Value, p.Line),
			SourceInfo: span(p.Line)})
	}
	for _, p := range jr.FormParams {
		req.FormParams = append(req.FormParams, script.Param{
			Key: template(p.Name, p.Line), Value: template(p.Value, p.Line),
			SourceInfo: span(p.Line)})
	}
	for _, c := range jr.Cookies {
		req.Cookies = append(req.Cookies, script.RequestCookie{
			Name: template(c.Name, c.Line), Value: template(c.Value, c.Line),
			SourceInfo: span(c.Line)})
	}
	if jr.BasicAuth != nil {
		req.BasicAuth = &script.BasicAuth{
			User:     template(jr.BasicAuth.Name, jr.BasicAuth.Line),
			Password: template(jr.BasicAuth.Value, jr.BasicAuth.Line),
		}
	}
	if jr.Body != nil {
		body, err := jr.Body.toBody()
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	if jr.Options != nil {
		req.Options = jr.Options.toOptions()
	}
	return req, nil
}

func (jb *jsonBody) toBody() (*script.Body, error) {
	switch jb.Type {
	case "text", "":
		return &script.Body{Kind: script.BodyText, Text: template(jb.Value, 0)}, nil
	case "base64":
		data, err := base64.StdEncoding.DecodeString(jb.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 body: %s", err)
		}
		return &script.Body{Kind: script.BodyBinary, Data: data}, nil
	case "file":
		return &script.Body{Kind: script.BodyFile, File: template(jb.Value, 0)}, nil
	}
	return nil, fmt.Errorf("unknown body type %q", jb.Type)
}

func (jo *jsonOptions) toOptions() *script.EntryOptions {
	eo := &script.EntryOptions{
		Retry:        jo.Retry,
		MaxRedirects: jo.MaxRedirs,
		Insecure:     jo.Insecure,
		Compressed:   jo.Compressed,
		HTTPVersion:  jo.HTTPVersion,
		IPVersion:    jo.IPVersion,
		Skip:         jo.Skip,
	}
	eo.FollowRedirect = jo.Location
	if jo.DelayMS != nil {
		d := time.Duration(*jo.DelayMS) * time.Millisecond
		eo.Delay = &d
	}
	if jo.RetryIntervalMS != nil {
		d := time.Duration(*jo.RetryIntervalMS) * time.Millisecond
		eo.RetryInterval = &d
	}
	if jo.User != nil {
		t := template(*jo.User, 0)
		eo.User = &t
	}
	if jo.Proxy != nil {
		t := template(*jo.Proxy, 0)
		eo.Proxy = &t
	}
	if jo.Output != nil {
		t := template(*jo.Output, 0)
		eo.Output = &t
	}
	for _, v := range jo.Variables {
		eo.Variables = append(eo.Variables, script.OptionVariable{
			Name: v.Name, Value: template(v.Value, v.Line), SourceInfo: span(v.Line)})
	}
	for _, v := range jo.Secrets {
		eo.Variables = append(eo.Variables, script.OptionVariable{
			Name: v.Name, Value: template(v.Value, v.Line), Secret: true,
			SourceInfo: span(v.Line)})
	}
	return eo
}

func (jr *jsonResponse) toResponse() (*script.Response, error) {
	resp := &script.Response{
		Version:    jr.Version,
		SourceInfo: span(jr.Line),
	}
	status, err := parseStatus(jr.Status, jr.Line)
	if err != nil {
		return nil, err
	}
	resp.Status = status
	for _, h := range jr.Headers {
		resp.Headers = append(resp.Headers, script.Header{
			Key: template(h.Name, h.Line), Value: template(h.Value, h.Line),
			SourceInfo: span(h.Line)})
	}
	for _, c := range jr.Captures {
		cap, err := c.toCapture()
		if err != nil {
			return nil, err
		}
		resp.Captures = append(resp.Captures, cap)
	}
	for _, a := range jr.Asserts {
		as, err := a.toAssert()
		if err != nil {
			return nil, err
		}
		resp.Asserts = append(resp.Asserts, as)
	}
	if jr.Body != nil {
		body, err := jr.Body.toBody()
		if err != nil {
			return nil, err
		}
		resp.Body = body
	}
	return resp, nil
}

func parseStatus(s string, line int) (script.StatusSpec, error) {
	spec := script.StatusSpec{SourceInfo: span(line)}
	switch {
	case s == "" || s == "*":
		spec.Kind = script.StatusAny
	case len(s) == 3 && strings.HasSuffix(s, "xx"):
		spec.Kind = script.StatusRange
		spec.Code = int(s[0] - '0')
		if spec.Code < 1 || spec.Code > 5 {
			return spec, fmt.Errorf("invalid status range %q", s)
		}
	default:
		var code int
		if _, err := fmt.Sscanf(s, "%d", &code); err != nil {
			return spec, fmt.Errorf("invalid status %q", s)
		}
		spec.Kind = script.StatusExact
		spec.Code = code
	}
	return spec, nil
}
