// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

func fakeCall(body string, headers ...client.Header) *client.Call {
	return &client.Call{
		Request: &client.Request{Method: "GET", URL: "http://example.org/x"},
		Response: &client.Response{
			Version: "HTTP/1.1",
			Status:  200,
			Headers: client.NewHeaderList(headers...),
			Body:    []byte(body),
			URL:     "http://example.org/x",
			IP:      "93.184.216.34",
		},
		Timings: client.Timings{Total: 123 * time.Millisecond},
	}
}

func evalQ(t *testing.T, q script.Query, call *client.Call) queryResult {
	t.Helper()
	res, err := evalQuery(q, call, newResponseCache(call.Response), vars.NewSet())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return res
}

func TestQueryStatusVersionURLIPDuration(t *testing.T) {
	call := fakeCall("ok")

	res := evalQ(t, script.Query{Kind: script.QueryStatus}, call)
	if !res.val.Equal(value.Int(200)) {
		t.Errorf("status %s", res.val.Repr())
	}
	res = evalQ(t, script.Query{Kind: script.QueryVersion}, call)
	if !res.val.Equal(value.Str("1.1")) {
		t.Errorf("version %s", res.val.Repr())
	}
	res = evalQ(t, script.Query{Kind: script.QueryURL}, call)
	if !res.val.Equal(value.Str("http://example.org/x")) {
		t.Errorf("url %s", res.val.Repr())
	}
	res = evalQ(t, script.Query{Kind: script.QueryIP}, call)
	if !res.val.Equal(value.Str("93.184.216.34")) {
		t.Errorf("ip %s", res.val.Repr())
	}
	res = evalQ(t, script.Query{Kind: script.QueryDuration}, call)
	if !res.val.Equal(value.Int(123)) {
		t.Errorf("duration %s", res.val.Repr())
	}
}

func TestQueryHeader(t *testing.T) {
	call := fakeCall("",
		client.Header{Name: "Content-Type", Value: "text/plain"},
		client.Header{Name: "X-Tag", Value: "one"},
		client.Header{Name: "X-Tag", Value: "two"},
	)

	res := evalQ(t, script.Query{
		Kind: script.QueryHeader, Header: script.Plain("content-type")}, call)
	if !res.val.Equal(value.Str("text/plain")) {
		t.Errorf("got %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryHeader, Header: script.Plain("X-Tag")}, call)
	want := value.List(value.Str("one"), value.Str("two"))
	if !res.val.Equal(want) {
		t.Errorf("got %s", res.val.Repr())
	}

	// A missing header is absent, not an error.
	res = evalQ(t, script.Query{
		Kind: script.QueryHeader, Header: script.Plain("X-Missing")}, call)
	if res.found {
		t.Error("missing header should be absent")
	}
}

func TestQueryCookie(t *testing.T) {
	call := fakeCall("", client.Header{Name: "Set-Cookie",
		Value: "sid=abc; Path=/app; Max-Age=60; Secure; HttpOnly; SameSite=Lax"})

	q := func(attr script.CookieAttribute) script.Query {
		return script.Query{Kind: script.QueryCookie, Cookie: script.CookiePath{
			Name: script.Plain("sid"), Attribute: attr}}
	}
	if res := evalQ(t, q(script.CookieValue), call); !res.val.Equal(value.Str("abc")) {
		t.Errorf("value %s", res.val.Repr())
	}
	if res := evalQ(t, q(script.CookiePathAttr), call); !res.val.Equal(value.Str("/app")) {
		t.Errorf("path %s", res.val.Repr())
	}
	if res := evalQ(t, q(script.CookieMaxAge), call); !res.val.Equal(value.Int(60)) {
		t.Errorf("max-age %s", res.val.Repr())
	}
	if res := evalQ(t, q(script.CookieSecure), call); res.val.Kind() != value.KindUnit {
		t.Errorf("secure %s", res.val.Repr())
	}
	if res := evalQ(t, q(script.CookieSameSite), call); !res.val.Equal(value.Str("Lax")) {
		t.Errorf("samesite %s", res.val.Repr())
	}

	missing := script.Query{Kind: script.QueryCookie, Cookie: script.CookiePath{
		Name: script.Plain("other")}}
	if res := evalQ(t, missing, call); res.found {
		t.Error("missing cookie should be absent")
	}
}

func TestQueryBodyAndBytes(t *testing.T) {
	call := fakeCall("hello")
	res := evalQ(t, script.Query{Kind: script.QueryBody}, call)
	if !res.val.Equal(value.Str("hello")) {
		t.Errorf("body %s", res.val.Repr())
	}
	res = evalQ(t, script.Query{Kind: script.QueryBytes}, call)
	if !res.val.Equal(value.Bytes([]byte("hello"))) {
		t.Errorf("bytes %s", res.val.Repr())
	}
}

func TestQuerySHA256(t *testing.T) {
	call := fakeCall("abc")
	res := evalQ(t, script.Query{Kind: script.QuerySHA256}, call)
	sum := sha256.Sum256([]byte("abc"))
	if !res.val.Equal(value.Bytes(sum[:])) {
		t.Errorf("sha256 %s", res.val.Repr())
	}
}

func TestQueryJSONPath(t *testing.T) {
	call := fakeCall(`{"a":[{"id":10},{"id":20}]}`)

	res := evalQ(t, script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("$.a[0].id")}, call)
	if !res.val.Equal(value.Int(10)) {
		t.Errorf("got %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("$.a[*].id")}, call)
	if !res.val.Equal(value.List(value.Int(10), value.Int(20))) {
		t.Errorf("got %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("$.missing")}, call)
	if res.found {
		t.Error("missing element should be absent")
	}

	_, err := evalQuery(script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("not-a-path")},
		call, newResponseCache(call.Response), vars.NewSet())
	if err == nil || err.Kind != ErrInvalidJSONPathExpr {
		t.Errorf("got %v", err)
	}

	bad := fakeCall("{not json")
	_, err = evalQuery(script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("$.a")},
		bad, newResponseCache(bad.Response), vars.NewSet())
	if err == nil || err.Kind != ErrInvalidJSON {
		t.Errorf("got %v", err)
	}
}

// Spec scenario: capture with filter chain picks the second id.
func TestQueryJSONPathWithNthFilter(t *testing.T) {
	call := fakeCall(`{"a":[{"id":10},{"id":20}]}`)
	res := evalQ(t, script.Query{
		Kind: script.QueryJSONPath, Expr: script.Plain("$.a[*].id")}, call)

	got, err := evalFilters([]script.Filter{{Kind: script.FilterNth, N: 1}},
		res, vars.NewSet(), NopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !got.val.Equal(value.Int(20)) {
		t.Errorf("second_id = %s", got.val.Repr())
	}
}

func TestQueryXPathHTML(t *testing.T) {
	call := fakeCall(`<html><body><p>one</p><p>two</p></body></html>`,
		client.Header{Name: "Content-Type", Value: "text/html"})

	res := evalQ(t, script.Query{
		Kind: script.QueryXPath, Expr: script.Plain("count(//p)")}, call)
	if !res.val.Equal(value.Float(2)) {
		t.Errorf("count %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryXPath, Expr: script.Plain("string(//p[1])")}, call)
	if !res.val.Equal(value.Str("one")) {
		t.Errorf("string %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryXPath, Expr: script.Plain("//p")}, call)
	if n, ok := res.val.NodesetSize(); !ok || n != 2 {
		t.Errorf("nodeset %s", res.val.Repr())
	}
}

func TestQueryXPathXMLStrict(t *testing.T) {
	call := fakeCall(`<root><item>x</item></root>`,
		client.Header{Name: "Content-Type", Value: "application/xml"})
	res := evalQ(t, script.Query{
		Kind: script.QueryXPath, Expr: script.Plain("string(/root/item)")}, call)
	if !res.val.Equal(value.Str("x")) {
		t.Errorf("got %s", res.val.Repr())
	}
}

func TestQueryRegex(t *testing.T) {
	call := fakeCall("version: 1.2.3")
	res := evalQ(t, script.Query{
		Kind: script.QueryRegex, Expr: script.Plain(`version: (\d+\.\d+\.\d+)`)}, call)
	if !res.val.Equal(value.Str("1.2.3")) {
		t.Errorf("got %s", res.val.Repr())
	}

	res = evalQ(t, script.Query{
		Kind: script.QueryRegex, Expr: script.Plain("nomatch")}, call)
	if res.found {
		t.Error("no match should be absent")
	}
}

func TestQueryVariableAndEnv(t *testing.T) {
	call := fakeCall("")
	vs := vars.NewSet()
	vs.Insert("known", value.Int(7))

	res, err := evalQuery(script.Query{
		Kind: script.QueryVariable, Name: script.Plain("known")},
		call, newResponseCache(call.Response), vs)
	if err != nil || !res.val.Equal(value.Int(7)) {
		t.Errorf("got %v %v", res, err)
	}

	t.Setenv("HURL_QUERY_TEST_ENV", "zap")
	res = evalQ(t, script.Query{
		Kind: script.QueryEnv, Name: script.Plain("HURL_QUERY_TEST_ENV")}, call)
	if !res.val.Equal(value.Str("zap")) {
		t.Errorf("got %s", res.val.Repr())
	}
}
