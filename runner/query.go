// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// query.go evaluates the extraction side of captures and asserts. A
// query yields a value or nothing; "nothing" (e.g. a missing header) is
// not an error.

package runner

import (
	"crypto/md5"
	"crypto/sha256"
	"net/http"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/jsonpath"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

// queryResult is a value or nothing.
type queryResult struct {
	val   value.Value
	found bool
}

func some(v value.Value) queryResult { return queryResult{val: v, found: true} }
func none() queryResult              { return queryResult{} }

// evalQuery evaluates q against the call using the memoizing cache.
func evalQuery(q script.Query, call *client.Call, cache *responseCache,
	variables *vars.Set) (queryResult, *Error) {

	resp := call.Response
	switch q.Kind {
	case script.QueryStatus:
		return some(value.Int(int64(resp.Status))), nil

	case script.QueryVersion:
		return some(value.Str(strings.TrimPrefix(resp.Version, "HTTP/"))), nil

	case script.QueryURL:
		return some(value.Str(resp.URL)), nil

	case script.QueryIP:
		if resp.IP == "" {
			return none(), nil
		}
		return some(value.Str(resp.IP)), nil

	case script.QueryDuration:
		return some(value.Int(call.Timings.Total.Milliseconds())), nil

	case script.QueryHeader:
		name, err := RenderTemplate(q.Header, variables)
		if err != nil {
			return none(), err
		}
		vals := resp.Headers.GetAll(name)
		switch len(vals) {
		case 0:
			return none(), nil
		case 1:
			return some(value.Str(vals[0])), nil
		}
		elems := make([]value.Value, len(vals))
		for i, v := range vals {
			elems[i] = value.Str(v)
		}
		return some(value.List(elems...)), nil

	case script.QueryCookie:
		return evalCookieQuery(q, resp, variables)

	case script.QueryBody:
		body, err := cache.Body(q.SourceInfo)
		if err != nil {
			return none(), err
		}
		if utf8.Valid(body) {
			return some(value.Str(string(body))), nil
		}
		return some(value.Bytes(body)), nil

	case script.QueryBytes:
		body, err := cache.Body(q.SourceInfo)
		if err != nil {
			return none(), err
		}
		return some(value.Bytes(body)), nil

	case script.QuerySHA256:
		body, err := cache.Body(q.SourceInfo)
		if err != nil {
			return none(), err
		}
		sum := sha256.Sum256(body)
		return some(value.Bytes(sum[:])), nil

	case script.QueryMD5:
		body, err := cache.Body(q.SourceInfo)
		if err != nil {
			return none(), err
		}
		sum := md5.Sum(body)
		return some(value.Bytes(sum[:])), nil

	case script.QueryJSONPath:
		expr, err := RenderTemplate(q.Expr, variables)
		if err != nil {
			return none(), err
		}
		return evalJSONPath(expr, q.SourceInfo, cache)

	case script.QueryXPath:
		expr, err := RenderTemplate(q.Expr, variables)
		if err != nil {
			return none(), err
		}
		return evalXPath(expr, q.SourceInfo, cache)

	case script.QueryRegex:
		pattern, err := RenderTemplate(q.Expr, variables)
		if err != nil {
			return none(), err
		}
		re, rerr := regexp.Compile(pattern)
		if rerr != nil {
			return none(), newErr(ErrQueryInvalidRegex, q.SourceInfo, "%s", rerr)
		}
		body, berr := cache.Body(q.SourceInfo)
		if berr != nil {
			return none(), berr
		}
		m := re.FindStringSubmatch(string(body))
		if m == nil {
			return none(), nil
		}
		if len(m) > 1 {
			return some(value.Str(m[1])), nil
		}
		return some(value.Str(m[0])), nil

	case script.QueryCertificate:
		cert := resp.Certificate
		if cert == nil {
			return none(), nil
		}
		switch q.Cert {
		case script.CertSubject:
			return some(value.Str(cert.Subject)), nil
		case script.CertIssuer:
			return some(value.Str(cert.Issuer)), nil
		case script.CertStartDate:
			return some(value.Date(cert.StartDate)), nil
		case script.CertExpireDate:
			return some(value.Date(cert.ExpireDate)), nil
		case script.CertSerialNumber:
			return some(value.Str(cert.SerialNumber)), nil
		}
		return none(), nil

	case script.QueryVariable:
		name, err := RenderTemplate(q.Name, variables)
		if err != nil {
			return none(), err
		}
		if v, ok := variables.Get(name); ok {
			return some(v.Value), nil
		}
		return none(), nil

	case script.QueryEnv:
		name, err := RenderTemplate(q.Name, variables)
		if err != nil {
			return none(), err
		}
		if v, ok := os.LookupEnv(name); ok {
			return some(value.Str(v)), nil
		}
		return none(), nil
	}
	return none(), newErr(ErrNoQueryResult, q.SourceInfo, "unknown query")
}

// evalJSONPath compiles and evaluates a JSONPath expression against the
// memoized JSON document.
func evalJSONPath(expr string, si script.SourceInfo, cache *responseCache) (queryResult, *Error) {
	compiled, err := jsonpath.Parse(expr)
	if err != nil {
		return none(), newErr(ErrInvalidJSONPathExpr, si, "%s", err)
	}
	doc, jerr := cache.JSON(si)
	if jerr != nil {
		return none(), jerr
	}
	nodes := compiled.Eval(doc)
	if len(nodes) == 0 {
		return none(), nil
	}
	if len(nodes) == 1 && !compiled.CollectionForm() {
		return some(nodes[0]), nil
	}
	return some(value.List(nodes...)), nil
}

// evalXPath evaluates an XPath expression. HTML responses parse
// tolerantly, everything else strictly as XML.
func evalXPath(expr string, si script.SourceInfo, cache *responseCache) (queryResult, *Error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return none(), newErr(ErrInvalidXPathEval, si, "%s", err)
	}

	var result interface{}
	if cache.isHTML() {
		doc, herr := cache.HTML(si)
		if herr != nil {
			return none(), herr
		}
		result = compiled.Evaluate(htmlquery.CreateXPathNavigator(doc))
	} else {
		doc, xerr := cache.XML(si)
		if xerr != nil {
			return none(), xerr
		}
		result = compiled.Evaluate(xmlquery.CreateXPathNavigator(doc))
	}

	switch r := result.(type) {
	case float64:
		return some(value.Float(r)), nil
	case bool:
		return some(value.Bool(r)), nil
	case string:
		return some(value.Str(r)), nil
	case *xpath.NodeIterator:
		n := 0
		for r.MoveNext() {
			n++
		}
		return some(value.Nodeset(n)), nil
	}
	return none(), newErr(ErrInvalidXPathEval, si, "unsupported result %T", result)
}

// evalCookieQuery extracts a cookie attribute from the Set-Cookie
// headers of the response.
func evalCookieQuery(q script.Query, resp *client.Response, variables *vars.Set) (queryResult, *Error) {
	name, err := RenderTemplate(q.Cookie.Name, variables)
	if err != nil {
		return none(), err
	}

	ck := findSetCookie(resp, name)
	if ck == nil {
		return none(), nil
	}

	switch q.Cookie.Attribute {
	case script.CookieValue:
		return some(value.Str(ck.Value)), nil
	case script.CookieExpires:
		if ck.Expires.IsZero() {
			return none(), nil
		}
		return some(value.Date(ck.Expires)), nil
	case script.CookieMaxAge:
		if ck.MaxAge == 0 {
			return none(), nil
		}
		return some(value.Int(int64(ck.MaxAge))), nil
	case script.CookieDomain:
		if ck.Domain == "" {
			return none(), nil
		}
		return some(value.Str(ck.Domain)), nil
	case script.CookiePathAttr:
		if ck.Path == "" {
			return none(), nil
		}
		return some(value.Str(ck.Path)), nil
	case script.CookieSecure:
		if !ck.Secure {
			return none(), nil
		}
		return some(value.Unit()), nil
	case script.CookieHTTPOnly:
		if !ck.HttpOnly {
			return none(), nil
		}
		return some(value.Unit()), nil
	case script.CookieSameSite:
		switch ck.SameSite {
		case http.SameSiteLaxMode:
			return some(value.Str("Lax")), nil
		case http.SameSiteStrictMode:
			return some(value.Str("Strict")), nil
		case http.SameSiteNoneMode:
			return some(value.Str("None")), nil
		}
		return none(), nil
	}
	return none(), nil
}

// findSetCookie parses the response's Set-Cookie headers and returns the
// first cookie with the given name.
func findSetCookie(resp *client.Response, name string) *http.Cookie {
	header := http.Header{}
	for _, v := range resp.Headers.GetAll("Set-Cookie") {
		header.Add("Set-Cookie", v)
	}
	fake := &http.Response{Header: header}
	for _, ck := range fake.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
