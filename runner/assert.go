// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// assert.go runs the implicit asserts (version, status, headers, body)
// followed by the explicit ones. A failing assert never aborts the
// remaining asserts of the entry; every failure is reported.

package runner

import (
	"bytes"
	"fmt"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/vars"
)

// runAsserts evaluates every assert of the response against the call.
func runAsserts(resp *script.Response, call *client.Call,
	cache *responseCache, variables *vars.Set, log Logger) []AssertResult {

	var results []AssertResult

	// 1. HTTP version.
	if !resp.VersionAny() {
		results = append(results, assertVersion(resp, call))
	}

	// 2. Status code.
	results = append(results, assertStatus(resp, call))

	// 3. Declared headers: at least one actual same-name header must
	// match the declared value exactly.
	for _, h := range resp.Headers {
		results = append(results, assertHeader(h, call, variables))
	}

	// 4. Declared body.
	if resp.Body != nil {
		results = append(results, assertBody(resp.Body, cache, variables))
	}

	// 5. Explicit asserts in declaration order.
	for _, a := range resp.Asserts {
		results = append(results, runExplicitAssert(a, call, cache, variables, log))
	}

	return results
}

func assertVersion(resp *script.Response, call *client.Call) AssertResult {
	actual := call.Response.Version
	res := AssertResult{
		Kind:       AssertVersion,
		SourceInfo: resp.SourceInfo,
		Actual:     actual,
		Expected:   resp.Version,
		Success:    actual == resp.Version,
	}
	if !res.Success {
		res.Err = &Error{
			Kind:       ErrAssertVersion,
			SourceInfo: resp.SourceInfo,
			Assert:     true,
			Actual:     actual,
			Expected:   resp.Version,
		}
	}
	return res
}

func assertStatus(resp *script.Response, call *client.Call) AssertResult {
	actual := call.Response.Status
	expected := describeStatus(resp.Status)
	res := AssertResult{
		Kind:       AssertStatus,
		SourceInfo: resp.Status.SourceInfo,
		Actual:     fmt.Sprintf("%d", actual),
		Expected:   expected,
		Success:    resp.Status.Matches(actual),
	}
	if !res.Success {
		res.Err = &Error{
			Kind:       ErrAssertStatus,
			SourceInfo: resp.Status.SourceInfo,
			Assert:     true,
			Actual:     res.Actual,
			Expected:   expected,
		}
	}
	return res
}

func describeStatus(s script.StatusSpec) string {
	switch s.Kind {
	case script.StatusAny:
		return "*"
	case script.StatusRange:
		return fmt.Sprintf("%dxx", s.Code)
	}
	return fmt.Sprintf("%d", s.Code)
}

func assertHeader(h script.Header, call *client.Call, variables *vars.Set) AssertResult {
	res := AssertResult{Kind: AssertHeader, SourceInfo: h.SourceInfo}

	name, err := RenderTemplate(h.Key, variables)
	if err != nil {
		res.Err = err
		return res
	}
	want, err := RenderTemplate(h.Value, variables)
	if err != nil {
		res.Err = err
		return res
	}
	res.Expected = want

	actuals := call.Response.Headers.GetAll(name)
	if len(actuals) == 0 {
		res.Err = &Error{
			Kind:       ErrAssertHeaderNotFound,
			SourceInfo: h.SourceInfo,
			Assert:     true,
			Msg:        name,
			Expected:   want,
		}
		return res
	}
	for _, a := range actuals {
		if a == want {
			res.Success = true
			res.Actual = a
			return res
		}
	}
	res.Actual = actuals[0]
	res.Err = &Error{
		Kind:       ErrAssertHeaderValue,
		SourceInfo: h.SourceInfo,
		Assert:     true,
		Msg:        name,
		Actual:     res.Actual,
		Expected:   want,
	}
	return res
}

func assertBody(body *script.Body, cache *responseCache, variables *vars.Set) AssertResult {
	res := AssertResult{Kind: AssertBody, SourceInfo: body.SourceInfo}

	want, err := expectedBodyBytes(body, variables)
	if err != nil {
		res.Err = err
		return res
	}
	actual, err := cache.Body(body.SourceInfo)
	if err != nil {
		res.Err = err
		return res
	}
	res.Expected = previewBytes(want)
	res.Actual = previewBytes(actual)
	if bytes.Equal(actual, want) {
		res.Success = true
		return res
	}
	res.Err = &Error{
		Kind:       ErrAssertBodyValue,
		SourceInfo: body.SourceInfo,
		Assert:     true,
		Actual:     res.Actual,
		Expected:   res.Expected,
	}
	return res
}

func expectedBodyBytes(body *script.Body, variables *vars.Set) ([]byte, *Error) {
	switch body.Kind {
	case script.BodyBinary:
		return body.Data, nil
	default:
		s, err := RenderTemplate(body.Text, variables)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}

// previewBytes shortens a body for reporting.
func previewBytes(b []byte) string {
	const max = 64
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}

func runExplicitAssert(a script.Assert, call *client.Call,
	cache *responseCache, variables *vars.Set, log Logger) AssertResult {

	res := AssertResult{Kind: AssertExplicit, SourceInfo: a.SourceInfo}

	q, err := evalQuery(a.Query, call, cache, variables)
	if err != nil {
		res.Err = err
		return res
	}
	if q.found && len(a.Filters) > 0 {
		q, err = evalFilters(a.Filters, q, variables, log)
		if err != nil {
			res.Err = err
			return res
		}
	}

	if err := evalPredicate(a.Predicate, q, variables); err != nil {
		res.Err = err
		res.Actual = err.Actual
		res.Expected = err.Expected
		return res
	}
	res.Success = true
	res.Actual = reprOf(q)
	return res
}
