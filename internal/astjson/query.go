// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// query.go decodes queries, filters and predicates from their wire
// names into the script enums.

package astjson

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/script"
)

var queryKinds = map[string]script.QueryKind{
	"status":      script.QueryStatus,
	"version":     script.QueryVersion,
	"url":         script.QueryURL,
	"header":      script.QueryHeader,
	"cookie":      script.QueryCookie,
	"body":        script.QueryBody,
	"bytes":       script.QueryBytes,
	"xpath":       script.QueryXPath,
	"jsonpath":    script.QueryJSONPath,
	"regex":       script.QueryRegex,
	"sha256":      script.QuerySHA256,
	"md5":         script.QueryMD5,
	"ip":          script.QueryIP,
	"duration":    script.QueryDuration,
	"certificate": script.QueryCertificate,
	"variable":    script.QueryVariable,
	"env":         script.QueryEnv,
}

var cookieAttrs = map[string]script.CookieAttribute{
	"Value":    script.CookieValue,
	"Expires":  script.CookieExpires,
	"Max-Age":  script.CookieMaxAge,
	"MaxAge":   script.CookieMaxAge,
	"Domain":   script.CookieDomain,
	"Path":     script.CookiePathAttr,
	"Secure":   script.CookieSecure,
	"HttpOnly": script.CookieHTTPOnly,
	"SameSite": script.CookieSameSite,
}

var certFields = map[string]script.CertificateField{
	"Subject":       script.CertSubject,
	"Issuer":        script.CertIssuer,
	"Start-Date":    script.CertStartDate,
	"Expire-Date":   script.CertExpireDate,
	"Serial-Number": script.CertSerialNumber,
}

func (jq jsonQuery) toQuery() (script.Query, error) {
	kind, ok := queryKinds[jq.Type]
	if !ok {
		return script.Query{}, fmt.Errorf("unknown query type %q", jq.Type)
	}
	q := script.Query{Kind: kind, SourceInfo: span(jq.Line)}
	switch kind {
	case script.QueryHeader:
		q.Header = template(jq.Expr, jq.Line)
	case script.QueryCookie:
		name, attr := jq.Expr, "Value"
		if i := strings.IndexByte(jq.Expr, '['); i >= 0 && strings.HasSuffix(jq.Expr, "]") {
			name, attr = jq.Expr[:i], jq.Expr[i+1:len(jq.Expr)-1]
		}
		a, ok := cookieAttrs[attr]
		if !ok {
			return q, fmt.Errorf("unknown cookie attribute %q", attr)
		}
		q.Cookie = script.CookiePath{Name: template(name, jq.Line), Attribute: a}
	case script.QueryXPath, script.QueryJSONPath, script.QueryRegex:
		q.Expr = template(jq.Expr, jq.Line)
	case script.QueryVariable, script.QueryEnv:
		q.Name = template(jq.Expr, jq.Line)
	case script.QueryCertificate:
		f, ok := certFields[jq.Expr]
		if !ok {
			return q, fmt.Errorf("unknown certificate field %q", jq.Expr)
		}
		q.Cert = f
	}
	return q, nil
}

var filterKinds = map[string]script.FilterKind{
	"count":         script.FilterCount,
	"nth":           script.FilterNth,
	"regex":         script.FilterRegex,
	"replace":       script.FilterReplace,
	"split":         script.FilterSplit,
	"decode":        script.FilterDecode,
	"base64Encode":  script.FilterBase64Encode,
	"base64Decode":  script.FilterBase64Decode,
	"htmlEscape":    script.FilterHTMLEscape,
	"htmlUnescape":  script.FilterHTMLUnescape,
	"urlEncode":     script.FilterURLEncode,
	"urlDecode":     script.FilterURLDecode,
	"toInt":         script.FilterToInt,
	"toFloat":       script.FilterToFloat,
	"toDate":        script.FilterToDate,
	"format":        script.FilterFormat,
	"dateFormat":    script.FilterDateFormat,
	"daysBeforeNow": script.FilterDaysBeforeNow,
	"daysAfterNow":  script.FilterDaysAfterNow,
	"jsonpath":      script.FilterJSONPath,
	"xpath":         script.FilterXPath,
}

func (jf jsonFilter) toFilter() (script.Filter, error) {
	kind, ok := filterKinds[jf.Type]
	if !ok {
		return script.Filter{}, fmt.Errorf("unknown filter type %q", jf.Type)
	}
	f := script.Filter{Kind: kind, N: jf.N, SourceInfo: span(jf.Line)}
	switch kind {
	case script.FilterRegex:
		f.Pattern = template(jf.Arg, jf.Line)
	case script.FilterReplace:
		f.Pattern = template(jf.Arg, jf.Line)
		f.Replacement = template(jf.Arg2, jf.Line)
	case script.FilterSplit:
		f.Sep = template(jf.Arg, jf.Line)
	case script.FilterDecode:
		f.Charset = template(jf.Arg, jf.Line)
	case script.FilterToDate, script.FilterFormat, script.FilterDateFormat:
		f.Layout = template(jf.Arg, jf.Line)
	case script.FilterJSONPath, script.FilterXPath:
		f.Expr = template(jf.Arg, jf.Line)
	}
	return f, nil
}

var predicateKinds = map[string]script.PredicateKind{
	"==":           script.PredEqual,
	"equals":       script.PredEqual,
	"!=":           script.PredNotEqual,
	"notEquals":    script.PredNotEqual,
	"<":            script.PredLess,
	"<=":           script.PredLessOrEqual,
	">":            script.PredGreater,
	">=":           script.PredGreaterOrEqual,
	"contains":     script.PredContain,
	"startsWith":   script.PredStartWith,
	"endsWith":     script.PredEndWith,
	"matches":      script.PredMatch,
	"exists":       script.PredExist,
	"isEmpty":      script.PredIsEmpty,
	"isInteger":    script.PredIsInteger,
	"isFloat":      script.PredIsFloat,
	"isBoolean":    script.PredIsBoolean,
	"isString":     script.PredIsString,
	"isCollection": script.PredIsCollection,
	"isDate":       script.PredIsDate,
	"isIsoDate":    script.PredIsIsoDate,
	"includes":     script.PredInclude,
}

func (jp jsonPredicate) toPredicate() (script.Predicate, error) {
	kind, ok := predicateKinds[jp.Type]
	if !ok {
		return script.Predicate{}, fmt.Errorf("unknown predicate type %q", jp.Type)
	}
	p := script.Predicate{Kind: kind, Not: jp.Not, SourceInfo: span(jp.Line)}
	if len(jp.Value) == 0 {
		return p, nil
	}
	op, err := decodeOperand(jp.Value, jp.Line, kind)
	if err != nil {
		return p, err
	}
	p.Operand = op
	return p, nil
}

// decodeOperand maps a JSON literal to a predicate operand. Strings
// are templates; for matches they compile as regexes at evaluation.
func decodeOperand(raw json.RawMessage, line int,
	kind script.PredicateKind) (script.Operand, error) {

	op := script.Operand{SourceInfo: span(line)}
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "null":
		op.Kind = script.OperandNull
		return op, nil
	case text == "true" || text == "false":
		op.Kind = script.OperandBool
		op.Bool = text == "true"
		return op, nil
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return op, err
		}
		if kind == script.PredMatch {
			op.Kind = script.OperandRegex
		} else {
			op.Kind = script.OperandString
		}
		op.Text = template(s, line)
		return op, nil
	case strings.HasPrefix(text, `{`):
		// {"hex": "..."} or {"base64": "..."} byte literals.
		var obj map[string]string
		if err := json.Unmarshal(raw, &obj); err != nil {
			return op, err
		}
		if h, ok := obj["hex"]; ok {
			data, err := hex.DecodeString(h)
			if err != nil {
				return op, fmt.Errorf("invalid hex literal %q", h)
			}
			op.Kind = script.OperandBytes
			op.Bytes = data
			return op, nil
		}
		if b, ok := obj["base64"]; ok {
			data, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return op, fmt.Errorf("invalid base64 literal %q", b)
			}
			op.Kind = script.OperandBytes
			op.Bytes = data
			return op, nil
		}
		return op, fmt.Errorf("unknown operand object %s", text)
	}
	// A number: integer, big integer or float.
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		op.Kind = script.OperandInt
		op.Int = i
		return op, nil
	}
	if isAllDigits(text) {
		op.Kind = script.OperandBigInt
		op.BigInt = text
		return op, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		op.Kind = script.OperandFloat
		op.Float = f
		return op, nil
	}
	return op, fmt.Errorf("invalid operand %s", text)
}

func isAllDigits(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (jc jsonCapture) toCapture() (script.Capture, error) {
	q, err := jc.Query.toQuery()
	if err != nil {
		return script.Capture{}, err
	}
	cap := script.Capture{
		Name:       template(jc.Name, jc.Line),
		Query:      q,
		Redacted:   jc.Redacted,
		SourceInfo: span(jc.Line),
	}
	for _, jf := range jc.Filters {
		f, err := jf.toFilter()
		if err != nil {
			return cap, err
		}
		cap.Filters = append(cap.Filters, f)
	}
	return cap, nil
}

func (ja jsonAssert) toAssert() (script.Assert, error) {
	q, err := ja.Query.toQuery()
	if err != nil {
		return script.Assert{}, err
	}
	p, err := ja.Predicate.toPredicate()
	if err != nil {
		return script.Assert{}, err
	}
	as := script.Assert{Query: q, Predicate: p, SourceInfo: span(ja.Line)}
	for _, jf := range ja.Filters {
		f, err := jf.toFilter()
		if err != nil {
			return as, err
		}
		as.Filters = append(as.Filters, f)
	}
	return as, nil
}
