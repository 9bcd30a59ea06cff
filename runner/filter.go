// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// filter.go evaluates the pure transform pipeline between a query and
// its predicate or capture. Each filter maps a value to a value or to
// nothing; one empty link fails the whole chain with NoFilterResult
// spanning the chain, because "which filter dropped it" is not always
// meaningful.

package runner

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/hurlgo/hurl/jsonpath"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

// evalFilters runs the chain over the query result. The input must be
// present; an absent input is a FilterMissingInput error on the first
// filter.
func evalFilters(filters []script.Filter, in queryResult,
	variables *vars.Set, log Logger) (queryResult, *Error) {

	if len(filters) == 0 {
		return in, nil
	}
	if !in.found {
		return none(), newErr(ErrFilterMissingInput, filters[0].SourceInfo,
			"the filter input is missing")
	}

	span := filters[0].SourceInfo
	cur := in
	for _, f := range filters {
		span = span.Merge(f.SourceInfo)
		next, err := evalFilter(f, cur.val, variables, log)
		if err != nil {
			return none(), err
		}
		if !next.found {
			return none(), newErr(ErrNoFilterResult, span, "no filter result")
		}
		cur = next
	}
	return cur, nil
}

func evalFilter(f script.Filter, in value.Value,
	variables *vars.Set, log Logger) (queryResult, *Error) {

	switch f.Kind {
	case script.FilterCount:
		return filterCount(f, in)
	case script.FilterNth:
		return filterNth(f, in)
	case script.FilterRegex:
		return filterRegex(f, in, variables)
	case script.FilterReplace:
		return filterReplace(f, in, variables)
	case script.FilterSplit:
		return filterSplit(f, in, variables)
	case script.FilterDecode:
		return filterDecode(f, in, variables)
	case script.FilterBase64Encode:
		b, err := inputBytes(f, in)
		if err != nil {
			return none(), err
		}
		return some(value.Str(base64.StdEncoding.EncodeToString(b))), nil
	case script.FilterBase64Decode:
		s, err := inputString(f, in)
		if err != nil {
			return none(), err
		}
		b, derr := base64.StdEncoding.DecodeString(s)
		if derr != nil {
			return none(), newErr(ErrInvalidDecoding, f.SourceInfo, "base64: %s", derr)
		}
		return some(value.Bytes(b)), nil
	case script.FilterHTMLEscape:
		s, err := inputString(f, in)
		if err != nil {
			return none(), err
		}
		return some(value.Str(html.EscapeString(s))), nil
	case script.FilterHTMLUnescape:
		s, err := inputString(f, in)
		if err != nil {
			return none(), err
		}
		return some(value.Str(html.UnescapeString(s))), nil
	case script.FilterURLEncode:
		s, err := inputString(f, in)
		if err != nil {
			return none(), err
		}
		return some(value.Str(url.QueryEscape(s))), nil
	case script.FilterURLDecode:
		s, err := inputString(f, in)
		if err != nil {
			return none(), err
		}
		d, derr := url.QueryUnescape(s)
		if derr != nil {
			return none(), newErr(ErrInvalidDecoding, f.SourceInfo, "%s", derr)
		}
		return some(value.Str(d)), nil
	case script.FilterToInt:
		return filterToInt(f, in)
	case script.FilterToFloat:
		return filterToFloat(f, in)
	case script.FilterToDate:
		return filterToDate(f, in, variables)
	case script.FilterFormat:
		log.Warnf("the format filter is deprecated, use dateFormat")
		return filterDateFormat(f, in, variables)
	case script.FilterDateFormat:
		return filterDateFormat(f, in, variables)
	case script.FilterDaysBeforeNow:
		d, ok := in.AsDate()
		if !ok {
			return none(), invalidInput(f, in)
		}
		return some(value.Int(int64(time.Until(d).Hours() / -24))), nil
	case script.FilterDaysAfterNow:
		d, ok := in.AsDate()
		if !ok {
			return none(), invalidInput(f, in)
		}
		return some(value.Int(int64(time.Until(d).Hours() / 24))), nil
	case script.FilterJSONPath:
		return filterJSONPath(f, in, variables)
	case script.FilterXPath:
		return filterXPath(f, in, variables)
	}
	return none(), newErr(ErrFilterInvalidInput, f.SourceInfo, "unknown filter")
}

func invalidInput(f script.Filter, in value.Value) *Error {
	return newErr(ErrFilterInvalidInput, f.SourceInfo,
		"%s is not a valid input of %s", in.Kind(), f.Kind)
}

func inputString(f script.Filter, in value.Value) (string, *Error) {
	if s, ok := in.AsString(); ok {
		return s, nil
	}
	return "", invalidInput(f, in)
}

func inputBytes(f script.Filter, in value.Value) ([]byte, *Error) {
	if b, ok := in.AsBytes(); ok {
		return b, nil
	}
	if s, ok := in.AsString(); ok {
		return []byte(s), nil
	}
	return nil, invalidInput(f, in)
}

func filterCount(f script.Filter, in value.Value) (queryResult, *Error) {
	switch in.Kind() {
	case value.KindList:
		l, _ := in.AsList()
		return some(value.Int(int64(len(l)))), nil
	case value.KindBytes:
		b, _ := in.AsBytes()
		return some(value.Int(int64(len(b)))), nil
	case value.KindNodeset:
		n, _ := in.NodesetSize()
		return some(value.Int(int64(n))), nil
	case value.KindString:
		s, _ := in.AsString()
		return some(value.Int(int64(utf8.RuneCountInString(s)))), nil
	}
	return none(), invalidInput(f, in)
}

func filterNth(f script.Filter, in value.Value) (queryResult, *Error) {
	l, ok := in.AsList()
	if !ok {
		return none(), invalidInput(f, in)
	}
	n := f.N
	if n < 0 {
		n += int64(len(l))
	}
	if n < 0 || n >= int64(len(l)) {
		return none(), newErr(ErrFilterInvalidInput, f.SourceInfo,
			"out of bound - size is %d", len(l))
	}
	return some(l[n]), nil
}

func filterRegex(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	pattern, terr := RenderTemplate(f.Pattern, variables)
	if terr != nil {
		return none(), terr
	}
	re, cerr := regexp.Compile(pattern)
	if cerr != nil {
		return none(), newErr(ErrInvalidRegex, f.SourceInfo, "%s", cerr)
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return none(), nil // a legitimate "no result"
	}
	if len(m) > 1 {
		return some(value.Str(m[1])), nil
	}
	return some(value.Str(m[0])), nil
}

func filterReplace(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	old, terr := RenderTemplate(f.Pattern, variables)
	if terr != nil {
		return none(), terr
	}
	new_, terr := RenderTemplate(f.Replacement, variables)
	if terr != nil {
		return none(), terr
	}
	return some(value.Str(strings.ReplaceAll(s, old, new_))), nil
}

func filterSplit(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	sep, terr := RenderTemplate(f.Sep, variables)
	if terr != nil {
		return none(), terr
	}
	parts := strings.Split(s, sep)
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.Str(p)
	}
	return some(value.List(elems...)), nil
}

func filterDecode(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	b, err := inputBytes(f, in)
	if err != nil {
		return none(), err
	}
	name, terr := RenderTemplate(f.Charset, variables)
	if terr != nil {
		return none(), terr
	}
	enc, eerr := ianaindex.IANA.Encoding(name)
	if eerr != nil || enc == nil {
		return none(), newErr(ErrInvalidCharset, f.SourceInfo, "%q", name)
	}
	decoded, derr := enc.NewDecoder().Bytes(b)
	if derr != nil {
		return none(), newErr(ErrInvalidDecoding, f.SourceInfo, "%s", derr)
	}
	return some(value.Str(string(decoded))), nil
}

func filterToInt(f script.Filter, in value.Value) (queryResult, *Error) {
	switch in.Kind() {
	case value.KindInteger, value.KindBigInteger:
		return some(in), nil
	case value.KindString:
		s, _ := in.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return none(), newErr(ErrFilterInvalidInput, f.SourceInfo,
				"%q cannot be parsed as an integer", s)
		}
		return some(value.Int(i)), nil
	}
	return none(), invalidInput(f, in)
}

func filterToFloat(f script.Filter, in value.Value) (queryResult, *Error) {
	switch in.Kind() {
	case value.KindFloat:
		return some(in), nil
	case value.KindInteger:
		i, _ := in.AsInt()
		return some(value.Float(float64(i))), nil
	case value.KindString:
		s, _ := in.AsString()
		fl, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return none(), newErr(ErrFilterInvalidInput, f.SourceInfo,
				"%q cannot be parsed as a float", s)
		}
		return some(value.Float(fl)), nil
	}
	return none(), invalidInput(f, in)
}

func filterToDate(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	format, terr := RenderTemplate(f.Layout, variables)
	if terr != nil {
		return none(), terr
	}
	layout, lerr := strftimeLayout(format)
	if lerr != nil {
		return none(), newErr(ErrFilterInvalidInput, f.SourceInfo, "%s", lerr)
	}
	t, perr := time.Parse(layout, s)
	if perr != nil {
		return none(), newErr(ErrFilterInvalidInput, f.SourceInfo,
			"%q does not match layout %q", s, format)
	}
	return some(value.Date(t)), nil
}

func filterDateFormat(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	d, ok := in.AsDate()
	if !ok {
		return none(), invalidInput(f, in)
	}
	format, terr := RenderTemplate(f.Layout, variables)
	if terr != nil {
		return none(), terr
	}
	layout, lerr := strftimeLayout(format)
	if lerr != nil {
		return none(), newErr(ErrFilterInvalidInput, f.SourceInfo, "%s", lerr)
	}
	return some(value.Str(d.Format(layout))), nil
}

func filterJSONPath(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	exprText, terr := RenderTemplate(f.Expr, variables)
	if terr != nil {
		return none(), terr
	}
	expr, perr := jsonpath.Parse(exprText)
	if perr != nil {
		return none(), newErr(ErrInvalidJSONPathExpr, f.SourceInfo, "%s", perr)
	}
	doc, derr := jsonpath.ParseJSON([]byte(s))
	if derr != nil {
		return none(), newErr(ErrInvalidJSON, f.SourceInfo, "%s", derr)
	}
	nodes := expr.Eval(doc)
	if len(nodes) == 0 {
		return none(), nil
	}
	if len(nodes) == 1 && !expr.CollectionForm() {
		return some(nodes[0]), nil
	}
	return some(value.List(nodes...)), nil
}

func filterXPath(f script.Filter, in value.Value, variables *vars.Set) (queryResult, *Error) {
	s, err := inputString(f, in)
	if err != nil {
		return none(), err
	}
	exprText, terr := RenderTemplate(f.Expr, variables)
	if terr != nil {
		return none(), terr
	}
	cache := newResponseCacheForText(s)
	return evalXPath(exprText, f.SourceInfo, cache)
}
