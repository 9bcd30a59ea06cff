// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// predicate.go evaluates the comparison side of explicit asserts with
// strict type rules.

package runner

import (
	"bytes"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

// evalPredicate applies pred to the query/filter result. A nil return
// means the predicate holds. A failing predicate yields an
// ErrAssertFailure; an ill-typed comparison yields ErrPredicateType and
// an invalid regex ErrInvalidRegex.
func evalPredicate(pred script.Predicate, actual queryResult, variables *vars.Set) *Error {
	outcome, err := evalPredicateKind(pred, actual, variables)
	if err != nil {
		return err
	}
	if pred.Not {
		outcome.ok = !outcome.ok
	}
	if outcome.ok {
		return nil
	}
	expected := outcome.expected
	if pred.Not {
		expected = "not " + expected
	}
	return &Error{
		Kind:         ErrAssertFailure,
		SourceInfo:   pred.SourceInfo,
		Assert:       true,
		Actual:       outcome.actual,
		Expected:     expected,
		TypeMismatch: outcome.typeMismatch,
	}
}

// predicateOutcome is the verdict of one predicate evaluation.
type predicateOutcome struct {
	ok           bool
	actual       string
	expected     string
	typeMismatch bool
}

func holds(ok bool, actual queryResult, expected string) (predicateOutcome, *Error) {
	return predicateOutcome{ok: ok, actual: reprOf(actual), expected: expected}, nil
}

func mismatch(actual queryResult, expected string) (predicateOutcome, *Error) {
	return predicateOutcome{
		ok:           false,
		actual:       reprOf(actual),
		expected:     expected,
		typeMismatch: true,
	}, nil
}

func reprOf(r queryResult) string {
	if !r.found {
		return "none"
	}
	return r.val.Repr()
}

func evalPredicateKind(pred script.Predicate, actual queryResult,
	variables *vars.Set) (predicateOutcome, *Error) {

	// exists and isEmpty have their own treatment of "nothing".
	switch pred.Kind {
	case script.PredExist:
		return holds(actual.found, actual, "something")
	case script.PredIsEmpty:
		if !actual.found {
			return mismatch(actual, "count equals to 0")
		}
		n, ok := lengthOfValue(actual.val)
		if !ok {
			return mismatch(actual, "count equals to 0")
		}
		return holds(n == 0, actual, "count equals to 0")
	}

	expected, err := resolveOperand(pred.Operand, variables)
	if err != nil {
		return predicateOutcome{}, err
	}

	if !actual.found {
		return predicateOutcome{
			ok:       false,
			actual:   "none",
			expected: expectedDescription(pred.Kind, expected),
		}, nil
	}
	a := actual.val

	switch pred.Kind {
	case script.PredEqual:
		return holds(a.Equal(expected), actual, expected.Repr())

	case script.PredNotEqual:
		return holds(!a.Equal(expected), actual, "not "+expected.Repr())

	case script.PredLess, script.PredLessOrEqual,
		script.PredGreater, script.PredGreaterOrEqual:
		cmp, ok := a.Compare(expected)
		if !ok {
			return predicateOutcome{}, &Error{
				Kind:       ErrPredicateType,
				SourceInfo: pred.SourceInfo,
				Msg: "cannot order " + a.Kind().String() +
					" against " + expected.Kind().String(),
			}
		}
		var res bool
		switch pred.Kind {
		case script.PredLess:
			res = cmp < 0
		case script.PredLessOrEqual:
			res = cmp <= 0
		case script.PredGreater:
			res = cmp > 0
		case script.PredGreaterOrEqual:
			res = cmp >= 0
		}
		return holds(res, actual, pred.Kind.String()+" "+expected.Repr())

	case script.PredContain:
		return evalContains(a, expected, actual)

	case script.PredStartWith:
		return evalAffix(a, expected, actual, true)

	case script.PredEndWith:
		return evalAffix(a, expected, actual, false)

	case script.PredMatch:
		s, ok := a.AsString()
		if !ok {
			return mismatch(actual, "matches regex")
		}
		pat, ok := expected.AsRegexp()
		if !ok {
			ps, sok := expected.AsString()
			if !sok {
				return mismatch(actual, "matches regex")
			}
			var cerr error
			pat, cerr = regexp.Compile(ps)
			if cerr != nil {
				return predicateOutcome{}, newErr(ErrInvalidRegex,
					pred.SourceInfo, "%s", cerr)
			}
		}
		return holds(pat.MatchString(s), actual, "matches regex <"+pat.String()+">")

	case script.PredInclude:
		l, ok := a.AsList()
		if !ok {
			return mismatch(actual, "includes "+expected.Repr())
		}
		for _, e := range l {
			if e.Equal(expected) {
				return holds(true, actual, "includes "+expected.Repr())
			}
		}
		return holds(false, actual, "includes "+expected.Repr())

	case script.PredIsInteger:
		k := a.Kind()
		return holds(k == value.KindInteger || k == value.KindBigInteger,
			actual, "integer")

	case script.PredIsFloat:
		return holds(a.Kind() == value.KindFloat, actual, "float")

	case script.PredIsBoolean:
		return holds(a.Kind() == value.KindBool, actual, "boolean")

	case script.PredIsString:
		return holds(a.Kind() == value.KindString, actual, "string")

	case script.PredIsCollection:
		k := a.Kind()
		return holds(k == value.KindList || k == value.KindNodeset,
			actual, "collection")

	case script.PredIsDate:
		return holds(a.Kind() == value.KindDate, actual, "date")

	case script.PredIsIsoDate:
		s, ok := a.AsString()
		if !ok {
			return mismatch(actual, "ISO date string")
		}
		ok = govalidator.IsRFC3339(s) || isCanonicalDate(s)
		return holds(ok, actual, "ISO date string")
	}
	return predicateOutcome{}, newErr(ErrPredicateType, pred.SourceInfo,
		"unknown predicate")
}

// isCanonicalDate checks the canonical microsecond UTC form.
func isCanonicalDate(s string) bool {
	_, err := time.Parse(value.DateLayout, s)
	return err == nil
}

func evalContains(a, expected value.Value, actual queryResult) (predicateOutcome, *Error) {
	desc := "contains " + expected.Repr()
	switch a.Kind() {
	case value.KindString:
		s, _ := a.AsString()
		sub, ok := expected.AsString()
		if !ok {
			return mismatch(actual, desc)
		}
		return holds(strings.Contains(s, sub), actual, desc)
	case value.KindBytes:
		b, _ := a.AsBytes()
		sub, ok := expected.AsBytes()
		if !ok {
			return mismatch(actual, desc)
		}
		return holds(bytes.Contains(b, sub), actual, desc)
	case value.KindList:
		l, _ := a.AsList()
		for _, e := range l {
			if e.Equal(expected) {
				return holds(true, actual, desc)
			}
		}
		return holds(false, actual, desc)
	}
	return mismatch(actual, desc)
}

func evalAffix(a, expected value.Value, actual queryResult, prefix bool) (predicateOutcome, *Error) {
	op := "endsWith"
	if prefix {
		op = "startsWith"
	}
	desc := op + " " + expected.Repr()
	switch a.Kind() {
	case value.KindString:
		s, _ := a.AsString()
		w, ok := expected.AsString()
		if !ok {
			return mismatch(actual, desc)
		}
		if prefix {
			return holds(strings.HasPrefix(s, w), actual, desc)
		}
		return holds(strings.HasSuffix(s, w), actual, desc)
	case value.KindBytes:
		b, _ := a.AsBytes()
		w, ok := expected.AsBytes()
		if !ok {
			return mismatch(actual, desc)
		}
		if prefix {
			return holds(bytes.HasPrefix(b, w), actual, desc)
		}
		return holds(bytes.HasSuffix(b, w), actual, desc)
	}
	return mismatch(actual, desc)
}

func expectedDescription(kind script.PredicateKind, expected value.Value) string {
	switch kind {
	case script.PredEqual:
		return expected.Repr()
	default:
		return kind.String() + " " + expected.Repr()
	}
}

// lengthOfValue returns the length of string, list, object, bytes and
// nodeset values.
func lengthOfValue(v value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return utf8.RuneCountInString(s), true
	case value.KindList:
		l, _ := v.AsList()
		return len(l), true
	case value.KindObject:
		o, _ := v.AsObject()
		return len(o), true
	case value.KindBytes:
		b, _ := v.AsBytes()
		return len(b), true
	case value.KindNodeset:
		n, _ := v.NodesetSize()
		return n, true
	}
	return 0, false
}

// resolveOperand renders the expected-value side of a predicate.
func resolveOperand(op script.Operand, variables *vars.Set) (value.Value, *Error) {
	switch op.Kind {
	case script.OperandNull:
		return value.Null(), nil
	case script.OperandBool:
		return value.Bool(op.Bool), nil
	case script.OperandInt:
		return value.Int(op.Int), nil
	case script.OperandBigInt:
		return value.BigInt(op.BigInt), nil
	case script.OperandFloat:
		return value.Float(op.Float), nil
	case script.OperandString:
		s, err := RenderTemplate(op.Text, variables)
		if err != nil {
			return value.Null(), err
		}
		return value.Str(s), nil
	case script.OperandBytes:
		return value.Bytes(op.Bytes), nil
	case script.OperandRegex:
		s, err := RenderTemplate(op.Text, variables)
		if err != nil {
			return value.Null(), err
		}
		re, cerr := regexp.Compile(s)
		if cerr != nil {
			return value.Null(), newErr(ErrInvalidRegex, op.SourceInfo, "%s", cerr)
		}
		return value.Regexp(re), nil
	}
	return value.Null(), nil
}
