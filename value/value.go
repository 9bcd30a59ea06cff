// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value provides the tagged value model shared by queries, filters,
// predicates and captures. A Value is one of a fixed set of kinds; numeric
// kinds (integer, big integer, float) compare against each other.
package value

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the possible kinds of a Value.
type Kind uint8

// The kinds a Value can take.
const (
	KindNull Kind = iota
	KindUnit
	KindBool
	KindInteger
	KindBigInteger
	KindFloat
	KindString
	KindBytes
	KindDate
	KindList
	KindObject
	KindNodeset
	KindRegexp
)

var kindNames = map[Kind]string{
	KindNull:       "null",
	KindUnit:       "unit",
	KindBool:       "boolean",
	KindInteger:    "integer",
	KindBigInteger: "integer",
	KindFloat:      "float",
	KindString:     "string",
	KindBytes:      "bytes",
	KindDate:       "date",
	KindList:       "list",
	KindObject:     "object",
	KindNodeset:    "nodeset",
	KindRegexp:     "regex",
}

// String returns the user visible name of k.
func (k Kind) String() string { return kindNames[k] }

// Pair is a single (key, value) entry of an object. Objects keep their
// entries in document order.
type Pair struct {
	Key   string
	Value Value
}

// Value is a tagged variant. The zero value is the null value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string // string value or big integer digits
	by   []byte
	t    time.Time
	l    []Value
	o    []Pair
	n    int // nodeset size
	re   *regexp.Regexp
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Unit returns the unit value.
func Unit() Value { return Value{kind: KindUnit} }

// Bool returns b as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns i as a Value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// BigInt returns the integer given by the decimal string digits as a Value.
// The digits are kept verbatim; comparison canonicalises them.
func BigInt(digits string) Value { return Value{kind: KindBigInteger, s: digits} }

// Float returns f as a Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str returns s as a Value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Bytes returns b as a Value.
func Bytes(b []byte) Value { return Value{kind: KindBytes, by: b} }

// Date returns t as a Value. Dates are kept in UTC.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t.UTC()} }

// List returns the given elements as a list Value.
func List(elems ...Value) Value { return Value{kind: KindList, l: elems} }

// Object returns the given pairs as an object Value preserving order.
func Object(pairs ...Pair) Value { return Value{kind: KindObject, o: pairs} }

// Nodeset returns a nodeset Value of the given size.
func Nodeset(n int) Value { return Value{kind: KindNodeset, n: n} }

// Regexp returns re as a Value.
func Regexp(re *regexp.Regexp) Value { return Value{kind: KindRegexp, re: re} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v is of a numeric kind.
func (v Value) IsNumber() bool {
	return v.kind == KindInteger || v.kind == KindBigInteger || v.kind == KindFloat
}

// IsScalar reports whether v is scalar. Only lists and nodesets are
// not scalar.
func (v Value) IsScalar() bool {
	return v.kind != KindList && v.kind != KindNodeset
}

// AsBool returns the boolean in v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer in v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsBigInt returns the big integer digits in v.
func (v Value) AsBigInt() (string, bool) { return v.s, v.kind == KindBigInteger }

// AsFloat returns the float in v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string in v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBytes returns the byte slice in v.
func (v Value) AsBytes() ([]byte, bool) { return v.by, v.kind == KindBytes }

// AsDate returns the date in v.
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// AsList returns the elements in v.
func (v Value) AsList() ([]Value, bool) { return v.l, v.kind == KindList }

// AsObject returns the pairs in v.
func (v Value) AsObject() ([]Pair, bool) { return v.o, v.kind == KindObject }

// AsRegexp returns the regular expression in v.
func (v Value) AsRegexp() (*regexp.Regexp, bool) { return v.re, v.kind == KindRegexp }

// NodesetSize returns the size of the nodeset in v.
func (v Value) NodesetSize() (int, bool) { return v.n, v.kind == KindNodeset }

// DateLayout is the canonical textual form of date values: UTC with
// microsecond precision.
const DateLayout = "2006-01-02T15:04:05.000000Z"

// text returns the textual form of v used by Repr and Render.
func (v Value) text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindUnit:
		return "unit"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindBigInteger:
		return v.s
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return v.s
	case KindBytes:
		return fmt.Sprintf("hex, %x;", v.by)
	case KindDate:
		return v.t.Format(DateLayout)
	case KindList:
		parts := make([]string, len(v.l))
		for i, e := range v.l {
			parts[i] = e.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, len(v.o))
		for i, p := range v.o {
			parts[i] = fmt.Sprintf("%q: %s", p.Key, p.Value.Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindNodeset:
		return strconv.Itoa(v.n)
	case KindRegexp:
		return v.re.String()
	}
	return ""
}

// Repr returns the kind-tagged representation of v, e.g. "integer <42>" or
// "float <1.0>". It is used in assert failure reports.
func (v Value) Repr() string {
	switch v.kind {
	case KindNull, KindUnit:
		return v.text()
	case KindNodeset:
		return "nodeset of size " + v.text()
	}
	return v.kind.String() + " <" + v.text() + ">"
}

// Render returns the textual form of v for template substitution and
// false for the non-scalar kinds (lists and nodesets) which cannot be
// interpolated into a template.
func (v Value) Render() (string, bool) {
	if !v.IsScalar() {
		return "", false
	}
	switch v.kind {
	case KindUnit:
		return "", true
	}
	return v.text(), true
}

// FormatFloat renders f ensuring a ".0" suffix for integral values so that
// a float never reads like an integer.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Equal reports whether v and w are structurally equal. Numeric kinds
// compare across kinds: Int(1), Float(1.0) and BigInt("1") are all equal.
func (v Value) Equal(w Value) bool {
	if v.IsNumber() && w.IsNumber() {
		c, ok := compareNumbers(v, w)
		return ok && c == 0
	}
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUnit:
		return true
	case KindBool:
		return v.b == w.b
	case KindString:
		return v.s == w.s
	case KindBytes:
		return bytes.Equal(v.by, w.by)
	case KindDate:
		return v.t.Equal(w.t)
	case KindNodeset:
		return v.n == w.n
	case KindRegexp:
		return v.re.String() == w.re.String()
	case KindList:
		if len(v.l) != len(w.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(w.l[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.o) != len(w.o) {
			return false
		}
		for i := range v.o {
			if v.o[i].Key != w.o[i].Key || !v.o[i].Value.Equal(w.o[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders v against w and reports -1, 0 or +1. Ordering is defined
// for numeric kinds (across kinds) and for dates; the second return value
// is false for any other combination.
func (v Value) Compare(w Value) (int, bool) {
	if v.IsNumber() && w.IsNumber() {
		return compareNumbers(v, w)
	}
	if v.kind == KindDate && w.kind == KindDate {
		switch {
		case v.t.Before(w.t):
			return -1, true
		case v.t.After(w.t):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
