// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"testing"
	"time"

	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

func runChain(t *testing.T, filters []script.Filter, in value.Value) (queryResult, *Error) {
	t.Helper()
	return evalFilters(filters, some(in), vars.NewSet(), NopLogger())
}

func wantValue(t *testing.T, got queryResult, err *Error, want value.Value) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !got.found {
		t.Fatal("expected a result")
	}
	if !got.val.Equal(want) {
		t.Errorf("got %s, want %s", got.val.Repr(), want.Repr())
	}
}

func TestFilterCount(t *testing.T) {
	f := []script.Filter{{Kind: script.FilterCount}}

	got, err := runChain(t, f, value.List(value.Int(1), value.Int(2)))
	wantValue(t, got, err, value.Int(2))

	got, err = runChain(t, f, value.Str("héllo"))
	wantValue(t, got, err, value.Int(5))

	got, err = runChain(t, f, value.Bytes([]byte{1, 2, 3}))
	wantValue(t, got, err, value.Int(3))

	got, err = runChain(t, f, value.Nodeset(7))
	wantValue(t, got, err, value.Int(7))

	_, err = runChain(t, f, value.Int(4))
	if err == nil || err.Kind != ErrFilterInvalidInput {
		t.Errorf("count on integer: got %v", err)
	}
}

func TestFilterNth(t *testing.T) {
	list := value.List(value.Str("a"), value.Str("b"), value.Str("c"))

	got, err := runChain(t, []script.Filter{{Kind: script.FilterNth, N: 1}}, list)
	wantValue(t, got, err, value.Str("b"))

	got, err = runChain(t, []script.Filter{{Kind: script.FilterNth, N: -1}}, list)
	wantValue(t, got, err, value.Str("c"))

	_, err = runChain(t, []script.Filter{{Kind: script.FilterNth, N: 5}}, list)
	if err == nil || err.Kind != ErrFilterInvalidInput {
		t.Errorf("out of bounds: got %v", err)
	}
}

func TestFilterRegex(t *testing.T) {
	f := []script.Filter{{Kind: script.FilterRegex, Pattern: script.Plain(`v=(\d+)`)}}
	got, err := runChain(t, f, value.Str("x v=42 y"))
	wantValue(t, got, err, value.Str("42"))

	// No match short-circuits the chain with NoFilterResult.
	_, err = runChain(t, f, value.Str("nothing here"))
	if err == nil || err.Kind != ErrNoFilterResult {
		t.Errorf("no match: got %v", err)
	}

	bad := []script.Filter{{Kind: script.FilterRegex, Pattern: script.Plain("(")}}
	_, err = runChain(t, bad, value.Str("x"))
	if err == nil || err.Kind != ErrInvalidRegex {
		t.Errorf("bad pattern: got %v", err)
	}
}

func TestFilterSplitAndNth(t *testing.T) {
	f := []script.Filter{
		{Kind: script.FilterSplit, Sep: script.Plain(",")},
		{Kind: script.FilterNth, N: 1},
	}
	got, err := runChain(t, f, value.Str("a,b,c"))
	wantValue(t, got, err, value.Str("b"))
}

func TestFilterReplace(t *testing.T) {
	f := []script.Filter{{
		Kind:        script.FilterReplace,
		Pattern:     script.Plain(","),
		Replacement: script.Plain(" "),
	}}
	got, err := runChain(t, f, value.Str("1,2,3"))
	wantValue(t, got, err, value.Str("1 2 3"))
}

func TestFilterBase64RoundTrip(t *testing.T) {
	enc := []script.Filter{{Kind: script.FilterBase64Encode}}
	dec := []script.Filter{{Kind: script.FilterBase64Decode}}

	got, err := runChain(t, enc, value.Bytes([]byte("hello/world?")))
	wantValue(t, got, err, value.Str("aGVsbG8vd29ybGQ/"))

	got, err = runChain(t, dec, got.val)
	wantValue(t, got, err, value.Bytes([]byte("hello/world?")))

	_, err = runChain(t, dec, value.Str("!!! not base64"))
	if err == nil || err.Kind != ErrInvalidDecoding {
		t.Errorf("got %v", err)
	}
}

func TestFilterURLRoundTrip(t *testing.T) {
	enc := []script.Filter{{Kind: script.FilterURLEncode}}
	dec := []script.Filter{{Kind: script.FilterURLDecode}}

	got, err := runChain(t, enc, value.Str("a b&c"))
	if err != nil {
		t.Fatal(err)
	}
	got, err = runChain(t, dec, got.val)
	wantValue(t, got, err, value.Str("a b&c"))
}

func TestFilterHTMLEscape(t *testing.T) {
	got, err := runChain(t, []script.Filter{{Kind: script.FilterHTMLEscape}},
		value.Str("<b>"))
	wantValue(t, got, err, value.Str("&lt;b&gt;"))

	got, err = runChain(t, []script.Filter{{Kind: script.FilterHTMLUnescape}},
		value.Str("&lt;b&gt;"))
	wantValue(t, got, err, value.Str("<b>"))
}

func TestFilterDecode(t *testing.T) {
	f := []script.Filter{{Kind: script.FilterDecode, Charset: script.Plain("iso-8859-1")}}
	got, err := runChain(t, f, value.Bytes([]byte{0xe9}))
	wantValue(t, got, err, value.Str("é"))

	bad := []script.Filter{{Kind: script.FilterDecode, Charset: script.Plain("no-such-charset")}}
	_, err = runChain(t, bad, value.Bytes([]byte("x")))
	if err == nil || err.Kind != ErrInvalidCharset {
		t.Errorf("got %v", err)
	}
}

func TestFilterToIntToFloat(t *testing.T) {
	got, err := runChain(t, []script.Filter{{Kind: script.FilterToInt}}, value.Str("42"))
	wantValue(t, got, err, value.Int(42))

	_, err = runChain(t, []script.Filter{{Kind: script.FilterToInt}}, value.Str("4x"))
	if err == nil || err.Kind != ErrFilterInvalidInput {
		t.Errorf("got %v", err)
	}

	got, err = runChain(t, []script.Filter{{Kind: script.FilterToFloat}}, value.Str("3.25"))
	wantValue(t, got, err, value.Float(3.25))

	got, err = runChain(t, []script.Filter{{Kind: script.FilterToFloat}}, value.Int(2))
	wantValue(t, got, err, value.Float(2))
}

func TestFilterToDateAndFormat(t *testing.T) {
	toDate := []script.Filter{{
		Kind:   script.FilterToDate,
		Layout: script.Plain("%Y-%m-%d %H:%M:%S"),
	}}
	got, err := runChain(t, toDate, value.Str("2024-05-01 12:30:00"))
	if err != nil {
		t.Fatal(err)
	}
	d, ok := got.val.AsDate()
	if !ok || !d.Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("got %s", got.val.Repr())
	}

	format := []script.Filter{{
		Kind:   script.FilterDateFormat,
		Layout: script.Plain("%d/%m/%Y"),
	}}
	got, err = runChain(t, format, got.val)
	wantValue(t, got, err, value.Str("01/05/2024"))

	_, err = runChain(t, toDate, value.Str("not a date"))
	if err == nil || err.Kind != ErrFilterInvalidInput {
		t.Errorf("got %v", err)
	}
}

func TestFilterDays(t *testing.T) {
	past := value.Date(time.Now().UTC().Add(-72 * time.Hour))
	got, err := runChain(t, []script.Filter{{Kind: script.FilterDaysBeforeNow}}, past)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := got.val.AsInt(); i != 3 && i != 2 {
		t.Errorf("daysBeforeNow = %d", i)
	}

	future := value.Date(time.Now().UTC().Add(72*time.Hour + time.Minute))
	got, err = runChain(t, []script.Filter{{Kind: script.FilterDaysAfterNow}}, future)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := got.val.AsInt(); i != 3 {
		t.Errorf("daysAfterNow = %d", i)
	}
}

func TestFilterJSONPath(t *testing.T) {
	f := []script.Filter{{Kind: script.FilterJSONPath, Expr: script.Plain("$.a")}}
	got, err := runChain(t, f, value.Str(`{"a": 7}`))
	wantValue(t, got, err, value.Int(7))
}

func TestFilterChainMissingInput(t *testing.T) {
	f := []script.Filter{{Kind: script.FilterCount}}
	_, err := evalFilters(f, none(), vars.NewSet(), NopLogger())
	if err == nil || err.Kind != ErrFilterMissingInput {
		t.Errorf("got %v", err)
	}
}
