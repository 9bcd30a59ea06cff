// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurlgo/hurl/value"
)

func mustParse(t *testing.T, expr string) *Expr {
	t.Helper()
	e, err := Parse(expr)
	require.NoError(t, err, "parse %s", expr)
	return e
}

func mustDoc(t *testing.T, src string) value.Value {
	t.Helper()
	doc, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	return doc
}

const store = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  }
}`

func eval(t *testing.T, doc value.Value, expr string) []value.Value {
	t.Helper()
	return mustParse(t, expr).Eval(doc)
}

func TestNameAndIndex(t *testing.T) {
	doc := mustDoc(t, store)

	got := eval(t, doc, `$.store.bicycle.color`)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(value.Str("red")))

	got = eval(t, doc, `$['store']['book'][0]['author']`)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(value.Str("Nigel Rees")))

	assert.Empty(t, eval(t, doc, `$.store.nosuch`))
	assert.Empty(t, eval(t, doc, `$.store.book[99]`))
}

func TestNegativeIndex(t *testing.T) {
	doc := mustDoc(t, `["a","b","c"]`)
	got := eval(t, doc, `$[-1]`)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(value.Str("c")))

	empty := mustDoc(t, `[]`)
	assert.Empty(t, eval(t, empty, `$[-1]`))
}

func TestWildcard(t *testing.T) {
	doc := mustDoc(t, store)
	assert.Len(t, eval(t, doc, `$.store.book[*].author`), 4)
	assert.Len(t, eval(t, doc, `$.store.*`), 2)
}

func TestDescendant(t *testing.T) {
	doc := mustDoc(t, store)
	assert.Len(t, eval(t, doc, `$..author`), 4)
	assert.Len(t, eval(t, doc, `$..price`), 5)
	assert.Len(t, eval(t, doc, `$..book[2]`), 1)
}

func TestSlices(t *testing.T) {
	doc := mustDoc(t, `["a","b","c"]`)

	got := eval(t, doc, `$[::-1]`)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(value.Str("c")))
	assert.True(t, got[1].Equal(value.Str("b")))
	assert.True(t, got[2].Equal(value.Str("a")))

	assert.Empty(t, eval(t, doc, `$[::0]`))

	seven := mustDoc(t, `["a","b","c","d","e","f","g"]`)
	got = eval(t, seven, `$[1:5:2]`)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(value.Str("b")))
	assert.True(t, got[1].Equal(value.Str("d")))

	got = eval(t, seven, `$[5:1:-2]`)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(value.Str("f")))
	assert.True(t, got[1].Equal(value.Str("d")))

	got = eval(t, seven, `$[5:]`)
	assert.Len(t, got, 2)

	// Out-of-range bounds clamp instead of failing.
	got = eval(t, doc, `$[-10:10]`)
	assert.Len(t, got, 3)
}

func TestFilterComparison(t *testing.T) {
	doc := mustDoc(t, store)

	cheap := eval(t, doc, `$.store.book[?@.price < 10].title`)
	assert.Len(t, cheap, 2)

	fiction := eval(t, doc, `$.store.book[?@.category == 'fiction']`)
	assert.Len(t, fiction, 3)

	isbn := eval(t, doc, `$.store.book[?@.isbn]`)
	assert.Len(t, isbn, 2)

	both := eval(t, doc, `$.store.book[?@.price < 10 && @.category == 'fiction']`)
	assert.Len(t, both, 1)

	either := eval(t, doc, `$.store.book[?@.price < 9 || @.price > 20]`)
	assert.Len(t, either, 3)

	not := eval(t, doc, `$.store.book[?!@.isbn]`)
	assert.Len(t, not, 2)
}

func TestFilterAgainstRoot(t *testing.T) {
	doc := mustDoc(t, `{"limit": 10, "items": [{"v": 5}, {"v": 15}]}`)
	got := eval(t, doc, `$.items[?@.v > $.limit]`)
	require.Len(t, got, 1)
}

func TestFilterNumericCrossKind(t *testing.T) {
	doc := mustDoc(t, `[{"v": 1}, {"v": 1.0}, {"v": 2}]`)
	got := eval(t, doc, `$[?@.v == 1]`)
	assert.Len(t, got, 2)
}

func TestFunctions(t *testing.T) {
	doc := mustDoc(t, `{"a": [1,2,3], "s": "hello", "words": ["one", "longword"]}`)

	got := eval(t, doc, `$[?length(@) == 3]`)
	assert.Len(t, got, 1) // the array

	got = eval(t, doc, `$.words[?length(@) > 5]`)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(value.Str("longword")))

	got = eval(t, doc, `$[?count(@[*]) == 3]`)
	assert.Len(t, got, 1)

	got = eval(t, doc, `$.words[?match(@, '[a-z]+')]`)
	assert.Len(t, got, 2)

	got = eval(t, doc, `$.words[?search(@, 'word')]`)
	assert.Len(t, got, 1)
}

func TestMatchIsAnchored(t *testing.T) {
	doc := mustDoc(t, `["abc", "xabcx"]`)
	got := eval(t, doc, `$[?match(@, 'abc')]`)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(value.Str("abc")))
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		``,
		`store.book`,          // missing $
		`$.`,                  // dangling dot
		`$[`,                  // unterminated bracket
		`$['a'`,               // missing ]
		`$[?]`,                // empty filter
		`$[?@.a == ]`,         // missing operand
		`$[?'lit']`,           // bare literal
		`$[?nosuch(@)]`,       // unknown function
		`$[?length(@[*]) == 1]`, // non-singular query as value arg
		`$[?match(@, 'x') == true]`, // logical function compared
		`$[?count(@) < 'x' <]`,      // trailing operator
		`$[1:2:3:4]`,          // too many slice parts
	}
	for _, expr := range bad {
		_, err := Parse(expr)
		assert.Error(t, err, "expression %q should not parse", expr)
	}
}

func TestParseTimeKindChecking(t *testing.T) {
	// Well-typedness is decided at parse time.
	for _, expr := range []string{
		`$[?length(@) == 1]`,
		`$[?count(@[*]) == 1]`,
		`$[?value(@[*]) == 1]`,
		`$[?match(@, '[a-z]+')]`,
		`$[?search(@.text, 'x')]`,
		`$[?length(value(@[*])) == 1]`,
	} {
		_, err := Parse(expr)
		assert.NoError(t, err, "expression %q should parse", expr)
	}
}

func TestBigIntegerRoundTrip(t *testing.T) {
	doc := mustDoc(t, `{"n": 92233720368547758089}`)
	got := eval(t, doc, `$.n`)
	require.Len(t, got, 1)
	digits, ok := got[0].AsBigInt()
	require.True(t, ok)
	assert.Equal(t, "92233720368547758089", digits)
}

func TestObjectOrderPreserved(t *testing.T) {
	doc := mustDoc(t, `{"z": 1, "a": 2, "m": 3}`)
	got := eval(t, doc, `$.*`)
	require.Len(t, got, 3)
	i1, _ := got[0].AsInt()
	i2, _ := got[1].AsInt()
	i3, _ := got[2].AsInt()
	assert.Equal(t, []int64{1, 2, 3}, []int64{i1, i2, i3})
}
