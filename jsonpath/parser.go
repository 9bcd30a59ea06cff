// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// parser.go compiles a textual JSONPath expression to segments and
// selectors. Function calls are kind-checked here: an ill-typed
// expression is a parse error, not a runtime error.

package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hurlgo/hurl/value"
)

// ParseError is a compilation error with the byte offset of the offending
// character.
type ParseError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSONPath expression %q at offset %d: %s",
		e.Expr, e.Pos, e.Msg)
}

// funcType is the declared type of function results and parameters.
type funcType uint8

const (
	valueType funcType = iota
	nodesType
	logicalType
)

// signatures of the built-in functions.
var signatures = map[string]struct {
	params []funcType
	result funcType
}{
	"length": {[]funcType{valueType}, valueType},
	"count":  {[]funcType{nodesType}, valueType},
	"value":  {[]funcType{nodesType}, valueType},
	"match":  {[]funcType{valueType, valueType}, logicalType},
	"search": {[]funcType{valueType, valueType}, logicalType},
}

// Parse compiles expr.
func Parse(expr string) (*Expr, error) {
	p := &parser{src: expr}
	p.skipSpace()
	if !p.eat('$') {
		return nil, p.errorf("expression must start with $")
	}
	segs, err := p.parseSegments()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("unexpected character %q", p.peek())
	}
	return &Expr{source: expr, Segments: segs}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Expr: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eat(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) eatString(s string) bool {
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// parseSegments parses zero or more segments up to the end of the query.
func (p *parser) parseSegments() ([]Segment, error) {
	var segs []Segment
	for {
		p.skipSpace()
		switch {
		case p.eatString(".."):
			seg, err := p.parseDescendant()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case p.peek() == '.':
			p.pos++
			sel, err := p.parseShorthand()
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Selectors: []Selector{sel}})
		case p.peek() == '[':
			sels, err := p.parseBracketed()
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Selectors: sels})
		default:
			return segs, nil
		}
	}
}

func (p *parser) parseDescendant() (Segment, error) {
	if p.peek() == '[' {
		sels, err := p.parseBracketed()
		if err != nil {
			return Segment{}, err
		}
		return Segment{Descendant: true, Selectors: sels}, nil
	}
	sel, err := p.parseShorthand()
	if err != nil {
		return Segment{}, err
	}
	return Segment{Descendant: true, Selectors: []Selector{sel}}, nil
}

// parseShorthand parses the selector after a dot: a member name or *.
func (p *parser) parseShorthand() (Selector, error) {
	if p.eat('*') {
		return Selector{Kind: SelectWildcard}, nil
	}
	name, err := p.parseName()
	if err != nil {
		return Selector{}, err
	}
	return Selector{Kind: SelectName, Name: name}, nil
}

func isNameFirst(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r >= 0x80
}

func isNameChar(r rune) bool {
	return isNameFirst(r) || unicode.IsDigit(r)
}

func (p *parser) parseName() (string, error) {
	start := p.pos
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	if size == 0 || !isNameFirst(r) {
		return "", p.errorf("expecting a member name")
	}
	p.pos += size
	for {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if size == 0 || !isNameChar(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos], nil
}

// parseBracketed parses "[" selector ("," selector)* "]".
func (p *parser) parseBracketed() ([]Selector, error) {
	if !p.eat('[') {
		return nil, p.errorf("expecting [")
	}
	var sels []Selector
	for {
		p.skipSpace()
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
		p.skipSpace()
		if p.eat(',') {
			continue
		}
		if p.eat(']') {
			return sels, nil
		}
		return nil, p.errorf("expecting , or ]")
	}
}

func (p *parser) parseSelector() (Selector, error) {
	switch c := p.peek(); {
	case c == '*':
		p.pos++
		return Selector{Kind: SelectWildcard}, nil
	case c == '\'' || c == '"':
		name, err := p.parseStringLiteral()
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelectName, Name: name}, nil
	case c == '?':
		p.pos++
		p.skipSpace()
		or, err := p.parseLogicalOr()
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelectFilter, Filter: or}, nil
	case c == ':' || c == '-' || (c >= '0' && c <= '9'):
		return p.parseIndexOrSlice()
	}
	return Selector{}, p.errorf("expecting a selector")
}

// parseIndexOrSlice disambiguates [1], [1:2], [::2], [-1], ...
func (p *parser) parseIndexOrSlice() (Selector, error) {
	var start *int
	if p.peek() != ':' {
		i, err := p.parseInt()
		if err != nil {
			return Selector{}, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return Selector{Kind: SelectIndex, Index: i}, nil
		}
		start = &i
	}
	p.pos++ // the first ':'
	sl := SliceSel{Start: start, Step: 1}
	p.skipSpace()
	if c := p.peek(); c == '-' || (c >= '0' && c <= '9') {
		e, err := p.parseInt()
		if err != nil {
			return Selector{}, err
		}
		sl.End = &e
	}
	p.skipSpace()
	if p.eat(':') {
		p.skipSpace()
		if c := p.peek(); c == '-' || (c >= '0' && c <= '9') {
			s, err := p.parseInt()
			if err != nil {
				return Selector{}, err
			}
			sl.Step = s
		}
	}
	return Selector{Kind: SelectSlice, Slice: sl}, nil
}

func (p *parser) parseInt() (int, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for c := p.peek(); c >= '0' && c <= '9'; c = p.peek() {
		p.pos++
	}
	if p.pos == start || p.src[start:p.pos] == "-" {
		return 0, p.errorf("expecting an integer")
	}
	i, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		p.pos = start
		return 0, p.errorf("integer out of range")
	}
	return i, nil
}

func (p *parser) parseStringLiteral() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expecting a string literal")
	}
	p.pos++
	var b strings.Builder
	for {
		if p.done() {
			return "", p.errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.done() {
				return "", p.errorf("unterminated escape")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case '\'', '"', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 > len(p.src) {
					return "", p.errorf("truncated \\u escape")
				}
				n, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape")
				}
				p.pos += 4
				b.WriteRune(rune(n))
			default:
				return "", p.errorf("invalid escape \\%c", e)
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

// --------------------------------------------------------------------------
// Filter expression parsing

func (p *parser) parseLogicalOr() (*LogicalOr, error) {
	or := &LogicalOr{}
	for {
		and, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		or.Ands = append(or.Ands, *and)
		p.skipSpace()
		if !p.eatString("||") {
			return or, nil
		}
		p.skipSpace()
	}
}

func (p *parser) parseLogicalAnd() (*LogicalAnd, error) {
	and := &LogicalAnd{}
	for {
		basic, err := p.parseBasicExpr()
		if err != nil {
			return nil, err
		}
		and.Exprs = append(and.Exprs, *basic)
		p.skipSpace()
		if !p.eatString("&&") {
			return and, nil
		}
		p.skipSpace()
	}
}

func (p *parser) parseBasicExpr() (*BasicExpr, error) {
	not := false
	p.skipSpace()
	if p.eat('!') {
		not = true
		p.skipSpace()
	}
	if p.eat('(') {
		or, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.eat(')') {
			return nil, p.errorf("expecting )")
		}
		return &BasicExpr{Not: not, Kind: BasicParen, Paren: or}, nil
	}

	// A basic expression starts with a query, a function call or a
	// literal. What follows decides between test and comparison.
	left, typ, err := p.parseComparableOrTest()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	op, haveOp := p.parseCompOp()
	if !haveOp {
		// Bare test: a query existence test or a logical function.
		switch {
		case left.testQuery != nil:
			return &BasicExpr{Not: not, Kind: BasicTest,
				Test: &TestExpr{Query: left.testQuery}}, nil
		case left.fn != nil && typ == logicalType:
			return &BasicExpr{Not: not, Kind: BasicTest,
				Test: &TestExpr{Func: left.fn}}, nil
		case left.fn != nil:
			return nil, p.errorf("function %s is not a test", left.fn.Name)
		default:
			return nil, p.errorf("literal cannot stand alone in a filter")
		}
	}

	lc, err := p.toComparable(left, typ)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	right, rtyp, err := p.parseComparableOrTest()
	if err != nil {
		return nil, err
	}
	rc, err := p.toComparable(right, rtyp)
	if err != nil {
		return nil, err
	}
	return &BasicExpr{Not: not, Kind: BasicComparison,
		Cmp: &Comparison{Left: *lc, Op: op, Right: *rc}}, nil
}

func (p *parser) parseCompOp() (CompOp, bool) {
	switch {
	case p.eatString("=="):
		return OpEq, true
	case p.eatString("!="):
		return OpNe, true
	case p.eatString("<="):
		return OpLe, true
	case p.eatString(">="):
		return OpGe, true
	case p.eatString("<"):
		return OpLt, true
	case p.eatString(">"):
		return OpGt, true
	}
	return 0, false
}

// operand is the undecided result of parsing a primary expression.
type operand struct {
	lit       *value.Value
	testQuery *FilterQuery
	fn        *FuncCall
}

func (p *parser) parseComparableOrTest() (operand, funcType, error) {
	switch c := p.peek(); {
	case c == '@' || c == '$':
		q, err := p.parseFilterQuery()
		if err != nil {
			return operand{}, 0, err
		}
		return operand{testQuery: q}, nodesType, nil
	case c == '\'' || c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return operand{}, 0, err
		}
		v := value.Str(s)
		return operand{lit: &v}, valueType, nil
	case c == '-' || (c >= '0' && c <= '9'):
		v, err := p.parseNumberLiteral()
		if err != nil {
			return operand{}, 0, err
		}
		return operand{lit: &v}, valueType, nil
	case isNameFirst(rune(c)):
		return p.parseKeywordOrFunc()
	}
	return operand{}, 0, p.errorf("expecting a filter expression")
}

func (p *parser) parseKeywordOrFunc() (operand, funcType, error) {
	name, err := p.parseName()
	if err != nil {
		return operand{}, 0, err
	}
	switch name {
	case "true":
		v := value.Bool(true)
		return operand{lit: &v}, valueType, nil
	case "false":
		v := value.Bool(false)
		return operand{lit: &v}, valueType, nil
	case "null":
		v := value.Null()
		return operand{lit: &v}, valueType, nil
	}
	sig, ok := signatures[name]
	if !ok {
		return operand{}, 0, p.errorf("unknown function %s", name)
	}
	p.skipSpace()
	if !p.eat('(') {
		return operand{}, 0, p.errorf("expecting ( after %s", name)
	}
	fn := &FuncCall{Name: name}
	for i, want := range sig.params {
		if i > 0 {
			p.skipSpace()
			if !p.eat(',') {
				return operand{}, 0, p.errorf("%s expects %d arguments", name, len(sig.params))
			}
		}
		p.skipSpace()
		arg, err := p.parseFuncArg(name, want)
		if err != nil {
			return operand{}, 0, err
		}
		fn.Args = append(fn.Args, arg)
	}
	p.skipSpace()
	if !p.eat(')') {
		return operand{}, 0, p.errorf("expecting ) after %s arguments", name)
	}
	return operand{fn: fn}, sig.result, nil
}

// parseFuncArg parses one function argument and checks it against the
// declared parameter kind.
func (p *parser) parseFuncArg(fname string, want funcType) (FuncArg, error) {
	arg, typ, err := p.parseComparableOrTest()
	if err != nil {
		return FuncArg{}, err
	}
	switch {
	case arg.lit != nil:
		if want != valueType {
			return FuncArg{}, p.errorf("%s does not accept a literal here", fname)
		}
		return FuncArg{Kind: ArgLiteral, Literal: *arg.lit}, nil
	case arg.testQuery != nil:
		if want == valueType && !arg.testQuery.Singular() {
			return FuncArg{}, p.errorf("%s requires a singular query here", fname)
		}
		return FuncArg{Kind: ArgQuery, Query: arg.testQuery}, nil
	case arg.fn != nil:
		if typ != want {
			return FuncArg{}, p.errorf("%s: argument %s has the wrong kind", fname, arg.fn.Name)
		}
		return FuncArg{Kind: ArgFunc, Func: arg.fn}, nil
	}
	return FuncArg{}, p.errorf("invalid argument of %s", fname)
}

// toComparable checks that a parsed primary may appear as a comparison
// operand.
func (p *parser) toComparable(o operand, typ funcType) (*Comparable, error) {
	switch {
	case o.lit != nil:
		return &Comparable{Kind: CmpLiteral, Literal: *o.lit}, nil
	case o.testQuery != nil:
		if !o.testQuery.Singular() {
			return nil, p.errorf("comparison requires a singular query")
		}
		return &Comparable{Kind: CmpQuery, Query: o.testQuery}, nil
	case o.fn != nil:
		if typ != valueType {
			return nil, p.errorf("function %s cannot be compared", o.fn.Name)
		}
		return &Comparable{Kind: CmpFunc, Func: o.fn}, nil
	}
	return nil, p.errorf("invalid comparison operand")
}

func (p *parser) parseFilterQuery() (*FilterQuery, error) {
	relative := false
	switch {
	case p.eat('@'):
		relative = true
	case p.eat('$'):
	default:
		return nil, p.errorf("expecting @ or $")
	}
	segs, err := p.parseQuerySegments()
	if err != nil {
		return nil, err
	}
	return &FilterQuery{Relative: relative, Segments: segs}, nil
}

// parseQuerySegments parses segments of an embedded filter query. It
// stops before characters that belong to the surrounding filter
// expression.
func (p *parser) parseQuerySegments() ([]Segment, error) {
	var segs []Segment
	for {
		switch {
		case p.eatString(".."):
			seg, err := p.parseDescendant()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case p.peek() == '.':
			p.pos++
			sel, err := p.parseShorthand()
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Selectors: []Selector{sel}})
		case p.peek() == '[':
			sels, err := p.parseBracketed()
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Selectors: sels})
		default:
			return segs, nil
		}
	}
}

func (p *parser) parseNumberLiteral() (value.Value, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for {
		c := p.peek()
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' ||
			((c == '+' || c == '-') && p.pos > start &&
				(p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if isInteger(text) {
		return value.BigInt(text), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return value.Null(), p.errorf("invalid number literal %q", text)
	}
	return value.Float(f), nil
}
