// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonpath implements the RFC 9535 compatible subset of JSONPath
// used by captures and asserts. An expression compiles to a list of
// segments; evaluation is a pure fold of the segments over a node list.
package jsonpath

import "github.com/hurlgo/hurl/value"

// Expr is a compiled JSONPath expression.
type Expr struct {
	source   string
	Segments []Segment
}

// Source returns the textual form the expression was compiled from.
func (e *Expr) Source() string { return e.source }

// Segment applies its selectors to every node of the input list. A
// descendant segment first expands each node to its pre-order subtree.
type Segment struct {
	Descendant bool
	Selectors  []Selector
}

// SelectorKind discriminates selectors.
type SelectorKind uint8

// The selector kinds.
const (
	SelectName SelectorKind = iota
	SelectWildcard
	SelectIndex
	SelectSlice
	SelectFilter
)

// Selector picks children of a node.
type Selector struct {
	Kind   SelectorKind
	Name   string
	Index  int
	Slice  SliceSel
	Filter *LogicalOr
}

// SliceSel is an array slice start:end:step. Nil start/end take the RFC
// defaults depending on the sign of step.
type SliceSel struct {
	Start *int
	End   *int
	Step  int
}

// --------------------------------------------------------------------------
// Filter expressions

// LogicalOr is a chain of logical-and expressions.
type LogicalOr struct {
	Ands []LogicalAnd
}

// LogicalAnd is a chain of basic expressions.
type LogicalAnd struct {
	Exprs []BasicExpr
}

// BasicKind discriminates basic filter expressions.
type BasicKind uint8

// The basic expression kinds.
const (
	BasicParen BasicKind = iota
	BasicTest
	BasicComparison
)

// BasicExpr is a possibly negated parenthesized expression, existence
// test or comparison.
type BasicExpr struct {
	Not   bool
	Kind  BasicKind
	Paren *LogicalOr
	Test  *TestExpr
	Cmp   *Comparison
}

// TestExpr is an existence test of a query or a logical function call
// (match, search).
type TestExpr struct {
	Query *FilterQuery
	Func  *FuncCall
}

// FilterQuery is an embedded query relative to the current node (@) or
// the root ($).
type FilterQuery struct {
	Relative bool
	Segments []Segment
}

// Singular reports whether the query has only name and index selectors
// and therefore yields at most one node.
func (q *FilterQuery) Singular() bool {
	for _, seg := range q.Segments {
		if seg.Descendant || len(seg.Selectors) != 1 {
			return false
		}
		k := seg.Selectors[0].Kind
		if k != SelectName && k != SelectIndex {
			return false
		}
	}
	return true
}

// CompOp is a comparison operator.
type CompOp uint8

// The comparison operators.
const (
	OpEq CompOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var compOpNames = map[CompOp]string{
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
}

func (o CompOp) String() string { return compOpNames[o] }

// Comparison compares two comparables.
type Comparison struct {
	Left  Comparable
	Op    CompOp
	Right Comparable
}

// ComparableKind discriminates comparison operands.
type ComparableKind uint8

// The comparable kinds.
const (
	CmpLiteral ComparableKind = iota
	CmpQuery                  // singular query, relative or absolute
	CmpFunc                   // value-returning function call
)

// Comparable is a literal, a singular query or a value function call.
type Comparable struct {
	Kind    ComparableKind
	Literal value.Value
	Query   *FilterQuery
	Func    *FuncCall
}

// FuncCall is a call of one of the built-in filter functions.
type FuncCall struct {
	Name string
	Args []FuncArg
}

// FuncArgKind discriminates function arguments.
type FuncArgKind uint8

// The function argument kinds.
const (
	ArgLiteral FuncArgKind = iota
	ArgQuery
	ArgFunc
)

// FuncArg is one argument of a function call.
type FuncArg struct {
	Kind    FuncArgKind
	Literal value.Value
	Query   *FilterQuery
	Func    *FuncCall
}

// CollectionForm reports whether the expression structurally selects a
// collection: any wildcard, slice, filter or descendant segment makes the
// result a list even when a single node matches.
func (e *Expr) CollectionForm() bool {
	for _, seg := range e.Segments {
		if seg.Descendant || len(seg.Selectors) > 1 {
			return true
		}
		for _, sel := range seg.Selectors {
			switch sel.Kind {
			case SelectWildcard, SelectSlice, SelectFilter:
				return true
			}
		}
	}
	return false
}
