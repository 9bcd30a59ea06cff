// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eval.go folds the compiled segments over a node list. Evaluation never
// fails: selecting into the wrong shape yields an empty node list.

package jsonpath

import (
	"github.com/hurlgo/hurl/value"
)

// Eval evaluates the expression against a document and returns the
// resulting node list.
func (e *Expr) Eval(doc value.Value) []value.Value {
	nodes := []value.Value{doc}
	for _, seg := range e.Segments {
		nodes = seg.eval(nodes, doc)
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

func evalSegments(segs []Segment, node, root value.Value) []value.Value {
	nodes := []value.Value{node}
	for _, seg := range segs {
		nodes = seg.eval(nodes, root)
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

func (s Segment) eval(nodes []value.Value, root value.Value) []value.Value {
	input := nodes
	if s.Descendant {
		input = nil
		for _, n := range nodes {
			input = append(input, descend(n)...)
		}
	}
	var out []value.Value
	for _, n := range input {
		for _, sel := range s.Selectors {
			out = append(out, sel.eval(n, root)...)
		}
	}
	return out
}

// descend returns the pre-order subtree of n: the node itself, then its
// children. Objects iterate in key order, arrays by index.
func descend(n value.Value) []value.Value {
	out := []value.Value{n}
	switch n.Kind() {
	case value.KindObject:
		pairs, _ := n.AsObject()
		for _, p := range pairs {
			out = append(out, descend(p.Value)...)
		}
	case value.KindList:
		elems, _ := n.AsList()
		for _, e := range elems {
			out = append(out, descend(e)...)
		}
	}
	return out
}

func (sel Selector) eval(node, root value.Value) []value.Value {
	switch sel.Kind {
	case SelectName:
		if pairs, ok := node.AsObject(); ok {
			for _, p := range pairs {
				if p.Key == sel.Name {
					return []value.Value{p.Value}
				}
			}
		}
	case SelectWildcard:
		if pairs, ok := node.AsObject(); ok {
			out := make([]value.Value, len(pairs))
			for i, p := range pairs {
				out[i] = p.Value
			}
			return out
		}
		if elems, ok := node.AsList(); ok {
			return elems
		}
	case SelectIndex:
		if elems, ok := node.AsList(); ok {
			i := sel.Index
			if i < 0 {
				i += len(elems)
			}
			if i >= 0 && i < len(elems) {
				return []value.Value{elems[i]}
			}
		}
	case SelectSlice:
		if elems, ok := node.AsList(); ok {
			return sel.Slice.eval(elems)
		}
	case SelectFilter:
		return evalFilterSelector(sel.Filter, node, root)
	}
	return nil
}

func (sl SliceSel) eval(elems []value.Value) []value.Value {
	if sl.Step == 0 {
		return nil
	}
	n := len(elems)
	lower, upper := sl.bounds(n)
	var out []value.Value
	if sl.Step > 0 {
		for i := lower; i < upper; i += sl.Step {
			out = append(out, elems[i])
		}
	} else {
		for i := upper; i > lower; i += sl.Step {
			out = append(out, elems[i])
		}
	}
	return out
}

// bounds normalizes and clamps start/end per RFC 9535: to [0, len] for an
// ascending walk and to [-1, len-1] for a descending one.
func (sl SliceSel) bounds(n int) (lower, upper int) {
	start, end := sl.defaults(n)
	start, end = normalize(start, n), normalize(end, n)
	if sl.Step > 0 {
		return clamp(start, 0, n), clamp(end, 0, n)
	}
	return clamp(end, -1, n-1), clamp(start, -1, n-1)
}

func (sl SliceSel) defaults(n int) (start, end int) {
	if sl.Start != nil {
		start = *sl.Start
	} else if sl.Step >= 0 {
		start = 0
	} else {
		start = n - 1
	}
	if sl.End != nil {
		end = *sl.End
	} else if sl.Step >= 0 {
		end = n
	} else {
		end = -n - 1
	}
	return start, end
}

func normalize(i, n int) int {
	if i < 0 {
		return n + i
	}
	return i
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// --------------------------------------------------------------------------
// Filter evaluation

// evalFilterSelector keeps the children of node for which the logical
// expression holds.
func evalFilterSelector(or *LogicalOr, node, root value.Value) []value.Value {
	var out []value.Value
	test := func(child value.Value) {
		if or.eval(child, root) {
			out = append(out, child)
		}
	}
	if pairs, ok := node.AsObject(); ok {
		for _, p := range pairs {
			test(p.Value)
		}
		return out
	}
	if elems, ok := node.AsList(); ok {
		for _, e := range elems {
			test(e)
		}
		return out
	}
	return nil
}

func (or *LogicalOr) eval(current, root value.Value) bool {
	for _, and := range or.Ands {
		if and.eval(current, root) {
			return true
		}
	}
	return false
}

func (and *LogicalAnd) eval(current, root value.Value) bool {
	for _, e := range and.Exprs {
		if !e.eval(current, root) {
			return false
		}
	}
	return true
}

func (b *BasicExpr) eval(current, root value.Value) bool {
	var r bool
	switch b.Kind {
	case BasicParen:
		r = b.Paren.eval(current, root)
	case BasicTest:
		r = b.Test.eval(current, root)
	case BasicComparison:
		r = b.Cmp.eval(current, root)
	}
	if b.Not {
		return !r
	}
	return r
}

func (t *TestExpr) eval(current, root value.Value) bool {
	if t.Query != nil {
		return len(t.Query.nodes(current, root)) > 0
	}
	ok, _ := evalLogicalFunc(t.Func, current, root)
	return ok
}

func (q *FilterQuery) nodes(current, root value.Value) []value.Value {
	base := root
	if q.Relative {
		base = current
	}
	return evalSegments(q.Segments, base, root)
}

// single resolves a singular query to its node, if any.
func (q *FilterQuery) single(current, root value.Value) (value.Value, bool) {
	nodes := q.nodes(current, root)
	if len(nodes) != 1 {
		return value.Null(), false
	}
	return nodes[0], true
}

func (c *Comparison) eval(current, root value.Value) bool {
	lv, lok := c.Left.resolve(current, root)
	rv, rok := c.Right.resolve(current, root)

	switch c.Op {
	case OpEq:
		return compareEqual(lv, lok, rv, rok)
	case OpNe:
		return !compareEqual(lv, lok, rv, rok)
	}

	// Ordering comparisons require both sides present.
	if !lok || !rok {
		return false
	}
	cmp, ok := orderValues(lv, rv)
	if !ok {
		return false
	}
	switch c.Op {
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	}
	return false
}

func compareEqual(lv value.Value, lok bool, rv value.Value, rok bool) bool {
	if !lok || !rok {
		return lok == rok // Nothing == Nothing
	}
	return lv.Equal(rv)
}

// orderValues orders numbers across kinds and strings lexicographically.
func orderValues(a, b value.Value) (int, bool) {
	if cmp, ok := a.Compare(b); ok {
		return cmp, true
	}
	as, aok := a.AsString()
	bs, bok := b.AsString()
	if aok && bok {
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// resolve evaluates a comparable. ok is false for Nothing (an absent
// singular query result or an errored function).
func (c *Comparable) resolve(current, root value.Value) (value.Value, bool) {
	switch c.Kind {
	case CmpLiteral:
		return c.Literal, true
	case CmpQuery:
		return c.Query.single(current, root)
	case CmpFunc:
		return evalValueFunc(c.Func, current, root)
	}
	return value.Null(), false
}
