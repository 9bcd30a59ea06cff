// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// functions.go evaluates the built-in filter functions. The parser has
// already checked argument kinds; evaluation errors collapse to Nothing
// respectively false.

package jsonpath

import (
	"regexp"
	"unicode/utf8"

	"github.com/hurlgo/hurl/value"
)

// evalValueFunc evaluates length, count and value.
func evalValueFunc(fn *FuncCall, current, root value.Value) (value.Value, bool) {
	switch fn.Name {
	case "length":
		v, ok := argValue(fn.Args[0], current, root)
		if !ok {
			return value.Null(), false
		}
		return lengthOf(v)
	case "count":
		return value.Int(int64(len(argNodes(fn.Args[0], current, root)))), true
	case "value":
		nodes := argNodes(fn.Args[0], current, root)
		if len(nodes) != 1 {
			return value.Null(), false
		}
		return nodes[0], true
	}
	return value.Null(), false
}

// evalLogicalFunc evaluates match and search.
func evalLogicalFunc(fn *FuncCall, current, root value.Value) (bool, bool) {
	sv, ok := argValue(fn.Args[0], current, root)
	if !ok {
		return false, false
	}
	s, ok := sv.AsString()
	if !ok {
		return false, false
	}
	pv, ok := argValue(fn.Args[1], current, root)
	if !ok {
		return false, false
	}
	pat, ok := pv.AsString()
	if !ok {
		return false, false
	}
	if fn.Name == "match" {
		pat = "^(?:" + pat + ")$"
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return false, false
	}
	return re.MatchString(s), true
}

func lengthOf(v value.Value) (value.Value, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return value.Int(int64(utf8.RuneCountInString(s))), true
	case value.KindList:
		l, _ := v.AsList()
		return value.Int(int64(len(l))), true
	case value.KindObject:
		o, _ := v.AsObject()
		return value.Int(int64(len(o))), true
	}
	return value.Null(), false
}

// argValue resolves an argument expected to be of value kind.
func argValue(a FuncArg, current, root value.Value) (value.Value, bool) {
	switch a.Kind {
	case ArgLiteral:
		return a.Literal, true
	case ArgQuery:
		return a.Query.single(current, root)
	case ArgFunc:
		return evalValueFunc(a.Func, current, root)
	}
	return value.Null(), false
}

// argNodes resolves an argument expected to be of nodes kind.
func argNodes(a FuncArg, current, root value.Value) []value.Value {
	if a.Kind == ArgQuery {
		return a.Query.nodes(current, root)
	}
	return nil
}
