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

func intOperand(i int64) script.Operand {
	return script.Operand{Kind: script.OperandInt, Int: i}
}

func strOperand(s string) script.Operand {
	return script.Operand{Kind: script.OperandString, Text: script.Plain(s)}
}

func pred(kind script.PredicateKind, op script.Operand) script.Predicate {
	return script.Predicate{Kind: kind, Operand: op}
}

func check(t *testing.T, p script.Predicate, actual queryResult, wantPass bool) {
	t.Helper()
	err := evalPredicate(p, actual, vars.NewSet())
	if wantPass && err != nil {
		t.Errorf("%s: unexpected failure %s", p.Kind, err)
	}
	if !wantPass && err == nil {
		t.Errorf("%s: expected failure", p.Kind)
	}
}

func TestPredicateEquality(t *testing.T) {
	check(t, pred(script.PredEqual, intOperand(1)), some(value.Int(1)), true)
	check(t, pred(script.PredEqual, intOperand(1)), some(value.Float(1.0)), true)
	check(t, pred(script.PredEqual, intOperand(2)), some(value.Int(1)), false)
	check(t, pred(script.PredNotEqual, intOperand(2)), some(value.Int(1)), true)
	check(t, pred(script.PredEqual, strOperand("x")), some(value.Str("x")), true)
	check(t, pred(script.PredEqual, strOperand("1")), some(value.Int(1)), false)
}

func TestPredicateOrdering(t *testing.T) {
	check(t, pred(script.PredLess, intOperand(2)), some(value.Float(1.0)), true)
	check(t, pred(script.PredGreaterOrEqual, intOperand(2)), some(value.Int(2)), true)
	check(t, pred(script.PredGreater, intOperand(2)), some(value.Int(1)), false)

	// Ordering a string against a number is a type error, not a
	// failed assert.
	err := evalPredicate(pred(script.PredLess, intOperand(2)),
		some(value.Str("abc")), vars.NewSet())
	if err == nil || err.Kind != ErrPredicateType {
		t.Errorf("got %v", err)
	}

	d1 := value.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	check(t, script.Predicate{
		Kind: script.PredGreater,
		Operand: script.Operand{
			Kind: script.OperandString,
			Text: script.Plain("ignored")},
	}, some(d1), false)
}

func TestPredicateContains(t *testing.T) {
	check(t, pred(script.PredContain, strOperand("ell")), some(value.Str("hello")), true)
	check(t, pred(script.PredContain, strOperand("xx")), some(value.Str("hello")), false)
	check(t, pred(script.PredContain, intOperand(2)),
		some(value.List(value.Int(1), value.Int(2))), true)
	check(t, pred(script.PredContain, intOperand(3)),
		some(value.List(value.Int(1), value.Int(2))), false)
	check(t, script.Predicate{
		Kind: script.PredContain,
		Operand: script.Operand{
			Kind: script.OperandBytes, Bytes: []byte{2, 3}},
	}, some(value.Bytes([]byte{1, 2, 3, 4})), true)
}

func TestPredicateAffixes(t *testing.T) {
	check(t, pred(script.PredStartWith, strOperand("he")), some(value.Str("hello")), true)
	check(t, pred(script.PredEndWith, strOperand("lo")), some(value.Str("hello")), true)
	check(t, pred(script.PredStartWith, strOperand("lo")), some(value.Str("hello")), false)
}

func TestPredicateMatches(t *testing.T) {
	re := script.Operand{Kind: script.OperandRegex, Text: script.Plain(`^h\w+$`)}
	check(t, pred(script.PredMatch, re), some(value.Str("hello")), true)
	check(t, pred(script.PredMatch, re), some(value.Str("nope")), false)

	bad := script.Operand{Kind: script.OperandRegex, Text: script.Plain("(")}
	err := evalPredicate(pred(script.PredMatch, bad), some(value.Str("x")), vars.NewSet())
	if err == nil || err.Kind != ErrInvalidRegex {
		t.Errorf("got %v", err)
	}
}

func TestPredicateExistence(t *testing.T) {
	check(t, pred(script.PredExist, script.Operand{}), some(value.Int(1)), true)
	check(t, pred(script.PredExist, script.Operand{}), none(), false)

	check(t, pred(script.PredIsEmpty, script.Operand{}), some(value.Str("")), true)
	check(t, pred(script.PredIsEmpty, script.Operand{}), some(value.Str("x")), false)
	check(t, pred(script.PredIsEmpty, script.Operand{}), some(value.List()), true)
	check(t, pred(script.PredIsEmpty, script.Operand{}), some(value.Nodeset(0)), true)
}

func TestPredicateKindChecks(t *testing.T) {
	check(t, pred(script.PredIsInteger, script.Operand{}), some(value.Int(1)), true)
	check(t, pred(script.PredIsInteger, script.Operand{}), some(value.BigInt("9999999999999999999999")), true)
	check(t, pred(script.PredIsInteger, script.Operand{}), some(value.Float(1)), false)
	check(t, pred(script.PredIsFloat, script.Operand{}), some(value.Float(1)), true)
	check(t, pred(script.PredIsBoolean, script.Operand{}), some(value.Bool(false)), true)
	check(t, pred(script.PredIsString, script.Operand{}), some(value.Str("")), true)
	check(t, pred(script.PredIsCollection, script.Operand{}), some(value.List()), true)
	check(t, pred(script.PredIsCollection, script.Operand{}), some(value.Nodeset(1)), true)
	check(t, pred(script.PredIsCollection, script.Operand{}), some(value.Str("")), false)
	check(t, pred(script.PredIsDate, script.Operand{}), some(value.Date(time.Now())), true)

	check(t, pred(script.PredIsIsoDate, script.Operand{}),
		some(value.Str("2024-05-01T12:30:00.123456Z")), true)
	check(t, pred(script.PredIsIsoDate, script.Operand{}),
		some(value.Str("01/05/2024")), false)
}

func TestPredicateIncludes(t *testing.T) {
	list := some(value.List(value.Str("a"), value.Int(2)))
	check(t, pred(script.PredInclude, strOperand("a")), list, true)
	check(t, pred(script.PredInclude, intOperand(2)), list, true)
	check(t, pred(script.PredInclude, intOperand(9)), list, false)
}

func TestPredicateNot(t *testing.T) {
	p := pred(script.PredEqual, intOperand(1))
	p.Not = true
	check(t, p, some(value.Int(2)), true)
	check(t, p, some(value.Int(1)), false)
}

func TestPredicateFailureDetails(t *testing.T) {
	err := evalPredicate(pred(script.PredEqual, intOperand(2)),
		some(value.Int(1)), vars.NewSet())
	if err == nil {
		t.Fatal("expected failure")
	}
	if !err.Assert || err.Kind != ErrAssertFailure {
		t.Errorf("got %+v", err)
	}
	if err.Actual != "integer <1>" || err.Expected != "integer <2>" {
		t.Errorf("actual %q expected %q", err.Actual, err.Expected)
	}
}
