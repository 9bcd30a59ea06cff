// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

// PredicateKind enumerates the comparison side of explicit asserts.
type PredicateKind uint8

// The predicate kinds.
const (
	PredEqual PredicateKind = iota
	PredNotEqual
	PredLess
	PredLessOrEqual
	PredGreater
	PredGreaterOrEqual
	PredContain
	PredStartWith
	PredEndWith
	PredMatch
	PredExist
	PredIsEmpty
	PredIsInteger
	PredIsFloat
	PredIsBoolean
	PredIsString
	PredIsCollection
	PredIsDate
	PredIsIsoDate
	PredInclude
)

var predicateNames = map[PredicateKind]string{
	PredEqual:          "==",
	PredNotEqual:       "!=",
	PredLess:           "<",
	PredLessOrEqual:    "<=",
	PredGreater:        ">",
	PredGreaterOrEqual: ">=",
	PredContain:        "contains",
	PredStartWith:      "startsWith",
	PredEndWith:        "endsWith",
	PredMatch:          "matches",
	PredExist:          "exists",
	PredIsEmpty:        "isEmpty",
	PredIsInteger:      "isInteger",
	PredIsFloat:        "isFloat",
	PredIsBoolean:      "isBoolean",
	PredIsString:       "isString",
	PredIsCollection:   "isCollection",
	PredIsDate:         "isDate",
	PredIsIsoDate:      "isIsoDate",
	PredInclude:        "includes",
}

func (k PredicateKind) String() string { return predicateNames[k] }

// OperandKind discriminates the literal operand of a predicate.
type OperandKind uint8

// The operand kinds.
const (
	OperandNone OperandKind = iota
	OperandNull
	OperandBool
	OperandInt
	OperandBigInt
	OperandFloat
	OperandString // a template, rendered at evaluation time
	OperandBytes
	OperandRegex // a regex literal or a template compiled at run time
)

// Operand is the expected-value side of a predicate.
type Operand struct {
	Kind OperandKind

	Bool   bool
	Int    int64
	BigInt string
	Float  float64
	Text   Template // OperandString and templated OperandRegex
	Bytes  []byte

	SourceInfo SourceInfo
}

// Predicate is the comparison side of an explicit assert. Not negates
// the outcome.
type Predicate struct {
	Not        bool
	Kind       PredicateKind
	Operand    Operand
	SourceInfo SourceInfo
}
