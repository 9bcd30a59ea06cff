// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

import "strings"

// ExprKind discriminates placeholder expressions.
type ExprKind uint8

const (
	// ExprVariable references a variable by name.
	ExprVariable ExprKind = iota
	// ExprFunction calls one of the built-in functions
	// (newUuid, newDate, ...).
	ExprFunction
)

// Expr is the expression inside a {{...}} placeholder.
type Expr struct {
	Kind       ExprKind
	Name       string
	SourceInfo SourceInfo
}

// ElementKind discriminates template elements.
type ElementKind uint8

const (
	// ElementString is a literal fragment.
	ElementString ElementKind = iota
	// ElementPlaceholder is a {{expr}} hole.
	ElementPlaceholder
)

// Element is a single fragment of a template.
type Element struct {
	Kind ElementKind

	// Value is the literal text of a string element; Source its original
	// spelling in the script (escapes unexpanded).
	Value  string
	Source string

	// Expr is the placeholder expression of a placeholder element.
	Expr Expr
}

// Template is an ordered sequence of literal fragments and placeholders,
// optionally enclosed by a delimiter character in the source.
type Template struct {
	Delimiter  byte // 0 when the template was not quoted
	Elements   []Element
	SourceInfo SourceInfo
}

// Plain returns a template consisting of the single literal s.
func Plain(s string) Template {
	return Template{Elements: []Element{{Kind: ElementString, Value: s, Source: s}}}
}

// Placeholder returns a template consisting of a single variable reference.
func Placeholder(name string) Template {
	return Template{Elements: []Element{{
		Kind: ElementPlaceholder,
		Expr: Expr{Kind: ExprVariable, Name: name},
	}}}
}

// Call returns a template consisting of a single function call placeholder.
func Call(fn string) Template {
	return Template{Elements: []Element{{
		Kind: ElementPlaceholder,
		Expr: Expr{Kind: ExprFunction, Name: fn},
	}}}
}

// Concat joins templates into one.
func Concat(ts ...Template) Template {
	out := Template{}
	for _, t := range ts {
		out.Elements = append(out.Elements, t.Elements...)
		out.SourceInfo = out.SourceInfo.Merge(t.SourceInfo)
	}
	return out
}

// IsEmpty reports whether t has no elements.
func (t Template) IsEmpty() bool { return len(t.Elements) == 0 }

// String returns the source form of t with placeholders spelled
// {{name}}. Used for error reporting and curl reconstruction, never for
// evaluation.
func (t Template) String() string {
	var b strings.Builder
	for _, e := range t.Elements {
		switch e.Kind {
		case ElementString:
			b.WriteString(e.Value)
		case ElementPlaceholder:
			b.WriteString("{{")
			b.WriteString(e.Expr.Name)
			b.WriteString("}}")
		}
	}
	return b.String()
}
