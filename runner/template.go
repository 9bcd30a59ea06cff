// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// template.go renders templates against the variable store. Rendering
// produces the plaintext even for secret values; redaction happens when
// the text surfaces in logs or errors.

package runner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

// RenderTemplate renders t against variables.
func RenderTemplate(t script.Template, variables *vars.Set) (string, *Error) {
	var b strings.Builder
	for _, e := range t.Elements {
		switch e.Kind {
		case script.ElementString:
			b.WriteString(e.Value)
		case script.ElementPlaceholder:
			v, err := evalExpr(e.Expr, variables)
			if err != nil {
				return "", err
			}
			s, ok := v.Render()
			if !ok {
				return "", newErr(ErrUnrenderableVariable, e.Expr.SourceInfo,
					"%s of kind %s cannot be rendered", e.Expr.Name, v.Kind())
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// evalExpr evaluates a placeholder expression.
func evalExpr(e script.Expr, variables *vars.Set) (value.Value, *Error) {
	switch e.Kind {
	case script.ExprFunction:
		return callFunction(e)
	default:
		v, ok := variables.Get(e.Name)
		if !ok {
			return value.Null(), newErr(ErrTemplateVariableNotDefined,
				e.SourceInfo, "variable %s is not defined", e.Name)
		}
		return v.Value, nil
	}
}

func callFunction(e script.Expr) (value.Value, *Error) {
	switch e.Name {
	case "newUuid":
		return value.Str(uuid.NewString()), nil
	case "newDate":
		return value.Date(time.Now().UTC()), nil
	}
	return value.Null(), newErr(ErrTemplateVariableNotDefined, e.SourceInfo,
		"unknown function %s", e.Name)
}
