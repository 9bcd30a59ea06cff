// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"testing"

	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

func TestRenderTemplate(t *testing.T) {
	vs := vars.NewSet()
	vs.Insert("host", value.Str("example.org"))
	vs.Insert("port", value.Int(8080))
	vs.Insert("pi", value.Float(3))

	tpl := script.Concat(
		script.Plain("http://"),
		script.Placeholder("host"),
		script.Plain(":"),
		script.Placeholder("port"),
	)
	got, err := RenderTemplate(tpl, vs)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if got != "http://example.org:8080" {
		t.Errorf("got %q", got)
	}

	got, err = RenderTemplate(script.Placeholder("pi"), vs)
	if err != nil || got != "3.0" {
		t.Errorf("float render got %q, %v", got, err)
	}
}

func TestRenderUndefinedVariable(t *testing.T) {
	_, err := RenderTemplate(script.Placeholder("nope"), vars.NewSet())
	if err == nil || err.Kind != ErrTemplateVariableNotDefined {
		t.Errorf("got %v", err)
	}
}

func TestRenderUnrenderable(t *testing.T) {
	vs := vars.NewSet()
	vs.Insert("l", value.List(value.Int(1)))
	_, err := RenderTemplate(script.Placeholder("l"), vs)
	if err == nil || err.Kind != ErrUnrenderableVariable {
		t.Errorf("got %v", err)
	}
}

func TestRenderSecretProducesPlaintext(t *testing.T) {
	vs := vars.NewSet()
	vs.InsertSecret("token", "abc123")
	got, err := RenderTemplate(script.Concat(
		script.Plain("Bearer "), script.Placeholder("token")), vs)
	if err != nil {
		t.Fatal(err)
	}
	// The engine trusts the caller: plaintext is produced, redaction
	// happens at the logging boundary.
	if got != "Bearer abc123" {
		t.Errorf("got %q", got)
	}
}

func TestTemplateFunctions(t *testing.T) {
	vs := vars.NewSet()
	u1, err := RenderTemplate(script.Call("newUuid"), vs)
	if err != nil {
		t.Fatal(err)
	}
	u2, _ := RenderTemplate(script.Call("newUuid"), vs)
	if len(u1) != 36 || u1 == u2 {
		t.Errorf("newUuid produced %q and %q", u1, u2)
	}

	d, err := RenderTemplate(script.Call("newDate"), vs)
	if err != nil {
		t.Fatal(err)
	}
	if len(d) != len("2006-01-02T15:04:05.000000Z") {
		t.Errorf("newDate produced %q", d)
	}
}
