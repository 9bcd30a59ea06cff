// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astjson

import (
	"testing"

	"github.com/hurlgo/hurl/script"
)

const sample = `{
  "entries": [
    {
      "request": {
        "method": "POST",
        "url": "http://{{host}}/api/login",
        "headers": [{"name": "Content-Type", "value": "application/json", "line": 2}],
        "body": {"type": "text", "value": "{\"user\": \"bob\"}"}
      },
      "response": {
        "version": "HTTP/1.1",
        "status": "200",
        "captures": [
          {
            "name": "token",
            "query": {"type": "jsonpath", "expr": "$.token", "line": 8},
            "redact": true,
            "line": 8
          },
          {
            "name": "second_id",
            "query": {"type": "jsonpath", "expr": "$.a[*].id", "line": 9},
            "filters": [{"type": "nth", "n": 1, "line": 9}],
            "line": 9
          }
        ],
        "asserts": [
          {
            "query": {"type": "status", "line": 10},
            "predicate": {"type": "==", "value": 200, "line": 10},
            "line": 10
          },
          {
            "query": {"type": "header", "expr": "Content-Type", "line": 11},
            "predicate": {"type": "contains", "value": "json", "line": 11},
            "line": 11
          },
          {
            "query": {"type": "jsonpath", "expr": "$.big", "line": 12},
            "predicate": {"type": "==", "value": 92233720368547758089, "line": 12},
            "line": 12
          }
        ]
      },
      "line": 1
    },
    {
      "request": {
        "method": "GET",
        "url": "http://example.org/next",
        "options": {
          "retry": 3,
          "retry_interval": 500,
          "variables": [{"name": "n", "value": "42"}]
        }
      },
      "response": {"status": "2xx"}
    }
  ]
}`

func TestLoad(t *testing.T) {
	s, err := Load("sample.hurl", []byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 2 {
		t.Fatalf("got %d entries", len(s.Entries))
	}

	e1 := s.Entries[0]
	if e1.Request.Method != "POST" {
		t.Errorf("method %q", e1.Request.Method)
	}
	// URL template splits the placeholder out.
	if got := e1.Request.URL.String(); got != "http://{{host}}/api/login" {
		t.Errorf("url %q", got)
	}
	if len(e1.Request.URL.Elements) != 3 {
		t.Errorf("url elements: %d", len(e1.Request.URL.Elements))
	}

	resp := e1.Response
	if resp.Status.Kind != script.StatusExact || resp.Status.Code != 200 {
		t.Errorf("status %+v", resp.Status)
	}
	if len(resp.Captures) != 2 || !resp.Captures[0].Redacted {
		t.Errorf("captures %+v", resp.Captures)
	}
	if resp.Captures[1].Filters[0].Kind != script.FilterNth ||
		resp.Captures[1].Filters[0].N != 1 {
		t.Errorf("filter %+v", resp.Captures[1].Filters[0])
	}

	if len(resp.Asserts) != 3 {
		t.Fatalf("asserts %d", len(resp.Asserts))
	}
	if resp.Asserts[0].Query.Kind != script.QueryStatus ||
		resp.Asserts[0].Predicate.Operand.Kind != script.OperandInt {
		t.Errorf("assert 0: %+v", resp.Asserts[0])
	}
	if resp.Asserts[1].Predicate.Kind != script.PredContain {
		t.Errorf("assert 1: %+v", resp.Asserts[1])
	}
	// An integer beyond int64 decodes as a big integer operand.
	if op := resp.Asserts[2].Predicate.Operand; op.Kind != script.OperandBigInt ||
		op.BigInt != "92233720368547758089" {
		t.Errorf("assert 2 operand: %+v", op)
	}

	e2 := s.Entries[1]
	if e2.Response.Status.Kind != script.StatusRange || e2.Response.Status.Code != 2 {
		t.Errorf("status range %+v", e2.Response.Status)
	}
	opts := e2.Request.Options
	if opts == nil || *opts.Retry != 3 || opts.RetryInterval.Milliseconds() != 500 {
		t.Errorf("options %+v", opts)
	}
	if len(opts.Variables) != 1 || opts.Variables[0].Name != "n" {
		t.Errorf("option variables %+v", opts.Variables)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("x", []byte("{")); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := Load("x", []byte(`{"entries":[{}]}`)); err == nil {
		t.Error("entry without request should fail")
	}
	bad := `{"entries":[{"request":{"method":"GET","url":"u"},
		"response":{"status":"9xx"}}]}`
	if _, err := Load("x", []byte(bad)); err == nil {
		t.Error("invalid status range should fail")
	}
	bad = `{"entries":[{"request":{"method":"GET","url":"u"},
		"response":{"status":"*","asserts":[
		{"query":{"type":"nosuch"},"predicate":{"type":"=="}}]}}]}`
	if _, err := Load("x", []byte(bad)); err == nil {
		t.Error("unknown query type should fail")
	}
}

func TestTemplateSplitting(t *testing.T) {
	tpl := template("a{{x}}b{{newUuid}}c", 1)
	if len(tpl.Elements) != 5 {
		t.Fatalf("elements: %d", len(tpl.Elements))
	}
	if tpl.Elements[1].Expr.Kind != script.ExprVariable || tpl.Elements[1].Expr.Name != "x" {
		t.Errorf("placeholder: %+v", tpl.Elements[1].Expr)
	}
	if tpl.Elements[3].Expr.Kind != script.ExprFunction {
		t.Errorf("function placeholder: %+v", tpl.Elements[3].Expr)
	}
}
