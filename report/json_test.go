// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hurlgo/hurl/client"
	"github.com/hurlgo/hurl/runner"
	"github.com/hurlgo/hurl/script"
	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

func sampleResult() *runner.HurlResult {
	vs := vars.NewSet()
	vs.InsertSecret("token", "s3cr3t")

	call := &client.Call{
		Request: &client.Request{
			Method:  "GET",
			URL:     "http://example.org/?key=s3cr3t",
			Headers: client.NewHeaderList(client.Header{Name: "Authorization", Value: "Bearer s3cr3t"}),
		},
		Response: &client.Response{
			Version: "HTTP/1.1",
			Status:  200,
			Headers: client.NewHeaderList(client.Header{Name: "Content-Type", Value: "text/plain"}),
		},
	}
	return &runner.HurlResult{
		Filename:  "sample.hurl",
		Success:   true,
		Duration:  1500 * time.Millisecond,
		Timestamp: time.Unix(1700000000, 0),
		Variables: vs,
		Cookies: []client.JarCookie{
			{Domain: "example.org", Path: "/", Name: "sid", Value: "s3cr3t"},
		},
		Entries: []*runner.EntryResult{{
			EntryIndex:       1,
			Calls:            []*client.Call{call},
			TransferDuration: 120 * time.Millisecond,
			CurlCmd:          "curl -H 'Authorization: Bearer s3cr3t' http://example.org/",
			Captures: []runner.CaptureResult{
				{Name: "id", Value: value.Int(42)},
				{Name: "token", Value: value.Str("s3cr3t"), Secret: true},
			},
			Asserts: []runner.AssertResult{{
				Kind:       runner.AssertStatus,
				Success:    true,
				Actual:     "200",
				Expected:   "200",
				SourceInfo: script.Span(3, 1, 3, 8),
			}},
		}},
	}
}

func TestMarshalShape(t *testing.T) {
	data, err := Marshal(sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("output is not valid JSON: %s", err)
	}
	for _, field := range []string{"filename", "entries", "success", "duration_ms", "cookies", "timestamp"} {
		if _, ok := m[field]; !ok {
			t.Errorf("missing top-level field %q", field)
		}
	}
	if m["filename"] != "sample.hurl" || m["duration_ms"] != float64(1500) {
		t.Errorf("got %v", m)
	}

	entries := m["entries"].([]interface{})
	entry := entries[0].(map[string]interface{})
	for _, field := range []string{"index", "calls", "captures", "asserts", "errors", "duration_ms", "curl_cmd"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("missing entry field %q", field)
		}
	}

	asserts := entry["asserts"].([]interface{})
	a := asserts[0].(map[string]interface{})
	for _, field := range []string{"kind", "actual", "expected", "source_info", "success"} {
		if _, ok := a[field]; !ok {
			t.Errorf("missing assert field %q", field)
		}
	}
}

func TestMarshalRedactsSecrets(t *testing.T) {
	data, err := Marshal(sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "s3cr3t") {
		t.Errorf("secret leaked into report: %s", out)
	}
	if !strings.Contains(out, "***") {
		t.Error("no redaction marker present")
	}
}

func TestBuildCaptureValues(t *testing.T) {
	res := Build(sampleResult())
	caps := res.Entries[0].Captures
	if caps[0].Value != "42" {
		t.Errorf("public capture = %q", caps[0].Value)
	}
	if caps[1].Value != "***" {
		t.Errorf("secret capture = %q", caps[1].Value)
	}
}
