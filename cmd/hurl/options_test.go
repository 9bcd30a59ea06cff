// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/hurlgo/hurl/value"
	"github.com/hurlgo/hurl/vars"
)

func TestParseArgs(t *testing.T) {
	o, err := parseArgs([]string{
		"--variable", "host=example.org",
		"--variable", "port=8080",
		"--secret", "token=abc",
		"--test",
		"--jobs", "4",
		"--retry", "3",
		"--retry-interval", "500",
		"--location",
		"--compressed",
		"--resolve", "example.org:443:127.0.0.1",
		"a.hurl", "b.hurl",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(o.files) != 2 || o.files[0] != "a.hurl" {
		t.Errorf("files %v", o.files)
	}
	if !o.test || o.jobs != 4 || o.retry != 3 {
		t.Errorf("options %+v", o)
	}

	ro := o.runnerOptions()
	if ro.Retry != 3 || ro.RetryInterval != 500*time.Millisecond {
		t.Errorf("runner options %+v", ro)
	}
	if !ro.ClientOptions.FollowLocation || !ro.ClientOptions.Compressed {
		t.Errorf("client options %+v", ro.ClientOptions)
	}
	if ro.ClientOptions.Resolves["example.org:443"] != "127.0.0.1" {
		t.Errorf("resolves %v", ro.ClientOptions.Resolves)
	}
}

func TestParseArgsNoFiles(t *testing.T) {
	if _, err := parseArgs([]string{"--test"}); err == nil {
		t.Error("missing files should fail")
	}
}

func TestBuildVariables(t *testing.T) {
	o, err := parseArgs([]string{
		"--variable", "n=42",
		"--variable", "flag=true",
		"--variable", `quoted="x"`,
		"--secret", "token=abc123",
		"f.hurl",
	})
	if err != nil {
		t.Fatal(err)
	}
	set, err := o.buildVariables()
	if err != nil {
		t.Fatal(err)
	}

	v, _ := set.Get("n")
	if !v.Value.Equal(value.Int(42)) {
		t.Errorf("n = %s", v.Value.Repr())
	}
	v, _ = set.Get("flag")
	if !v.Value.Equal(value.Bool(true)) {
		t.Errorf("flag = %s", v.Value.Repr())
	}
	v, _ = set.Get("quoted")
	if !v.Value.Equal(value.Str("x")) {
		t.Errorf("quoted = %s", v.Value.Repr())
	}
	v, _ = set.Get("token")
	if v.Visibility != vars.Secret {
		t.Error("token should be secret")
	}
	if set.Redact("see abc123 here") != "see *** here" {
		t.Error("secret not redacted")
	}
}

func TestVariablesFromEnv(t *testing.T) {
	set := vars.NewSet()
	err := variablesFromEnv(set, []string{
		"HURL_VARIABLE_host=example.org",
		"HURL_port=8080",
		"HURL_SECRET_token=shh",
		"HURL_NO_COLOR=1",
		"PATH=/usr/bin",
	})
	if err != nil {
		t.Fatal(err)
	}

	v, ok := set.Get("host")
	if !ok || !v.Value.Equal(value.Str("example.org")) {
		t.Errorf("host %+v", v)
	}
	v, ok = set.Get("port")
	if !ok || !v.Value.Equal(value.Int(8080)) {
		t.Errorf("legacy port %+v", v)
	}
	v, ok = set.Get("token")
	if !ok || v.Visibility != vars.Secret {
		t.Errorf("token %+v", v)
	}
	if _, ok := set.Get("PATH"); ok {
		t.Error("unrelated env leaked in")
	}
	if _, ok := set.Get("NO_COLOR"); ok {
		t.Error("NO_COLOR is an option, not a variable")
	}
}

func TestParseConfig(t *testing.T) {
	src := `# config
--test
--jobs=4

--variable=host=example.org
`
	args, err := parseConfig(strings.NewReader(src), "test")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"--test", "--jobs", "4", "--variable", "host=example.org"}
	if len(args) != len(want) {
		t.Fatalf("args %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: got %q want %q", i, args[i], want[i])
		}
	}

	if _, err := parseConfig(strings.NewReader("jobs=4\n"), "test"); err == nil {
		t.Error("option without -- should fail")
	}
}
